// Package internal holds the file-level pipeline of tdup.
//
// The Engine looks up the language profile of a file by its extension,
// lexes the file into a token queue and lets the profile's statement
// chunker turn the queue into statements. The resulting FileReport is what
// the duplication detector hashes and compares.
//
// Key components:
//
// Engine: runs files (or in-memory sources) through their language profile.
// Files are independent of each other, so callers may run them in parallel.
//
// Cache: persists reports between runs and invalidates them when a file,
// or a dependency such as the configuration file, changes.
//
// Watch mode: StartWatching re-runs files as they are written.
//
// Usage:
//
//	profiles, _ := lang.Builtins(statement.PolicyStrict)
//	registry, _ := lang.NewRegistry(profiles...)
//	engine, err := internal.NewEngine(".", registry, logger)
//	if err != nil {
//	    // handle error
//	}
//
//	report, err := engine.Run("path/to/file.go")
//	if err != nil {
//	    // handle error
//	}
package internal
