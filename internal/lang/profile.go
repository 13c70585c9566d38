// Package lang binds lexers and statement chunkers into language profiles.
//
// A Profile knows how to turn the source of one language into tokens and
// the tokens into statements. Profiles are either built in (Go, Java) or
// compiled from a Definition loaded from the configuration file.
package lang

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnolang/tdup/internal/statement"
	"github.com/gnolang/tdup/internal/token"
)

// Lexer turns source text into tokens.
type Lexer interface {
	Chunk(src []byte) ([]token.Token, error)
}

var _ Lexer = (*token.Chunker)(nil)

// Profile is the tokenizer setup for one language.
type Profile struct {
	Name       string
	Extensions []string
	Lexer      Lexer
	Chunker    *statement.Chunker
}

// Tokens lexes src.
func (p *Profile) Tokens(src []byte) ([]token.Token, error) {
	toks, err := p.Lexer.Chunk(src)
	if err != nil {
		return nil, fmt.Errorf("%s lexer: %w", p.Name, err)
	}
	return toks, nil
}

// Statements lexes src and chunks the tokens into statements.
func (p *Profile) Statements(src []byte) (statement.Result, error) {
	toks, err := p.Tokens(src)
	if err != nil {
		return statement.Result{}, err
	}
	res, err := p.Chunker.ChunkTokens(toks)
	if err != nil {
		return res, fmt.Errorf("%s statements: %w", p.Name, err)
	}
	return res, nil
}

// Fingerprint identifies the profile setup a report was produced with:
// language name, extensions and unmatched token policy.
func (p *Profile) Fingerprint() string {
	exts := make([]string, len(p.Extensions))
	for i, ext := range p.Extensions {
		exts[i] = normalizeExt(ext)
	}
	sort.Strings(exts)
	return fmt.Sprintf("%s %s %s", p.Name, strings.Join(exts, ","), p.Chunker.Policy())
}

// Registry looks profiles up by name or by file extension.
type Registry struct {
	byName map[string]*Profile
	byExt  map[string]*Profile
}

// NewRegistry indexes the given profiles. Two profiles may not share a name
// or an extension.
func NewRegistry(profiles ...*Profile) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Profile),
		byExt:  make(map[string]*Profile),
	}
	for _, p := range profiles {
		if err := r.add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(p *Profile) error {
	if p == nil || p.Name == "" {
		return fmt.Errorf("profile without a name")
	}
	if p.Lexer == nil || p.Chunker == nil {
		return fmt.Errorf("profile %q: lexer and chunker are required", p.Name)
	}
	if _, ok := r.byName[p.Name]; ok {
		return fmt.Errorf("duplicate language %q", p.Name)
	}
	for _, ext := range p.Extensions {
		ext = normalizeExt(ext)
		if other, ok := r.byExt[ext]; ok {
			return fmt.Errorf("extension %q claimed by both %q and %q", ext, other.Name, p.Name)
		}
		r.byExt[ext] = p
	}
	r.byName[p.Name] = p
	return nil
}

// ByName returns the profile registered under name.
func (r *Registry) ByName(name string) (*Profile, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// ForFile returns the profile handling the extension of path.
func (r *Registry) ForFile(path string) (*Profile, bool) {
	p, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return p, ok
}

// Extensions lists every registered extension, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Names lists the registered languages, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
