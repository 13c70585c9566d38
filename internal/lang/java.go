package lang

import (
	"github.com/gnolang/tdup/internal/statement"
	"github.com/gnolang/tdup/internal/statement/matcher"
	"github.com/gnolang/tdup/internal/token"
)

// JavaLexer returns the regex token chunker used for Java sources.
func JavaLexer() (*token.Chunker, error) {
	return token.NewChunkerBuilder().
		Ignore(`\s+`).
		Ignore(`//[^\n\r]*`).
		Ignore(`/\*[\s\S]*?\*/`).
		TokenNormalized(`"([^"\\\n]|\\.)*"`, literalValue).
		TokenNormalized(`'([^'\\\n]|\\.)*'`, literalValue).
		TokenNormalized(`(0[xX][0-9a-fA-F_]+|[0-9][0-9_]*(\.[0-9_]*)?([eE][+-]?[0-9]+)?)[lLfFdD]?`, numberValue).
		Token(`[a-zA-Z_$][a-zA-Z0-9_$]*`).
		Token(`>>>=|<<=|>>=|\+\+|--|&&|\|\||==|!=|<=|>=|\+=|-=|\*=|/=|&=|\|=|\^=|%=|->|::`).
		Token(`[^\s]`).
		Build()
}

// JavaChunker returns the statement rules for Java.
func JavaChunker(policy statement.Policy) (*statement.Chunker, error) {
	return statement.NewChunkerBuilder().
		Ignore(matcher.From("import"), matcher.UpTo(";")).
		Ignore(matcher.From("package"), matcher.UpTo(";")).
		Ignore(matcher.Exact(";")).
		Statement(matcher.Exact("}")).
		Statement(matcher.Exact("{")).
		Statement(matcher.From("@"), matcher.AnyToken(), matcher.Opt(matcher.Bridge("(", ")"))).
		Statement(matcher.From("do")).
		Statement(matcher.From("if"), matcher.Bridge("(", ")")).
		Statement(matcher.From("else"), matcher.Exact("if"), matcher.Bridge("(", ")")).
		Statement(matcher.From("else")).
		Statement(matcher.From("for"), matcher.Bridge("(", ")")).
		Statement(matcher.From("while"), matcher.Bridge("(", ")"), matcher.Opt(matcher.Exact(";"))).
		Statement(matcher.From("try"), matcher.Opt(matcher.Bridge("(", ")"))).
		Statement(matcher.From("catch"), matcher.Bridge("(", ")")).
		Statement(matcher.From("finally")).
		Statement(matcher.From("switch"), matcher.Bridge("(", ")")).
		Statement(matcher.From("case"), matcher.UpTo(":")).
		Statement(matcher.From("default"), matcher.Exact(":")).
		Statement(matcher.UpTo(";", "{", "}"), matcher.ForgetLastToken()).
		Policy(policy).
		Build()
}

// Java returns the built-in profile for .java files.
func Java(policy statement.Policy) (*Profile, error) {
	lexer, err := JavaLexer()
	if err != nil {
		return nil, err
	}
	c, err := JavaChunker(policy)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Name:       "java",
		Extensions: []string{".java"},
		Lexer:      lexer,
		Chunker:    c,
	}, nil
}

// Builtins returns every built-in profile configured with policy.
func Builtins(policy statement.Policy) ([]*Profile, error) {
	ctors := []func(statement.Policy) (*Profile, error){Go, Java}
	out := make([]*Profile, 0, len(ctors))
	for _, ctor := range ctors {
		p, err := ctor(policy)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Builtin returns the built-in profile called name.
func Builtin(name string, policy statement.Policy) (*Profile, bool, error) {
	switch name {
	case "go":
		p, err := Go(policy)
		return p, true, err
	case "java":
		p, err := Java(policy)
		return p, true, err
	default:
		return nil, false, nil
	}
}
