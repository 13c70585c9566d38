package lang

import (
	"fmt"
	"go/scanner"
	gotoken "go/token"

	"github.com/gnolang/tdup/internal/statement"
	"github.com/gnolang/tdup/internal/statement/matcher"
	"github.com/gnolang/tdup/internal/token"
)

const (
	literalValue = "LITERAL"
	numberValue  = "INTEGER"
)

// GoLexer tokenizes Go (and Gno) source with go/scanner. Comments are
// dropped, automatically inserted semicolons are kept as ";" tokens, and
// literals are normalized so that code differing only in constants still
// yields equal statements.
type GoLexer struct{}

var _ Lexer = GoLexer{}

func (GoLexer) Chunk(src []byte) ([]token.Token, error) {
	fset := gotoken.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init(file, src, func(pos gotoken.Position, msg string) {
		errs.Add(pos, msg)
	}, 0)

	var out []token.Token
	for {
		pos, tok, lit := s.Scan()
		if tok == gotoken.EOF {
			break
		}
		p := file.Position(pos)

		value := lit
		switch {
		case tok == gotoken.SEMICOLON:
			value = ";"
		case tok == gotoken.STRING || tok == gotoken.CHAR:
			value = literalValue
		case tok == gotoken.INT || tok == gotoken.FLOAT || tok == gotoken.IMAG:
			value = numberValue
		case tok.IsOperator() || tok.IsKeyword():
			value = tok.String()
		}

		text := lit
		if text == "" {
			text = tok.String()
		}
		// raw strings may span lines
		endLine, endColumn := token.Span(text, p.Line, p.Column)

		out = append(out, token.Token{
			Value:     value,
			Line:      p.Line,
			EndLine:   endLine,
			Column:    p.Column,
			EndColumn: endColumn,
		})
	}

	if errs.Len() > 0 {
		errs.Sort()
		return nil, fmt.Errorf("scanning go source: %w", errs.Err())
	}
	return out, nil
}

// GoChunker returns the statement rules for Go.
//
// Package and import clauses are ignored, braces form statements of their
// own, control-flow headers end before their block and everything else is
// cut at ";" or at a brace.
func GoChunker(policy statement.Policy) (*statement.Chunker, error) {
	return statement.NewChunkerBuilder().
		Ignore(matcher.From("package"), matcher.UpTo(";")).
		Ignore(matcher.From("import"), matcher.Bridge("(", ")"), matcher.Opt(matcher.Exact(";"))).
		Ignore(matcher.From("import"), matcher.UpTo(";")).
		Ignore(matcher.Exact(";")).
		Statement(matcher.Exact("}")).
		Statement(matcher.Exact("{")).
		Statement(matcher.From("if"), matcher.UpTo("{"), matcher.ForgetLastToken()).
		Statement(matcher.From("else"), matcher.Exact("if"), matcher.UpTo("{"), matcher.ForgetLastToken()).
		Statement(matcher.From("else")).
		Statement(matcher.From("for"), matcher.UpTo("{"), matcher.ForgetLastToken()).
		Statement(matcher.From("switch"), matcher.UpTo("{"), matcher.ForgetLastToken()).
		Statement(matcher.From("select")).
		Statement(matcher.From("case"), matcher.UpTo(":")).
		Statement(matcher.From("default"), matcher.Exact(":")).
		Statement(matcher.UpTo(";", "{", "}"), matcher.ForgetLastToken()).
		Policy(policy).
		Build()
}

// Go returns the built-in profile for .go and .gno files.
func Go(policy statement.Policy) (*Profile, error) {
	c, err := GoChunker(policy)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Name:       "go",
		Extensions: []string{".go", ".gno"},
		Lexer:      GoLexer{},
		Chunker:    c,
	}, nil
}
