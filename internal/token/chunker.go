package token

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// LexError is returned when no rule of a Chunker recognizes the input.
type LexError struct {
	Line   int
	Column int
	Char   rune
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: unexpected character %q", e.Line, e.Column, e.Char)
}

// ChunkerBuilder collects token rules. Rules are tried in the order they
// were added and the first one matching at the current position wins, so
// more specific patterns must come first. Within a pattern, alternatives
// are leftmost-first as well.
type ChunkerBuilder struct {
	rules []rule
}

type rule struct {
	pattern    string
	normalized string
	ignore     bool
}

func NewChunkerBuilder() *ChunkerBuilder {
	return &ChunkerBuilder{}
}

// Token adds a rule emitting the matched text as a token.
func (b *ChunkerBuilder) Token(pattern string) *ChunkerBuilder {
	b.rules = append(b.rules, rule{pattern: pattern})
	return b
}

// TokenNormalized adds a rule emitting value in place of the matched text.
func (b *ChunkerBuilder) TokenNormalized(pattern, value string) *ChunkerBuilder {
	b.rules = append(b.rules, rule{pattern: pattern, normalized: value})
	return b
}

// Ignore adds a rule whose matches are skipped.
func (b *ChunkerBuilder) Ignore(pattern string) *ChunkerBuilder {
	b.rules = append(b.rules, rule{pattern: pattern, ignore: true})
	return b
}

// Build compiles the rules into a lexer. A pattern accepting the empty
// string is rejected since it would never advance the input.
func (b *ChunkerBuilder) Build() (*Chunker, error) {
	if len(b.rules) == 0 {
		return nil, fmt.Errorf("token chunker needs at least one rule")
	}

	simple := make([]lexer.SimpleRule, 0, len(b.rules))
	for i, r := range b.rules {
		whole, err := regexp.Compile(`^(?:` + r.pattern + `)$`)
		if err != nil {
			return nil, fmt.Errorf("invalid token pattern %q: %w", r.pattern, err)
		}
		if whole.MatchString("") {
			return nil, fmt.Errorf("token pattern %q matches the empty string", r.pattern)
		}
		simple = append(simple, lexer.SimpleRule{Name: ruleName(i), Pattern: r.pattern})
	}

	def, err := lexer.NewSimple(simple)
	if err != nil {
		return nil, fmt.Errorf("building lexer: %w", err)
	}

	symbols := def.Symbols()
	byType := make(map[lexer.TokenType]rule, len(b.rules))
	for i, r := range b.rules {
		byType[symbols[ruleName(i)]] = r
	}

	return &Chunker{def: def, rules: byType}, nil
}

func ruleName(i int) string {
	return fmt.Sprintf("Rule%d", i)
}

// Chunker splits source text into tokens. It holds no per-run state and
// can be shared between goroutines.
type Chunker struct {
	def   *lexer.StatefulDefinition
	rules map[lexer.TokenType]rule
}

func (c *Chunker) Chunk(src []byte) ([]Token, error) {
	lex, err := c.def.LexString("", string(src))
	if err != nil {
		return nil, err
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, toLexError(err, src)
	}

	var tokens []Token
	for _, t := range raw {
		if t.EOF() {
			break
		}
		r, ok := c.rules[t.Type]
		if !ok || r.ignore {
			continue
		}
		value := t.Value
		if r.normalized != "" {
			value = r.normalized
		}
		column := columnAt(src, t.Pos.Offset)
		endLine, endColumn := Span(t.Value, t.Pos.Line, column)
		tokens = append(tokens, Token{
			Value:     value,
			Line:      t.Pos.Line,
			EndLine:   endLine,
			Column:    column,
			EndColumn: endColumn,
		})
	}
	return tokens, nil
}

func toLexError(err error, src []byte) error {
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		return err
	}
	pos := lexErr.Pos
	ch := utf8.RuneError
	if pos.Offset >= 0 && pos.Offset < len(src) {
		ch, _ = utf8.DecodeRune(src[pos.Offset:])
	}
	return &LexError{Line: pos.Line, Column: columnAt(src, pos.Offset), Char: ch}
}

// columnAt converts a byte offset into a 1-based byte column. The lexer
// counts columns in runes, the rest of the pipeline in bytes.
func columnAt(src []byte, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return offset - bytes.LastIndexByte(src[:offset], '\n')
}

// ChunkQueue is like Chunk but returns the tokens as a Queue.
func (c *Chunker) ChunkQueue(src []byte) (*Queue, error) {
	tokens, err := c.Chunk(src)
	if err != nil {
		return nil, err
	}
	return NewQueue(tokens), nil
}
