package token

import (
	"fmt"
	"strings"
)

// Token represents a single lexical unit with the source lines it spans.
type Token struct {
	Value     string `json:"value"`               // the literal (or normalized) text of this token
	Line      int    `json:"line"`                // line where the token starts
	EndLine   int    `json:"endLine"`             // line where the token ends
	Column    int    `json:"column"`              // 1-based byte column of the first character, 0 when unknown
	EndColumn int    `json:"endColumn,omitempty"` // 1-based byte column of the last character, 0 when unknown
}

// New creates a token spanning lines start..end without column information.
func New(value string, start, end int) Token {
	return Token{
		Value:   value,
		Line:    start,
		EndLine: end,
	}
}

func (t Token) String() string {
	if t.Line == t.EndLine {
		return fmt.Sprintf("%q@%d", t.Value, t.Line)
	}
	return fmt.Sprintf("%q@%d-%d", t.Value, t.Line, t.EndLine)
}

// Span returns where text ends when it starts at line:column, as the line
// and byte column of its last byte.
func Span(text string, line, column int) (endLine, endColumn int) {
	if text == "" {
		return line, column
	}
	body := text[:len(text)-1]
	i := strings.LastIndexByte(body, '\n')
	if i < 0 {
		return line, column + len(text) - 1
	}
	return line + strings.Count(body, "\n"), len(text) - 1 - i
}
