package statement

import (
	"strings"

	"github.com/gnolang/tdup/internal/token"
)

// Statement is the normalized unit compared by the duplication detector:
// the values of its tokens joined by a single space and the lines it spans.
type Statement struct {
	Value     string `json:"value"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// New builds a statement from a non-empty, ordered list of tokens.
func New(tokens []token.Token) Statement {
	if len(tokens) == 0 {
		panic("statement: cannot build a statement from zero tokens")
	}

	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Value)
	}

	return Statement{
		Value:     sb.String(),
		StartLine: tokens[0].Line,
		EndLine:   tokens[len(tokens)-1].EndLine,
	}
}
