package types

import (
	"fmt"
	"go/token"

	"github.com/gnolang/tdup/internal/statement"
	tok "github.com/gnolang/tdup/internal/token"
)

// FileReport is the result of tokenizing one file into statements.
type FileReport struct {
	Filename   string                `json:"filename"`
	Language   string                `json:"language"`
	Tokens     int                   `json:"tokens"`
	Statements []statement.Statement `json:"statements"`
	Unmatched  []tok.Token           `json:"unmatched,omitempty"`
}

// Severity represents how serious an issue is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// UnmatchedTokenRule is the rule name of issues reporting skipped tokens.
const UnmatchedTokenRule = "unmatched-token"

// Issue is a diagnostic attached to a location in a source file.
type Issue struct {
	Rule     string
	Filename string
	Message  string
	Note     string
	Severity Severity
	Start    token.Position
	End      token.Position
}

// Issues converts the unmatched tokens of the report into warnings.
func (r FileReport) Issues() []Issue {
	issues := make([]Issue, 0, len(r.Unmatched))
	for _, t := range r.Unmatched {
		start, end := tokenRange(t)
		start.Filename, end.Filename = r.Filename, r.Filename
		issues = append(issues, Issue{
			Rule:     UnmatchedTokenRule,
			Filename: r.Filename,
			Message:  fmt.Sprintf("no %s statement rule matches token %q", r.Language, t.Value),
			Note:     "the token was skipped and takes no part in duplication detection",
			Severity: SeverityWarning,
			Start:    start,
			End:      end,
		})
	}
	return issues
}

// tokenRange returns the source positions of the first and last character
// of t. Lexers that do not report an end column fall back to the width of
// the token value.
func tokenRange(t tok.Token) (start, end token.Position) {
	column := t.Column
	if column == 0 {
		column = 1
	}
	endLine := t.EndLine
	if endLine < t.Line {
		endLine = t.Line
	}
	endColumn := t.EndColumn
	if endColumn == 0 {
		endColumn = column
		if endLine == t.Line {
			endColumn = column + len(t.Value) - 1
		}
	}
	return token.Position{Line: t.Line, Column: column}, token.Position{Line: endLine, Column: endColumn}
}
