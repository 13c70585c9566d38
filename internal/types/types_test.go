package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tok "github.com/gnolang/tdup/internal/token"
)

func TestFileReport_Issues(t *testing.T) {
	t.Parallel()
	r := FileReport{
		Filename: "a.go",
		Language: "go",
		Unmatched: []tok.Token{
			{Value: "foo", Line: 3, EndLine: 3, Column: 5, EndColumn: 7},
			{Value: "x", Line: 4, EndLine: 4},
			{Value: "LITERAL", Line: 5, EndLine: 5, Column: 3, EndColumn: 9},
			{Value: "LITERAL", Line: 6, EndLine: 8, Column: 10, EndColumn: 4},
		},
	}

	issues := r.Issues()
	require.Len(t, issues, 4)

	assert.Equal(t, UnmatchedTokenRule, issues[0].Rule)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, `no go statement rule matches token "foo"`, issues[0].Message)
	assert.Equal(t, 3, issues[0].Start.Line)
	assert.Equal(t, 5, issues[0].Start.Column)
	assert.Equal(t, 7, issues[0].End.Column)

	assert.Equal(t, 1, issues[1].Start.Column)
	assert.Equal(t, 1, issues[1].End.Column)

	// normalized values say nothing about the width in the source
	assert.Equal(t, 9, issues[2].End.Column)

	assert.Equal(t, 6, issues[3].Start.Line)
	assert.Equal(t, 8, issues[3].End.Line)
	assert.Equal(t, 4, issues[3].End.Column)
	assert.Equal(t, "a.go", issues[3].End.Filename)
}

func TestSeverity_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "UNKNOWN", Severity(42).String())
}
