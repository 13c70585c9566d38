package token

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunker(t *testing.T) *Chunker {
	t.Helper()
	c, err := NewChunkerBuilder().
		Ignore(`\s+`).
		Ignore(`//[^\n\r]*`).
		Ignore(`/\*[\s\S]*?\*/`).
		TokenNormalized(`"([^"\\]|\\.)*"`, "LITERAL").
		TokenNormalized(`[0-9]+`, "INTEGER").
		Token(`[a-zA-Z_][a-zA-Z0-9_]*`).
		Token(`[^\s]`).
		Build()
	require.NoError(t, err)
	return c
}

func TestChunker_Chunk(t *testing.T) {
	t.Parallel()
	c := newTestChunker(t)

	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "identifiers and punctuation",
			input: "x = y;",
			want: []Token{
				{Value: "x", Line: 1, EndLine: 1, Column: 1, EndColumn: 1},
				{Value: "=", Line: 1, EndLine: 1, Column: 3, EndColumn: 3},
				{Value: "y", Line: 1, EndLine: 1, Column: 5, EndColumn: 5},
				{Value: ";", Line: 1, EndLine: 1, Column: 6, EndColumn: 6},
			},
		},
		{
			name:  "normalized literals",
			input: "f(\"hi\", 42)",
			want: []Token{
				{Value: "f", Line: 1, EndLine: 1, Column: 1, EndColumn: 1},
				{Value: "(", Line: 1, EndLine: 1, Column: 2, EndColumn: 2},
				{Value: "LITERAL", Line: 1, EndLine: 1, Column: 3, EndColumn: 6},
				{Value: ",", Line: 1, EndLine: 1, Column: 7, EndColumn: 7},
				{Value: "INTEGER", Line: 1, EndLine: 1, Column: 9, EndColumn: 10},
				{Value: ")", Line: 1, EndLine: 1, Column: 11, EndColumn: 11},
			},
		},
		{
			name:  "comments are skipped and lines tracked",
			input: "a // one\n/* two\nthree */ b",
			want: []Token{
				{Value: "a", Line: 1, EndLine: 1, Column: 1, EndColumn: 1},
				{Value: "b", Line: 3, EndLine: 3, Column: 10, EndColumn: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Chunk([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChunker_MultiLineToken(t *testing.T) {
	t.Parallel()
	c, err := NewChunkerBuilder().
		Ignore(`\s+`).
		Token("`[^`]*`").
		Build()
	require.NoError(t, err)

	got, err := c.Chunk([]byte("\n`a\nb\nc`"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, 4, got[0].EndLine)
	assert.Equal(t, 2, got[0].EndColumn)
}

func TestChunker_ByteColumns(t *testing.T) {
	t.Parallel()
	c, err := NewChunkerBuilder().
		Ignore(`\s+`).
		Token(`[^\s]+`).
		Build()
	require.NoError(t, err)

	// "é" is two bytes wide
	got, err := c.Chunk([]byte("é x"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Column)
	assert.Equal(t, 2, got[0].EndColumn)
	assert.Equal(t, 4, got[1].Column)
}

func TestSpan(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text              string
		line, column      int
		wantLine, wantCol int
	}{
		{"", 1, 1, 1, 1},
		{"x", 2, 5, 2, 5},
		{"abc", 1, 3, 1, 5},
		{"`a\nbc`", 1, 4, 2, 3},
		{"\n", 3, 7, 3, 7},
	}
	for _, tc := range tests {
		line, col := Span(tc.text, tc.line, tc.column)
		assert.Equal(t, tc.wantLine, line, "%q", tc.text)
		assert.Equal(t, tc.wantCol, col, "%q", tc.text)
	}
}

func TestChunker_UnknownCharacter(t *testing.T) {
	t.Parallel()
	c, err := NewChunkerBuilder().
		Ignore(`\s+`).
		Token(`[a-z]+`).
		Build()
	require.NoError(t, err)

	_, err = c.Chunk([]byte("ab\n  #"))
	require.Error(t, err)

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, 2, lexErr.Line)
	assert.Equal(t, 3, lexErr.Column)
	assert.Equal(t, '#', lexErr.Char)
}

func TestChunkerBuilder_Errors(t *testing.T) {
	t.Parallel()
	_, err := NewChunkerBuilder().Build()
	assert.Error(t, err)

	_, err = NewChunkerBuilder().Token(`(`).Build()
	assert.Error(t, err)
}

func TestChunkerBuilder_RejectsEmptyMatch(t *testing.T) {
	t.Parallel()
	_, err := NewChunkerBuilder().
		Token(`a*`).
		Token(`.`).
		Build()
	assert.Error(t, err)

	c, err := NewChunkerBuilder().
		Token(`a+`).
		Token(`.`).
		Build()
	require.NoError(t, err)

	got, err := c.ChunkQueue([]byte("baa"))
	require.NoError(t, err)
	assert.Equal(t, []Token{
		{Value: "b", Line: 1, EndLine: 1, Column: 1, EndColumn: 1},
		{Value: "aa", Line: 1, EndLine: 1, Column: 2, EndColumn: 3},
	}, got.Tokens())
}

func TestChunker_FirstRuleWins(t *testing.T) {
	t.Parallel()
	// the keyword rule comes first and matches a prefix of the identifier
	c, err := NewChunkerBuilder().
		Ignore(`\s+`).
		Token(`if`).
		Token(`[a-z]+`).
		Build()
	require.NoError(t, err)

	got, err := c.Chunk([]byte("iffy x"))
	require.NoError(t, err)
	values := make([]string, len(got))
	for i, tok := range got {
		values[i] = tok.Value
	}
	assert.Equal(t, []string{"if", "fy", "x"}, values)
}
