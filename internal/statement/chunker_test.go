package statement

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tdup/internal/statement/matcher"
	"github.com/gnolang/tdup/internal/token"
)

// javaLikeChunker mirrors the statement rules used for C-family languages.
func javaLikeChunker(t *testing.T, policy Policy) *Chunker {
	t.Helper()
	c, err := NewChunkerBuilder().
		Ignore(matcher.From("import"), matcher.UpTo(";")).
		Ignore(matcher.Exact(";")).
		Statement(matcher.Exact("}")).
		Statement(matcher.Exact("{")).
		Statement(matcher.From("if"), matcher.Bridge("(", ")")).
		Statement(matcher.From("else")).
		Statement(matcher.UpTo(";", "{", "}"), matcher.ForgetLastToken()).
		Policy(policy).
		Build()
	require.NoError(t, err)
	return c
}

// lex builds one token per word; a "\n" word starts a new line.
func lex(words ...string) []token.Token {
	var out []token.Token
	line := 1
	for _, w := range words {
		if w == "\n" {
			line++
			continue
		}
		out = append(out, token.New(w, line, line))
	}
	return out
}

func TestChunker_Chunk(t *testing.T) {
	t.Parallel()
	c := javaLikeChunker(t, PolicyStrict)

	input := lex(
		"import", "a", ".", "b", ";", "\n",
		"if", "(", "x", ")", "{", "\n",
		"y", "=", "1", ";", "\n",
		"}", "else", "{", "\n",
		"z", "(", ")", ";", "\n",
		"}",
	)

	res, err := c.ChunkTokens(input)
	require.NoError(t, err)

	want := []Statement{
		{Value: "if ( x )", StartLine: 2, EndLine: 2},
		{Value: "{", StartLine: 2, EndLine: 2},
		{Value: "y = 1", StartLine: 3, EndLine: 3},
		{Value: "}", StartLine: 4, EndLine: 4},
		{Value: "else", StartLine: 4, EndLine: 4},
		{Value: "{", StartLine: 4, EndLine: 4},
		{Value: "z ( )", StartLine: 5, EndLine: 5},
		{Value: "}", StartLine: 6, EndLine: 6},
	}
	if diff := cmp.Diff(want, res.Statements); diff != "" {
		t.Errorf("Chunk() statements mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, res.Unmatched)
}

func TestChunker_StrictPolicy(t *testing.T) {
	t.Parallel()
	c := javaLikeChunker(t, PolicyStrict)

	res, err := c.ChunkTokens(lex("{", "\n", "dangling"))
	require.Error(t, err)

	var unmatched *UnmatchedError
	require.True(t, errors.As(err, &unmatched))
	assert.Equal(t, "dangling", unmatched.Token.Value)
	assert.Equal(t, 2, unmatched.Token.Line)
	assert.Len(t, res.Statements, 1)
}

func TestChunker_SkipPolicy(t *testing.T) {
	t.Parallel()
	c := javaLikeChunker(t, PolicySkip)

	res, err := c.ChunkTokens(lex("{", "dangling", "words"))
	require.NoError(t, err)

	if diff := cmp.Diff([]Statement{{Value: "{", StartLine: 1, EndLine: 1}}, res.Statements); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []token.Token{token.New("dangling", 1, 1), token.New("words", 1, 1)}, res.Unmatched)
}

func TestChunker_TokenConservation(t *testing.T) {
	t.Parallel()
	c, err := NewChunkerBuilder().
		Statement(matcher.From("a"), matcher.AnyToken()).
		Statement(matcher.Exact("b")).
		Policy(PolicySkip).
		Build()
	require.NoError(t, err)

	input := lex("a", "x", "c", "b", "a")
	res, err := c.ChunkTokens(input)
	require.NoError(t, err)

	consumed := 0
	for _, st := range res.Statements {
		consumed += len(splitValue(st.Value))
	}
	assert.Equal(t, len(input), consumed+len(res.Unmatched))
	assert.Equal(t, []string{"a x", "b"}, values(res.Statements))
	assert.Equal(t, []token.Token{token.New("c", 1, 1), token.New("a", 1, 1)}, res.Unmatched)
}

func TestChunkerBuilder_Errors(t *testing.T) {
	t.Parallel()
	_, err := NewChunkerBuilder().Build()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewChunkerBuilder().Statement().Build()
	assert.ErrorIs(t, err, ErrNoMatchers)

	_, err = NewChunkerBuilder().Ignore(matcher.AnyToken()).Channel(nil).Build()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyStrict, false},
		{"strict", PolicyStrict, false},
		{" Skip ", PolicySkip, false},
		{"lenient", PolicyStrict, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "skip", PolicySkip.String())
	assert.Equal(t, "Policy(7)", Policy(7).String())
}

func values(sts []Statement) []string {
	out := make([]string, len(sts))
	for i, st := range sts {
		out[i] = st.Value
	}
	return out
}

func splitValue(v string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ' ' {
			out = append(out, v[start:i])
			start = i + 1
		}
	}
	return out
}
