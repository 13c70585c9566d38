package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/tdup/internal/token"
)

func tokens(values ...string) []token.Token {
	out := make([]token.Token, len(values))
	for i, v := range values {
		out[i] = token.New(v, i+1, i+1)
	}
	return out
}

func valuesOf(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Value
	}
	return out
}

// assertConserved checks that the accumulator followed by the queue holds
// exactly the original input.
func assertConserved(t *testing.T, input []token.Token, matched []token.Token, q *token.Queue) {
	t.Helper()
	all := append(append([]token.Token{}, matched...), q.Tokens()...)
	assert.Equal(t, input, all)
}

func TestMatchers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		matcher     Matcher
		input       []string
		wantOK      bool
		wantMatched []string
	}{
		{"any on one token", AnyToken(), []string{"a"}, true, []string{"a"}},
		{"any takes only one", AnyToken(), []string{"a", "b"}, true, []string{"a"}},
		{"any on empty queue", AnyToken(), nil, false, []string{}},

		{"exact hit", Exact("if"), []string{"if", "("}, true, []string{"if"}},
		{"exact among values", Exact("for", "while"), []string{"while"}, true, []string{"while"}},
		{"exact miss leaves queue", Exact("if"), []string{"for"}, false, []string{}},
		{"exact on empty queue", From("if"), nil, false, []string{}},

		{"upto terminator", UpTo(";"), []string{"a", "=", "b", ";", "c"}, true, []string{"a", "=", "b", ";"}},
		{"upto first of many", UpTo(";", "{"), []string{"x", "{", ";"}, true, []string{"x", "{"}},
		{"upto head is terminator", UpTo(";"), []string{";"}, true, []string{";"}},
		{"upto runs out", UpTo(";"), []string{"a", "b"}, false, []string{"a", "b"}},
		{"upto on empty queue", UpTo(";"), nil, false, []string{}},

		{"bridge flat", Bridge("(", ")"), []string{"(", "a", ")", "b"}, true, []string{"(", "a", ")"}},
		{"bridge nested", Bridge("(", ")"), []string{"(", "(", ")", "a", ")", ")"}, true, []string{"(", "(", ")", "a", ")"}},
		{"bridge wrong head", Bridge("(", ")"), []string{"a", "(", ")"}, false, []string{}},
		{"bridge unbalanced", Bridge("(", ")"), []string{"(", "(", ")"}, false, []string{"(", "(", ")"}},

		{"opt hit", Opt(Exact(";")), []string{";"}, true, []string{";"}},
		{"opt miss", Opt(Exact(";")), []string{"a"}, true, []string{}},
		{"opt rolls back partial", Opt(Bridge("(", ")")), []string{"(", "a"}, true, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tokens(tt.input...)
			q := token.NewQueue(input)

			matched, ok := tt.matcher.Match(q, nil)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMatched, valuesOf(matched))
			assertConserved(t, input, matched, q)
		})
	}
}

func TestMatchers_AppendToExistingAccumulator(t *testing.T) {
	t.Parallel()
	prior := token.New("x", 1, 1)
	q := token.NewQueue([]token.Token{token.New("y", 2, 2)})

	matched, ok := AnyToken().Match(q, []token.Token{prior})

	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, valuesOf(matched))
}

func TestForgetLastToken(t *testing.T) {
	t.Parallel()
	q := token.NewQueue(tokens("a", ";", "b"))

	matched, ok := UpTo(";").Match(q, nil)
	require.True(t, ok)

	matched, ok = ForgetLastToken().Match(q, matched)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, valuesOf(matched))
	assert.Equal(t, []string{";", "b"}, valuesOf(q.Tokens()))
}

func TestForgetLastToken_EmptyAccumulator(t *testing.T) {
	t.Parallel()
	q := token.NewQueue(tokens("a"))

	matched, ok := ForgetLastToken().Match(q, nil)
	assert.False(t, ok)
	assert.Empty(t, matched)
	assert.Equal(t, 1, len(q.Tokens()))
}

func TestOpt_KeepsEarlierTokens(t *testing.T) {
	t.Parallel()
	q := token.NewQueue(tokens("a", "(", "b"))

	matched, ok := AnyToken().Match(q, nil)
	require.True(t, ok)
	matched, ok = Opt(Bridge("(", ")")).Match(q, matched)
	require.True(t, ok)

	assert.Equal(t, []string{"a"}, valuesOf(matched))
	assert.Equal(t, []string{"(", "b"}, valuesOf(q.Tokens()))
}

func TestConstructorsRejectInvalidArguments(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { Exact() })
	assert.Panics(t, func() { UpTo() })
	assert.Panics(t, func() { Bridge("", ")") })
	assert.Panics(t, func() { Bridge("(", "(") })
	assert.Panics(t, func() { Opt(nil) })
}

func TestMatcherStrings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "any", AnyToken().(interface{ String() string }).String())
	assert.Equal(t, "exact(else, if)", Exact("if", "else").(interface{ String() string }).String())
	assert.Equal(t, "upto(;, {)", UpTo("{", ";").(interface{ String() string }).String())
	assert.Equal(t, "bridge((, ))", Bridge("(", ")").(interface{ String() string }).String())
	assert.Equal(t, "opt(exact(;))", Opt(Exact(";")).(interface{ String() string }).String())
}
