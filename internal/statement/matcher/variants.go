package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/tdup/internal/token"
)

var (
	_ Matcher = anyToken{}
	_ Matcher = (*exactMatcher)(nil)
	_ Matcher = (*upToMatcher)(nil)
	_ Matcher = (*bridgeMatcher)(nil)
	_ Matcher = (*optMatcher)(nil)
	_ Matcher = forgetLastToken{}
)

type anyToken struct{}

// AnyToken matches exactly one token, whatever its value.
// It fails only when the queue is empty.
func AnyToken() Matcher { return anyToken{} }

func (anyToken) Match(q Queue, matched []token.Token) ([]token.Token, bool) {
	tok, ok := q.Poll()
	if !ok {
		return matched, false
	}
	return append(matched, tok), true
}

func (anyToken) String() string { return "any" }

type exactMatcher struct {
	values valueSet
	names  []string
}

// Exact matches one token whose value is one of values.
func Exact(values ...string) Matcher {
	if len(values) == 0 {
		panic("matcher: Exact requires at least one value")
	}
	return &exactMatcher{values: newValueSet(values), names: sortedCopy(values)}
}

// From is Exact with a single value, reads well as the first matcher of a
// channel: statement(From("if"), Bridge("(", ")")).
func From(value string) Matcher { return Exact(value) }

func (m *exactMatcher) Match(q Queue, matched []token.Token) ([]token.Token, bool) {
	tok, ok := q.Peek()
	if !ok || !m.values.has(tok.Value) {
		return matched, false
	}
	tok, _ = q.Poll()
	return append(matched, tok), true
}

func (m *exactMatcher) String() string {
	return fmt.Sprintf("exact(%s)", strings.Join(m.names, ", "))
}

type upToMatcher struct {
	values valueSet
	names  []string
}

// UpTo consumes tokens up to and including the first one whose value is in
// values. If the queue runs out first the match fails and the polled tokens
// are left in the accumulator for the caller to roll back.
func UpTo(values ...string) Matcher {
	if len(values) == 0 {
		panic("matcher: UpTo requires at least one value")
	}
	return &upToMatcher{values: newValueSet(values), names: sortedCopy(values)}
}

func (m *upToMatcher) Match(q Queue, matched []token.Token) ([]token.Token, bool) {
	for {
		tok, ok := q.Poll()
		if !ok {
			return matched, false
		}
		matched = append(matched, tok)
		if m.values.has(tok.Value) {
			return matched, true
		}
	}
}

func (m *upToMatcher) String() string {
	return fmt.Sprintf("upto(%s)", strings.Join(m.names, ", "))
}

type bridgeMatcher struct {
	open, close string
}

// Bridge matches from an opening token to its balanced closing token,
// e.g. Bridge("(", ")") consumes "( a ( b ) )" as a whole.
// The head of the queue must be the opening token.
func Bridge(open, close string) Matcher {
	if open == "" || close == "" || open == close {
		panic(fmt.Sprintf("matcher: invalid bridge delimiters %q and %q", open, close))
	}
	return &bridgeMatcher{open: open, close: close}
}

func (m *bridgeMatcher) Match(q Queue, matched []token.Token) ([]token.Token, bool) {
	if !q.IsNextTokenValue(m.open) {
		return matched, false
	}
	depth := 0
	for {
		tok, ok := q.Poll()
		if !ok {
			return matched, false
		}
		switch tok.Value {
		case m.open:
			depth++
		case m.close:
			depth--
		}
		matched = append(matched, tok)
		if depth == 0 {
			return matched, true
		}
	}
}

func (m *bridgeMatcher) String() string {
	return fmt.Sprintf("bridge(%s, %s)", m.open, m.close)
}

type optMatcher struct {
	m Matcher
}

// Opt tries m and succeeds whether or not m matched.
// A failed attempt of m is rolled back before returning.
func Opt(m Matcher) Matcher {
	if m == nil {
		panic("matcher: Opt requires a matcher")
	}
	return &optMatcher{m: m}
}

func (o *optMatcher) Match(q Queue, matched []token.Token) ([]token.Token, bool) {
	n := len(matched)
	out, ok := o.m.Match(q, matched)
	if !ok {
		q.PushForward(out[n:])
		return out[:n], true
	}
	return out, true
}

func (o *optMatcher) String() string {
	return fmt.Sprintf("opt(%v)", o.m)
}

type forgetLastToken struct{}

// ForgetLastToken gives the last accumulated token back to the queue.
// It is used after UpTo when the terminator belongs to the next statement,
// as in UpTo(";", "{", "}"), ForgetLastToken().
func ForgetLastToken() Matcher { return forgetLastToken{} }

func (forgetLastToken) Match(q Queue, matched []token.Token) ([]token.Token, bool) {
	n := len(matched)
	if n == 0 {
		return matched, false
	}
	q.PushForward(matched[n-1:])
	return matched[:n-1], true
}

func (forgetLastToken) String() string { return "forget-last" }

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
