// Package matcher provides the token matchers a statement channel is built from.
//
// A Matcher looks at the head of a Queue and moves the tokens it recognizes
// into an accumulator. Every token a matcher appends must have been polled
// from the queue, and every token it drops from the accumulator must be
// pushed back. Keeping the two in step is what lets a channel undo a failed
// attempt with a single PushForward of the accumulator.
package matcher

import (
	"github.com/gnolang/tdup/internal/token"
)

// Queue is the view of a token queue that matchers and channels work on.
//
// PushForward puts tokens back at the front so that the next Poll returns
// tokens[0]. Callers reuse the slice afterwards, so implementations must
// copy the tokens and never keep a reference to it.
type Queue interface {
	Peek() (token.Token, bool)
	Poll() (token.Token, bool)
	PushForward(tokens []token.Token)
	IsNextTokenValue(value string) bool
	IsEmpty() bool
}

var _ Queue = (*token.Queue)(nil)

// Matcher recognizes a token pattern at the head of a queue.
//
// Match returns the accumulator extended with the consumed tokens and
// whether the pattern matched. On failure the returned accumulator may
// still hold tokens polled during the attempt; the caller is responsible
// for pushing them back.
type Matcher interface {
	Match(q Queue, matched []token.Token) ([]token.Token, bool)
}

// Func adapts a plain function to the Matcher interface.
type Func func(q Queue, matched []token.Token) ([]token.Token, bool)

func (f Func) Match(q Queue, matched []token.Token) ([]token.Token, bool) {
	return f(q, matched)
}

// valueSet is a small set of token values.
type valueSet map[string]struct{}

func newValueSet(values []string) valueSet {
	s := make(valueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s valueSet) has(v string) bool {
	_, ok := s[v]
	return ok
}
