package statement

import (
	"errors"
	"fmt"

	"github.com/gnolang/tdup/internal/channel"
	"github.com/gnolang/tdup/internal/statement/matcher"
	"github.com/gnolang/tdup/internal/token"
)

var (
	// ErrInvalidArgument is the root of every construction error of this package.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoMatchers is returned when a channel is created without matchers.
	ErrNoMatchers = fmt.Errorf("%w: statement channel requires at least one matcher", ErrInvalidArgument)
)

var (
	_ channel.Channel[matcher.Queue, *[]Statement] = (*Channel)(nil)
	_ channel.Channel[matcher.Queue, *[]Statement] = (*IgnoreChannel)(nil)
)

// Channel recognizes one shape of statement as an ordered chain of matchers.
//
// A Channel is immutable after creation and holds no per-attempt state, so
// a single instance may be used by many goroutines as long as each one
// works on its own queue.
type Channel struct {
	matchers []matcher.Matcher
}

// NewChannel creates a channel from a non-empty list of matchers.
func NewChannel(matchers ...matcher.Matcher) (*Channel, error) {
	ms, err := checkMatchers(matchers)
	if err != nil {
		return nil, err
	}
	return &Channel{matchers: ms}, nil
}

// Consume runs every matcher in order against the head of q.
//
// If the whole chain matches, the consumed tokens become one statement
// appended to out and Consume returns true. Otherwise every token polled
// during the attempt is pushed back, out is left alone and Consume
// returns false.
func (c *Channel) Consume(q matcher.Queue, out *[]Statement) bool {
	matched, ok := match(c.matchers, q)
	if !ok {
		return false
	}
	*out = append(*out, New(matched))
	return true
}

// Len returns the number of matchers in the chain.
func (c *Channel) Len() int { return len(c.matchers) }

// IgnoreChannel follows the same protocol as Channel but drops what it
// consumes. It is used for parts of a file that should never take part in
// duplication, such as package and import clauses.
type IgnoreChannel struct {
	matchers []matcher.Matcher
}

func NewIgnoreChannel(matchers ...matcher.Matcher) (*IgnoreChannel, error) {
	ms, err := checkMatchers(matchers)
	if err != nil {
		return nil, err
	}
	return &IgnoreChannel{matchers: ms}, nil
}

func (c *IgnoreChannel) Consume(q matcher.Queue, _ *[]Statement) bool {
	_, ok := match(c.matchers, q)
	return ok
}

// match runs the chain and rolls q back when it does not complete.
// A chain that completes without holding any token is a failure too,
// since nothing was consumed.
func match(matchers []matcher.Matcher, q matcher.Queue) ([]token.Token, bool) {
	var matched []token.Token
	for _, m := range matchers {
		var ok bool
		matched, ok = m.Match(q, matched)
		if !ok {
			q.PushForward(matched)
			return nil, false
		}
	}
	if len(matched) == 0 {
		return nil, false
	}
	return matched, true
}

func checkMatchers(matchers []matcher.Matcher) ([]matcher.Matcher, error) {
	if len(matchers) == 0 {
		return nil, ErrNoMatchers
	}
	ms := make([]matcher.Matcher, len(matchers))
	for i, m := range matchers {
		if m == nil {
			return nil, fmt.Errorf("%w: matcher at index %d is nil", ErrInvalidArgument, i)
		}
		ms[i] = m
	}
	return ms, nil
}
