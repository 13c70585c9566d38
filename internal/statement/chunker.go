package statement

import (
	"fmt"
	"strings"

	"github.com/gnolang/tdup/internal/channel"
	"github.com/gnolang/tdup/internal/statement/matcher"
	"github.com/gnolang/tdup/internal/token"
)

// Policy decides what the Chunker does with a token no channel accepts.
type Policy int

const (
	// PolicyStrict stops chunking with an *UnmatchedError.
	PolicyStrict Policy = iota
	// PolicySkip drops the token, records it in Result.Unmatched and goes on.
	PolicySkip
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicySkip:
		return "skip"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts the textual form used in configuration files.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "skip":
		return PolicySkip, nil
	default:
		return PolicyStrict, fmt.Errorf("unknown unmatched-token policy %q", s)
	}
}

// UnmatchedError reports a token that none of the channels could consume.
type UnmatchedError struct {
	Token token.Token
}

func (e *UnmatchedError) Error() string {
	return fmt.Sprintf("line %d: none of the channels could consume token %q", e.Token.Line, e.Token.Value)
}

// Result is the outcome of chunking one token queue.
type Result struct {
	Statements []Statement
	Unmatched  []token.Token
}

// Chunker drives a set of channels over a token queue until it is empty.
// Channels are tried in the order they were added to the builder.
type Chunker struct {
	dispatcher *channel.Dispatcher[matcher.Queue, *[]Statement]
	policy     Policy
}

// ChunkerBuilder assembles a Chunker. Errors from invalid channel
// definitions are collected and reported by Build.
type ChunkerBuilder struct {
	channels []channel.Channel[matcher.Queue, *[]Statement]
	policy   Policy
	errs     []error
}

func NewChunkerBuilder() *ChunkerBuilder {
	return &ChunkerBuilder{}
}

// Ignore adds a channel whose matches are discarded.
func (b *ChunkerBuilder) Ignore(matchers ...matcher.Matcher) *ChunkerBuilder {
	c, err := NewIgnoreChannel(matchers...)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("channel %d: %w", len(b.channels), err))
		return b
	}
	b.channels = append(b.channels, c)
	return b
}

// Statement adds a channel producing one statement per match.
func (b *ChunkerBuilder) Statement(matchers ...matcher.Matcher) *ChunkerBuilder {
	c, err := NewChannel(matchers...)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("channel %d: %w", len(b.channels), err))
		return b
	}
	b.channels = append(b.channels, c)
	return b
}

// Channel adds an arbitrary channel, for shapes the matchers cannot express.
func (b *ChunkerBuilder) Channel(c channel.Channel[matcher.Queue, *[]Statement]) *ChunkerBuilder {
	if c == nil {
		b.errs = append(b.errs, fmt.Errorf("channel %d: %w: nil channel", len(b.channels), ErrInvalidArgument))
		return b
	}
	b.channels = append(b.channels, c)
	return b
}

func (b *ChunkerBuilder) Policy(p Policy) *ChunkerBuilder {
	b.policy = p
	return b
}

func (b *ChunkerBuilder) Build() (*Chunker, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if len(b.channels) == 0 {
		return nil, fmt.Errorf("%w: chunker requires at least one channel", ErrInvalidArgument)
	}
	return &Chunker{
		dispatcher: channel.NewDispatcher(b.channels...),
		policy:     b.policy,
	}, nil
}

// Policy returns the unmatched-token policy of the chunker.
func (c *Chunker) Policy() Policy { return c.policy }

// Chunk consumes q entirely. Every token of q ends up in exactly one
// statement, is dropped by an ignore channel or, under PolicySkip, is
// listed in Result.Unmatched.
func (c *Chunker) Chunk(q matcher.Queue) (Result, error) {
	var res Result
	for !q.IsEmpty() {
		if c.dispatcher.Consume(q, &res.Statements) {
			continue
		}
		tok, _ := q.Peek()
		if c.policy == PolicyStrict {
			return res, &UnmatchedError{Token: tok}
		}
		q.Poll()
		res.Unmatched = append(res.Unmatched, tok)
	}
	return res, nil
}

// ChunkTokens is a convenience wrapper building the queue from tokens.
func (c *Chunker) ChunkTokens(tokens []token.Token) (Result, error) {
	return c.Chunk(token.NewQueue(tokens))
}
