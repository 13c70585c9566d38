package token

// Queue is an ordered buffer of pending tokens for one file.
//
// Tokens are stored in reverse order so that the front of the queue is the
// last element of the slice. Poll and PushForward then only touch the tail.
type Queue struct {
	stack []Token
}

// NewQueue returns a queue whose front is tokens[0].
// The given slice is neither retained nor modified.
func NewQueue(tokens []Token) *Queue {
	stack := make([]Token, len(tokens))
	for i, tok := range tokens {
		stack[len(tokens)-1-i] = tok
	}
	return &Queue{stack: stack}
}

// Peek returns the front token without removing it.
func (q *Queue) Peek() (Token, bool) {
	if len(q.stack) == 0 {
		return Token{}, false
	}
	return q.stack[len(q.stack)-1], true
}

// Poll removes and returns the front token.
func (q *Queue) Poll() (Token, bool) {
	n := len(q.stack)
	if n == 0 {
		return Token{}, false
	}
	tok := q.stack[n-1]
	q.stack = q.stack[:n-1]
	return tok, true
}

// PushForward reinserts tokens at the front of the queue, keeping their
// relative order: after the call Peek returns tokens[0]. The tokens are
// copied, so the caller may reuse the slice.
func (q *Queue) PushForward(tokens []Token) {
	for i := len(tokens) - 1; i >= 0; i-- {
		q.stack = append(q.stack, tokens[i])
	}
}

// IsNextTokenValue reports whether the front token has the given value.
func (q *Queue) IsNextTokenValue(value string) bool {
	tok, ok := q.Peek()
	return ok && tok.Value == value
}

func (q *Queue) IsEmpty() bool { return len(q.stack) == 0 }

func (q *Queue) Len() int { return len(q.stack) }

// Tokens returns a copy of the pending tokens, front first.
func (q *Queue) Tokens() []Token {
	out := make([]Token, len(q.stack))
	for i, tok := range q.stack {
		out[len(q.stack)-1-i] = tok
	}
	return out
}
