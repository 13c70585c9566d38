// Package channel provides the try-consume contract shared by the token and
// statement chunkers.
//
// A Channel inspects its input and, when it recognizes what is at the head,
// consumes it and writes the result to the output. A Dispatcher tries a list
// of channels in priority order and stops at the first one that consumes.
package channel

// Channel attempts to consume input and produce output.
// Consume returns false when the channel did not recognize the input; in
// that case the input and output must be left as they were.
type Channel[I, O any] interface {
	Consume(in I, out O) bool
}

// Func adapts an ordinary function to the Channel interface.
type Func[I, O any] func(in I, out O) bool

func (f Func[I, O]) Consume(in I, out O) bool { return f(in, out) }

// Dispatcher tries its channels in order.
type Dispatcher[I, O any] struct {
	channels []Channel[I, O]
}

// NewDispatcher creates a dispatcher over the given channels.
// The order of channels is the priority order.
func NewDispatcher[I, O any](channels ...Channel[I, O]) *Dispatcher[I, O] {
	cs := make([]Channel[I, O], len(channels))
	copy(cs, channels)
	return &Dispatcher[I, O]{channels: cs}
}

// Consume offers the input to each channel until one of them consumes it.
func (d *Dispatcher[I, O]) Consume(in I, out O) bool {
	for _, c := range d.channels {
		if c.Consume(in, out) {
			return true
		}
	}
	return false
}

// Len returns the number of channels.
func (d *Dispatcher[I, O]) Len() int { return len(d.channels) }
