package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func recorder(name string, accept bool, calls *[]string) Channel[int, *[]string] {
	return Func[int, *[]string](func(in int, out *[]string) bool {
		*calls = append(*calls, name)
		if accept {
			*out = append(*out, name)
		}
		return accept
	})
}

func TestDispatcher_StopsAtFirstSuccess(t *testing.T) {
	t.Parallel()
	var calls []string
	d := NewDispatcher(
		recorder("a", false, &calls),
		recorder("b", true, &calls),
		recorder("c", true, &calls),
	)

	var out []string
	assert.True(t, d.Consume(0, &out))
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, []string{"b"}, out)
	assert.Equal(t, 3, d.Len())
}

func TestDispatcher_NoChannelConsumes(t *testing.T) {
	t.Parallel()
	var calls []string
	d := NewDispatcher(
		recorder("a", false, &calls),
		recorder("b", false, &calls),
	)

	var out []string
	assert.False(t, d.Consume(0, &out))
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Empty(t, out)
}

func TestDispatcher_Empty(t *testing.T) {
	t.Parallel()
	d := NewDispatcher[int, *[]string]()
	var out []string
	assert.False(t, d.Consume(0, &out))
}

func TestNewDispatcher_CopiesChannels(t *testing.T) {
	t.Parallel()
	var calls []string
	channels := []Channel[int, *[]string]{recorder("a", true, &calls)}
	d := NewDispatcher(channels...)
	channels[0] = recorder("z", true, &calls)

	var out []string
	d.Consume(0, &out)
	assert.Equal(t, []string{"a"}, out)
}
