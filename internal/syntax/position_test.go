package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition_Compare(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Pos(2, 3).Compare(Pos(2, 3)))
	assert.Equal(t, -1, Pos(1, 9).Compare(Pos(2, 0)))
	assert.Equal(t, 1, Pos(2, 4).Compare(Pos(2, 3)))
	assert.True(t, Pos(0, 0).Less(Pos(0, 1)))
	assert.False(t, Pos(0, 1).Less(Pos(0, 1)))
}

func TestSpan(t *testing.T) {
	t.Parallel()

	_, ok := NewSpan(Pos(3, 0), Pos(2, 5))
	assert.False(t, ok, "start after end")

	s, ok := NewSpan(Pos(1, 2), Pos(3, 0))
	assert.True(t, ok)
	assert.True(t, s.MultiLine())
	assert.False(t, s.IsEmpty())
	assert.True(t, s.Contains(Pos(1, 2)))
	assert.True(t, s.Contains(Pos(2, 100)))
	assert.False(t, s.Contains(Pos(3, 0)), "end is exclusive")

	inner := Span{Start: Pos(1, 4), End: Pos(2, 0)}
	assert.True(t, s.Encloses(inner))
	assert.False(t, inner.Encloses(s))

	empty := Span{Start: Pos(4, 4), End: Pos(4, 4)}
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.Contains(Pos(4, 4)))
	assert.Equal(t, "1:2-3:0", s.String())
}
