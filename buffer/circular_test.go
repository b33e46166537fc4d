package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircularNotFull(t *testing.T) {
	assert := assert.New(t)

	c := NewCircularFloat(4)
	assert.False(c.Full())

	c.Add(1.0)
	c.Add(2.0)
	c.Add(3.0)
	assert.False(c.Full())

	_, _, ok := c.HalfMeans()
	assert.False(ok)

	c.Add(4.0)
	assert.True(c.Full())
	assert.Equal(int64(4), c.TotalSeen)
}

func TestCircularHalfMeans(t *testing.T) {
	assert := assert.New(t)

	c := NewCircularFloat(4)
	for _, v := range []float64{1.0, 3.0, 10.0, 20.0} {
		c.Add(v)
	}

	older, newer, ok := c.HalfMeans()
	assert.True(ok)
	assert.Equal(2.0, older)
	assert.Equal(15.0, newer)

	// Wrap: oldest values fall out of the window
	c.Add(30.0)
	c.Add(50.0)

	older, newer, ok = c.HalfMeans()
	assert.True(ok)
	assert.Equal(15.0, older)
	assert.Equal(40.0, newer)
	assert.Equal(int64(6), c.TotalSeen)
}

// Odd sizes round down so the halves stay equal
func TestCircularOddSize(t *testing.T) {
	assert := assert.New(t)

	c := NewCircularFloat(5)
	assert.Equal(4, c.BufSize)
}
