package buffer

// CircularFloat is a fixed-size window over a stream of float64 values
// with mean summaries over the older and newer halves of the window. Used
// to watch a sampler's log-posterior trace for gross non-stationarity
// without holding the whole trace.
type CircularFloat struct {
	buffer    []float64 // actual storage
	pos       int       // current write position
	BufSize   int       // fixed number of values maintained in memory
	Count     int       // values currently in memory, always <= BufSize
	TotalSeen int64     // total number of times Add has been called
}

// NewCircularFloat creates a window of totalSize values. An odd totalSize
// is rounded down to keep the halves equal.
func NewCircularFloat(totalSize int) *CircularFloat {
	half := totalSize / 2
	total := half + half

	return &CircularFloat{
		buffer:  make([]float64, total),
		BufSize: total,
	}
}

// Add appends a value, overwriting the oldest entry once full.
func (c *CircularFloat) Add(v float64) {
	c.TotalSeen++

	c.buffer[c.pos] = v
	c.pos = (c.pos + 1) % c.BufSize

	if c.Count < c.BufSize {
		c.Count++
	}
}

// Full is true once the window has wrapped at least once.
func (c *CircularFloat) Full() bool {
	return c.Count >= c.BufSize
}

// HalfMeans returns the mean of the older half and of the newer half of
// the window. Not valid (ok false) until the window is full.
func (c *CircularFloat) HalfMeans() (older, newer float64, ok bool) {
	if !c.Full() {
		return 0, 0, false
	}

	half := c.BufSize / 2
	at := c.pos // oldest entry is the one about to be overwritten
	for i := 0; i < half; i++ {
		older += c.buffer[at]
		at = (at + 1) % c.BufSize
	}
	for i := 0; i < half; i++ {
		newer += c.buffer[at]
		at = (at + 1) % c.BufSize
	}

	return older / float64(half), newer / float64(half), true
}
