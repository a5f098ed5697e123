package weakprng

// CacheSize is the number of outputs V8 generates per refill of its
// Math.random cache.
const CacheSize = 64

// FloatFunc returns a double uniformly distributed in [0,1). It stands for the
// weak generator under attack.
type FloatFunc func() float64

// Source reproduces V8's Math.random: a xorshift128+ generator whose outputs
// are produced CacheSize at a time and served last-generated-first. Each
// consumer therefore sees every batch in reverse generation order.
//
// A Source is not safe for concurrent use.
type Source struct {
	state State
	cache [CacheSize]float64
	pos   int // Number of unserved outputs left in cache
}

// NewSource returns a Source starting from state. The first call to Float64
// refills the cache.
func NewSource(state State) *Source {
	return &Source{state: state}
}

// refill generates the next CacheSize outputs in generation order.
func (s *Source) refill() {
	for i := range s.cache {
		s.state = s.state.Forward()
		s.cache[i] = s.state.Output()
	}
	s.pos = CacheSize
}

// Float64 returns the next output in [0,1).
func (s *Source) Float64() float64 {
	if s.pos == 0 {
		s.refill()
	}
	s.pos--
	return s.cache[s.pos]
}

// State returns the generator state after the most recent refill.
func (s *Source) State() State {
	return s.state
}

// Buffered returns the number of outputs left before the next refill.
func (s *Source) Buffered() int {
	return s.pos
}
