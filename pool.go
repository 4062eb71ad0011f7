package tex2html

import (
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent converters for batch runs.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for the rest of the process.
	cpuDivisor = 2
)

// ConverterPool manages a pool of Converter instances for parallel batch
// conversion. Converters are created lazily on first acquire.
type ConverterPool struct {
	size    int
	opts    []Option
	sem     chan *Converter
	mu      sync.Mutex
	created int
	closed  bool
}

// NewConverterPool creates a pool with capacity for n Converter instances,
// each configured with opts. Converters are created lazily when acquired.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < 1 {
		n = 1
	}

	return &ConverterPool{
		size: n,
		opts: opts,
		sem:  make(chan *Converter, n),
	}
}

// Acquire gets a converter from the pool, creating one if capacity allows.
// Blocks if all converters are in use.
func (p *ConverterPool) Acquire() (*Converter, error) {
	// Try to get an existing converter (non-blocking)
	select {
	case conv, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return conv, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		conv, err := NewConverter(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		return conv, nil
	}
	p.mu.Unlock()

	// At capacity; wait for a release.
	conv, ok := <-p.sem
	if !ok {
		return nil, ErrPoolClosed
	}
	return conv, nil
}

// Release returns a converter to the pool. The send happens under the
// mutex so a concurrent Close cannot close the channel in between; the
// channel is buffered to capacity, so the send never blocks.
func (p *ConverterPool) Release(conv *Converter) {
	if conv == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- conv
}

// Close marks the pool closed. Converters hold no external resources, so
// close only prevents further acquires.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.sem)
	return nil
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
