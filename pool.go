package mdpublish

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps publishers, each of which may own a browser.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("publisher pool is closed")

// PublisherFactory builds one pooled publisher.
type PublisherFactory func() (*Publisher, error)

// PublisherPool hands out publishers to parallel workers. Publishers are
// created lazily on first acquire; a publisher is used by one worker at a
// time, so no rendered tree is ever shared.
type PublisherPool struct {
	size       int
	factory    PublisherFactory
	publishers []*Publisher
	sem        chan *Publisher
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewPublisherPool creates a pool with capacity for n publishers built by
// factory.
func NewPublisherPool(n int, factory PublisherFactory) *PublisherPool {
	if n < 1 {
		n = 1
	}
	return &PublisherPool{
		size:       n,
		factory:    factory,
		publishers: make([]*Publisher, 0, n),
		sem:        make(chan *Publisher, n),
	}
}

// Acquire gets a publisher from the pool, creating one if capacity allows.
// It blocks until one is released or ctx is done.
func (p *PublisherPool) Acquire(ctx context.Context) (*Publisher, error) {
	select {
	case pub, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return pub, nil
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

		// Build outside the lock; NewPublisher loads templates.
		pub, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.publishers = append(p.publishers, pub)
		p.mu.Unlock()
		return pub, nil
	}
	p.mu.Unlock()

	select {
	case pub, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return pub, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a publisher to the pool. Releasing after Close is a no-op.
func (p *PublisherPool) Release(pub *Publisher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || pub == nil {
		return
	}
	// The channel has room for every created publisher, so this never blocks.
	p.sem <- pub
}

// Close releases the clipboard resources of every created publisher.
func (p *PublisherPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	publishers := p.publishers
	p.mu.Unlock()

	var errs []error
	for _, pub := range publishers {
		if err := pub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *PublisherPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted for container quotas by automaxprocs in the CLI.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
