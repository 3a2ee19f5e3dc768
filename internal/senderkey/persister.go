package senderkey

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/dtroode/senderkeys/internal/model"
)

type job struct {
	ctx context.Context
	run func(ctx context.Context)
}

// persister runs durable and remote writes off the caller's path. An identity
// always maps to the same lane and lanes are FIFO, so writes for one identity
// apply in submission order while different identities run in parallel.
type persister struct {
	mu      sync.RWMutex
	closed  bool
	lanes   []*lane
	timeout time.Duration
	wg      sync.WaitGroup
}

type lane struct {
	mu       sync.Mutex
	queue    []job
	stopping bool
	wake     chan struct{}
}

func newPersister(lanes int, timeout time.Duration) *persister {
	if lanes < 1 {
		lanes = 1
	}
	p := &persister{
		lanes:   make([]*lane, lanes),
		timeout: timeout,
	}
	for i := range p.lanes {
		l := &lane{wake: make(chan struct{}, 1)}
		p.lanes[i] = l
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			l.loop(p.timeout)
		}()
	}
	return p
}

// submit queues fn for id. It never blocks on I/O and returns false once the
// persister is closed.
func (p *persister) submit(ctx context.Context, id model.SenderKeyIdentity, fn func(ctx context.Context)) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}
	p.laneFor(id).push(job{ctx: context.WithoutCancel(ctx), run: fn})
	return true
}

// close stops accepting work and waits until queued jobs finish or ctx ends.
func (p *persister) close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		for _, l := range p.lanes {
			l.stop()
		}
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pending sender key writes not flushed: %w", ctx.Err())
	}
}

func (p *persister) laneFor(id model.SenderKeyIdentity) *lane {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id.String()))
	return p.lanes[h.Sum32()%uint32(len(p.lanes))]
}

func (l *lane) push(j job) {
	l.mu.Lock()
	l.queue = append(l.queue, j)
	l.mu.Unlock()
	l.signal()
}

func (l *lane) stop() {
	l.mu.Lock()
	l.stopping = true
	l.mu.Unlock()
	l.signal()
}

func (l *lane) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *lane) loop(timeout time.Duration) {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			stopping := l.stopping
			l.mu.Unlock()
			if stopping {
				return
			}
			<-l.wake
			continue
		}
		j := l.queue[0]
		l.queue[0] = job{}
		l.queue = l.queue[1:]
		l.mu.Unlock()

		ctx, cancel := context.WithTimeout(j.ctx, timeout)
		j.run(ctx)
		cancel()
	}
}
