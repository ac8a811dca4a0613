// Package pool runs accepted connections on a fixed set of workers.
package pool

import (
	"errors"
	"net"
	"sync"

	"github.com/rs/zerolog"
)

var ErrPoolClosed = errors.New("pool closed")

type Handler func(conn net.Conn)

// Pool is a fixed number of long-lived workers reading from one FIFO queue of
// connections. The queue is unbounded: when every worker is busy, Submit
// still succeeds and the connection waits its turn.
type Pool struct {
	handle Handler
	log    zerolog.Logger
	size   int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []net.Conn
	closed bool
	wg     sync.WaitGroup
}

// New starts size workers. A size below 1 starts one worker.
func New(size int, handle Handler, log zerolog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		handle: handle,
		log:    log,
		size:   size,
	}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(size)
	for id := 0; id < size; id++ {
		go p.worker(id)
	}
	return p
}

func (p *Pool) Size() int {
	return p.size
}

// Pending returns the number of queued connections no worker has picked up.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Pool) Submit(conn net.Conn) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.queue = append(p.queue, conn)
	p.cond.Signal()
	return nil
}

// Close stops new submissions, lets the workers drain what is already queued
// and waits for them to exit.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) next() (net.Conn, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}
	conn := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return conn, true
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		conn, ok := p.next()
		if !ok {
			p.log.Debug().Int("worker", id).Msg("worker stopped")
			return
		}
		p.run(id, conn)
	}
}

func (p *Pool) run(id int, conn net.Conn) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Int("worker", id).Interface("panic", r).Msg("connection handler panicked")
			conn.Close()
		}
	}()
	p.handle(conn)
}
