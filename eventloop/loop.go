// go-nci
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-nci.
//
// go-nci is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-nci is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-nci; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package eventloop provides the single-goroutine scheduler the
// adapter's concurrency model is built on. All work posted to a Loop,
// including timer callbacks, runs on the goroutine that called Run, in
// FIFO order for Post.
package eventloop

import (
	"context"
	"sync"
	"time"

	nci "github.com/ZaparooProject/go-nci"
)

// Loop is a single-goroutine implementation of nci.Scheduler
type Loop struct {
	wake  chan struct{}
	mu    sync.Mutex
	queue []func()
}

// New creates a Loop. Nothing runs until Run is called.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Post queues fn to run on the loop goroutine. Safe to call from any
// goroutine, including from within the loop.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// After runs fn once on the loop goroutine after the delay
func (l *Loop) After(d time.Duration, fn func()) nci.Timer {
	t := &loopTimer{loop: l, fn: fn, oneShot: true}
	t.timer = time.AfterFunc(d, t.fire)
	return t
}

// Every runs fn on the loop goroutine repeatedly with the given period
// until the timer is stopped
func (l *Loop) Every(d time.Duration, fn func()) nci.Timer {
	t := &loopTimer{loop: l, fn: fn, period: d}
	t.timer = time.AfterFunc(d, t.fire)
	return t
}

// Run processes posted work on the calling goroutine until the context
// is cancelled. Work already queued when the context ends is dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.queue = nil
		l.mu.Unlock()
	}()

	for {
		for {
			l.mu.Lock()
			if len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			fn := l.queue[0]
			l.queue = l.queue[1:]
			l.mu.Unlock()

			fn()

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// loopTimer delivers timer callbacks through the loop queue. The
// stopped flag is checked on the loop goroutine so that Stop wins even
// when the underlying timer has already fired and queued the callback.
type loopTimer struct {
	loop    *Loop
	timer   *time.Timer
	fn      func()
	period  time.Duration
	mu      sync.Mutex
	stopped bool
	oneShot bool
}

// fire runs off the loop goroutine; it only forwards to the queue
func (t *loopTimer) fire() {
	t.loop.Post(t.run)
}

// run executes the callback on the loop goroutine
func (t *loopTimer) run() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if t.oneShot {
		t.stopped = true
	}
	t.mu.Unlock()

	t.fn()

	if !t.oneShot {
		t.mu.Lock()
		if !t.stopped {
			t.timer.Reset(t.period)
		}
		t.mu.Unlock()
	}
}

// Stop cancels the timer. Stopping an already-stopped timer is a
// no-op.
func (t *loopTimer) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.timer.Stop()
}
