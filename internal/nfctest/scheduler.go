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

package nfctest

import (
	"time"

	nci "github.com/ZaparooProject/go-nci"
)

// ManualScheduler is a deterministic implementation of nci.Scheduler
// driven by an explicit clock. Posted work runs when RunPosted or
// Advance is called; timers fire as Advance moves the clock past their
// deadlines. Everything runs on the calling goroutine.
type ManualScheduler struct {
	now    time.Duration
	posted []func()
	timers []*manualTimer
}

// NewManualScheduler creates a scheduler with the clock at zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualTimer struct {
	sched    *ManualScheduler
	fn       func()
	deadline time.Duration
	period   time.Duration
	stopped  bool
}

// Stop implements nci.Timer
func (t *manualTimer) Stop() {
	t.stopped = true
}

// Post implements nci.Scheduler
func (s *ManualScheduler) Post(fn func()) {
	if fn != nil {
		s.posted = append(s.posted, fn)
	}
}

// After implements nci.Scheduler
func (s *ManualScheduler) After(d time.Duration, fn func()) nci.Timer {
	t := &manualTimer{sched: s, fn: fn, deadline: s.now + d}
	s.timers = append(s.timers, t)
	return t
}

// Every implements nci.Scheduler
func (s *ManualScheduler) Every(d time.Duration, fn func()) nci.Timer {
	t := &manualTimer{sched: s, fn: fn, deadline: s.now + d, period: d}
	s.timers = append(s.timers, t)
	return t
}

// RunPosted drains the posted-work queue, including work posted while
// draining. Returns the number of items run.
func (s *ManualScheduler) RunPosted() int {
	count := 0
	for len(s.posted) > 0 {
		fn := s.posted[0]
		s.posted = s.posted[1:]
		fn()
		count++
	}
	return count
}

// Advance moves the clock forward, firing due timers in deadline order
// and draining posted work after each
func (s *ManualScheduler) Advance(d time.Duration) {
	end := s.now + d
	s.RunPosted()
	for {
		var next *manualTimer
		for _, t := range s.timers {
			if !t.stopped && t.deadline <= end &&
				(next == nil || t.deadline < next.deadline) {
				next = t
			}
		}
		if next == nil {
			break
		}
		s.now = next.deadline
		if next.period > 0 {
			next.deadline = s.now + next.period
		} else {
			next.stopped = true
		}
		next.fn()
		s.RunPosted()
	}
	s.now = end
	s.prune()
}

// Now returns the manual clock
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// PeriodicArmed reports whether a repeating timer with the given
// period is armed
func (s *ManualScheduler) PeriodicArmed(period time.Duration) bool {
	for _, t := range s.timers {
		if !t.stopped && t.period == period {
			return true
		}
	}
	return false
}

// OneShotArmed reports whether any one-shot timer is pending
func (s *ManualScheduler) OneShotArmed() bool {
	for _, t := range s.timers {
		if !t.stopped && t.period == 0 {
			return true
		}
	}
	return false
}

// ArmedTimers returns the number of timers that have not been stopped
func (s *ManualScheduler) ArmedTimers() int {
	count := 0
	for _, t := range s.timers {
		if !t.stopped {
			count++
		}
	}
	return count
}

func (s *ManualScheduler) prune() {
	kept := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	s.timers = kept
}
