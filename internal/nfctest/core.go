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

// Package nfctest provides test doubles for the adapter's two
// collaborators and its scheduler: a scriptable NCI core, a recording
// framework, and a manual-clock scheduler. They are shared between the
// package tests and the cmd/ncitest exerciser.
package nfctest

import (
	nci "github.com/ZaparooProject/go-nci"
)

// SentData records one data send issued to the core
type SentData struct {
	Done    func(ok bool)
	Payload []byte
	Handle  nci.SendHandle
	ConnID  uint8
}

// SetParamsCall records one Core.SetParams invocation
type SetParamsCall struct {
	Params []nci.CoreParam
	Reset  bool
}

type handlerEntry[T any] struct {
	fn T
	id int
}

// SimCore is a scriptable implementation of nci.Core. Tests drive it
// by setting RF states, injecting activations and data packets, and
// completing sends; everything the adapter asks of it is recorded.
type SimCore struct {
	// Recorded adapter requests
	StateRequests []nci.RFState
	OpModes       []nci.OpMode
	TechSets      []nci.Tech
	Sends         []*SentData
	Cancelled     []nci.SendHandle
	ParamsSet     []SetParamsCall

	// Params backs GetParam
	Params map[nci.CoreParamKey]nci.CoreParamValue

	// FailSends makes SendData return the zero handle
	FailSends bool

	// TechValue is what Tech returns
	TechValue nci.Tech

	current nci.RFState
	next    nci.RFState

	nextHandlerID   int
	currentChanged  []handlerEntry[func()]
	nextChanged     []handlerEntry[func()]
	intfActivated   []handlerEntry[func(*nci.IntfActivationNtf)]
	paramChanged    []handlerEntry[func(nci.CoreParamKey)]
	dataPacket      []handlerEntry[func(uint8, []byte)]
	nextSendHandle  nci.SendHandle
}

// NewSimCore creates a SimCore idling with all technologies supported
func NewSimCore() *SimCore {
	return &SimCore{
		TechValue: nci.TechAll,
		Params:    make(map[nci.CoreParamKey]nci.CoreParamValue),
	}
}

// CurrentState implements nci.Core
func (c *SimCore) CurrentState() nci.RFState { return c.current }

// NextState implements nci.Core
func (c *SimCore) NextState() nci.RFState { return c.next }

// SetState implements nci.Core by recording the request. The simulated
// state machine does not move on its own; use SetCurrentState and
// SetNextState to script transitions.
func (c *SimCore) SetState(state nci.RFState) {
	c.StateRequests = append(c.StateRequests, state)
}

// SetOpMode implements nci.Core
func (c *SimCore) SetOpMode(mode nci.OpMode) {
	c.OpModes = append(c.OpModes, mode)
}

// Tech implements nci.Core
func (c *SimCore) Tech() nci.Tech { return c.TechValue }

// SetTech implements nci.Core
func (c *SimCore) SetTech(tech nci.Tech) {
	c.TechSets = append(c.TechSets, tech)
}

// GetParam implements nci.Core
func (c *SimCore) GetParam(key nci.CoreParamKey) (nci.CoreParamValue, bool) {
	value, ok := c.Params[key]
	return value, ok
}

// SetParams implements nci.Core
func (c *SimCore) SetParams(params []nci.CoreParam, reset bool) {
	c.ParamsSet = append(c.ParamsSet, SetParamsCall{Params: params, Reset: reset})
	for _, p := range params {
		c.Params[p.Key] = p.Value
	}
}

// SendData implements nci.Core. The send stays pending until the test
// calls CompleteSend.
func (c *SimCore) SendData(connID uint8, payload []byte, sent func(ok bool)) nci.SendHandle {
	if c.FailSends {
		return 0
	}
	c.nextSendHandle++
	send := &SentData{
		Handle:  c.nextSendHandle,
		ConnID:  connID,
		Payload: append([]byte(nil), payload...),
		Done:    sent,
	}
	c.Sends = append(c.Sends, send)
	return send.Handle
}

// Cancel implements nci.Core
func (c *SimCore) Cancel(handle nci.SendHandle) {
	if handle != 0 {
		c.Cancelled = append(c.Cancelled, handle)
	}
}

func addHandler[T any](id *int, list *[]handlerEntry[T], fn T) func() {
	*id++
	entry := handlerEntry[T]{id: *id, fn: fn}
	*list = append(*list, entry)
	return func() {
		for i := range *list {
			if (*list)[i].id == entry.id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

// OnCurrentStateChanged implements nci.Core
func (c *SimCore) OnCurrentStateChanged(fn func()) func() {
	return addHandler(&c.nextHandlerID, &c.currentChanged, fn)
}

// OnNextStateChanged implements nci.Core
func (c *SimCore) OnNextStateChanged(fn func()) func() {
	return addHandler(&c.nextHandlerID, &c.nextChanged, fn)
}

// OnIntfActivated implements nci.Core
func (c *SimCore) OnIntfActivated(fn func(*nci.IntfActivationNtf)) func() {
	return addHandler(&c.nextHandlerID, &c.intfActivated, fn)
}

// OnParamChanged implements nci.Core
func (c *SimCore) OnParamChanged(fn func(nci.CoreParamKey)) func() {
	return addHandler(&c.nextHandlerID, &c.paramChanged, fn)
}

// OnDataPacket implements nci.Core
func (c *SimCore) OnDataPacket(fn func(uint8, []byte)) func() {
	return addHandler(&c.nextHandlerID, &c.dataPacket, fn)
}

// DataHandlerCount returns the number of registered data packet
// handlers; a detached target must have removed its own
func (c *SimCore) DataHandlerCount() int {
	return len(c.dataPacket)
}

// SetCurrentState moves the simulated current RF state and fires the
// handlers
func (c *SimCore) SetCurrentState(state nci.RFState) {
	c.current = state
	for _, h := range append([]handlerEntry[func()](nil), c.currentChanged...) {
		h.fn()
	}
}

// SetNextState moves the simulated next RF state and fires the
// handlers
func (c *SimCore) SetNextState(state nci.RFState) {
	c.next = state
	for _, h := range append([]handlerEntry[func()](nil), c.nextChanged...) {
		h.fn()
	}
}

// SetStates scripts a settled transition: next first, then current,
// the order the real core fires its events in
func (c *SimCore) SetStates(current, next nci.RFState) {
	c.SetNextState(next)
	c.SetCurrentState(current)
}

// SetStatesQuiet changes the simulated states without firing any
// handlers, for scripting mid-transition snapshots
func (c *SimCore) SetStatesQuiet(current, next nci.RFState) {
	c.current = current
	c.next = next
}

// Activate delivers an RF interface activation notification
func (c *SimCore) Activate(ntf *nci.IntfActivationNtf) {
	for _, h := range append([]handlerEntry[func(*nci.IntfActivationNtf)](nil), c.intfActivated...) {
		h.fn(ntf)
	}
}

// InjectData delivers an inbound data packet
func (c *SimCore) InjectData(connID uint8, payload []byte) {
	for _, h := range append([]handlerEntry[func(uint8, []byte)](nil), c.dataPacket...) {
		h.fn(connID, payload)
	}
}

// CompleteSend fires the completion callback of a pending send
func (c *SimCore) CompleteSend(handle nci.SendHandle, ok bool) {
	for _, send := range c.Sends {
		if send.Handle == handle && send.Done != nil {
			done := send.Done
			send.Done = nil
			done(ok)
			return
		}
	}
}

// FireParamChanged reports a core parameter change
func (c *SimCore) FireParamChanged(key nci.CoreParamKey) {
	for _, h := range append([]handlerEntry[func(nci.CoreParamKey)](nil), c.paramChanged...) {
		h.fn(key)
	}
}

// LastSend returns the most recent send, or nil
func (c *SimCore) LastSend() *SentData {
	if len(c.Sends) == 0 {
		return nil
	}
	return c.Sends[len(c.Sends)-1]
}

// LastStateRequest returns the most recent requested state, or idle
// when none was requested
func (c *SimCore) LastStateRequest() (nci.RFState, bool) {
	if len(c.StateRequests) == 0 {
		return nci.RFStateIdle, false
	}
	return c.StateRequests[len(c.StateRequests)-1], true
}

// LastTechSet returns the most recent technology restriction, or
// TechAll when none was pushed
func (c *SimCore) LastTechSet() (nci.Tech, bool) {
	if len(c.TechSets) == 0 {
		return nci.TechAll, false
	}
	return c.TechSets[len(c.TechSets)-1], true
}
