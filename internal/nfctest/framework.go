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
	"sync"

	nci "github.com/ZaparooProject/go-nci"
)

// WeakRef is a droppable implementation of nci.Ref. Drop simulates the
// framework destroying the referent.
type WeakRef[T any] struct {
	mu    sync.Mutex
	obj   T
	alive bool
}

// NewWeakRef wraps an object in a live weak reference
func NewWeakRef[T any](obj T) *WeakRef[T] {
	return &WeakRef[T]{obj: obj, alive: true}
}

// Get implements nci.Ref
func (r *WeakRef[T]) Get() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.alive {
		var zero T
		return zero, false
	}
	return r.obj, true
}

// Drop simulates destruction of the referent
func (r *WeakRef[T]) Drop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alive = false
	var zero T
	r.obj = zero
}

// NamedObject is the trivial framework object used for tags, peers and
// hosts
type NamedObject struct {
	ObjectName string
}

// Name implements the framework object interfaces
func (o *NamedObject) Name() string { return o.ObjectName }

// TagCall records one tag factory invocation
type TagCall struct {
	Target *nci.Target
	PollA  *nci.ParamPollA
	PollB  *nci.ParamPollB
	IsoA   *nci.ParamIsoDepPollA
	IsoB   *nci.ParamIsoDepPollB
	Poll   *nci.ParamPoll
	Ref    *WeakRef[nci.Tag]
	Kind   string
}

// PeerCall records one peer factory invocation
type PeerCall struct {
	Target    *nci.Target
	Initiator *nci.Initiator
	PollA     *nci.ParamPollA
	PollF     *nci.ParamPollF
	ListenF   *nci.ParamListenF
	DepInit   *nci.ParamNfcDepInitiator
	DepTarget *nci.ParamNfcDepTarget
	Ref       *WeakRef[nci.Peer]
	Kind      string
}

// HostCall records one host factory invocation
type HostCall struct {
	Initiator *nci.Initiator
	Ref       *WeakRef[nci.Host]
}

// ModeChange records one mode notification
type ModeChange struct {
	Mode      nci.OperatingMode
	Confirmed bool
}

// RecordingFramework implements nci.Framework. By default every
// factory accepts and returns a live weak reference; the Reject*
// fields make a factory family decline instead.
type RecordingFramework struct {
	Tags         []*TagCall
	Peers        []*PeerCall
	Hosts        []*HostCall
	ModeChanges  []ModeChange
	ParamChanges []nci.AdapterParam

	RejectKnownTags bool
	RejectOtherTags bool
	RejectPeers     bool
	RejectHosts     bool

	nextName int
}

// NewRecordingFramework creates a framework that accepts everything
func NewRecordingFramework() *RecordingFramework {
	return &RecordingFramework{}
}

func (f *RecordingFramework) name(prefix string) string {
	f.nextName++
	return prefix + string(rune('0'+f.nextName%10))
}

func (f *RecordingFramework) addTag(call *TagCall, reject bool) nci.Ref[nci.Tag] {
	f.Tags = append(f.Tags, call)
	if reject {
		return nil
	}
	call.Ref = NewWeakRef[nci.Tag](&NamedObject{ObjectName: f.name("tag")})
	return call.Ref
}

// AddTagT2 implements nci.Framework
func (f *RecordingFramework) AddTagT2(t *nci.Target, a *nci.ParamPollA) nci.Ref[nci.Tag] {
	return f.addTag(&TagCall{Kind: "t2", Target: t, PollA: a}, f.RejectKnownTags)
}

// AddTagT4A implements nci.Framework
func (f *RecordingFramework) AddTagT4A(t *nci.Target, a *nci.ParamPollA, ia *nci.ParamIsoDepPollA) nci.Ref[nci.Tag] {
	return f.addTag(&TagCall{Kind: "t4a", Target: t, PollA: a, IsoA: ia}, f.RejectKnownTags)
}

// AddTagT4B implements nci.Framework
func (f *RecordingFramework) AddTagT4B(t *nci.Target, b *nci.ParamPollB, ib *nci.ParamIsoDepPollB) nci.Ref[nci.Tag] {
	return f.addTag(&TagCall{Kind: "t4b", Target: t, PollB: b, IsoB: ib}, f.RejectKnownTags)
}

// AddOtherTag implements nci.Framework
func (f *RecordingFramework) AddOtherTag(t *nci.Target, p *nci.ParamPoll) nci.Ref[nci.Tag] {
	return f.addTag(&TagCall{Kind: "other", Target: t, Poll: p}, f.RejectOtherTags)
}

func (f *RecordingFramework) addPeer(call *PeerCall) nci.Ref[nci.Peer] {
	f.Peers = append(f.Peers, call)
	if f.RejectPeers {
		return nil
	}
	call.Ref = NewWeakRef[nci.Peer](&NamedObject{ObjectName: f.name("peer")})
	return call.Ref
}

// AddPeerInitiatorA implements nci.Framework
func (f *RecordingFramework) AddPeerInitiatorA(t *nci.Target, a *nci.ParamPollA, d *nci.ParamNfcDepInitiator) nci.Ref[nci.Peer] {
	return f.addPeer(&PeerCall{Kind: "initiator-a", Target: t, PollA: a, DepInit: d})
}

// AddPeerInitiatorF implements nci.Framework
func (f *RecordingFramework) AddPeerInitiatorF(t *nci.Target, pf *nci.ParamPollF, d *nci.ParamNfcDepInitiator) nci.Ref[nci.Peer] {
	return f.addPeer(&PeerCall{Kind: "initiator-f", Target: t, PollF: pf, DepInit: d})
}

// AddPeerTargetA implements nci.Framework
func (f *RecordingFramework) AddPeerTargetA(i *nci.Initiator, a *nci.ParamPollA, d *nci.ParamNfcDepTarget) nci.Ref[nci.Peer] {
	return f.addPeer(&PeerCall{Kind: "target-a", Initiator: i, PollA: a, DepTarget: d})
}

// AddPeerTargetF implements nci.Framework
func (f *RecordingFramework) AddPeerTargetF(i *nci.Initiator, lf *nci.ParamListenF, d *nci.ParamNfcDepTarget) nci.Ref[nci.Peer] {
	return f.addPeer(&PeerCall{Kind: "target-f", Initiator: i, ListenF: lf, DepTarget: d})
}

// AddHost implements nci.Framework
func (f *RecordingFramework) AddHost(i *nci.Initiator) nci.Ref[nci.Host] {
	call := &HostCall{Initiator: i}
	f.Hosts = append(f.Hosts, call)
	if f.RejectHosts {
		return nil
	}
	call.Ref = NewWeakRef[nci.Host](&NamedObject{ObjectName: f.name("host")})
	return call.Ref
}

// ModeChanged implements nci.Framework
func (f *RecordingFramework) ModeChanged(mode nci.OperatingMode, confirmed bool) {
	f.ModeChanges = append(f.ModeChanges, ModeChange{Mode: mode, Confirmed: confirmed})
}

// ParamChanged implements nci.Framework
func (f *RecordingFramework) ParamChanged(id nci.AdapterParam) {
	f.ParamChanges = append(f.ParamChanges, id)
}

// LastTag returns the most recent tag factory call, or nil
func (f *RecordingFramework) LastTag() *TagCall {
	if len(f.Tags) == 0 {
		return nil
	}
	return f.Tags[len(f.Tags)-1]
}

// LastPeer returns the most recent peer factory call, or nil
func (f *RecordingFramework) LastPeer() *PeerCall {
	if len(f.Peers) == 0 {
		return nil
	}
	return f.Peers[len(f.Peers)-1]
}

// LastHost returns the most recent host factory call, or nil
func (f *RecordingFramework) LastHost() *HostCall {
	if len(f.Hosts) == 0 {
		return nil
	}
	return f.Hosts[len(f.Hosts)-1]
}

// FlagSequence is a fixed-flag implementation of nci.Sequence
type FlagSequence nci.SequenceFlags

// Flags implements nci.Sequence
func (s FlagSequence) Flags() nci.SequenceFlags { return nci.SequenceFlags(s) }
