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

/*
Package nci implements the adapter glue between an NCI (NFC Controller
Interface) protocol stack and a higher-level NFC daemon framework.

The adapter translates NCI RF-discovery state transitions and
interface-activation notifications into the framework's object model
(tags, peers, card-emulation hosts), keeps a physical NFC endpoint
alive across brief RF losses, and marshals application data through the
NCI data path with the framing rules of the active RF interface.

The two external collaborators are expressed as interfaces:

  - Core is the NCI stack below the adapter. It owns the RF discovery
    state machine, NCI message framing and HAL I/O, and exposes the
    current/next RF state, interface activation notifications, a data
    send primitive and parameter access.
  - Framework is the NFC daemon layer above the adapter. It owns the
    tag, peer and host objects the adapter asks it to create, and
    receives mode-change and parameter-change notifications.

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-nci"
	    "github.com/ZaparooProject/go-nci/eventloop"
	)

	loop := eventloop.New()

	adapter, err := nci.New(core, framework, loop)
	if err != nil {
	    log.Fatal(err)
	}
	defer adapter.Close()

	adapter.SetPowered(true)
	adapter.SubmitModeRequest(nci.OperatingModeReaderWriter)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    log.Fatal(err)
	}

Endpoint Lifecycle:

When the NCI core activates an RF interface, the adapter decides what
kind of remote endpoint it is looking at (a tag, a peer-to-peer
initiator or target, or an external reader addressing the local
card-emulation host) and asks the Framework to create the matching
object. The adapter then keeps that object alive across transient RF
deactivations: for tags, by running periodic presence checks and by
matching re-activations against the stored interface snapshot; for
card emulation, by locking the listen technology and waiting for the
external reader to come back within the reactivation window.

Thread Safety:

Adapter and Target are NOT thread-safe. All methods, as well as every
callback delivered by the Core, must run on a single goroutine. The
Scheduler supplied to New is used for all deferred work, so running the
adapter on an eventloop.Loop and delivering Core callbacks through
Loop.Post satisfies the contract. For tests, any single-threaded fake
scheduler will do.
*/
package nci
