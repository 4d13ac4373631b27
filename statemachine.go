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

package nci

// adapterState is the internal state of the adapter state machine
type adapterState int

// Internal adapter states.
//
//	              Poll side                         Listen side
//	              ---------                         -----------
//
//	                              +------+
//	        /---------+---------> | IDLE | <------------------------------\
//	        |         |           +------+                     card       |
//	        |         |            |    ^                    emulation ---|--v
//	        |         |            |    |                    (ISO-DEP)    |  |
//	        |         |            |    |     Does the          /         |  |
//	        |         |            | Unknown  interface ---- yes          |  |
//	        |   Deactivation       |  object  info match?       \         |  |
//	        |         |            v    |    /       |        Anything    |  |
//	        |         |      Activation |   no    Activation    else      |  |
//	        |         |        ^    \   /  /         ^           |        |  |
//	        |         |       /      \ /  /          |           v        |  |
//	        |  +-------------+      Object        +----------------+      |  |
//	        |  | HAVE_TARGET | <-- detection ---> | HAVE_INITIATOR |      |  |
//	        |  +-------------+        ^           +----------------+      |  |
//	        |         |     ^         |                   |               |  |
//	        |         |      \        |                   v               |  |
//	        |         |       \       |              Deactivation         |  |
//	        |  framework-      |      |                /      \           |  |
//	        |  initiated       |      |               /        \          |  |
//	        |  reactivation    |      |             Card       Anything --+  |
//	        |         |        |      |           emulation      else    /   |
//	  framework-      |        |      |           (ISO-DEP)             /    |
//	  initiated       |        |      |               |          Timeout     |
//	  deactivation    |        |      |               |             ^        |
//	        ^         |        |      |               v             |        |
//	        |         v        |      |            +-----------------+       |
//	  +---------------------+  |      |            | REACTIVATING_CE |       |
//	  | REACTIVATING_TARGET |  ^      |            +-----------------+       |
//	  +---------------------+  |      |              |              ^        |
//	             |            /       |              v              |        |
//	        Activation       /        ^         Activation          |        |
//	             |         yes       / \             /              |        |
//	             |         /        /   no          /          Deactivation  |
//	           Does the   /        /      \    Does the             |        |
//	           interface -------- no      interface --- Activation  |        |
//	           info match?                info match?       ^       |        |
//	                                             |          |       |        |
//	                                             |     +----------------+    |
//	                                            yes--->| REACTIVATED_CE |<---/
//	                                                   +----------------+
const (
	adapterIdle adapterState = iota
	adapterHaveTarget
	adapterHaveInitiator
	adapterReactivatingTarget
	adapterReactivatingCE
	adapterReactivatedCE
)

// String returns the state name
func (s adapterState) String() string {
	switch s {
	case adapterIdle:
		return "IDLE"
	case adapterHaveTarget:
		return "HAVE_TARGET"
	case adapterHaveInitiator:
		return "HAVE_INITIATOR"
	case adapterReactivatingTarget:
		return "REACTIVATING_TARGET"
	case adapterReactivatingCE:
		return "REACTIVATING_CE"
	case adapterReactivatedCE:
		return "REACTIVATED_CE"
	default:
		return "?"
	}
}

// smInput is an input to the adapter state machine
type smInput int

const (
	// inputActMatch is an activation whose interface info matches the
	// stored snapshot
	inputActMatch smInput = iota

	// inputActMismatch is an activation for a different endpoint (or
	// with no snapshot to compare against)
	inputActMismatch

	// inputDeactivate is a deactivation derived from the NCI state
	// transitions
	inputDeactivate

	// inputCETimeout is the expiry of the card-emulation reactivation
	// window
	inputCETimeout
)

// smAction is the work attached to a state machine transition
type smAction int

const (
	actionNone smAction = iota

	// actionDropTarget drops the poll side endpoint; object detection
	// then runs on the triggering activation
	actionDropTarget

	// actionDropInitiator drops the listen side endpoint; object
	// detection then runs on the triggering activation
	actionDropInitiator

	// actionDropAll drops whichever endpoint exists
	actionDropAll

	// actionTargetReactivated completes a deliberate target
	// reactivation
	actionTargetReactivated

	// actionCESpontaneous handles a matching re-activation while the
	// initiator was never deactivated: a live host is reactivated, a
	// bare initiator is merely kept
	actionCESpontaneous

	// actionCEReactivated completes a card-emulation reactivation
	actionCEReactivated

	// actionCEKeepAlive re-notifies an already reactivated
	// card-emulation initiator
	actionCEKeepAlive

	// actionCEDeactivated handles a deactivation while an initiator is
	// present: with a live host it opens the reactivation window and
	// locks the listen technology, otherwise everything is dropped
	actionCEDeactivated

	// actionCERearm re-opens the reactivation window
	actionCERearm
)

// smTransition is one cell of the adapter transition table
type smTransition struct {
	next   adapterState
	action smAction
}

// smKey addresses a cell of the adapter transition table
type smKey struct {
	state adapterState
	input smInput
}

// adapterTransitions is the adapter state machine as data. Cells
// absent from the table leave the state unchanged and do nothing.
// The next field records the settled state of the transition; the
// composite actions (actionCESpontaneous, actionCEDeactivated) refine
// it based on whether a card-emulation host is live.
var adapterTransitions = map[smKey]smTransition{
	{adapterIdle, inputActMatch}:    {adapterIdle, actionNone},
	{adapterIdle, inputActMismatch}: {adapterIdle, actionNone},
	{adapterIdle, inputDeactivate}:  {adapterIdle, actionDropAll},

	{adapterHaveTarget, inputActMatch}:    {adapterIdle, actionDropTarget},
	{adapterHaveTarget, inputActMismatch}: {adapterIdle, actionDropTarget},
	{adapterHaveTarget, inputDeactivate}:  {adapterIdle, actionDropAll},

	{adapterHaveInitiator, inputActMatch}:    {adapterHaveInitiator, actionCESpontaneous},
	{adapterHaveInitiator, inputActMismatch}: {adapterIdle, actionDropInitiator},
	{adapterHaveInitiator, inputDeactivate}:  {adapterHaveInitiator, actionCEDeactivated},

	{adapterReactivatingTarget, inputActMatch}:    {adapterHaveTarget, actionTargetReactivated},
	{adapterReactivatingTarget, inputActMismatch}: {adapterIdle, actionDropTarget},

	{adapterReactivatingCE, inputActMatch}:    {adapterReactivatedCE, actionCEReactivated},
	{adapterReactivatingCE, inputActMismatch}: {adapterIdle, actionDropInitiator},
	// A deactivation here is most likely the reset that locks the
	// card-emulation technology; stay put.
	{adapterReactivatingCE, inputCETimeout}: {adapterIdle, actionDropAll},

	{adapterReactivatedCE, inputActMatch}:    {adapterReactivatedCE, actionCEKeepAlive},
	{adapterReactivatedCE, inputActMismatch}: {adapterIdle, actionDropInitiator},
	{adapterReactivatedCE, inputDeactivate}:  {adapterReactivatingCE, actionCERearm},
}
