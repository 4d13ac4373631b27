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

package nci_test

import (
	"testing"

	nci "github.com/ZaparooProject/go-nci"
	"github.com/ZaparooProject/go-nci/internal/nfctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresence_T4ProbeIsEmptyFrame(t *testing.T) {
	t.Parallel()
	_, core, sched := activeT4ATarget(t)

	sched.Advance(nci.DefaultPresenceCheckPeriod)
	probe := core.LastSend()
	require.NotNil(t, probe)
	assert.Equal(t, nci.StaticRFConnID, probe.ConnID)
	assert.Empty(t, probe.Payload)
}

func TestPresence_SuccessKeepsProbing(t *testing.T) {
	t.Parallel()
	adapter, core, sched := activeT4AAdapter(t)

	sched.Advance(nci.DefaultPresenceCheckPeriod)
	probe := core.LastSend()
	require.NotNil(t, probe)

	// The tag answers the empty frame: probe succeeds
	core.CompleteSend(probe.Handle, true)
	core.InjectData(nci.StaticRFConnID, []byte{0x90, 0x00})
	assert.NotNil(t, adapter.Target())

	// The next tick sends another probe
	sched.Advance(nci.DefaultPresenceCheckPeriod)
	assert.Len(t, core.Sends, 2)
	assert.True(t, sched.PeriodicArmed(nci.DefaultPresenceCheckPeriod))
}

func TestPresence_SkippedWhileSequenceForbids(t *testing.T) {
	t.Parallel()
	target, core, sched := activeT4ATarget(t)

	target.Sequence = nfctest.FlagSequence(0)
	sched.Advance(4 * nci.DefaultPresenceCheckPeriod)
	assert.Empty(t, core.Sends)

	// Allowing presence checks again resumes probing
	target.Sequence = nfctest.FlagSequence(nci.SequenceFlagAllowPresenceCheck)
	sched.Advance(nci.DefaultPresenceCheckPeriod)
	assert.Len(t, core.Sends, 1)
}

func TestPresence_SkippedWhileTransmitBusy(t *testing.T) {
	t.Parallel()
	target, core, sched := activeT4ATarget(t)

	_, err := target.Transmit([]byte{0x00, 0xA4}, nil, nil)
	require.NoError(t, err)
	require.Len(t, core.Sends, 1)

	sched.Advance(nci.DefaultPresenceCheckPeriod)
	assert.Len(t, core.Sends, 1)
}

func TestPresence_StartFailureReturnsToDiscovery(t *testing.T) {
	t.Parallel()
	adapter, core, sched := activeT4AAdapter(t)

	core.FailSends = true
	sched.Advance(nci.DefaultPresenceCheckPeriod)

	assert.False(t, sched.PeriodicArmed(nci.DefaultPresenceCheckPeriod))
	state, ok := core.LastStateRequest()
	require.True(t, ok)
	assert.Equal(t, nci.RFStateDiscovery, state)
	// The endpoint itself is not dropped by a failure to start
	assert.NotNil(t, adapter.Target())
}

func TestPresence_NotArmedForNfcDep(t *testing.T) {
	t.Parallel()
	adapter, core, _, sched := newTestAdapter(t)
	adapter.SetPowered(true)

	activatePoll(core, nfctest.NfcDepPollActivation(nci.ModePassivePollF))
	require.NotNil(t, adapter.Target())
	assert.False(t, sched.PeriodicArmed(nci.DefaultPresenceCheckPeriod))
}

// activeT4AAdapter is activeT4ATarget returning the adapter instead
// of the target
func activeT4AAdapter(t *testing.T) (*nci.Adapter, *nfctest.SimCore, *nfctest.ManualScheduler) {
	t.Helper()
	adapter, core, fw, sched := newTestAdapter(t)
	adapter.SetPowered(true)
	activatePoll(core, nfctest.T4AActivation([]byte{0x04, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}))
	require.NotNil(t, fw.LastTag())
	return adapter, core, sched
}
