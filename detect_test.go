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

func TestDetect_PeerInitiator(t *testing.T) {
	t.Parallel()

	t.Run("PollA", func(t *testing.T) {
		t.Parallel()
		adapter, core, fw, _ := newTestAdapter(t)
		adapter.SetPowered(true)

		activatePoll(core, nfctest.NfcDepPollActivation(nci.ModePassivePollA))
		peer := fw.LastPeer()
		require.NotNil(t, peer)
		assert.Equal(t, "initiator-a", peer.Kind)
		require.NotNil(t, peer.PollA)
		assert.Equal(t, []byte{0x08, 0xAA, 0xBB, 0xCC}, peer.PollA.NFCID1)
		require.NotNil(t, peer.DepInit)
		assert.Equal(t, []byte{0x46, 0x66, 0x6D}, peer.DepInit.ATRResG)
		assert.Same(t, adapter.Target(), peer.Target)
		assert.Equal(t, nci.TagProtocolNfcDep, peer.Target.Protocol)
		// No tag factory ran for a peer
		assert.Empty(t, fw.Tags)
	})

	t.Run("PollF", func(t *testing.T) {
		t.Parallel()
		adapter, core, fw, _ := newTestAdapter(t)
		adapter.SetPowered(true)

		activatePoll(core, nfctest.NfcDepPollActivation(nci.ModePassivePollF))
		peer := fw.LastPeer()
		require.NotNil(t, peer)
		assert.Equal(t, "initiator-f", peer.Kind)
		require.NotNil(t, peer.PollF)
		assert.Equal(t, 212, peer.PollF.BitRate)
		assert.Equal(t, nci.TechnologyF, peer.Target.Technology)
		assert.NotNil(t, adapter.Target())
	})

	t.Run("RejectedFallsBackToOtherTag", func(t *testing.T) {
		t.Parallel()
		adapter, core, fw, _ := newTestAdapter(t)
		adapter.SetPowered(true)
		fw.RejectPeers = true

		activatePoll(core, nfctest.NfcDepPollActivation(nci.ModePassivePollA))
		require.NotNil(t, adapter.Target())
		tag := fw.LastTag()
		require.NotNil(t, tag)
		assert.Equal(t, "other", tag.Kind)
		require.NotNil(t, tag.Poll)
		assert.NotNil(t, tag.Poll.A)
	})
}

func TestDetect_KnownTags(t *testing.T) {
	t.Parallel()

	t.Run("T4B", func(t *testing.T) {
		t.Parallel()
		adapter, core, fw, _ := newTestAdapter(t)
		adapter.SetPowered(true)

		activatePoll(core, nfctest.T4BActivation([4]byte{1, 2, 3, 4}, []byte{0x11, 0x81, 0xC1}))
		tag := fw.LastTag()
		require.NotNil(t, tag)
		assert.Equal(t, "t4b", tag.Kind)
		require.NotNil(t, tag.PollB)
		assert.Equal(t, []byte{1, 2, 3, 4}, tag.PollB.NFCID0)
		require.NotNil(t, tag.IsoB)
		assert.Equal(t, byte(1), tag.IsoB.MBLI)
		assert.Equal(t, nci.TechnologyB, tag.Target.Technology)
		assert.Equal(t, nci.TagProtocolT4B, tag.Target.Protocol)
		assert.NotNil(t, adapter.Target())
	})

	t.Run("KnownTagRejectedFallsBack", func(t *testing.T) {
		t.Parallel()
		adapter, core, fw, _ := newTestAdapter(t)
		adapter.SetPowered(true)
		fw.RejectKnownTags = true

		activatePoll(core, nfctest.T2Activation([]byte{0x04, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}))
		require.NotNil(t, adapter.Target())
		require.Len(t, fw.Tags, 2)
		assert.Equal(t, "t2", fw.Tags[0].Kind)
		assert.Equal(t, "other", fw.Tags[1].Kind)
	})

	t.Run("T3OnFrameBecomesOtherTag", func(t *testing.T) {
		t.Parallel()
		adapter, core, fw, _ := newTestAdapter(t)
		adapter.SetPowered(true)

		ntf := &nci.IntfActivationNtf{
			RFIntf:   nci.RFInterfaceFrame,
			Protocol: nci.ProtocolT3T,
			Mode:     nci.ModePassivePollF,
			ModeParam: &nci.ModeParam{
				PollF: &nci.ModeParamPollF{BitRate: nci.BitRate212},
			},
			ModeParamBytes: []byte{0x01},
		}
		activatePoll(core, ntf)
		require.NotNil(t, adapter.Target())
		tag := fw.LastTag()
		require.NotNil(t, tag)
		assert.Equal(t, "other", tag.Kind)
		// Poll F has no minimal poll snapshot
		assert.Nil(t, tag.Poll)
		assert.Equal(t, nci.TagProtocolT3, tag.Target.Protocol)
	})
}

func TestDetect_ListenSide(t *testing.T) {
	t.Parallel()

	t.Run("PeerTargetA", func(t *testing.T) {
		t.Parallel()
		adapter, core, fw, _ := newTestAdapter(t)
		adapter.SetPowered(true)

		activateListen(core, nfctest.NfcDepListenActivation(nci.ModePassiveListenA))
		peer := fw.LastPeer()
		require.NotNil(t, peer)
		assert.Equal(t, "target-a", peer.Kind)
		assert.Nil(t, peer.PollA)
		require.NotNil(t, peer.DepTarget)
		assert.Equal(t, []byte{0x46, 0x66, 0x6D}, peer.DepTarget.ATRReqG)
		require.NotNil(t, adapter.Initiator())
		assert.Equal(t, nci.TechnologyA, adapter.Initiator().Technology)
		assert.Empty(t, fw.Hosts)
	})

	t.Run("PeerTargetF", func(t *testing.T) {
		t.Parallel()
		adapter, core, fw, _ := newTestAdapter(t)
		adapter.SetPowered(true)

		activateListen(core, nfctest.NfcDepListenActivation(nci.ModePassiveListenF))
		peer := fw.LastPeer()
		require.NotNil(t, peer)
		assert.Equal(t, "target-f", peer.Kind)
		require.NotNil(t, peer.ListenF)
		assert.Equal(t, []byte{0x01, 0xFE, 1, 2, 3, 4, 5, 6}, peer.ListenF.NFCID2)
		assert.Equal(t, nci.TechnologyF, adapter.Initiator().Technology)
	})

	t.Run("CardEmulationHost", func(t *testing.T) {
		t.Parallel()
		adapter, core, fw, _ := newTestAdapter(t)
		adapter.SetPowered(true)

		activateListen(core, nfctest.CEActivation(nci.ModePassiveListenB))
		host := fw.LastHost()
		require.NotNil(t, host)
		assert.Same(t, adapter.Initiator(), host.Initiator)
		assert.Equal(t, nci.TechnologyB, host.Initiator.Technology)
		assert.Empty(t, fw.Peers)
	})

	t.Run("HostRejected", func(t *testing.T) {
		t.Parallel()
		adapter, core, fw, _ := newTestAdapter(t)
		adapter.SetPowered(true)
		fw.RejectHosts = true

		activateListen(core, nfctest.CEActivation(nci.ModePassiveListenA))
		assert.Nil(t, adapter.Initiator())
		state, ok := core.LastStateRequest()
		require.True(t, ok)
		assert.Equal(t, nci.RFStateIdle, state)
	})
}

func TestDetect_TargetAndInitiatorExclusive(t *testing.T) {
	t.Parallel()
	adapter, core, _, _ := newTestAdapter(t)
	adapter.SetPowered(true)

	activatePoll(core, nfctest.T2Activation([]byte{0x04, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}))
	assert.NotNil(t, adapter.Target())
	assert.Nil(t, adapter.Initiator())

	// The tag leaves and an external reader selects us instead
	core.SetNextState(nci.RFStateDiscovery)
	activateListen(core, nfctest.CEActivation(nci.ModePassiveListenA))
	assert.Nil(t, adapter.Target())
	assert.NotNil(t, adapter.Initiator())
}
