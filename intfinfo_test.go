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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pollANtf(rfIntf RFInterface, protocol Protocol, nfcid1 []byte) *IntfActivationNtf {
	return &IntfActivationNtf{
		RFIntf:   rfIntf,
		Protocol: protocol,
		Mode:     ModePassivePollA,
		ModeParam: &ModeParam{
			PollA: &ModeParamPollA{
				SensRes:   [2]byte{0x44, 0x00},
				NFCID1:    append([]byte(nil), nfcid1...),
				SelResLen: 1,
				SelRes:    0x20,
			},
		},
		ModeParamBytes:       append([]byte{0x44, 0x00}, nfcid1...),
		ActivationParamBytes: []byte{0x05, 0x78},
	}
}

func pollBNtf(nfcid0 [4]byte, protInfo []byte) *IntfActivationNtf {
	return &IntfActivationNtf{
		RFIntf:   RFInterfaceIsoDep,
		Protocol: ProtocolIsoDep,
		Mode:     ModePassivePollB,
		ModeParam: &ModeParam{
			PollB: &ModeParamPollB{
				NFCID0:   nfcid0,
				FSC:      256,
				AppData:  [4]byte{0x0A, 0x0B, 0x0C, 0x0D},
				ProtInfo: append([]byte(nil), protInfo...),
			},
		},
		ModeParamBytes:       append(nfcid0[:], protInfo...),
		ActivationParamBytes: []byte{0x01},
	}
}

func TestIntfInfo_Accessors(t *testing.T) {
	t.Parallel()
	info := NewIntfInfo(pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x04, 0x11, 0x22, 0x33}))
	require.NotNil(t, info)
	assert.Equal(t, RFInterfaceFrame, info.RFIntf())
	assert.Equal(t, ProtocolT2T, info.Protocol())
	assert.Equal(t, ModePassivePollA, info.Mode())
	assert.Nil(t, NewIntfInfo(nil))
}

func TestIntfInfo_Matches_PollA_RandomUID(t *testing.T) {
	t.Parallel()

	info := NewIntfInfo(pollANtf(RFInterfaceFrame, ProtocolT2T,
		[]byte{0x08, 0x11, 0x22, 0x33}))

	t.Run("DifferentGeneratedBytes", func(t *testing.T) {
		t.Parallel()
		// A 4 byte NFCID1 starting with 0x08 is random; the generated
		// bytes do not defeat the match
		ntf := pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x08, 0x99, 0x88, 0x77})
		assert.True(t, info.Matches(ntf))
	})

	t.Run("DifferentSelRes", func(t *testing.T) {
		t.Parallel()
		ntf := pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x08, 0x99, 0x88, 0x77})
		ntf.ModeParam.PollA.SelRes = 0x00
		assert.False(t, info.Matches(ntf))
	})

	t.Run("DifferentSensRes", func(t *testing.T) {
		t.Parallel()
		ntf := pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x08, 0x99, 0x88, 0x77})
		ntf.ModeParam.PollA.SensRes = [2]byte{0x00, 0x01}
		assert.False(t, info.Matches(ntf))
	})

	t.Run("DifferentNFCID1Len", func(t *testing.T) {
		t.Parallel()
		ntf := pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x08, 0x99, 0x88, 0x77, 0x66, 0x55, 0x44})
		assert.False(t, info.Matches(ntf))
	})
}

func TestIntfInfo_Matches_PollA_FullUID(t *testing.T) {
	t.Parallel()

	uid := []byte{0x04, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}
	info := NewIntfInfo(pollANtf(RFInterfaceIsoDep, ProtocolIsoDep, uid))

	t.Run("SameUID", func(t *testing.T) {
		t.Parallel()
		assert.True(t, info.Matches(pollANtf(RFInterfaceIsoDep, ProtocolIsoDep, uid)))
	})

	t.Run("DifferentUID", func(t *testing.T) {
		t.Parallel()
		other := []byte{0x04, 0x11, 0x22, 0x33, 0x44, 0x55, 0x67}
		assert.False(t, info.Matches(pollANtf(RFInterfaceIsoDep, ProtocolIsoDep, other)))
	})

	t.Run("ShortNonRandomUID", func(t *testing.T) {
		t.Parallel()
		// 4 byte NFCID1 not starting with 0x08 must match in full
		info4 := NewIntfInfo(pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x04, 0x11, 0x22, 0x33}))
		assert.True(t, info4.Matches(pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x04, 0x11, 0x22, 0x33})))
		assert.False(t, info4.Matches(pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x04, 0x11, 0x22, 0x34})))
	})
}

func TestIntfInfo_Matches_PollB(t *testing.T) {
	t.Parallel()

	info := NewIntfInfo(pollBNtf([4]byte{1, 2, 3, 4}, []byte{0x11, 0x81, 0xC1}))

	t.Run("DifferentNFCID0StillMatches", func(t *testing.T) {
		t.Parallel()
		// The Type B UID may be regenerated after RF loss
		assert.True(t, info.Matches(pollBNtf([4]byte{5, 6, 7, 8}, []byte{0x11, 0x81, 0xC1})))
	})

	t.Run("DifferentProtInfo", func(t *testing.T) {
		t.Parallel()
		assert.False(t, info.Matches(pollBNtf([4]byte{1, 2, 3, 4}, []byte{0x11, 0x81, 0xC2})))
	})

	t.Run("DifferentFSC", func(t *testing.T) {
		t.Parallel()
		ntf := pollBNtf([4]byte{1, 2, 3, 4}, []byte{0x11, 0x81, 0xC1})
		ntf.ModeParam.PollB.FSC = 64
		assert.False(t, info.Matches(ntf))
	})

	t.Run("DifferentAppData", func(t *testing.T) {
		t.Parallel()
		ntf := pollBNtf([4]byte{1, 2, 3, 4}, []byte{0x11, 0x81, 0xC1})
		ntf.ModeParam.PollB.AppData = [4]byte{9, 9, 9, 9}
		assert.False(t, info.Matches(ntf))
	})
}

func TestIntfInfo_Matches_OtherModes(t *testing.T) {
	t.Parallel()

	ntf := func(modeParam []byte) *IntfActivationNtf {
		return &IntfActivationNtf{
			RFIntf:               RFInterfaceNfcDep,
			Protocol:             ProtocolNfcDep,
			Mode:                 ModePassivePollF,
			ModeParamBytes:       append([]byte(nil), modeParam...),
			ActivationParamBytes: []byte{0x46, 0x66},
		}
	}
	info := NewIntfInfo(ntf([]byte{0x01, 0xFE, 0x05}))

	t.Run("ExactBytesMatch", func(t *testing.T) {
		t.Parallel()
		assert.True(t, info.Matches(ntf([]byte{0x01, 0xFE, 0x05})))
	})

	t.Run("RawByteDifference", func(t *testing.T) {
		t.Parallel()
		assert.False(t, info.Matches(ntf([]byte{0x01, 0xFE, 0x06})))
	})

	t.Run("ActivationParamDifference", func(t *testing.T) {
		t.Parallel()
		other := ntf([]byte{0x01, 0xFE, 0x05})
		other.ActivationParamBytes = []byte{0x46, 0x67}
		assert.False(t, info.Matches(other))
	})
}

func TestIntfInfo_Matches_HeaderFields(t *testing.T) {
	t.Parallel()

	base := pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x04, 0x11, 0x22, 0x33})
	info := NewIntfInfo(base)

	t.Run("DifferentInterface", func(t *testing.T) {
		t.Parallel()
		other := pollANtf(RFInterfaceIsoDep, ProtocolT2T, []byte{0x04, 0x11, 0x22, 0x33})
		assert.False(t, info.Matches(other))
	})

	t.Run("DifferentProtocol", func(t *testing.T) {
		t.Parallel()
		other := pollANtf(RFInterfaceFrame, ProtocolT1T, []byte{0x04, 0x11, 0x22, 0x33})
		assert.False(t, info.Matches(other))
	})

	t.Run("DifferentMode", func(t *testing.T) {
		t.Parallel()
		other := pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x04, 0x11, 0x22, 0x33})
		other.Mode = ModeActivePollA
		assert.False(t, info.Matches(other))
	})

	t.Run("NilSnapshot", func(t *testing.T) {
		t.Parallel()
		var none *IntfInfo
		assert.False(t, none.Matches(base))
		assert.False(t, info.Matches(nil))
	})
}

func TestIntfInfo_DeepCopy(t *testing.T) {
	t.Parallel()

	ntf := pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x04, 0x11, 0x22, 0x33})
	info := NewIntfInfo(ntf)

	// Mutating the notification after the snapshot must not affect
	// later comparisons
	ntf.ModeParam.PollA.NFCID1[0] = 0xFF
	ntf.ModeParamBytes[0] = 0xFF

	fresh := pollANtf(RFInterfaceFrame, ProtocolT2T, []byte{0x04, 0x11, 0x22, 0x33})
	assert.True(t, info.Matches(fresh))
}
