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
	"github.com/stretchr/testify/require"
)

// newTestAdapter wires an adapter to the simulated core, the recording
// framework and a manual-clock scheduler
func newTestAdapter(t *testing.T, opts ...nci.Option) (*nci.Adapter, *nfctest.SimCore, *nfctest.RecordingFramework, *nfctest.ManualScheduler) {
	t.Helper()
	core := nfctest.NewSimCore()
	fw := nfctest.NewRecordingFramework()
	sched := nfctest.NewManualScheduler()

	adapter, err := nci.New(core, fw, sched, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter, core, fw, sched
}

// activatePoll settles the core in POLL_ACTIVE and delivers the
// activation
func activatePoll(core *nfctest.SimCore, ntf *nci.IntfActivationNtf) {
	core.SetStates(nci.RFStatePollActive, nci.RFStatePollActive)
	core.Activate(ntf)
}

// activateListen settles the core in LISTEN_ACTIVE and delivers the
// activation
func activateListen(core *nfctest.SimCore, ntf *nci.IntfActivationNtf) {
	core.SetStates(nci.RFStateListenActive, nci.RFStateListenActive)
	core.Activate(ntf)
}
