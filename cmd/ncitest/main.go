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

// ncitest exercises the adapter against a simulated NCI core on a real
// event loop. It walks a Type 2 tag through arrival, a transmission
// with the reply racing ahead of the send acknowledgment, presence
// checking and removal, printing the adapter's behavior along the way.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	nci "github.com/ZaparooProject/go-nci"
	"github.com/ZaparooProject/go-nci/eventloop"
	"github.com/ZaparooProject/go-nci/internal/nfctest"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug output")
	flag.Parse()

	if *debug {
		nci.SetDebugEnabled(true)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ncitest: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	loop := eventloop.New()
	core := nfctest.NewSimCore()
	fw := nfctest.NewRecordingFramework()

	adapter, err := nci.New(core, fw, loop)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() {
		finished <- loop.Run(ctx)
	}()
	defer func() {
		cancel()
		<-finished
	}()

	// All interaction with the adapter and the simulated core happens
	// on the loop
	do := func(step func()) {
		done := make(chan struct{})
		loop.Post(func() {
			step()
			close(done)
		})
		<-done
	}

	uid := []byte{0x04, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}

	do(func() {
		adapter.SetPowered(true)
		adapter.SubmitModeRequest(nci.OperatingModeReaderWriter)
		core.SetStates(nci.RFStateDiscovery, nci.RFStateDiscovery)
	})
	do(func() {
		if len(fw.ModeChanges) > 0 {
			change := fw.ModeChanges[len(fw.ModeChanges)-1]
			fmt.Printf("mode: %#x confirmed=%v\n", uint(change.Mode), change.Confirmed)
		}
	})

	do(func() {
		fmt.Printf("tag arrives (NFCID1 % 02X)\n", uid)
		core.SetStates(nci.RFStatePollActive, nci.RFStatePollActive)
		core.Activate(nfctest.T2Activation(uid))
		tag := fw.LastTag()
		if tag == nil {
			fmt.Println("no tag registered")
			return
		}
		fmt.Printf("registered %s tag, technology %s\n", tag.Kind, tag.Target.Technology)
		tag.Target.OnGone = func() { fmt.Println("tag gone") }
	})

	// A transmission whose reply overtakes the send acknowledgment
	do(func() {
		tag := fw.LastTag()
		if tag == nil {
			return
		}
		_, err := tag.Target.Transmit([]byte{0x30, 0x04}, nil,
			func(status nci.TransmitStatus, payload []byte) {
				fmt.Printf("transmit done: status=%d payload=% 02X\n", status, payload)
			})
		if err != nil {
			fmt.Printf("transmit failed: %v\n", err)
			return
		}
		send := core.LastSend()
		// Reply first, acknowledgment second
		core.InjectData(nci.StaticRFConnID, []byte{0xDE, 0xAD, 0xBE, 0xEF, nci.StatusOK})
		core.CompleteSend(send.Handle, true)
	})

	// Let a few presence checks run, answering each probe
	for range 3 {
		time.Sleep(nci.DefaultPresenceCheckPeriod + 50*time.Millisecond)
		do(func() {
			probe := core.LastSend()
			if probe == nil || probe.Done == nil {
				return
			}
			fmt.Printf("presence probe % 02X answered\n", probe.Payload)
			core.CompleteSend(probe.Handle, true)
			core.InjectData(nci.StaticRFConnID, []byte{0x00, nci.StatusOK})
		})
	}

	// Stop answering: the next probe times out and the tag is dropped
	fmt.Println("tag leaves the field")
	deadline := time.Now().Add(3 * time.Second)
	for {
		var goneNow bool
		do(func() { goneNow = adapter.Target() == nil })
		if goneNow {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("tag was not dropped")
		}
		time.Sleep(50 * time.Millisecond)
	}

	var state nci.RFState
	do(func() { state, _ = core.LastStateRequest() })
	fmt.Printf("adapter requested %s\n", state)

	do(func() { _ = adapter.Close() })
	return nil
}
