// Shared State
//
// Copyright (c) 2021, 2022, 2023  Philip Kaludercic
//
// This file is part of go-ipd.
//
// go-ipd is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-ipd is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-ipd. If not, see
// <http://www.gnu.org/licenses/>

package cmd

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"go-ipd"
)

type State struct {
	Context context.Context
	Kill    context.CancelFunc

	// Resources to release when shutting down, e.g. connections
	// to remote agents
	closers []io.Closer
}

// MakeState returns a state whose context is cancelled when the
// process is interrupted
func MakeState() *State {
	ctx, kill := signal.NotifyContext(context.Background(), os.Interrupt)
	return &State{
		Context: ctx,
		Kill:    kill,
	}
}

func (st *State) Register(c io.Closer) {
	st.closers = append(st.closers, c)
}

// Shutdown releases all registered resources in reverse order
func (st *State) Shutdown() {
	ipd.Debug.Println("Shutting down...")
	for i := len(st.closers) - 1; i >= 0; i-- {
		c := st.closers[i]
		ipd.Debug.Printf("Closing %s", c)
		if err := c.Close(); err != nil {
			log.Print(err)
		}
	}
	st.closers = nil
	st.Kill()
}
