// Common Interfaces and constants
//
// Copyright (c) 2023  Philip Kaludercic
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

package ipd

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Move byte

const (
	// Possible moves
	Collude Move = 'c' // cooperate
	Betray  Move = 'b' // defect
)

// Legal reports if M is one of the two recognised moves
func (m Move) Legal() bool {
	return m == Collude || m == Betray
}

func (m Move) String() string {
	switch m {
	case Collude:
		return "collude"
	case Betray:
		return "betray"
	default:
		return fmt.Sprintf("illegal move %q", byte(m))
	}
}

// History is the chronological sequence of moves of one side of a
// match.
type History []Move

func (h History) String() string {
	var b strings.Builder
	b.Grow(len(h))
	for _, m := range h {
		b.WriteByte(byte(m))
	}
	return b.String()
}

// Last returns the most recent move, or false if no move has been
// made yet.
func (h History) Last() (Move, bool) {
	if len(h) == 0 {
		return 0, false
	}
	return h[len(h)-1], true
}

// Count the number of times M occurs in the history
func (h History) Count(m Move) (n int) {
	for _, o := range h {
		if o == m {
			n++
		}
	}
	return
}

// ParseHistory converts a string of "c" and "b" characters into a
// history.  Any other character is rejected.
func ParseHistory(s string) (History, error) {
	h := make(History, len(s))
	for i := 0; i < len(s); i++ {
		h[i] = Move(s[i])
		if !h[i].Legal() {
			return nil, fmt.Errorf("invalid move %q at position %d", s[i], i)
		}
	}
	return h, nil
}

// A Strategy decides on the next move of a match, given its own
// history, the history of the opponent and the raw (unaveraged)
// scores of both sides so far.  Both histories have the same length.
type Strategy interface {
	Move(own, opp History, ownScore, oppScore int) Move
}

// A ContextStrategy may block or fail, e.g. when the decision is made
// by a remote agent.  The game engine prefers Decide over Move when a
// strategy implements both.
type ContextStrategy interface {
	Strategy
	Decide(ctx context.Context, own, opp History, ownScore, oppScore int) (Move, error)
}

// StrategyFunc adapts a plain function to the Strategy interface
type StrategyFunc func(own, opp History, ownScore, oppScore int) Move

func (f StrategyFunc) Move(own, opp History, ownScore, oppScore int) Move {
	return f(own, opp, ownScore, oppScore)
}

type Team struct {
	Id       int    // Index assigned when loading the roster
	Name     string // Display name
	Strategy string // Strategy label
	Descr    string // Strategy description
	Agent    Strategy

	// Sum of the team's row in the score matrix.  This is only
	// written by reporting and never read by the engine.
	Summed int
}

func (t *Team) String() string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (P%d)", t.Name, t.Id)
}

// ErrEmptyRoster is returned when a tournament is requested without
// any teams.
var ErrEmptyRoster = errors.New("no teams to play a tournament with")

// IllegalMoveError indicates that an agent failed to produce a legal
// move.  This is fatal for the entire tournament.
type IllegalMoveError struct {
	Team     *Team
	Opponent *Team
	Move     Move  // the rejected move, if any
	Err      error // underlying cause (timeout, I/O error), if any
}

func (e *IllegalMoveError) Error() string {
	var opp string
	if e.Opponent != nil {
		opp = e.Opponent.Name
	} else {
		opp = "the sanity check"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s gave a bad response in a match against %s: %v",
			e.Team, opp, e.Err)
	}
	return fmt.Sprintf("%s gave a bad response in a match against %s: %s",
		e.Team, opp, e.Move)
}

func (e *IllegalMoveError) Unwrap() error { return e.Err }
