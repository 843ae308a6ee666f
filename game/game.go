// Game Model
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

package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go-ipd"
)

// Rules of a single iterated match
type Rules struct {
	ipd.Payoff

	// Bounds (inclusive) for the randomised number of rounds.  The
	// length is drawn anew for every match, so that no agent can
	// exploit a known end of the game.
	MinRounds uint `toml:"min_rounds" env:"MIN_ROUNDS"`
	MaxRounds uint `toml:"max_rounds" env:"MAX_ROUNDS"`

	// Time an agent may take for a single move, or zero to wait
	// indefinitely.
	Timeout time.Duration `toml:"timeout" env:"TIMEOUT"`
}

func DefaultRules() Rules {
	return Rules{
		Payoff:    ipd.DefaultPayoff,
		MinRounds: 100,
		MaxRounds: 200,
		Timeout:   5 * time.Second,
	}
}

func (r *Rules) Validate() error {
	switch {
	case r.MinRounds == 0:
		return errors.New("a match needs at least one round")
	case r.MinRounds > r.MaxRounds:
		return fmt.Errorf("minimal number of rounds (%d) exceeds the maximum (%d)",
			r.MinRounds, r.MaxRounds)
	case r.Timeout < 0:
		return fmt.Errorf("negative move timeout %v", r.Timeout)
	}
	return nil
}

// Rounds draws the length of a match uniformly from the closed
// interval [MinRounds, MaxRounds].
func (r *Rules) Rounds(rng *rand.Rand) uint {
	return r.MinRounds + uint(rng.Int63n(int64(r.MaxRounds-r.MinRounds)+1))
}

// Result of a match.  Index 0 is the first, index 1 the second team.
type Result struct {
	Rounds uint
	Raw    [2]int         // accumulated points
	Score  [2]int         // average points per round
	Moves  [2]ipd.History // all moves in order
}

// Average normalises RAW points over a number of ROUNDS, truncating
// towards zero so that the score does not reveal the match length.
func Average(raw int, rounds uint) int {
	return raw / int(rounds)
}

// Play a match between A and B with a randomly drawn length
func Play(ctx context.Context, rules *Rules, rng *rand.Rand, a, b *ipd.Team) (*Result, error) {
	return Run(ctx, rules, rules.Rounds(rng), a, b)
}

// Run a match of exactly N rounds between A and B.
//
// Both agents decide on a move based on the state before the current
// round, so that neither can react to the other's simultaneous
// choice.  The first illegal move aborts the match.
func Run(ctx context.Context, rules *Rules, n uint, a, b *ipd.Team) (*Result, error) {
	if n == 0 {
		return nil, errors.New("a match needs at least one round")
	}

	var (
		dbg   = ipd.Debug.Printf
		res   = &Result{Rounds: n}
		teams = [2]*ipd.Team{a, b}
	)
	res.Moves[0] = make(ipd.History, 0, n)
	res.Moves[1] = make(ipd.History, 0, n)

	dbg("Start %s vs. %s (%d rounds)", a, b, n)
	for round := uint(0); round < n; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var moves [2]ipd.Move
		for k, t := range teams {
			m, err := decide(ctx, rules.Timeout, t,
				res.Moves[k], res.Moves[1-k],
				res.Raw[k], res.Raw[1-k])
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				dbg("%s failed to move in round %d: %s", t, round+1, err)
				return nil, &ipd.IllegalMoveError{
					Team:     t,
					Opponent: teams[1-k],
					Err:      err,
				}
			}
			moves[k] = m
		}
		for k, m := range moves {
			if !m.Legal() {
				dbg("%s made illegal move %q in round %d", teams[k], byte(m), round+1)
				return nil, &ipd.IllegalMoveError{
					Team:     teams[k],
					Opponent: teams[1-k],
					Move:     m,
				}
			}
		}

		sa, sb := rules.Score(moves[0], moves[1])
		res.Raw[0] += sa
		res.Raw[1] += sb
		res.Moves[0] = append(res.Moves[0], moves[0])
		res.Moves[1] = append(res.Moves[1], moves[1])
	}

	res.Score[0] = Average(res.Raw[0], n)
	res.Score[1] = Average(res.Raw[1], n)
	dbg("Finished %s vs. %s: %d/%d (%d/%d raw)", a, b,
		res.Score[0], res.Score[1], res.Raw[0], res.Raw[1])
	return res, nil
}

// Request a move from the agent of T.  The histories are copied, so
// that an agent cannot tamper with the record of the match.
func decide(ctx context.Context, timeout time.Duration, t *ipd.Team, own, opp ipd.History, ownScore, oppScore int) (ipd.Move, error) {
	own = append(ipd.History(nil), own...)
	opp = append(ipd.History(nil), opp...)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if cs, ok := t.Agent.(ipd.ContextStrategy); ok {
		return cs.Decide(ctx, own, opp, ownScore, oppScore)
	}
	if timeout == 0 {
		return t.Agent.Move(own, opp, ownScore, oppScore), nil
	}

	// The goroutine leaks if the agent never returns.
	c := make(chan ipd.Move, 1)
	go func() { c <- t.Agent.Move(own, opp, ownScore, oppScore) }()
	select {
	case m := <-c:
		return m, nil
	case <-ctx.Done():
		return 0, fmt.Errorf("no move within %v: %w", timeout, ctx.Err())
	}
}
