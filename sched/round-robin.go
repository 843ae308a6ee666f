// Round Robin Tournament
//
// Copyright (c) 2022, 2023  Philip Kaludercic
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

package sched

import (
	"context"
	"math/rand"
	"time"

	"go-ipd"
	"go-ipd/game"
)

// Tournament is the outcome of a round robin
type Tournament struct {
	Teams []*ipd.Team
	// Scores[i][j] is the average score of team i in its match
	// against team j.  The diagonal is zero, as no team plays
	// against itself.
	Scores [][]int
	// Moves[i][j] are all the moves team i made against team j
	Moves [][]ipd.History
	// Number of simulated matches
	Matches int
}

type RoundRobin struct {
	Rules *game.Rules
	// Source for the match lengths.  If nil, a time-seeded
	// source is used.
	Rand *rand.Rand
	// Number of matches to run at the same time.  Zero and one
	// both mean sequential execution.
	Workers uint
	// Check that every team can make an opening move, before
	// starting the tournament.
	Sanity bool
	// Called after every match with the indices of the first
	// and second team.
	Observe func(i, j int, res *game.Result)
}

// A pairing of two teams, together with the seed for the length of
// their match
type pairing struct {
	i, j int
	seed int64
}

// Enumerate all pairings: Every team plays against all the teams
// before them, so that each unordered pair occurs once.
func (r *RoundRobin) pairings(n int) []pairing {
	rng := r.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var pairs []pairing
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			pairs = append(pairs, pairing{i: i, j: j, seed: rng.Int63()})
		}
	}
	return pairs
}

// Play a full round robin tournament between TEAMS.  Any failure
// aborts the entire tournament, and no partial results are returned.
func (r *RoundRobin) Play(ctx context.Context, teams []*ipd.Team) (*Tournament, error) {
	if len(teams) == 0 {
		return nil, ipd.ErrEmptyRoster
	}
	if err := r.Rules.Validate(); err != nil {
		return nil, err
	}

	if r.Sanity {
		if err := sanityCheck(ctx, r.Rules, teams); err != nil {
			return nil, err
		}
	}

	n := len(teams)
	t := &Tournament{
		Teams:  teams,
		Scores: make([][]int, n),
		Moves:  make([][]ipd.History, n),
	}
	for i := range teams {
		t.Scores[i] = make([]int, n)
		t.Moves[i] = make([]ipd.History, n)
		// If you're playing yourself, score 0 and make no moves
		t.Scores[i][i] = 0
		t.Moves[i][i] = ipd.History{}
	}

	pairs := r.pairings(n)
	ipd.Debug.Println("Starting round robin with", len(pairs), "matches")

	var err error
	if r.Workers > 1 {
		err = r.parallel(ctx, t, pairs)
	} else {
		err = r.sequential(ctx, t, pairs)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Simulate the match of a pairing and record both sides
func (r *RoundRobin) play(ctx context.Context, t *Tournament, p pairing) (*game.Result, error) {
	rng := rand.New(rand.NewSource(p.seed))
	res, err := game.Play(ctx, r.Rules, rng, t.Teams[p.i], t.Teams[p.j])
	if err != nil {
		return nil, err
	}

	// Each pairing writes to distinct cells, so this is safe to
	// do concurrently.
	t.Scores[p.i][p.j] = res.Score[0]
	t.Scores[p.j][p.i] = res.Score[1]
	t.Moves[p.i][p.j] = res.Moves[0]
	t.Moves[p.j][p.i] = res.Moves[1]
	return res, nil
}
