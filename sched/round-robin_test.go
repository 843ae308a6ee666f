// Round Robin tests
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

package sched

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"go-ipd"
	"go-ipd/bot"
	"go-ipd/game"
)

func roster(t *testing.T, names ...string) (teams []*ipd.Team) {
	for i, name := range names {
		info, err := bot.Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		teams = append(teams, &ipd.Team{
			Id:       i,
			Name:     name,
			Strategy: info.Name,
			Descr:    info.Descr,
			Agent:    info.Make(rand.New(rand.NewSource(int64(i)))),
		})
	}
	return
}

func rules() *game.Rules {
	r := game.DefaultRules()
	r.Timeout = 0
	return &r
}

func TestEmpty(t *testing.T) {
	rr := RoundRobin{Rules: rules()}
	_, err := rr.Play(context.Background(), nil)
	if !errors.Is(err, ipd.ErrEmptyRoster) {
		t.Errorf("Expected an empty roster error, got %v", err)
	}
}

func TestCoverage(t *testing.T) {
	names := []string{"cooperate", "defect", "tit-for-tat", "grudger",
		"pavlov", "alternate", "random"}
	for n := 1; n <= len(names); n++ {
		var (
			pairs = make(map[[2]int]bool)
			order [][2]int
		)
		rr := RoundRobin{
			Rules: rules(),
			Rand:  rand.New(rand.NewSource(int64(n))),
			Observe: func(i, j int, res *game.Result) {
				if i == j {
					t.Errorf("Team %d played against itself", i)
				}
				key := [2]int{i, j}
				if i < j {
					key = [2]int{j, i}
				}
				if pairs[key] {
					t.Errorf("Pair %v played twice", key)
				}
				pairs[key] = true
				order = append(order, [2]int{i, j})
			},
		}

		tourn, err := rr.Play(context.Background(), roster(t, names[:n]...))
		if err != nil {
			t.Fatal(err)
		}
		if exp := n * (n - 1) / 2; tourn.Matches != exp || len(pairs) != exp {
			t.Errorf("[%d] Expected %d matches, got %d", n, exp, tourn.Matches)
		}

		for i := 0; i < n; i++ {
			if tourn.Scores[i][i] != 0 || len(tourn.Moves[i][i]) != 0 {
				t.Errorf("[%d] Team %d has a score against itself", n, i)
			}
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				a, b := tourn.Moves[i][j], tourn.Moves[j][i]
				if len(a) < 100 || len(a) > 200 || len(a) != len(b) {
					t.Errorf("[%d] Match %d/%d was not recorded on both sides (%d/%d)",
						n, i, j, len(a), len(b))
				}
			}
		}

		// Enumeration order: ascending i, then ascending j < i
		k := 0
		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				if order[k] != [2]int{i, j} {
					t.Errorf("[%d] Expected match %d to be %d/%d, got %v",
						n, k, i, j, order[k])
				}
				k++
			}
		}
	}
}

func TestScenario(t *testing.T) {
	const (
		C = iota
		D
		TFT
	)
	rr := RoundRobin{Rules: rules()}
	tourn, err := rr.Play(context.Background(),
		roster(t, "cooperate", "defect", "tit-for-tat"))
	if err != nil {
		t.Fatal(err)
	}

	s := tourn.Scores
	if s[D][C] != 5 || s[C][D] != 0 {
		t.Errorf("Expected defect to score 5 against cooperate, got %d/%d",
			s[D][C], s[C][D])
	}
	if s[C][TFT] != 3 || s[TFT][C] != 3 {
		t.Errorf("Expected mutual cooperation, got %d/%d", s[C][TFT], s[TFT][C])
	}
	// Tit-for-tat is exploited only in the first round
	if s[D][TFT] != 1 || s[TFT][D] != 0 {
		t.Errorf("Unexpected scores for defect vs. tit-for-tat: %d/%d",
			s[D][TFT], s[TFT][D])
	}

	sum := func(row []int) (n int) {
		for _, v := range row {
			n += v
		}
		return
	}
	if !(sum(s[D]) >= sum(s[TFT]) && sum(s[TFT]) >= sum(s[C])) {
		t.Errorf("Unexpected ordering of summed scores: %v", s)
	}
	if sum(s[D]) <= sum(s[C]) {
		t.Errorf("Defect should beat cooperate: %v", s)
	}
}

// A team that counts how often it was asked for a move
type counter struct {
	lock sync.Mutex
	n    int
	move ipd.Move
}

func (c *counter) Move(_, _ ipd.History, _, _ int) ipd.Move {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.n++
	return c.move
}

func TestAbort(t *testing.T) {
	var (
		good  = &counter{move: ipd.Collude}
		bad   = &counter{move: 'x'}
		later = &counter{move: ipd.Collude}
		teams = []*ipd.Team{
			{Id: 0, Name: "first", Agent: good},
			{Id: 1, Name: "second", Agent: ipd.StrategyFunc(bot.Defect)},
			{Id: 2, Name: "broken", Agent: bad},
			{Id: 3, Name: "later", Agent: later},
		}
		matches int
	)
	rr := RoundRobin{
		Rules:   rules(),
		Observe: func(int, int, *game.Result) { matches++ },
	}

	tourn, err := rr.Play(context.Background(), teams)
	if tourn != nil {
		t.Error("Expected no partial result")
	}
	var ime *ipd.IllegalMoveError
	if !errors.As(err, &ime) {
		t.Fatalf("Expected an illegal move error, got %v", err)
	}
	// The second match is "broken" against "first"
	if ime.Team != teams[2] || ime.Opponent != teams[0] {
		t.Errorf("Wrong attribution: %s", err)
	}
	if matches != 1 {
		t.Errorf("Expected one finished match, got %d", matches)
	}
	if later.n != 0 {
		t.Errorf("Matches continued after the failure (%d moves)", later.n)
	}
}

func TestSanity(t *testing.T) {
	var (
		bad   = &counter{move: 0}
		teams = roster(t, "cooperate", "defect")
	)
	teams = append(teams, &ipd.Team{Id: 2, Name: "broken", Agent: bad})

	var matches int
	rr := RoundRobin{
		Rules:   rules(),
		Sanity:  true,
		Observe: func(int, int, *game.Result) { matches++ },
	}
	_, err := rr.Play(context.Background(), teams)
	var ime *ipd.IllegalMoveError
	if !errors.As(err, &ime) || ime.Team != teams[2] || ime.Opponent != nil {
		t.Fatalf("Expected the sanity check to reject the broken team, got %v", err)
	}
	if matches != 0 || bad.n != 1 {
		t.Errorf("Expected a single probe and no matches, got %d/%d", bad.n, matches)
	}
}

func TestParallel(t *testing.T) {
	names := []string{"cooperate", "defect", "tit-for-tat", "grudger",
		"pavlov", "alternate", "tit-for-two-tats"}
	seq := RoundRobin{Rules: rules(), Rand: rand.New(rand.NewSource(42))}
	par := RoundRobin{Rules: rules(), Rand: rand.New(rand.NewSource(42)), Workers: 4}

	a, err := seq.Play(context.Background(), roster(t, names...))
	if err != nil {
		t.Fatal(err)
	}
	b, err := par.Play(context.Background(), roster(t, names...))
	if err != nil {
		t.Fatal(err)
	}

	if a.Matches != b.Matches {
		t.Errorf("Expected %d matches, got %d", a.Matches, b.Matches)
	}
	for i := range names {
		for j := range names {
			if a.Scores[i][j] != b.Scores[i][j] {
				t.Errorf("Scores differ at %d/%d: %d != %d",
					i, j, a.Scores[i][j], b.Scores[i][j])
			}
			if a.Moves[i][j].String() != b.Moves[i][j].String() {
				t.Errorf("Moves differ at %d/%d", i, j)
			}
		}
	}
}

func TestParallelAbort(t *testing.T) {
	teams := roster(t, "cooperate", "defect", "tit-for-tat", "grudger")
	teams[2].Agent = &counter{move: 'z'}

	rr := RoundRobin{Rules: rules(), Workers: 3}
	tourn, err := rr.Play(context.Background(), teams)
	var ime *ipd.IllegalMoveError
	if !errors.As(err, &ime) || ime.Team != teams[2] {
		t.Fatalf("Expected an illegal move by %s, got %v", teams[2], err)
	}
	if tourn != nil {
		t.Error("Expected no partial result")
	}
}

func TestInvalidRules(t *testing.T) {
	r := rules()
	r.MinRounds = 0
	rr := RoundRobin{Rules: r}
	if _, err := rr.Play(context.Background(), roster(t, "cooperate")); err == nil {
		t.Error("Expected invalid rules to be rejected")
	}
}
