// Match tests
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

package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"go-ipd"
)

func team(id int, name string, s ipd.StrategyFunc) *ipd.Team {
	return &ipd.Team{Id: id, Name: name, Agent: s}
}

func always(m ipd.Move) ipd.StrategyFunc {
	return func(_, _ ipd.History, _, _ int) ipd.Move { return m }
}

func titForTat(_, opp ipd.History, _, _ int) ipd.Move {
	if m, ok := opp.Last(); ok {
		return m
	}
	return ipd.Collude
}

func TestRounds(t *testing.T) {
	var (
		rules = DefaultRules()
		rng   = rand.New(rand.NewSource(1))
		seen  = make(map[uint]bool)
	)
	for i := 0; i < 20000; i++ {
		n := rules.Rounds(rng)
		if n < 100 || n > 200 {
			t.Fatalf("[%d] Drew %d rounds, outside of [100, 200]", i, n)
		}
		seen[n] = true
	}
	if !seen[100] || !seen[200] {
		t.Error("Bounds of the interval were never drawn")
	}
	if len(seen) != 101 {
		t.Errorf("Expected all 101 lengths to occur, got %d", len(seen))
	}

	rules.MinRounds, rules.MaxRounds = 7, 7
	if n := rules.Rounds(rng); n != 7 {
		t.Errorf("Expected a fixed length of 7, got %d", n)
	}
}

func TestValidate(t *testing.T) {
	for i, test := range []struct {
		min, max uint
		timeout  time.Duration
		ok       bool
	}{
		{100, 200, time.Second, true},
		{1, 1, 0, true},
		{0, 10, 0, false},
		{20, 10, 0, false},
		{1, 10, -time.Second, false},
	} {
		rules := DefaultRules()
		rules.MinRounds, rules.MaxRounds = test.min, test.max
		rules.Timeout = test.timeout
		if err := rules.Validate(); (err == nil) != test.ok {
			t.Errorf("[%d] Unexpected validation result: %v", i, err)
		}
	}
}

func TestAverage(t *testing.T) {
	for i, test := range []struct {
		raw    int
		rounds uint
		score  int
	}{
		{555, 100, 5},
		{300, 100, 3},
		{399, 100, 3},
		{199, 200, 0},
		{-7, 2, -3},
	} {
		if s := Average(test.raw, test.rounds); s != test.score {
			t.Errorf("[%d] Expected %d/%d to average to %d, got %d",
				i, test.raw, test.rounds, test.score, s)
		}
	}
}

func TestCooperation(t *testing.T) {
	rules := DefaultRules()
	a := team(0, "a", always(ipd.Collude))
	b := team(1, "b", always(ipd.Collude))
	for _, n := range []uint{1, 100, 157, 200} {
		res, err := Run(context.Background(), &rules, n, a, b)
		if err != nil {
			t.Fatal(err)
		}
		if res.Raw[0] != 3*int(n) || res.Raw[1] != 3*int(n) {
			t.Errorf("Expected raw totals of %d, got %v", 3*n, res.Raw)
		}
		if res.Score != [2]int{3, 3} {
			t.Errorf("Expected final score 3, got %v", res.Score)
		}
		if len(res.Moves[0]) != int(n) || len(res.Moves[1]) != int(n) {
			t.Errorf("Expected %d moves, got %d and %d",
				n, len(res.Moves[0]), len(res.Moves[1]))
		}
	}
}

func TestExploitation(t *testing.T) {
	rules := DefaultRules()
	rng := rand.New(rand.NewSource(2))
	res, err := Play(context.Background(), &rules, rng,
		team(0, "defect", always(ipd.Betray)),
		team(1, "cooperate", always(ipd.Collude)))
	if err != nil {
		t.Fatal(err)
	}
	if res.Rounds < 100 || res.Rounds > 200 {
		t.Errorf("Unexpected match length %d", res.Rounds)
	}
	if res.Score != [2]int{5, 0} {
		t.Errorf("Expected (5, 0), got %v", res.Score)
	}
}

func TestSimultaneous(t *testing.T) {
	rules := DefaultRules()
	var rounds int
	check := func(own, opp ipd.History, ownScore, oppScore int) ipd.Move {
		if len(own) != rounds || len(opp) != rounds {
			t.Errorf("Second agent saw %d/%d moves in round %d",
				len(own), len(opp), rounds+1)
		}
		rounds++
		return titForTat(own, opp, ownScore, oppScore)
	}

	res, err := Run(context.Background(), &rules, 5,
		team(0, "defect", always(ipd.Betray)),
		team(1, "tft", check))
	if err != nil {
		t.Fatal(err)
	}
	if s := res.Moves[1].String(); s != "cbbbb" {
		t.Errorf("Expected tit-for-tat to play cbbbb, got %s", s)
	}
	// 5 + 1*4 and 0 + 1*4
	if res.Raw != [2]int{9, 4} {
		t.Errorf("Unexpected raw scores %v", res.Raw)
	}
}

func TestScoresPassed(t *testing.T) {
	rules := DefaultRules()
	var last [2]int
	spy := func(_, _ ipd.History, own, opp int) ipd.Move {
		last = [2]int{own, opp}
		return ipd.Collude
	}
	_, err := Run(context.Background(), &rules, 3,
		team(0, "defect", always(ipd.Betray)),
		team(1, "spy", spy))
	if err != nil {
		t.Fatal(err)
	}
	// Before the third round, the spy has been exploited twice
	if last != [2]int{0, 10} {
		t.Errorf("Expected scores (0, 10), got %v", last)
	}
}

func TestTamper(t *testing.T) {
	rules := DefaultRules()
	tamper := func(own, opp ipd.History, _, _ int) ipd.Move {
		for i := range opp {
			opp[i] = ipd.Betray
		}
		for i := range own {
			own[i] = 'x'
		}
		return ipd.Collude
	}
	res, err := Run(context.Background(), &rules, 10,
		team(0, "a", always(ipd.Collude)),
		team(1, "b", tamper))
	if err != nil {
		t.Fatal(err)
	}
	if res.Moves[0].String() != "cccccccccc" || res.Moves[1].String() != "cccccccccc" {
		t.Errorf("Record was modified: %s/%s", res.Moves[0], res.Moves[1])
	}
}

func TestIllegal(t *testing.T) {
	rules := DefaultRules()
	a := team(0, "a", always(ipd.Collude))
	b := team(1, "b", func(own, _ ipd.History, _, _ int) ipd.Move {
		if len(own) == 3 {
			return 'x'
		}
		return ipd.Collude
	})

	_, err := Run(context.Background(), &rules, 10, a, b)
	var ime *ipd.IllegalMoveError
	if !errors.As(err, &ime) {
		t.Fatalf("Expected an illegal move error, got %v", err)
	}
	if ime.Team != b || ime.Opponent != a || ime.Move != 'x' {
		t.Errorf("Wrong attribution: %v", ime)
	}
}

func TestTimeout(t *testing.T) {
	rules := DefaultRules()
	rules.Timeout = 10 * time.Millisecond
	slow := team(1, "slow", func(_, _ ipd.History, _, _ int) ipd.Move {
		time.Sleep(time.Second)
		return ipd.Collude
	})
	fast := team(0, "fast", always(ipd.Collude))

	_, err := Run(context.Background(), &rules, 3, fast, slow)
	var ime *ipd.IllegalMoveError
	if !errors.As(err, &ime) || ime.Team != slow {
		t.Fatalf("Expected the slow agent to be blamed, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected a deadline error, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	rules := DefaultRules()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, &rules, 3,
		team(0, "a", always(ipd.Collude)),
		team(1, "b", always(ipd.Collude)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected cancellation, got %v", err)
	}
	var ime *ipd.IllegalMoveError
	if errors.As(err, &ime) {
		t.Errorf("Cancellation blamed on %s", ime.Team)
	}
}

func TestZeroRounds(t *testing.T) {
	rules := DefaultRules()
	_, err := Run(context.Background(), &rules, 0,
		team(0, "a", always(ipd.Collude)),
		team(1, "b", always(ipd.Collude)))
	if err == nil {
		t.Error("Expected an error for an empty match")
	}
}
