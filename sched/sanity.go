// Sanity Check
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

	"go-ipd"
	"go-ipd/game"
)

// Ask every team for an opening move, so that broken agents are
// rejected before any match is played.
func sanityCheck(ctx context.Context, rules *game.Rules, teams []*ipd.Team) error {
	probe := game.Rules{
		Payoff:    rules.Payoff,
		MinRounds: 1,
		MaxRounds: 1,
		Timeout:   rules.Timeout,
	}
	dummy := &ipd.Team{
		Id:       -1,
		Name:     "sanity check",
		Strategy: "cooperate",
		Agent: ipd.StrategyFunc(func(_, _ ipd.History, _, _ int) ipd.Move {
			return ipd.Collude
		}),
	}

	for _, t := range teams {
		_, err := game.Run(ctx, &probe, 1, t, dummy)
		if ime, ok := err.(*ipd.IllegalMoveError); ok {
			ime.Opponent = nil
			return ime
		} else if err != nil {
			return err
		}
		ipd.Debug.Println(t, "passed the sanity check")
	}
	return nil
}
