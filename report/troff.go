// Result Documents
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

package report

import (
	"fmt"
	"io"
	"strings"

	"go-ipd"
)

// Escape characters with a special meaning in tbl(1) cells
func cell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\e`)
	s = strings.ReplaceAll(s, "/", `\[sl]`)
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "'") {
		s = `\&` + s
	}
	return s
}

// Troff generates a ms(7) document with the results of a tournament,
// to be processed by groff -ms -t.
func Troff(W io.Writer, teams []*ipd.Team, scores [][]int, ranked []*ipd.Team) {
	fmt.Fprintln(W, `.TL`)
	fmt.Fprintln(W, `Iterated Prisoner's Dilemma`)
	if len(teams) == 0 {
		fmt.Fprintln(W, `.LP`)
		fmt.Fprintln(W, `No games took place.`)
		return
	}

	fmt.Fprintln(W, `.NH 1`)
	fmt.Fprintln(W, "Lineup")
	fmt.Fprintln(W, `.TS`)
	fmt.Fprintln(W, `tab(/) box center;`)
	fmt.Fprintln(W, `c | c c c`)
	fmt.Fprintln(W, `----`)
	fmt.Fprintln(W, `l | l l l`)
	fmt.Fprintln(W, `.`)
	fmt.Fprintln(W, `Nr./Team/Strategy/Description`)
	for _, t := range teams {
		fmt.Fprintf(W, "P%d/%s/%s/%s\n", t.Id,
			cell(t.Name), cell(t.Strategy), cell(t.Descr))
	}
	fmt.Fprintln(W, `.TE`)

	fmt.Fprintln(W, `.NH 1`)
	fmt.Fprintln(W, "Player vs. Player Scores")
	fmt.Fprintln(W, `.LP`)
	fmt.Fprintln(W, `Each row lists the average score of a team against the team of the column.`)
	fmt.Fprintln(W, `.TS`)
	fmt.Fprintln(W, `tab(/) box center;`)
	fmt.Fprintf(W, "c |%s\n", strings.Repeat(" c", len(teams)))
	fmt.Fprintln(W, strings.Repeat("-", len(teams)+1))
	fmt.Fprintf(W, "l |%s\n", strings.Repeat(" n", len(teams)))
	fmt.Fprintln(W, `.`)
	for _, t := range teams {
		fmt.Fprintf(W, "/P%d", t.Id)
	}
	fmt.Fprintln(W)
	for i, row := range scores {
		fmt.Fprintf(W, "P%d", teams[i].Id)
		for _, v := range row {
			fmt.Fprintf(W, "/%d", v)
		}
		fmt.Fprintln(W)
	}
	fmt.Fprintln(W, `.TE`)

	fmt.Fprintln(W, `.NH 1`)
	fmt.Fprintln(W, "Standings")
	fmt.Fprintln(W, `.TS`)
	fmt.Fprintln(W, `tab(/) box center;`)
	fmt.Fprintln(W, `c | c c | c`)
	fmt.Fprintln(W, `----`)
	fmt.Fprintln(W, `n | l l | n`)
	fmt.Fprintln(W, `.`)
	fmt.Fprintln(W, `Rank/Team/Strategy/Points`)
	for i, t := range ranked {
		fmt.Fprintf(W, "%d/%s (P%d)/%s/%d\n", i+1,
			cell(t.Name), t.Id, cell(t.Strategy), t.Summed)
	}
	fmt.Fprintln(W, `.TE`)
}
