// Tournament Reports
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

package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go-ipd"

	"github.com/mattn/go-runewidth"
)

// Width of section titles
const Width = 80

func center(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

func Section(w io.Writer, title string) {
	line := strings.Repeat("-", Width)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, strings.TrimRight(center(title, Width), " "))
	fmt.Fprintln(w, line)
}

func Lineup(w io.Writer, teams []*ipd.Team) {
	Section(w, "Lineup")
	for _, t := range teams {
		fmt.Fprintf(w, "P%d: %s using %s (%s)\n", t.Id, t.Name, t.Strategy, t.Descr)
	}
}

// Scores prints the score matrix as a grid, labelling rows and columns
// by team.
func Scores(w io.Writer, teams []*ipd.Team, scores [][]int) {
	Section(w, "Player vs. Player Scores")
	fmt.Fprintln(w, "To find player n's average score against player m, check the nth row and the mth column")

	labels := make([]string, len(teams))
	width := 0
	for i, t := range teams {
		labels[i] = "P" + strconv.Itoa(t.Id)
		width = max(width, len(labels[i]))
	}
	for _, row := range scores {
		for _, v := range row {
			width = max(width, len(strconv.Itoa(v)))
		}
	}

	fmt.Fprintf(w, "%*s", width, "")
	for _, l := range labels {
		fmt.Fprintf(w, "  %*s", width, l)
	}
	fmt.Fprintln(w)
	for i, row := range scores {
		fmt.Fprintf(w, "%-*s", width, labels[i])
		for _, v := range row {
			fmt.Fprintf(w, "  %*d", width, v)
		}
		fmt.Fprintln(w)
	}
}

// Moves prints the move log of every match
func Moves(w io.Writer, teams []*ipd.Team, moves [][]ipd.History) {
	Section(w, "Moves")
	for i := range teams {
		for j := 0; j < i; j++ {
			a, b := teams[i], teams[j]
			fmt.Fprintf(w, "%s vs. %s (%d rounds)\n", a, b, len(moves[i][j]))
			fmt.Fprintf(w, "  P%-4d %s\n", a.Id, moves[i][j])
			fmt.Fprintf(w, "  P%-4d %s\n", b.Id, moves[j][i])
		}
	}
}

// Standings sums up the scores of every team and returns the teams
// ordered by their summed score.  Teams with the same score keep
// their order in the roster.
func Standings(teams []*ipd.Team, scores [][]int) []*ipd.Team {
	ranked := make([]*ipd.Team, len(teams))
	for i, t := range teams {
		t.Summed = 0
		for _, v := range scores[i] {
			t.Summed += v
		}
		ranked[i] = t
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Summed > ranked[j].Summed
	})
	return ranked
}

func PrintStandings(w io.Writer, ranked []*ipd.Team) {
	Section(w, "Standings")
	for i, t := range ranked {
		fmt.Fprintf(w, "%2d) %s(P%d): %8d points with %s\n",
			i+1, runewidth.FillRight(t.Name, 16), t.Id, t.Summed, t.Strategy)
	}
}
