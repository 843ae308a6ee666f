// Dominance Graph
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

// Graph writes a Graphviz digraph with an edge from every team to each
// opponent it scored more points against in their match.
func Graph(w io.Writer, teams []*ipd.Team, scores [][]int) error {
	node := func(t *ipd.Team) string {
		return fmt.Sprintf("n%d", t.Id)
	}

	_, err := fmt.Fprint(w, `strict digraph dominance { ratio = compress ;`)
	if err != nil {
		return err
	}

	for _, t := range teams {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("Unnamed (%d)", t.Id)
		}
		name = strings.ReplaceAll(name, `"`, `\"`)
		_, err = fmt.Fprintf(w, `%s [label="%s"];`, node(t), name)
		if err != nil {
			return err
		}
	}

	for i := range teams {
		for j := range teams {
			if i == j || scores[i][j] <= scores[j][i] {
				continue
			}
			_, err = fmt.Fprint(w, node(teams[i]), "->", node(teams[j]), ";")
			if err != nil {
				return err
			}
		}
	}

	_, err = fmt.Fprint(w, `}`)
	return err
}
