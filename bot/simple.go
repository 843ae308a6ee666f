// Deterministic Strategies
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

package bot

import "go-ipd"

func Cooperate(_, _ ipd.History, _, _ int) ipd.Move { return ipd.Collude }

func Defect(_, _ ipd.History, _, _ int) ipd.Move { return ipd.Betray }

func TitForTat(_, opp ipd.History, _, _ int) ipd.Move {
	if m, ok := opp.Last(); ok {
		return m
	}
	return ipd.Collude
}

func TitForTwoTats(_, opp ipd.History, _, _ int) ipd.Move {
	n := len(opp)
	if n >= 2 && opp[n-1] == ipd.Betray && opp[n-2] == ipd.Betray {
		return ipd.Betray
	}
	return ipd.Collude
}

func Grudger(_, opp ipd.History, _, _ int) ipd.Move {
	if opp.Count(ipd.Betray) > 0 {
		return ipd.Betray
	}
	return ipd.Collude
}

// Win-stay, lose-shift
func Pavlov(own, opp ipd.History, _, _ int) ipd.Move {
	last, ok := own.Last()
	if !ok {
		return ipd.Collude
	}
	if m, _ := opp.Last(); m == ipd.Collude {
		return last
	}
	if last == ipd.Collude {
		return ipd.Betray
	}
	return ipd.Collude
}

func Alternate(own, _ ipd.History, _, _ int) ipd.Move {
	if len(own)%2 == 0 {
		return ipd.Collude
	}
	return ipd.Betray
}
