// Payoff Matrix
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

import "fmt"

// Payoff is the score table of a single dilemma.  Conventionally
// Temptation > Reward > Punishment > Sucker.
type Payoff struct {
	Reward     int `toml:"reward" env:"REWARD"`
	Sucker     int `toml:"sucker" env:"SUCKER"`
	Temptation int `toml:"temptation" env:"TEMPTATION"`
	Punishment int `toml:"punishment" env:"PUNISHMENT"`
}

// The classic table (R, S, T, P) = (3, 0, 5, 1)
var DefaultPayoff = Payoff{
	Reward:     3,
	Sucker:     0,
	Temptation: 5,
	Punishment: 1,
}

// Score returns the points for both sides of a single dilemma.  Both
// moves must be legal.
func (p Payoff) Score(a, b Move) (int, int) {
	switch {
	case a == Collude && b == Collude:
		return p.Reward, p.Reward
	case a == Collude && b == Betray:
		return p.Sucker, p.Temptation
	case a == Betray && b == Collude:
		return p.Temptation, p.Sucker
	case a == Betray && b == Betray:
		return p.Punishment, p.Punishment
	}
	panic(fmt.Sprintf("Illegal moves: %q, %q", byte(a), byte(b)))
}

// Conventional checks if the table describes a proper iterated
// prisoner's dilemma, where mutual cooperation beats taking turns
// exploiting each other.
func (p Payoff) Conventional() bool {
	return p.Temptation > p.Reward &&
		p.Reward > p.Punishment &&
		p.Punishment > p.Sucker &&
		2*p.Reward > p.Temptation+p.Sucker
}

func (p Payoff) String() string {
	return fmt.Sprintf("(R=%d, S=%d, T=%d, P=%d)",
		p.Reward, p.Sucker, p.Temptation, p.Punishment)
}
