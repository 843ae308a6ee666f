// Random Agent
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

import (
	"math/rand"
	"sync"
	"time"

	"go-ipd"
)

type random struct {
	lock sync.Mutex // a team may play multiple matches at once
	rng  *rand.Rand
}

func (r *random) Move(_, _ ipd.History, _, _ int) ipd.Move {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.rng.Intn(2) == 0 {
		return ipd.Collude
	}
	return ipd.Betray
}

func (*random) String() string { return "random" }

// MakeRandom returns a strategy that flips a coin every round.  If RNG
// is nil, a time-seeded source is used.
func MakeRandom(rng *rand.Rand) ipd.Strategy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &random{rng: rng}
}
