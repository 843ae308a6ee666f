// Strategy Registry
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
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"go-ipd"
)

// ErrUnknown is returned when looking up an unregistered strategy
var ErrUnknown = errors.New("unknown strategy")

// A Factory creates a fresh instance of a strategy.  Strategies that
// do not make random choices may ignore RNG.
type Factory func(rng *rand.Rand) ipd.Strategy

type Info struct {
	Name  string
	Descr string
	Make  Factory
}

var (
	lock     sync.RWMutex
	registry = make(map[string]*Info)
)

// Register a strategy under NAME.  Registering the same name twice is
// a programming error.
func Register(name, descr string, f Factory) {
	lock.Lock()
	defer lock.Unlock()

	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("Strategy %q registered twice", name))
	}
	registry[name] = &Info{Name: name, Descr: descr, Make: f}
}

func Lookup(name string) (*Info, error) {
	lock.RLock()
	defer lock.RUnlock()

	info, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return info, nil
}

// Names of all registered strategies in alphabetical order
func Names() (names []string) {
	lock.RLock()
	defer lock.RUnlock()

	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

func init() {
	stateless := func(s ipd.Strategy) Factory {
		return func(*rand.Rand) ipd.Strategy { return s }
	}

	Register("cooperate", "Always colludes",
		stateless(ipd.StrategyFunc(Cooperate)))
	Register("defect", "Always betrays",
		stateless(ipd.StrategyFunc(Defect)))
	Register("tit-for-tat", "Colludes first, then repeats the opponent's last move",
		stateless(ipd.StrategyFunc(TitForTat)))
	Register("tit-for-two-tats", "Only betrays after being betrayed twice in a row",
		stateless(ipd.StrategyFunc(TitForTwoTats)))
	Register("grudger", "Colludes until the opponent betrays once",
		stateless(ipd.StrategyFunc(Grudger)))
	Register("pavlov", "Repeats its last move if the opponent colluded, otherwise switches",
		stateless(ipd.StrategyFunc(Pavlov)))
	Register("alternate", "Alternates between colluding and betraying",
		stateless(ipd.StrategyFunc(Alternate)))
	Register("random", "Colludes or betrays at random",
		func(rng *rand.Rand) ipd.Strategy { return MakeRandom(rng) })
}
