// Roster Loading
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

package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"

	"go-ipd"
	"go-ipd/bot"
	"go-ipd/proto"
)

func isRemote(id string) bool {
	return strings.HasPrefix(id, "ws://") || strings.HasPrefix(id, "wss://")
}

// Roster resolves agent identifiers into teams.  An identifier is
// either the name of a built-in strategy, the URL of a remote agent or
// "name=identifier" to override the display name of the team.  Teams
// are numbered in the order of IDS.
func (c *Conf) Roster(st *State, ids []string, rng *rand.Rand) ([]*ipd.Team, error) {
	var teams []*ipd.Team
	for i, id := range ids {
		t, err := c.resolve(st, id, rng)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", id, err)
		}
		t.Id = i
		ipd.Debug.Printf("Loaded %s using %s", t, t.Strategy)
		teams = append(teams, t)
	}
	return teams, nil
}

func (c *Conf) resolve(st *State, id string, rng *rand.Rand) (*ipd.Team, error) {
	var name string
	if i := strings.IndexByte(id, '='); i >= 0 && !isRemote(id) {
		name, id = id[:i], id[i+1:]
		if name == "" {
			return nil, fmt.Errorf("empty team name")
		}
	}

	var t *ipd.Team
	if isRemote(id) {
		ctx, cancel := context.WithTimeout(st.Context, c.Proto.Timeout)
		defer cancel()

		a, err := proto.Dial(ctx, id)
		if err != nil {
			return nil, err
		}
		st.Register(a)

		info := a.Info()
		t = &ipd.Team{
			Name:     info.Name,
			Strategy: info.Strategy,
			Descr:    info.Descr,
			Agent:    a,
		}
		if t.Name == "" {
			if u, err := url.Parse(id); err == nil {
				t.Name = u.Host
			} else {
				t.Name = id
			}
		}
		if t.Strategy == "" {
			t.Strategy = "remote"
		}
	} else {
		info, err := bot.Lookup(id)
		if err != nil {
			return nil, err
		}
		t = &ipd.Team{
			Name:     info.Name,
			Strategy: info.Name,
			Descr:    info.Descr,
			Agent:    info.Make(rand.New(rand.NewSource(rng.Int63()))),
		}
	}

	if name != "" {
		t.Name = name
	}
	return t, nil
}
