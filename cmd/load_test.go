// Roster Loading Tests
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
	"errors"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"

	"go-ipd"
	"go-ipd/bot"
	"go-ipd/proto"
)

func testState(t *testing.T) *State {
	st := MakeState()
	t.Cleanup(st.Shutdown)
	return st
}

func TestRoster(t *testing.T) {
	st := testState(t)
	teams, err := Default().Roster(st, []string{
		"defect",
		"Nice=cooperate",
		"random",
	}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	for i, want := range []struct{ name, strategy string }{
		{"defect", "defect"},
		{"Nice", "cooperate"},
		{"random", "random"},
	} {
		team := teams[i]
		if team.Id != i {
			t.Errorf("[%d] Unexpected id %d", i, team.Id)
		}
		if team.Name != want.name || team.Strategy != want.strategy {
			t.Errorf("[%d] Expected %s/%s, got %s/%s", i,
				want.name, want.strategy, team.Name, team.Strategy)
		}
		if team.Agent == nil {
			t.Errorf("[%d] Missing agent", i)
		}
	}

	if m := teams[0].Agent.Move(nil, nil, 0, 0); m != ipd.Betray {
		t.Errorf("Expected defect to betray, got %s", m)
	}
}

func TestRosterUnknown(t *testing.T) {
	st := testState(t)
	for i, id := range []string{"no-such-strategy", "Name=nothing", "=defect"} {
		_, err := Default().Roster(st, []string{"defect", id}, rand.New(rand.NewSource(1)))
		if err == nil {
			t.Errorf("[%d] Expected %q to be rejected", i, id)
		} else if !strings.Contains(err.Error(), id) {
			t.Errorf("[%d] Expected the error to name %q: %v", i, id, err)
		}
	}

	_, err := Default().Roster(st, []string{"nope"}, rand.New(rand.NewSource(1)))
	if !errors.Is(err, bot.ErrUnknown) {
		t.Errorf("Expected an unknown strategy, got %v", err)
	}
}

func TestRosterRemote(t *testing.T) {
	handler := proto.Handler(proto.Info{Strategy: "grudge"},
		ipd.StrategyFunc(bot.Grudger))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	st := testState(t)
	teams, err := Default().Roster(st, []string{
		url,
		"Remote=" + url,
	}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	host := strings.TrimPrefix(srv.URL, "http://")
	if teams[0].Name != host || teams[0].Strategy != "grudge" {
		t.Errorf("Unexpected team %s/%s", teams[0].Name, teams[0].Strategy)
	}
	if teams[1].Name != "Remote" || teams[1].Id != 1 {
		t.Errorf("Unexpected team %s (%d)", teams[1].Name, teams[1].Id)
	}
	if m := teams[1].Agent.Move(nil, nil, 0, 0); m != ipd.Collude {
		t.Errorf("Expected a grudger to collude first, got %s", m)
	}
}
