// Configuration
//
// Copyright (c) 2021, 2022, 2023  Philip Kaludercic
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
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go-ipd"
	"go-ipd/game"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Default name of the configuration file
const Defconf = "ipd.toml"

// Prefix of all environment variables
const EnvPrefix = "IPD_"

type TournamentConf struct {
	Agents  []string `toml:"agents" env:"AGENTS" envSeparator:","`
	Shuffle bool     `toml:"shuffle" env:"SHUFFLE"`
	Seed    int64    `toml:"seed" env:"SEED"`
	Workers uint     `toml:"workers" env:"WORKERS"`
	Sanity  bool     `toml:"sanity" env:"SANITY"`
	Moves   bool     `toml:"moves" env:"MOVES"`
	Result  string   `toml:"result,omitempty" env:"RESULT"`
	Graph   string   `toml:"graph,omitempty" env:"GRAPH"`
}

type ProtoConf struct {
	Timeout time.Duration `toml:"timeout" env:"TIMEOUT"`
	Listen  string        `toml:"listen" env:"LISTEN"`
}

type Conf struct {
	Game       game.Rules     `toml:"game" envPrefix:"GAME_"`
	Tournament TournamentConf `toml:"tournament" envPrefix:"TOURNAMENT_"`
	Proto      ProtoConf      `toml:"proto" envPrefix:"PROTO_"`
}

// Default returns a fresh configuration with default values
func Default() *Conf {
	return &Conf{
		Game: game.DefaultRules(),
		Tournament: TournamentConf{
			Agents:  []string{"cooperate", "defect", "tit-for-tat", "random"},
			Workers: 1,
		},
		Proto: ProtoConf{
			Timeout: 20 * time.Second,
			Listen:  ":2672",
		},
	}
}

// Flags registers command line options that override the
// configuration of C
func (c *Conf) Flags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.Tournament.Shuffle, "random", "r", c.Tournament.Shuffle,
		"Randomise the order of the roster")
	fs.Int64Var(&c.Tournament.Seed, "seed", c.Tournament.Seed,
		"Seed for all random decisions (0 picks a seed)")
	fs.UintVar(&c.Tournament.Workers, "workers", c.Tournament.Workers,
		"Number of matches to play at the same time")
	fs.BoolVar(&c.Tournament.Sanity, "sanity", c.Tournament.Sanity,
		"Check every agent before starting the tournament")
	fs.BoolVar(&c.Tournament.Moves, "moves", c.Tournament.Moves,
		"Print the moves of every match")
	fs.StringVar(&c.Tournament.Result, "result", c.Tournament.Result,
		"File to write a result document to")
	fs.StringVar(&c.Tournament.Graph, "graph", c.Tournament.Graph,
		"File to write a dominance graph to")

	fs.UintVar(&c.Game.MinRounds, "min-rounds", c.Game.MinRounds,
		"Minimal number of rounds per match")
	fs.UintVar(&c.Game.MaxRounds, "max-rounds", c.Game.MaxRounds,
		"Maximal number of rounds per match")
	fs.DurationVar(&c.Game.Timeout, "timeout", c.Game.Timeout,
		"Time an agent may take for a move (0 disables the limit)")

	fs.DurationVar(&c.Proto.Timeout, "connect-timeout", c.Proto.Timeout,
		"Time to wait when connecting to a remote agent")
}

// Load the configuration file NAME into C, followed by environment
// variables and finally any flags in FS that were explicitly set.
// A missing file is only an error if NAME is not the default.
func Load(c *Conf, name string, fs *pflag.FlagSet) error {
	// Remember which flags were set, as the file and the
	// environment share their storage.
	changed := make(map[string]string)
	if fs != nil {
		fs.Visit(func(f *pflag.Flag) {
			changed[f.Name] = f.Value.String()
		})
	}

	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Print(err)
	}

	file, err := os.Open(name)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || name != Defconf {
			return err
		}
		ipd.Debug.Println("No configuration file, using defaults")
	} else {
		defer file.Close()
		md, err := toml.NewDecoder(file).Decode(c)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		for _, key := range md.Undecoded() {
			log.Printf("%s: unknown option %q", name, key)
		}
		ipd.Debug.Println("Loaded configuration from", name)
	}

	err = env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	for flag, val := range changed {
		if err := fs.Set(flag, val); err != nil {
			return err
		}
	}

	return c.Validate()
}

func (c *Conf) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return err
	}
	if !c.Game.Payoff.Conventional() {
		log.Printf("Payoff table %s is not a conventional prisoner's dilemma",
			c.Game.Payoff)
	}
	return nil
}

// Serialise the configuration into a writer
func (c *Conf) Dump(wr io.Writer) error {
	return toml.NewEncoder(wr).Encode(c)
}
