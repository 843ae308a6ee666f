// Tournament Command
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

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/exec"
	"path"
	"time"

	"go-ipd"
	"go-ipd/bot"
	"go-ipd/cmd"
	"go-ipd/game"
	"go-ipd/report"
	"go-ipd/sched"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Tournament finished
	ExitEmpty   = 1 // No agents to play against one another
	ExitError   = 2 // Configuration, loading or runtime error
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, ipd.ErrEmptyRoster) {
			os.Exit(ExitEmpty)
		}
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}

type options struct {
	conf   *cmd.Conf
	file   string
	dump   bool
	debug  bool
	silent bool
	list   bool
}

func newRootCommand() *cobra.Command {
	opts := options{conf: cmd.Default()}

	root := &cobra.Command{
		Use:   "ipd [flags] [agent ...]",
		Short: "Run an iterated prisoner's dilemma tournament",
		Long: `Run an iterated prisoner's dilemma tournament.

Every agent plays a match of randomised length against every other agent.
An agent is either the name of a built-in strategy (see --list), the
ws:// or wss:// URL of a remote agent, or NAME=AGENT to set the name
under which an agent is listed.  Without any arguments, the agents from
the configuration file are used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, &opts, args)
		},
	}

	fs := root.Flags()
	opts.conf.Flags(fs)
	fs.StringVar(&opts.file, "conf", cmd.Defconf, "Configuration file to load")
	fs.BoolVar(&opts.dump, "dump-config", false, "Print the configuration and exit")
	fs.BoolVar(&opts.debug, "debug", false, "Print debugging information")
	fs.BoolVar(&opts.silent, "silent", false, "Do not log anything")
	fs.BoolVar(&opts.list, "list", false, "List all built-in strategies and exit")

	return root
}

func run(c *cobra.Command, opts *options, args []string) error {
	out := c.OutOrStdout()
	if opts.silent {
		log.SetOutput(io.Discard)
	}
	if opts.debug {
		ipd.Debug.SetOutput(os.Stderr)
		log.SetFlags(ipd.Debug.Flags())
		ipd.Debug.Println("Debug logging has been enabled")
	}

	if opts.list {
		for _, name := range bot.Names() {
			info, err := bot.Lookup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", runewidth.FillRight(name, 18), info.Descr)
		}
		return nil
	}

	conf := opts.conf
	if err := cmd.Load(conf, opts.file, c.Flags()); err != nil {
		return err
	}
	if opts.dump {
		return conf.Dump(out)
	}

	seed := conf.Tournament.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ipd.Debug.Println("Using seed", seed)
	rng := rand.New(rand.NewSource(seed))

	st := cmd.MakeState()
	defer st.Shutdown()

	ids := args
	if len(ids) == 0 {
		ids = conf.Tournament.Agents
	}
	teams, err := conf.Roster(st, ids, rng)
	if err != nil {
		return err
	}
	if len(teams) == 0 {
		return ipd.ErrEmptyRoster
	}
	if conf.Tournament.Shuffle {
		rng.Shuffle(len(teams), func(i, j int) {
			teams[i], teams[j] = teams[j], teams[i]
		})
	}

	report.Lineup(out, teams)

	rr := sched.RoundRobin{
		Rules:   &conf.Game,
		Rand:    rng,
		Workers: conf.Tournament.Workers,
		Sanity:  conf.Tournament.Sanity,
		Observe: func(i, j int, res *game.Result) {
			ipd.Debug.Printf("%s vs. %s: %d to %d after %d rounds",
				teams[i], teams[j], res.Score[0], res.Score[1], res.Rounds)
		},
	}
	start := time.Now()
	tourn, err := rr.Play(st.Context, teams)
	if err != nil {
		return err
	}
	ipd.Debug.Printf("Played %d matches in %v", tourn.Matches, time.Since(start))

	report.Scores(out, teams, tourn.Scores)
	if conf.Tournament.Moves {
		report.Moves(out, teams, tourn.Moves)
	}
	ranked := report.Standings(teams, tourn.Scores)
	report.PrintStandings(out, ranked)

	if res := conf.Tournament.Result; res != "" {
		err := render(res, groff, func(w io.Writer) error {
			report.Troff(w, teams, tourn.Scores, ranked)
			return nil
		})
		if err != nil {
			return fmt.Errorf("result: %w", err)
		}
	}
	if gr := conf.Tournament.Graph; gr != "" {
		err := render(gr, dot, func(w io.Writer) error {
			return report.Graph(w, teams, tourn.Scores)
		})
		if err != nil {
			return fmt.Errorf("graph: %w", err)
		}
	}

	return nil
}

// Return a command to convert troff output, depending on the file
// extension, or nil if the output should be written as is.
func groff(ext string) *exec.Cmd {
	var dev string
	switch ext {
	case ".pdf":
		dev = "-Tpdf"
	case ".ps":
		dev = "-Tps"
	case ".html":
		dev = "-Txhtml"
	case ".txt":
		dev = "-Tutf8"
	default:
		return nil
	}
	ipd.Debug.Println("Preparing groff with", dev)
	return exec.Command("groff", dev, "-ms", "-t")
}

// Same as groff, but for Graphviz
func dot(ext string) *exec.Cmd {
	switch ext {
	case ".svg", ".png", ".pdf":
		ipd.Debug.Println("Preparing dot for", ext)
		return exec.Command("dot", "-T"+ext[1:])
	}
	return nil
}

// Write the output of GEN into the file NAME, possibly piping it
// through a converter
func render(name string, conv func(string) *exec.Cmd, gen func(io.Writer) error) error {
	ipd.Debug.Println("Writing to", name)
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer file.Close()

	proc := conv(path.Ext(name))
	if proc == nil {
		return gen(file)
	}

	proc.Stdout = file
	proc.Stderr = os.Stderr
	in, err := proc.StdinPipe()
	if err != nil {
		return err
	}
	if err := proc.Start(); err != nil {
		return err
	}
	err = gen(in)
	in.Close()
	if werr := proc.Wait(); err == nil {
		err = werr
	}
	return err
}
