// Remote Agent Command
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

package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"go-ipd"
	"go-ipd/bot"
	"go-ipd/cmd"
	"go-ipd/proto"

	"github.com/spf13/cobra"
)

func main() {
	if err := newAgentCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newAgentCommand() *cobra.Command {
	var (
		file     string
		name     string
		strategy string
		debug    bool
	)
	conf := cmd.Default()

	root := &cobra.Command{
		Use:   "ipd-agent",
		Short: "Serve a built-in strategy as a remote agent",
		Long: `Serve a built-in strategy as a remote agent.

Tournaments can connect to the agent using its ws:// URL.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, _ []string) error {
			if debug {
				ipd.Debug.SetOutput(os.Stderr)
				log.SetFlags(ipd.Debug.Flags())
			}
			if err := cmd.Load(conf, file, c.Flags()); err != nil {
				return err
			}

			info, err := bot.Lookup(strategy)
			if err != nil {
				return err
			}
			if name == "" {
				name = info.Name
			}
			s := info.Make(rand.New(rand.NewSource(time.Now().UnixNano())))

			st := cmd.MakeState()
			defer st.Shutdown()

			mux := http.NewServeMux()
			mux.Handle("/", proto.Handler(proto.Info{
				Name:     name,
				Strategy: info.Name,
				Descr:    info.Descr,
			}, s))
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, "ok")
			})

			srv := &http.Server{Addr: conf.Proto.Listen, Handler: mux}
			go func() {
				<-st.Context.Done()
				srv.Close()
			}()

			log.Printf("Serving %s on %s", info.Name, conf.Proto.Listen)
			err = srv.ListenAndServe()
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		},
	}

	fs := root.Flags()
	fs.StringVar(&file, "conf", cmd.Defconf, "Configuration file to load")
	fs.StringVar(&conf.Proto.Listen, "listen", conf.Proto.Listen, "Address to listen on")
	fs.StringVar(&name, "name", "", "Name to report to tournaments")
	fs.StringVar(&strategy, "strategy", "tit-for-tat", "Built-in strategy to serve")
	fs.BoolVar(&debug, "debug", false, "Print debugging information")

	return root
}
