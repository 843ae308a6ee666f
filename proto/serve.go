// Serving Strategies
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

package proto

import (
	"log"
	"net/http"

	"go-ipd"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// Handler exposes S as a remote agent.  Every connection is handled
// independently, but they all share the same strategy.
func Handler(info Info, s ipd.Strategy) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Print(err)
			return
		}
		defer conn.Close()

		ipd.Debug.Println("Serving", r.RemoteAddr)
		serve(conn, info, s)
		ipd.Debug.Println("Finished serving", r.RemoteAddr)
	})
}

func serve(conn *websocket.Conn, info Info, s ipd.Strategy) {
	var rid uint64
	respond := func(ref uint64, command string, args ...interface{}) error {
		rid++
		out := encode(rid, ref, command, args...)
		return conn.WriteMessage(websocket.TextMessage, []byte(out))
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ipd.Debug.Print(err)
			}
			return
		}

		msg, err := decode(string(data))
		if err != nil {
			err = respond(0, "error", err.Error())
			goto check
		}

		switch msg.cmd {
		case "info":
			for _, kv := range [][2]string{
				{"info:name", info.Name},
				{"info:strategy", info.Strategy},
				{"info:description", info.Descr},
			} {
				if kv[1] == "" {
					continue
				}
				err = respond(msg.id, "set", kv[0], kv[1])
				if err != nil {
					goto check
				}
			}
			err = respond(msg.id, "ok")
		case "move":
			var (
				own, opp           ipd.History
				ownScore, oppScore int
			)
			err = parse(msg.args, &ownScore, &oppScore, &own, &opp)
			if err != nil {
				err = respond(msg.id, "error", err.Error())
				break
			}
			if len(own) != len(opp) {
				err = respond(msg.id, "error", "histories differ in length")
				break
			}
			err = respond(msg.id, "move", s.Move(own, opp, ownScore, oppScore))
		case "goodbye":
			return
		case "ping":
			err = respond(msg.id, "pong")
		default:
			err = respond(msg.id, "error", "unknown command "+msg.cmd)
		}
	check:
		if err != nil {
			ipd.Debug.Print(err)
			return
		}
	}
}
