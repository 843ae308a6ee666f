// Remote Agents
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
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go-ipd"

	"github.com/gorilla/websocket"
)

// Info is the self-description of a remote agent
type Info struct {
	Name     string
	Strategy string
	Descr    string
}

// Agent wraps a websocket connection into a strategy
type Agent struct {
	url  string
	info Info

	iolock sync.Mutex // IO Lock
	conn   *websocket.Conn
	rid    uint64
}

// Dial connects to a remote agent at URL and requests its metadata
func Dial(ctx context.Context, url string) (*Agent, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	a := &Agent{url: url, conn: conn}
	err = a.request(ctx, "info", nil, func(msg *message) (bool, error) {
		var key, val string
		switch msg.cmd {
		case "set":
			if err := parse(msg.args, &key, &val); err != nil {
				return false, err
			}
			switch key {
			case "info:name":
				a.info.Name = val
			case "info:strategy":
				a.info.Strategy = val
			case "info:description":
				a.info.Descr = val
			}
			return false, nil
		case "ok":
			return true, nil
		}
		return false, fmt.Errorf("unexpected response %q", msg.cmd)
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	ipd.Debug.Printf("Connected to %s (%q)", url, a.info.Name)
	return a, nil
}

func (a *Agent) Info() Info { return a.info }

func (a *Agent) String() string {
	return fmt.Sprintf("%s (%q)", a.url, a.info.Name)
}

// Request sends COMMAND with ARGS and passes every response that
// references the request to HANDLE, until HANDLE indicates that the
// request is completed.  Messages that do not reference the request
// are dropped.
func (a *Agent) request(ctx context.Context, command string, args []interface{}, handle func(*message) (bool, error)) error {
	a.iolock.Lock()
	defer a.iolock.Unlock()

	if a.conn == nil {
		return errors.New("connection closed")
	}

	// Abort blocking IO if the context is done
	if dl, ok := ctx.Deadline(); ok {
		a.conn.SetReadDeadline(dl)
		a.conn.SetWriteDeadline(dl)
	} else {
		a.conn.SetReadDeadline(time.Time{})
		a.conn.SetWriteDeadline(time.Time{})
	}
	stop := context.AfterFunc(ctx, func() {
		a.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	a.rid++
	id := a.rid
	out := encode(id, 0, command, args...)
	ipd.Debug.Println(a.url, ">", out)
	err := a.conn.WriteMessage(websocket.TextMessage, []byte(out))
	if err != nil {
		return ioError(ctx, err)
	}

	for {
		_, data, err := a.conn.ReadMessage()
		if err != nil {
			return ioError(ctx, err)
		}
		ipd.Debug.Println(a.url, "<", string(data))

		msg, err := decode(string(data))
		if err != nil {
			return err
		}
		if msg.ref != id {
			continue
		}
		if msg.cmd == "error" {
			var reason string
			if parse(msg.args, &reason) != nil {
				reason = msg.args
			}
			return fmt.Errorf("agent reported an error: %s", reason)
		}

		done, err := handle(msg)
		if err != nil || done {
			return err
		}
	}
}

// Attribute an IO error to CTX, if it was caused by the context being
// done.  The socket deadline equals the context deadline, and may
// expire before the context notices.
func ioError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
			return context.DeadlineExceeded
		}
	}
	return err
}

// Decide requests a move from the remote agent
func (a *Agent) Decide(ctx context.Context, own, opp ipd.History, ownScore, oppScore int) (ipd.Move, error) {
	var move ipd.Move
	args := []interface{}{ownScore, oppScore, own, opp}
	err := a.request(ctx, "move", args, func(msg *message) (bool, error) {
		if msg.cmd != "move" {
			return false, fmt.Errorf("unexpected response %q", msg.cmd)
		}

		var m string
		if err := parse(msg.args, &m); err != nil {
			return false, err
		}
		if len(m) != 1 {
			return false, fmt.Errorf("invalid move %q", m)
		}
		move = ipd.Move(m[0])
		return true, nil
	})
	return move, err
}

// Move implements ipd.Strategy without a deadline.  A failed request
// results in an illegal move.
func (a *Agent) Move(own, opp ipd.History, ownScore, oppScore int) ipd.Move {
	m, err := a.Decide(context.Background(), own, opp, ownScore, oppScore)
	if err != nil {
		ipd.Debug.Print(a, ": ", err)
		return 0
	}
	return m
}

// Close says goodbye to the agent and closes the connection
func (a *Agent) Close() error {
	a.iolock.Lock()
	defer a.iolock.Unlock()

	if a.conn == nil {
		return nil
	}
	a.conn.SetWriteDeadline(time.Now().Add(time.Second))
	a.conn.WriteMessage(websocket.TextMessage, []byte(encode(0, 0, "goodbye")))
	err := a.conn.Close()
	a.conn = nil
	return err
}

var _ ipd.ContextStrategy = &Agent{}
