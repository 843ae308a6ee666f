// Generic Scheduler Pool
//
// Copyright (c) 2022, 2023  Philip Kaludercic
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

package sched

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"go-ipd/game"
)

func (r *RoundRobin) sequential(ctx context.Context, t *Tournament, pairs []pairing) error {
	for _, p := range pairs {
		res, err := r.play(ctx, t, p)
		if err != nil {
			return err
		}
		t.Matches++
		r.observe(p, res)
	}
	return nil
}

// Run pairings on a bounded number of workers.  The first failure
// cancels all running matches and prevents new ones from starting.
func (r *RoundRobin) parallel(ctx context.Context, t *Tournament, pairs []pairing) error {
	var (
		lock  sync.Mutex
		group *errgroup.Group
	)
	group, ctx = errgroup.WithContext(ctx)
	group.SetLimit(int(r.Workers))

	for _, p := range pairs {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.play(ctx, t, p)
			if err != nil {
				return err
			}

			lock.Lock()
			t.Matches++
			r.observe(p, res)
			lock.Unlock()
			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		log.Printf("Aborted after %d/%d matches", t.Matches, len(pairs))
	}
	return err
}

func (r *RoundRobin) observe(p pairing, res *game.Result) {
	if r.Observe != nil {
		r.Observe(p.i, p.j, res)
	}
}
