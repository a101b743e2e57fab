/*
 * decoys.go, part of gopose.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package fpdock

import (
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/google/uuid"
	pose "github.com/rmera/gopose"
)

//RunDecoys produces n independent decoys from p, which is not modified, using up to
//workers goroutines (runtime.NumCPU() if workers < 1). Decoy i uses its own copy of the
//pose and of the score function, and a random number generator seeded with seed and i,
//so the results do not depend on the scheduling. The Observer of proto, if any, must be
//safe for concurrent use. The first error found is returned along with all the results
//obtained. Failed decoys have a nil result.
func RunDecoys(p *pose.Pose, proto *Protocol, n, workers int, seed uint64) ([]*Result, error) {
	if proto == nil || proto.Flags == nil || proto.Sf == nil {
		panic(pose.ErrNotBuilt)
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	results := make([]*Result, n)
	errs := make([]error, n)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				pr := &Protocol{
					Flags:    proto.Flags,
					Sf:       proto.Sf.Clone(),
					Native:   proto.Native,
					Observer: proto.Observer,
					rng:      rand.New(rand.NewPCG(seed, uint64(i))),
				}
				res, err := pr.Apply(p.Copy())
				if err != nil {
					errs[i] = pose.ErrDecorate(err, "RunDecoys")
					continue
				}
				res.Tag = uuid.New().String()
				proto.Flags.logf(1, "Decoy %d (%s): total_score %.3f, %s", i, res.Tag, res.Stats["total_score"], res.Status)
				results[i] = res
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
