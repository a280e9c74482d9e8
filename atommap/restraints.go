/*
 * restraints.go, part of timemachine.
 *
 * Copyright 2023 The timemachine developers.
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

package atommap

import (
	"fmt"
	"math"

	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/v3"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

//matchLimit bounds placement enumeration per molecule. Reaching it
//means the pattern is too symmetric or too unspecific for exhaustive
//pairing, which is reported as an error rather than silently truncated.
const matchLimit = 1000

var logger = zap.NewNop()

//SetLogger routes the mapper's diagnostics (the selected placement pair
//and its score) through l. The default logger discards them.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

//SetupRelativeRestraintsUsingSmarts finds the core atom correspondence
//between two aligned ligands sharing the scaffold described by smarts.
//Every placement of the pattern in molA is paired with every placement
//in molB; each pair is scored by solving the min-cost assignment
//between the two placements' coordinates and taking the Frobenius norm
//of the residual. The pair with the smallest score wins, first
//enumerated wins ties, and the result pairs the placements
//position-wise: row n holds (index in molA, index in molB) of pattern
//atom n.
func SetupRelativeRestraintsUsingSmarts(molA, molB *fep.Molecule, smarts string) ([][2]int, error) {
	pat, err := ParseSmarts(smarts)
	if err != nil {
		return nil, errDecorate(err, "SetupRelativeRestraintsUsingSmarts")
	}
	matchesA := pat.Matches(molA, matchLimit)
	matchesB := pat.Matches(molB, matchLimit)
	if len(matchesA) >= matchLimit || len(matchesB) >= matchLimit {
		return nil, fep.NewCError(fmt.Sprintf("pattern placements exceed the %d per-molecule ceiling", matchLimit), "SetupRelativeRestraintsUsingSmarts")
	}
	if len(matchesA) == 0 || len(matchesB) == 0 {
		return nil, fep.NewCError("pattern not found in both molecules", "SetupRelativeRestraintsUsingSmarts")
	}

	confA := molA.Coords()
	confB := molB.Coords()
	n := len(pat.Atoms)
	cost := mat.NewDense(n, n, nil)

	best := math.Inf(1)
	var bestA, bestB []int
	for _, ca := range matchesA {
		for _, cb := range matchesB {
			for i, ai := range ca {
				for j, bj := range cb {
					cost.Set(i, j, v3.Dist(confA, ai, confB, bj))
				}
			}
			cols := AssignMinCost(cost)
			sum := 0.0
			for i, j := range cols {
				d := v3.Dist(confA, ca[i], confB, cb[j])
				sum += d * d
			}
			rmsd := math.Sqrt(sum)
			if rmsd < best {
				best = rmsd
				bestA = ca
				bestB = cb
			}
		}
	}

	core := make([][2]int, n)
	for i := range core {
		core[i] = [2]int{bestA[i], bestB[i]}
	}
	logger.Info("core mapping selected",
		zap.Ints("core_a", bestA),
		zap.Ints("core_b", bestB),
		zap.Float64("rmsd", best))
	return core, nil
}

func errDecorate(err error, caller string) error {
	err2, ok := err.(fep.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
