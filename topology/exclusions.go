/*
 * exclusions.go, part of timemachine.
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

package topology

import (
	"sort"

	fep "github.com/ljmartin/timemachine"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"
)

//GenerateExclusionIdxs walks the bond graph of mol and returns the
//intramolecular pairs whose nonbonded interaction is excluded or
//rescaled, with one scale factor per pair: scale12 for directly bonded
//pairs, scale13 for pairs two bonds apart, scale14 for pairs three
//bonds apart. In rings the shortest bond path decides. Pairs come out
//with i < j, sorted lexicographically.
func GenerateExclusionIdxs(mol *fep.Molecule, scale12, scale13, scale14 float64) ([][2]int, []float64) {
	g := fep.BondGraph(mol)
	scales := map[int]float64{1: scale12, 2: scale13, 3: scale14}

	pairs := make(map[[2]int]float64)
	bf := traverse.BreadthFirst{}
	for i := 0; i < mol.Len(); i++ {
		start := g.Node(int64(i))
		if start == nil {
			continue
		}
		bf.Reset()
		bf.Walk(g, start, func(n graph.Node, depth int) bool {
			if depth > 3 {
				return true
			}
			j := int(n.ID())
			if j <= i || depth == 0 {
				return false
			}
			pairs[[2]int{i, j}] = scales[depth]
			return false
		})
	}

	idxs := make([][2]int, 0, len(pairs))
	for ij := range pairs {
		idxs = append(idxs, ij)
	}
	sort.Slice(idxs, func(a, b int) bool {
		if idxs[a][0] != idxs[b][0] {
			return idxs[a][0] < idxs[b][0]
		}
		return idxs[a][1] < idxs[b][1]
	})
	ret := make([]float64, len(idxs))
	for n, ij := range idxs {
		ret[n] = pairs[ij]
	}
	return idxs, ret
}
