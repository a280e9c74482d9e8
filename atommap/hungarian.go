/*
 * hungarian.go, part of timemachine.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//AssignMinCost solves the linear sum assignment problem for a square
//cost matrix, returning for each row the column assigned to it so that
//the total cost is minimal. It runs the Hungarian algorithm in its
//shortest-augmenting-path form with dual potentials, O(n^3). Panics on
//a non-square matrix.
func AssignMinCost(cost *mat.Dense) []int {
	n, m := cost.Dims()
	if n != m {
		panic("atommap: assignment needs a square cost matrix")
	}
	if n == 0 {
		return nil
	}
	//1-based internally; index 0 is the virtual unmatched column
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	match := make([]int, n+1) //match[j] = row matched to column j
	way := make([]int, n+1)
	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		visited := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		for {
			visited[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if visited[j] {
					continue
				}
				cur := cost.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if visited[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}
	ret := make([]int, n)
	for j := 1; j <= n; j++ {
		ret[match[j]-1] = j - 1
	}
	return ret
}
