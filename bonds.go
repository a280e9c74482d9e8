/*
 * bonds.go, part of timemachine.
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

package fep

import (
	"fmt"

	v3 "github.com/ljmartin/timemachine/v3"
)

//constants from DOI:10.1186/1758-2946-3-33, scaled to nm
const (
	tooclose = 0.063
	bondtol  = 0.045
)

//AssignBonds returns single bonds between the given atoms based on a
//simple distance criterium, similar to that described in
//DOI:10.1186/1758-2946-3-33. Every perceived bond gets order 1, as
//distances alone cannot set higher orders.
//It is mostly a convenience to build small test ligands from plain
//coordinates; real inputs normally come with their connectivity.
func AssignBonds(coord *v3.Matrix, atoms []*Atom) ([]*Bond, error) {
	bonds := make([]*Bond, 0, 10)
	tot := len(atoms)
	var nextIndex int
	for i := 0; i < tot; i++ {
		at1 := atoms[i]
		cov1 := symbolCovrad[at1.Symbol]
		if cov1 == 0 {
			return nil, NewCError(fmt.Sprintf("Couldn't find the covalent radius for %s %d", at1.Symbol, i), "AssignBonds")
		}
		for j := i + 1; j < tot; j++ {
			at2 := atoms[j]
			cov2 := symbolCovrad[at2.Symbol]
			if cov2 == 0 {
				return nil, NewCError(fmt.Sprintf("Couldn't find the covalent radius for %s %d", at2.Symbol, j), "AssignBonds")
			}
			d := v3.Dist(coord, i, coord, j)
			if d < cov1+cov2+bondtol && d > tooclose {
				b := &Bond{Index: nextIndex, Dist: d, At1: at1, At2: at2, Order: 1}
				bonds = append(bonds, b)
				nextIndex++
			}
		}
	}
	return bonds, nil
}
