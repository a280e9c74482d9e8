/*
 * match.go, part of timemachine.
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
	"sort"

	fep "github.com/ljmartin/timemachine"
)

//Matches enumerates every placement of the pattern in mol, up to limit,
//and returns them as slices of molecule atom indices in pattern-atom
//order. Symmetric placements are NOT deduplicated: two placements that
//cover the same atoms in a different order are distinct, since the
//mapper scores each ordering separately. Enumeration order is fixed:
//candidates for each pattern atom are tried in ascending molecule atom
//index, so the result order is a total order independent of map
//iteration.
func (p *Pattern) Matches(mol *fep.Molecule, limit int) [][]int {
	type check struct {
		other int //earlier pattern atom
		kind  int
	}
	checks := make([][]check, len(p.Atoms))
	for _, b := range p.Bonds {
		lo, hi := b.A1, b.A2
		if lo > hi {
			lo, hi = hi, lo
		}
		checks[hi] = append(checks[hi], check{other: lo, kind: b.Kind})
	}

	var out [][]int
	assign := make([]int, len(p.Atoms))
	used := make([]bool, mol.Len())

	var place func(k int)
	place = func(k int) {
		if len(out) >= limit {
			return
		}
		if k == len(p.Atoms) {
			m := make([]int, len(assign))
			copy(m, assign)
			out = append(out, m)
			return
		}
		var candidates []int
		if len(checks[k]) == 0 {
			//pattern atoms are chained to an earlier atom by
			//construction, so only atom 0 lands here
			candidates = make([]int, mol.Len())
			for i := range candidates {
				candidates[i] = i
			}
		} else {
			candidates = mol.Neighbors(assign[checks[k][0].other])
			sort.Ints(candidates)
		}
		for _, cand := range candidates {
			if used[cand] || !atomCompatible(p.Atoms[k], mol.Atom(cand)) {
				continue
			}
			ok := true
			for _, ch := range checks[k] {
				b := bondBetween(mol, assign[ch.other], cand)
				if b == nil || !bondCompatible(ch.kind, b) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			assign[k] = cand
			used[cand] = true
			place(k + 1)
			used[cand] = false
			if len(out) >= limit {
				return
			}
		}
	}
	place(0)
	return out
}

func atomCompatible(pa PatternAtom, at *fep.Atom) bool {
	if pa.Symbol != "" && pa.Symbol != at.Symbol {
		return false
	}
	if pa.Arom > 0 && !at.Aromatic {
		return false
	}
	if pa.Arom < 0 && at.Aromatic {
		return false
	}
	return true
}

func bondCompatible(kind int, b *fep.Bond) bool {
	switch kind {
	case BondDefault:
		return b.Aromatic || b.Order == 1
	case BondSingle:
		return b.Order == 1 && !b.Aromatic
	case BondDouble:
		return b.Order == 2 && !b.Aromatic
	case BondTriple:
		return b.Order == 3
	case BondAromatic:
		return b.Aromatic
	case BondAny:
		return true
	}
	return false
}

func bondBetween(mol *fep.Molecule, i, j int) *fep.Bond {
	for _, b := range mol.Atom(i).Bonds {
		if b.Cross(mol.Atom(i)).Index == j {
			return b
		}
	}
	return nil
}
