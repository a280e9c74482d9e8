/*
 * chiral.go, part of timemachine.
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

//Package chiral identifies chiral atoms and bonds in a molecule and
//derives signed geometric restraint index tuples from a reference
//conformer. The tuples keep stereochemistry fixed during alchemical
//transformations and back the static atom-mapping consistency check in
//FindAtomMapChiralConflicts.
package chiral

import (
	"sort"

	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/potentials"
	"github.com/ljmartin/timemachine/v3"
	"gonum.org/v1/gonum/stat/combin"
)

//FindChiralAtoms returns the indices, in ascending order, of atoms whose
//tetrahedral or pyramidal geometry is restrainable: any atom with four
//neighbors, plus sulfur and phosphorus with three. Pyramidal nitrogen is
//left out on purpose, as its inversion barrier is low enough that
//restraining it would be wrong more often than right. Two
//constitutionally identical substituents do not disqualify a center;
//that coarseness is a known limitation.
func FindChiralAtoms(mol *fep.Molecule) []int {
	var ret []int
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		deg := len(at.Bonds)
		if deg == 4 || (deg == 3 && (at.Symbol == "S" || at.Symbol == "P")) {
			ret = append(ret, i)
		}
	}
	return ret
}

//FindChiralBonds returns the (i, j) pairs, i < j, of bonds with
//restrainable E/Z geometry: non-aromatic double bonds, and amide C-N
//bonds (read through the tautomer, so the partial double bond is
//treated as stereo-defining), in both cases requiring that each end
//carry at least one further substituent.
func FindChiralBonds(mol *fep.Molecule) [][2]int {
	seen := make(map[[2]int]bool)
	var ret [][2]int
	add := func(i, j int) {
		if j < i {
			i, j = j, i
		}
		p := [2]int{i, j}
		if !seen[p] {
			seen[p] = true
			ret = append(ret, p)
		}
	}
	for _, b := range mol.Bonds() {
		if b.Aromatic {
			continue
		}
		if b.Order == 2 && len(b.At1.Bonds) > 1 && len(b.At2.Bonds) > 1 {
			add(b.At1.Index, b.At2.Index)
		}
	}
	for _, p := range amideBonds(mol) {
		n, c := mol.Atom(p[0]), mol.Atom(p[1])
		if len(n.Bonds) > 1 && len(c.Bonds) > 1 {
			add(p[0], p[1])
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i][0] != ret[j][0] {
			return ret[i][0] < ret[j][0]
		}
		return ret[i][1] < ret[j][1]
	})
	return ret
}

//amideBonds returns (N, C) pairs matching a three-coordinate amide
//nitrogen singly bonded to a three-coordinate carbonyl carbon, i.e. the
//N and C of [NX3][CX3]=[OX1].
func amideBonds(mol *fep.Molecule) [][2]int {
	var ret [][2]int
	for _, b := range mol.Bonds() {
		if b.Aromatic || b.Order != 1 {
			continue
		}
		for _, or := range [2][2]*fep.Atom{{b.At1, b.At2}, {b.At2, b.At1}} {
			n, c := or[0], or[1]
			if n.Symbol != "N" || c.Symbol != "C" || n.Aromatic || c.Aromatic {
				continue
			}
			if len(n.Bonds) != 3 || len(c.Bonds) != 3 {
				continue
			}
			carbonyl := false
			for _, cb := range c.Bonds {
				other := cb.Cross(c)
				if cb.Order == 2 && other.Symbol == "O" && len(other.Bonds) == 1 {
					carbonyl = true
				}
			}
			if carbonyl {
				ret = append(ret, [2]int{n.Index, c.Index})
			}
		}
	}
	return ret
}

//SetupChiralAtomRestraints enumerates, for atom a, every 3-combination
//of its neighbors (ascending index order) and returns one (a, i, j, k)
//tuple per combination, oriented so that the pyramidal volume at the
//reference conformer is positive. Swapping two atom positions in the
//conformer therefore changes which orientation of each tuple comes out.
func SetupChiralAtomRestraints(mol *fep.Molecule, conf *v3.Matrix, a int) [][4]int {
	nbs := mol.Neighbors(a)
	sort.Ints(nbs)
	if len(nbs) < 3 {
		return nil
	}
	ret := make([][4]int, 0, len(nbs))
	for _, c := range combin.Combinations(len(nbs), 3) {
		i, j, k := nbs[c[0]], nbs[c[1]], nbs[c[2]]
		if potentials.PyramidalVolume(conf, a, i, j, k) < 0 {
			j, k = k, j
		}
		ret = append(ret, [4]int{a, i, j, k})
	}
	return ret
}

//SetupChiralBondRestraints enumerates, for the bond src-dst, every
//torsion (i, src, dst, l) with i a further neighbor of src and l a
//further neighbor of dst, together with a sign per torsion chosen so
//that sign times the torsion volume is positive at the reference
//conformer. It panics if src and dst are not bonded, as that has to be
//a caller bug.
func SetupChiralBondRestraints(mol *fep.Molecule, conf *v3.Matrix, src, dst int) ([][4]int, []int) {
	bonded := false
	for _, n := range mol.Neighbors(src) {
		if n == dst {
			bonded = true
		}
	}
	if !bonded {
		panic("chiral: atoms of a bond restraint must be bonded")
	}
	si := exclude(mol.Neighbors(src), dst)
	li := exclude(mol.Neighbors(dst), src)
	var idxs [][4]int
	var signs []int
	for _, i := range si {
		for _, l := range li {
			sign := 1
			if potentials.TorsionVolume(conf, i, src, dst, l) < 0 {
				sign = -1
			}
			idxs = append(idxs, [4]int{i, src, dst, l})
			signs = append(signs, sign)
		}
	}
	return idxs, signs
}

func exclude(nbs []int, skip int) []int {
	sort.Ints(nbs)
	ret := nbs[:0]
	for _, n := range nbs {
		if n != skip {
			ret = append(ret, n)
		}
	}
	return ret
}
