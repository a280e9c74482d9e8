/*
 * conflicts.go, part of timemachine.
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

package chiral

import (
	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/v3"
)

//CheckMode selects which kind of mapping-induced stereo problem
//FindAtomMapChiralConflicts reports.
type CheckMode int

const (
	//Flip reports centers and bonds whose chirality is defined on both
	//sides of the mapping, with opposite orientation.
	Flip CheckMode = iota + 1
	//Undefined reports centers and bonds chiral on one side and mapped
	//to a region where chirality is undefined on the other.
	Undefined
)

//Conflict is one stereo disagreement between the two end states of a
//mapping. A and B are the offending restraint tuples in each molecule's
//own index space; for bond conflicts under Flip mode both orientations
//are defined and disagree in sign.
type Conflict struct {
	A [4]int
	B [4]int
}

//ChiralRestrIdxSet holds the chiral restraint tuples of one molecule,
//computed once from a reference conformer, plus lookup sets for the
//mapping-consistency check. It is immutable after construction.
type ChiralRestrIdxSet struct {
	RestrIdxs [][4]int
	BondIdxs  [][4]int
	BondSigns []int

	allowed    map[[4]int]bool
	disallowed map[[4]int]bool
	bondSign   map[[4]int]int
}

//NewChiralRestrIdxSet analyzes mol with the given reference conformer
//and returns its full chiral restraint index set: atom tuples for every
//center FindChiralAtoms reports and signed bond tuples for every bond
//FindChiralBonds reports.
func NewChiralRestrIdxSet(mol *fep.Molecule, conf *v3.Matrix) *ChiralRestrIdxSet {
	s := &ChiralRestrIdxSet{
		allowed:    make(map[[4]int]bool),
		disallowed: make(map[[4]int]bool),
		bondSign:   make(map[[4]int]int),
	}
	for _, a := range FindChiralAtoms(mol) {
		s.RestrIdxs = append(s.RestrIdxs, SetupChiralAtomRestraints(mol, conf, a)...)
	}
	for _, t := range s.RestrIdxs {
		c, i, j, k := t[0], t[1], t[2], t[3]
		//even permutations of the substituents preserve the volume
		//sign, odd ones invert it
		expand(s.allowed, c, i, j, k)
		expand(s.disallowed, c, i, k, j)
	}
	for _, b := range FindChiralBonds(mol) {
		idxs, signs := SetupChiralBondRestraints(mol, conf, b[0], b[1])
		s.BondIdxs = append(s.BondIdxs, idxs...)
		s.BondSigns = append(s.BondSigns, signs...)
	}
	for n, t := range s.BondIdxs {
		s.bondSign[canonTorsion(t)] = s.BondSigns[n]
	}
	return s
}

func expand(set map[[4]int]bool, c, i, j, k int) {
	set[[4]int{c, i, j, k}] = true
	set[[4]int{c, j, k, i}] = true
	set[[4]int{c, k, i, j}] = true
}

//canonTorsion picks one of the two equivalent orientations of a torsion
//tuple; reversal preserves the torsion volume sign.
func canonTorsion(t [4]int) [4]int {
	if t[2] < t[1] || (t[1] == t[2] && t[3] < t[0]) {
		return [4]int{t[3], t[2], t[1], t[0]}
	}
	return t
}

//Defines reports whether the set restrains tuple t in either
//orientation.
func (s *ChiralRestrIdxSet) Defines(t [4]int) bool {
	return s.allowed[t] || s.disallowed[t]
}

//Disallows reports whether tuple t has the orientation opposite to the
//restrained one.
func (s *ChiralRestrIdxSet) Disallows(t [4]int) bool {
	return s.disallowed[t]
}

//bondDefined reports whether the set carries a sign for torsion t, and
//that sign.
func (s *ChiralRestrIdxSet) bondDefined(t [4]int) (int, bool) {
	sign, ok := s.bondSign[canonTorsion(t)]
	return sign, ok
}

//FindAtomMapChiralConflicts checks an atom correspondence (pairs of
//(idx_a, idx_b)) against the two molecules' restraint sets and returns
//the conflicts of the requested mode. Both mapping directions are
//checked, so a flip visible from both sides is reported twice, once per
//direction; tuples with unmapped atoms are skipped in Flip mode and in
//the forward lookup of Undefined mode.
func FindAtomMapChiralConflicts(coreIdxs [][2]int, setA, setB *ChiralRestrIdxSet, mode CheckMode) []Conflict {
	a2b := make(map[int]int, len(coreIdxs))
	b2a := make(map[int]int, len(coreIdxs))
	for _, p := range coreIdxs {
		a2b[p[0]] = p[1]
		b2a[p[1]] = p[0]
	}
	var conflicts []Conflict
	scan := func(src, dst *ChiralRestrIdxSet, fwd map[int]int, aSide bool) {
		for _, t := range src.RestrIdxs {
			mt, ok := mapTuple(t, fwd)
			if !ok {
				continue
			}
			hit := false
			switch mode {
			case Flip:
				hit = dst.Disallows(mt)
			case Undefined:
				hit = !dst.Defines(mt)
			}
			if hit {
				conflicts = append(conflicts, orient(t, mt, aSide))
			}
		}
		for n, t := range src.BondIdxs {
			mt, ok := mapTuple(t, fwd)
			if !ok {
				continue
			}
			sign, defined := dst.bondDefined(mt)
			switch mode {
			case Flip:
				if defined && sign != src.BondSigns[n] {
					conflicts = append(conflicts, orient(t, mt, aSide))
				}
			case Undefined:
				if !defined {
					conflicts = append(conflicts, orient(t, mt, aSide))
				}
			}
		}
	}
	scan(setA, setB, a2b, true)
	scan(setB, setA, b2a, false)
	return conflicts
}

func mapTuple(t [4]int, m map[int]int) ([4]int, bool) {
	var mt [4]int
	for n, a := range t {
		b, ok := m[a]
		if !ok {
			return mt, false
		}
		mt[n] = b
	}
	return mt, true
}

func orient(src, dst [4]int, aSide bool) Conflict {
	if aSide {
		return Conflict{A: src, B: dst}
	}
	return Conflict{A: dst, B: src}
}
