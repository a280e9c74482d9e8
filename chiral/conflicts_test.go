/*
 * conflicts_test.go, part of timemachine.
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
	"testing"

	"github.com/stretchr/testify/require"
)

func identityMap(n int) [][2]int {
	m := make([][2]int, n)
	for i := range m {
		m[i] = [2]int{i, i}
	}
	return m
}

//Mapping a methane onto itself is clean; swapping two hydrogens in the
//mapping flips every tetrahedral tuple, seen from both directions.
func TestConflictFlip(Te *testing.T) {
	molA := methane(Te)
	molB := methane(Te)
	setA := NewChiralRestrIdxSet(molA, molA.Coords())
	setB := NewChiralRestrIdxSet(molB, molB.Coords())
	require.Len(Te, setA.RestrIdxs, 4)
	require.Len(Te, setB.RestrIdxs, 4)

	idMap := identityMap(5)
	require.Empty(Te, FindAtomMapChiralConflicts(idMap, setA, setB, Flip))
	require.Empty(Te, FindAtomMapChiralConflicts(idMap, setA, setB, Undefined))

	swapMap := identityMap(5)
	swapMap[1][1] = 2
	swapMap[2][1] = 1
	flips := FindAtomMapChiralConflicts(swapMap, setA, setB, Flip)
	require.Len(Te, flips, 8)
	require.Empty(Te, FindAtomMapChiralConflicts(swapMap, setA, setB, Undefined))
}

//Mapping a tetrahedral carbon onto a pyramidal nitrogen leaves exactly
//one fully mapped tuple with nowhere to go.
func TestConflictUndefined(Te *testing.T) {
	molA := methane(Te)
	molB := ammonia(Te)
	setA := NewChiralRestrIdxSet(molA, molA.Coords())
	setB := NewChiralRestrIdxSet(molB, molB.Coords())
	require.Len(Te, setA.RestrIdxs, 4)
	require.Empty(Te, setB.RestrIdxs)

	partial := identityMap(4)
	require.Empty(Te, FindAtomMapChiralConflicts(partial, setA, setB, Flip))
	undef := FindAtomMapChiralConflicts(partial, setA, setB, Undefined)
	require.Len(Te, undef, 1)
}

//Ethane onto methylamine with two hydrogens swapped: the mapped carbon
//flips in both directions, and one tuple of the second carbon lands on
//the restraint-free nitrogen.
func TestConflictMixed(Te *testing.T) {
	molA := ethane(Te)
	molB := methylamine(Te)
	setA := NewChiralRestrIdxSet(molA, molA.Coords())
	setB := NewChiralRestrIdxSet(molB, molB.Coords())
	require.Len(Te, setA.RestrIdxs, 8)
	require.Len(Te, setB.RestrIdxs, 4)

	mixed := identityMap(molB.Len())
	mixed[2][0] = 3
	mixed[3][0] = 2

	flips := FindAtomMapChiralConflicts(mixed, setA, setB, Flip)
	require.Len(Te, flips, 8)
	undef := FindAtomMapChiralConflicts(mixed, setA, setB, Undefined)
	require.Len(Te, undef, 1)
}

func TestRestrIdxSetLookups(Te *testing.T) {
	mol := methane(Te)
	set := NewChiralRestrIdxSet(mol, mol.Coords())
	t := set.RestrIdxs[0]
	c, i, j, k := t[0], t[1], t[2], t[3]
	// the cyclic rotations of a tuple share its orientation
	require.True(Te, set.Defines([4]int{c, j, k, i}))
	require.False(Te, set.Disallows([4]int{c, j, k, i}))
	// an odd permutation is the disallowed orientation
	require.True(Te, set.Disallows([4]int{c, i, k, j}))
	require.True(Te, set.Defines([4]int{c, i, k, j}))
	// a foreign tuple is simply undefined
	require.False(Te, set.Defines([4]int{c, i, j, 99}))
}
