/*
 * topology_test.go, part of timemachine.
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
	"testing"

	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/ff"
	v3 "github.com/ljmartin/timemachine/v3"
)

//buildMol assembles a test molecule from symbols, explicit bonds and
//coordinates in nm.
func buildMol(Te *testing.T, symbols []string, bonds [][2]int, coords [][]float64) *fep.Molecule {
	Te.Helper()
	atoms := make([]*fep.Atom, len(symbols))
	for i, s := range symbols {
		atoms[i] = &fep.Atom{Symbol: s}
	}
	bl := make([]*fep.Bond, len(bonds))
	for n, b := range bonds {
		bl[n] = &fep.Bond{At1: atoms[b[0]], At2: atoms[b[1]], Order: 1}
	}
	x := v3.Zeros(len(coords))
	for i, c := range coords {
		x.SetVec(i, c)
	}
	mol, err := fep.NewMolecule(atoms, bl, x)
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

//chain builds a heavy-atom chain molecule along x, 0.15 nm spacing.
func chain(Te *testing.T, symbols ...string) *fep.Molecule {
	bonds := make([][2]int, len(symbols)-1)
	coords := make([][]float64, len(symbols))
	for i := range symbols {
		coords[i] = []float64{0.15 * float64(i), 0, 0}
		if i > 0 {
			bonds[i-1] = [2]int{i - 1, i}
		}
	}
	return buildMol(Te, symbols, bonds, coords)
}

//ring builds a heavy-atom cycle.
func ring(Te *testing.T, symbols ...string) *fep.Molecule {
	n := len(symbols)
	bonds := make([][2]int, n)
	coords := make([][]float64, n)
	for i := range symbols {
		coords[i] = []float64{0.15 * float64(i%2), 0.15 * float64(i/2), 0}
		bonds[i] = [2]int{i, (i + 1) % n}
	}
	return buildMol(Te, symbols, bonds, coords)
}

func defaultFF() *ff.Forcefield { return ff.DefaultForcefield() }
