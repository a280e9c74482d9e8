/*
 * atommap_test.go, part of timemachine.
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
	"testing"

	fep "github.com/ljmartin/timemachine"
	v3 "github.com/ljmartin/timemachine/v3"
	"gonum.org/v1/gonum/mat"
)

func buildMol(Te *testing.T, symbols []string, bonds [][3]float64, coords [][]float64) *fep.Molecule {
	Te.Helper()
	atoms := make([]*fep.Atom, len(symbols))
	for i, s := range symbols {
		atoms[i] = &fep.Atom{Symbol: s}
	}
	bl := make([]*fep.Bond, len(bonds))
	for n, b := range bonds {
		bl[n] = &fep.Bond{At1: atoms[int(b[0])], At2: atoms[int(b[1])], Order: b[2]}
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

//ethanol with explicit hydrogens, displaced by dx in x.
func ethanol(Te *testing.T, dx float64) *fep.Molecule {
	return buildMol(Te,
		[]string{"C", "C", "O", "H", "H", "H", "H", "H", "H"},
		[][3]float64{
			{0, 1, 1}, {1, 2, 1},
			{0, 3, 1}, {0, 4, 1}, {0, 5, 1},
			{1, 6, 1}, {1, 7, 1},
			{2, 8, 1},
		},
		[][]float64{
			{0.000 + dx, 0.000, 0.000},
			{0.152 + dx, 0.000, 0.000},
			{0.213 + dx, 0.122, 0.000},
			{-0.037 + dx, -0.052, 0.089},
			{-0.037 + dx, -0.052, -0.089},
			{-0.037 + dx, 0.103, 0.000},
			{0.190 + dx, -0.052, 0.089},
			{0.190 + dx, -0.052, -0.089},
			{0.170 + dx, 0.200, 0.000},
		})
}

func TestParseSmarts(Te *testing.T) {
	p, err := ParseSmarts("CCO")
	if err != nil {
		Te.Fatal(err)
	}
	if len(p.Atoms) != 3 || len(p.Bonds) != 2 {
		Te.Errorf("CCO: %d atoms, %d bonds", len(p.Atoms), len(p.Bonds))
	}
	p, err = ParseSmarts("C(F)(Cl)Br")
	if err != nil {
		Te.Fatal(err)
	}
	if len(p.Atoms) != 4 || len(p.Bonds) != 3 {
		Te.Errorf("branched: %d atoms, %d bonds", len(p.Atoms), len(p.Bonds))
	}
	for _, b := range p.Bonds {
		if b.A1 != 0 {
			Te.Errorf("All bonds should start at the carbon: %+v", b)
		}
	}
	p, err = ParseSmarts("C1CCC1")
	if err != nil {
		Te.Fatal(err)
	}
	if len(p.Bonds) != 4 {
		Te.Errorf("A 4-ring needs 4 bonds, got %d", len(p.Bonds))
	}
	p, err = ParseSmarts("c1ccccc1")
	if err != nil {
		Te.Fatal(err)
	}
	for _, at := range p.Atoms {
		if at.Symbol != "C" || at.Arom != 1 {
			Te.Errorf("Aromatic carbon expected, got %+v", at)
		}
	}
	p, err = ParseSmarts("[#7]C=O")
	if err != nil {
		Te.Fatal(err)
	}
	if p.Atoms[0].Symbol != "N" {
		Te.Errorf("[#7] should be nitrogen, got %+v", p.Atoms[0])
	}
	if p.Bonds[1].Kind != BondDouble {
		Te.Errorf("= should parse as a double bond, got %d", p.Bonds[1].Kind)
	}
	p, err = ParseSmarts("C%10CCC%10")
	if err != nil {
		Te.Fatal(err)
	}
	if len(p.Bonds) != 4 {
		Te.Errorf("%%nn ring closure: got %d bonds", len(p.Bonds))
	}
}

func TestParseSmartsRejects(Te *testing.T) {
	for _, bad := range []string{
		"CC.O", //dots are refused outright
		"",
		"C(",
		"C)O",
		"C1CC",
		"[C",
		"[]",
		"[#119]",
		"Cq",
		"1CC",
	} {
		if _, err := ParseSmarts(bad); err == nil {
			Te.Errorf("Pattern %q should have been rejected", bad)
		} else {
			fmt.Printf("%q rejected: %v\n", bad, err)
		}
	}
}

func TestMatches(Te *testing.T) {
	mol := ethanol(Te, 0)
	p, err := ParseSmarts("CCO")
	if err != nil {
		Te.Fatal(err)
	}
	m := p.Matches(mol, 1000)
	if len(m) != 1 {
		Te.Fatalf("CCO in ethanol: want 1 placement, got %d: %v", len(m), m)
	}
	if m[0][0] != 0 || m[0][1] != 1 || m[0][2] != 2 {
		Te.Errorf("Placement should follow pattern-atom order: %v", m[0])
	}
	// each atom ordering is a distinct placement
	p, _ = ParseSmarts("CC")
	if m = p.Matches(mol, 1000); len(m) != 2 {
		Te.Errorf("CC in ethanol: want 2 placements, got %d", len(m))
	}
	p, _ = ParseSmarts("N")
	if m = p.Matches(mol, 1000); len(m) != 0 {
		Te.Errorf("There is no nitrogen in ethanol: %v", m)
	}
	// the limit caps the search
	p, _ = ParseSmarts("[*]")
	if m = p.Matches(mol, 3); len(m) != 3 {
		Te.Errorf("Limit 3 should stop at 3 placements, got %d", len(m))
	}
	// bond kind constraints: ethanol has no double bond
	p, _ = ParseSmarts("C=O")
	if m = p.Matches(mol, 1000); len(m) != 0 {
		Te.Errorf("C=O should not match ethanol: %v", m)
	}
	p, _ = ParseSmarts("C~O")
	if m = p.Matches(mol, 1000); len(m) != 1 {
		Te.Errorf("C~O should match the C-O bond once: %v", m)
	}
}

func TestAssignMinCost(Te *testing.T) {
	cost := mat.NewDense(3, 3, []float64{
		4, 1, 3,
		2, 0, 5,
		3, 2, 2,
	})
	got := AssignMinCost(cost)
	want := []int{1, 0, 2}
	for i := range want {
		if got[i] != want[i] {
			Te.Fatalf("Assignment %v, want %v", got, want)
		}
	}
	// a permutation matrix assigns along its zeros
	cost = mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	got = AssignMinCost(cost)
	if got[0] != 0 || got[1] != 1 {
		Te.Errorf("Assignment %v, want [0 1]", got)
	}
	defer func() {
		if recover() == nil {
			Te.Error("A non-square cost matrix should panic")
		}
	}()
	AssignMinCost(mat.NewDense(2, 3, nil))
}

func TestSetupRelativeRestraintsUsingSmarts(Te *testing.T) {
	molA := ethanol(Te, 0)
	molB := ethanol(Te, 0.001) //almost superposed
	core, err := SetupRelativeRestraintsUsingSmarts(molA, molB, "CCO")
	if err != nil {
		Te.Fatal(err)
	}
	if len(core) != 3 {
		Te.Fatalf("Want 3 core pairs, got %v", core)
	}
	for i, p := range core {
		if p[0] != i || p[1] != i {
			Te.Errorf("Superposed molecules should map onto themselves: %v", core)
		}
	}
	if _, err = SetupRelativeRestraintsUsingSmarts(molA, molB, "N"); err == nil {
		Te.Error("An unmatched pattern should be an error")
	}
	if _, err = SetupRelativeRestraintsUsingSmarts(molA, molB, "C.O"); err == nil {
		Te.Error("A disconnected pattern should be an error")
	}
}
