/*
 * ff.go, part of timemachine.
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

//Package ff holds the forcefield parameter handles consumed by the
//topology variants. A handle maps a molecule to raw parameter rows (and,
//for bonded families, to the atom index tuples the rows belong to).
//The pattern-matching here is deliberately simple, element-tuple based;
//a production assignment engine can be swapped in behind the same
//interfaces.
package ff

import (
	"fmt"
	"sort"
	"strings"

	fep "github.com/ljmartin/timemachine"
)

//AtomHandle parameterizes a per-atom quantity (charges, LJ).
//PartialParameterize gathers one row of raw per atom; raw is normally
//the handle's own Params(), passed explicitly so callers can substitute
//perturbed parameters.
type AtomHandle interface {
	PartialParameterize(raw [][]float64, mol *fep.Molecule) ([][]float64, error)
	Smirks() string
	Params() [][]float64
}

//BondedHandle parameterizes a fixed-arity bonded family, returning one
//parameter row and one atom index tuple per term.
type BondedHandle interface {
	PartialParameterize(raw [][]float64, mol *fep.Molecule) ([][]float64, [][]int, error)
	Smirks() string
	Params() [][]float64
}

//Forcefield is a convenience wrapper for the six handles of a small
//molecule forcefield.
type Forcefield struct {
	Q  AtomHandle
	LJ AtomHandle
	HB BondedHandle
	HA BondedHandle
	PT BondedHandle
	IT BondedHandle
}

//TableAtomHandle assigns per-atom rows by element symbol. A "*" pattern,
//if present, is the fallback for symbols without an exact entry.
type TableAtomHandle struct {
	name     string
	patterns []string
	params   [][]float64
}

//NewTableAtomHandle panics if patterns and params disagree in length,
//as that got to be a hardcoded-table error.
func NewTableAtomHandle(name string, patterns []string, params [][]float64) *TableAtomHandle {
	if len(patterns) != len(params) {
		panic("ff: one parameter row per pattern required")
	}
	return &TableAtomHandle{name: name, patterns: patterns, params: params}
}

func (h *TableAtomHandle) Smirks() string {
	return h.name + ":" + strings.Join(h.patterns, ",")
}

func (h *TableAtomHandle) Params() [][]float64 { return h.params }

func (h *TableAtomHandle) lookup(symbol string) (int, bool) {
	wild := -1
	for i, p := range h.patterns {
		if p == symbol {
			return i, true
		}
		if p == "*" {
			wild = i
		}
	}
	if wild >= 0 {
		return wild, true
	}
	return 0, false
}

func (h *TableAtomHandle) PartialParameterize(raw [][]float64, mol *fep.Molecule) ([][]float64, error) {
	if len(raw) != len(h.patterns) {
		return nil, fep.NewCError(fmt.Sprintf("%s: got %d raw rows for %d patterns", h.name, len(raw), len(h.patterns)), "PartialParameterize")
	}
	ret := make([][]float64, mol.Len())
	for i := 0; i < mol.Len(); i++ {
		idx, ok := h.lookup(mol.Atom(i).Symbol)
		if !ok {
			return nil, fep.NewCError(fmt.Sprintf("%s: no parameters for element %s", h.name, mol.Atom(i).Symbol), "PartialParameterize")
		}
		ret[i] = append([]float64{}, raw[idx]...)
	}
	return ret, nil
}

//BondedFamily selects the term-enumeration rule of a TableBondedHandle.
type BondedFamily int

const (
	FamilyBond BondedFamily = iota
	FamilyAngle
	FamilyProperTorsion
	FamilyImproperTorsion
)

//TableBondedHandle assigns bonded parameter rows by the element tuple
//of each enumerated term. Keys are dash-joined symbols in the term's
//canonical orientation ("C-C-H"); a "*" pattern is the fallback.
type TableBondedHandle struct {
	name     string
	family   BondedFamily
	patterns []string
	params   [][]float64
}

func NewTableBondedHandle(name string, family BondedFamily, patterns []string, params [][]float64) *TableBondedHandle {
	if len(patterns) != len(params) {
		panic("ff: one parameter row per pattern required")
	}
	return &TableBondedHandle{name: name, family: family, patterns: patterns, params: params}
}

func (h *TableBondedHandle) Smirks() string {
	return h.name + ":" + strings.Join(h.patterns, ",")
}

func (h *TableBondedHandle) Params() [][]float64 { return h.params }

func (h *TableBondedHandle) lookup(key string) (int, bool) {
	wild := -1
	for i, p := range h.patterns {
		if p == key {
			return i, true
		}
		if p == "*" {
			wild = i
		}
	}
	if wild >= 0 {
		return wild, true
	}
	return 0, false
}

func (h *TableBondedHandle) PartialParameterize(raw [][]float64, mol *fep.Molecule) ([][]float64, [][]int, error) {
	if len(raw) != len(h.patterns) {
		return nil, nil, fep.NewCError(fmt.Sprintf("%s: got %d raw rows for %d patterns", h.name, len(raw), len(h.patterns)), "PartialParameterize")
	}
	var idxs [][]int
	switch h.family {
	case FamilyBond:
		idxs = EnumerateBonds(mol)
	case FamilyAngle:
		idxs = EnumerateAngles(mol)
	case FamilyProperTorsion:
		idxs = EnumerateProperTorsions(mol)
	case FamilyImproperTorsion:
		idxs = EnumerateImproperTorsions(mol)
	default:
		panic("ff: unknown bonded family")
	}
	params := make([][]float64, 0, len(idxs))
	for _, t := range idxs {
		key := termKey(mol, t)
		row, ok := h.lookup(key)
		if !ok {
			return nil, nil, fep.NewCError(fmt.Sprintf("%s: no parameters for term %s", h.name, key), "PartialParameterize")
		}
		params = append(params, append([]float64{}, raw[row]...))
	}
	return params, idxs, nil
}

//termKey canonicalizes a term's element tuple: the tuple is compared
//against its reverse and the lexicographically smaller orientation wins.
func termKey(mol *fep.Molecule, t []int) string {
	fw := make([]string, len(t))
	for i, a := range t {
		fw[i] = mol.Atom(a).Symbol
	}
	rv := make([]string, len(t))
	for i := range fw {
		rv[i] = fw[len(fw)-1-i]
	}
	f := strings.Join(fw, "-")
	r := strings.Join(rv, "-")
	if r < f {
		return r
	}
	return f
}

//EnumerateBonds returns one (i, j) tuple per bond, i < j, ordered by
//bond index.
func EnumerateBonds(mol *fep.Molecule) [][]int {
	ret := make([][]int, 0, len(mol.Bonds()))
	for _, b := range mol.Bonds() {
		i, j := b.At1.Index, b.At2.Index
		if j < i {
			i, j = j, i
		}
		ret = append(ret, []int{i, j})
	}
	return ret
}

//EnumerateAngles returns one (i, j, k) tuple per angle centered on j,
//with i < k, ordered by center then flanks.
func EnumerateAngles(mol *fep.Molecule) [][]int {
	var ret [][]int
	for j := 0; j < mol.Len(); j++ {
		nbs := sortedNeighbors(mol, j)
		for a := 0; a < len(nbs); a++ {
			for b := a + 1; b < len(nbs); b++ {
				ret = append(ret, []int{nbs[a], j, nbs[b]})
			}
		}
	}
	return ret
}

//EnumerateProperTorsions returns one (i, j, k, l) tuple per proper
//torsion, each torsion exactly once, ordered by the central bond.
func EnumerateProperTorsions(mol *fep.Molecule) [][]int {
	var ret [][]int
	for _, b := range mol.Bonds() {
		j, k := b.At1.Index, b.At2.Index
		if k < j {
			j, k = k, j
		}
		for _, i := range sortedNeighbors(mol, j) {
			if i == k {
				continue
			}
			for _, l := range sortedNeighbors(mol, k) {
				if l == j || l == i {
					continue
				}
				ret = append(ret, []int{i, j, k, l})
			}
		}
	}
	return ret
}

//EnumerateImproperTorsions returns one (i, c, j, k) tuple per trigonal
//center c, i.e. per non-sp3 atom with exactly three neighbors. The
//center sits in the second position, SMIRNOFF style.
func EnumerateImproperTorsions(mol *fep.Molecule) [][]int {
	var ret [][]int
	for c := 0; c < mol.Len(); c++ {
		at := mol.Atom(c)
		nbs := sortedNeighbors(mol, c)
		if len(nbs) != 3 {
			continue
		}
		planar := at.Aromatic
		for _, b := range at.Bonds {
			if b.Order >= 2 {
				planar = true
			}
		}
		if !planar {
			continue
		}
		ret = append(ret, []int{nbs[0], c, nbs[1], nbs[2]})
	}
	return ret
}

func sortedNeighbors(mol *fep.Molecule, i int) []int {
	nbs := mol.Neighbors(i)
	sort.Ints(nbs)
	return nbs
}
