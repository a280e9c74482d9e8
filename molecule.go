/*
 * molecule.go, part of timemachine.
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

/**Note: some funcitons here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is way-most likely wrong and should crash. The
 * panics are related to using the function on a nil object or accessing out-of-bounds fields**/

//Atom contains one atom of a ligand or host. Coordinates are kept
//separately, in a v3.Matrix with one row per atom.
type Atom struct {
	Symbol   string
	Mass     float64
	Charge   int //formal charge
	Aromatic bool
	Index    int //the position of the atom in its molecule
	Bonds    []*Bond
}

//Copy returns a copy of the Atom object, without its bonds.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	return &Atom{Symbol: A.Symbol, Mass: A.Mass, Charge: A.Charge, Aromatic: A.Aromatic, Index: A.Index}
}

//Bond is an undirected chemical bond between two atoms.
type Bond struct {
	Index    int
	At1, At2 *Atom
	Dist     float64
	Order    float64 //Order 0 means undetermined
	Aromatic bool
}

//Cross returns the atom of the bond that is not the origin one. It
//panics if origin is not part of the bond, as that got to be a
//programming error.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin.Index == B.At1.Index {
		return B.At2
	}
	if origin.Index == B.At2.Index {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!")
}

//Atomer is the basic interface for a molecule-like topology.
type Atomer interface {
	//Atom returns the Atom corresponding to the index i.
	//Should panic if out of range.
	Atom(i int) *Atom

	Len() int
}

//Masser can return a slice with the masses of each atom in the reference.
type Masser interface {
	Masses() ([]float64, error)
}

//Molecule is an immutable small molecule: atoms, bonds and one
//reference conformer in nm. Molecules are consumed read-only by the
//topology machinery; nothing in this library mutates them after
//construction.
type Molecule struct {
	atoms  []*Atom
	bonds  []*Bond
	coords *v3.Matrix
}

//NewMolecule builds a molecule from atoms, bonds and a conformer. It
//fills the Index field of every atom, attaches bonds to their atoms and
//assigns tabulated masses to atoms with zero mass. The conformer must
//have exactly one row per atom.
func NewMolecule(atoms []*Atom, bonds []*Bond, coords *v3.Matrix) (*Molecule, error) {
	if atoms == nil || coords == nil {
		return nil, NewCError("Supplied a nil atom slice or conformer", "NewMolecule")
	}
	if coords.NVecs() != len(atoms) {
		return nil, NewCError(fmt.Sprintf("Conformer has %d vectors for %d atoms", coords.NVecs(), len(atoms)), "NewMolecule")
	}
	for i, at := range atoms {
		at.Index = i
		at.Bonds = nil
		if at.Mass == 0 {
			m, err := SymbolMass(at.Symbol)
			if err != nil {
				return nil, errDecorate(err, "NewMolecule")
			}
			at.Mass = m
		}
	}
	for i, b := range bonds {
		b.Index = i
		if b.At1 == nil || b.At2 == nil {
			return nil, NewCError(fmt.Sprintf("Bond %d has a nil atom", i), "NewMolecule")
		}
		b.At1.Bonds = append(b.At1.Bonds, b)
		b.At2.Bonds = append(b.At2.Bonds, b)
	}
	return &Molecule{atoms: atoms, bonds: bonds, coords: coords}, nil
}

//Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.atoms)
}

//Atom returns the ith atom. Panics if out of range.
func (M *Molecule) Atom(i int) *Atom {
	if i >= M.Len() {
		panic("Requested atom out of range")
	}
	return M.atoms[i]
}

//Bonds returns the bonds of the molecule.
func (M *Molecule) Bonds() []*Bond {
	return M.bonds
}

//Coords returns the reference conformer of the molecule, in nm.
func (M *Molecule) Coords() *v3.Matrix {
	return M.coords
}

//Masses returns a slice with the mass of each atom.
func (M *Molecule) Masses() ([]float64, error) {
	ret := make([]float64, M.Len())
	for i, at := range M.atoms {
		if at.Mass <= 0 {
			return nil, NewCError(fmt.Sprintf("Atom %d has no valid mass", i), "Masses")
		}
		ret[i] = at.Mass
	}
	return ret, nil
}

//Neighbors returns the indexes of the atoms bonded to the ith atom, in
//ascending order of the bond they come from.
func (M *Molecule) Neighbors(i int) []int {
	at := M.Atom(i)
	ret := make([]int, 0, len(at.Bonds))
	for _, b := range at.Bonds {
		ret = append(ret, b.Cross(at).Index)
	}
	return ret
}

//errDecorate is a helper function that asserts that the error
//implements fep.Error and decorates the error with the caller's name
//before returning it. If used with an error that does not implement
//fep.Error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}
