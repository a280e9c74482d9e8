/*
 * bonded.go, part of timemachine.
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

package potentials

import "fmt"

//Term is the common interface of all unbound potential descriptors.
type Term interface {
	TermName() string
}

//bonded holds the data common to all fixed-arity bonded terms. The
//lambda mult/offset slices may be nil, which downstream code reads as
//always-on (mult 0, offset 1).
type bonded struct {
	arity        int
	idxs         [][]int
	lambdaMult   []int
	lambdaOffset []int
}

func newBonded(arity int, idxs [][]int, mult, offset []int) bonded {
	for i, row := range idxs {
		if len(row) != arity {
			panic(fmt.Sprintf("potentials: term %d has %d atoms, want %d", i, len(row), arity))
		}
	}
	if (mult == nil) != (offset == nil) {
		panic("potentials: lambda mult and offset must be given together")
	}
	if mult != nil && (len(mult) != len(idxs) || len(offset) != len(idxs)) {
		panic("potentials: lambda schedule length does not match the term count")
	}
	return bonded{arity: arity, idxs: idxs, lambdaMult: mult, lambdaOffset: offset}
}

//Idxs returns the per-term atom index rows.
func (b *bonded) Idxs() [][]int { return b.idxs }

//LambdaMult returns the per-term lambda multiplier, or nil when the
//terms are always-on.
func (b *bonded) LambdaMult() []int { return b.lambdaMult }

//LambdaOffset returns the per-term lambda offset, or nil when the terms
//are always-on.
func (b *bonded) LambdaOffset() []int { return b.lambdaOffset }

//Arity returns the number of atoms per term.
func (b *bonded) Arity() int { return b.arity }

//HarmonicBond is a set of 2-atom harmonic bond terms.
type HarmonicBond struct {
	bonded
}

//NewHarmonicBond returns an always-on harmonic bond term set.
func NewHarmonicBond(idxs [][]int) *HarmonicBond {
	return &HarmonicBond{newBonded(2, idxs, nil, nil)}
}

//NewHarmonicBondAlchemical returns a harmonic bond term set with an
//explicit per-term lambda schedule.
func NewHarmonicBondAlchemical(idxs [][]int, mult, offset []int) *HarmonicBond {
	return &HarmonicBond{newBonded(2, idxs, mult, offset)}
}

func (p *HarmonicBond) TermName() string { return "HarmonicBond" }

//HarmonicAngle is a set of 3-atom harmonic angle terms.
type HarmonicAngle struct {
	bonded
}

func NewHarmonicAngle(idxs [][]int) *HarmonicAngle {
	return &HarmonicAngle{newBonded(3, idxs, nil, nil)}
}

func NewHarmonicAngleAlchemical(idxs [][]int, mult, offset []int) *HarmonicAngle {
	return &HarmonicAngle{newBonded(3, idxs, mult, offset)}
}

func (p *HarmonicAngle) TermName() string { return "HarmonicAngle" }

//PeriodicTorsion is a set of 4-atom periodic torsion terms, proper or
//improper.
type PeriodicTorsion struct {
	bonded
}

func NewPeriodicTorsion(idxs [][]int) *PeriodicTorsion {
	return &PeriodicTorsion{newBonded(4, idxs, nil, nil)}
}

func NewPeriodicTorsionAlchemical(idxs [][]int, mult, offset []int) *PeriodicTorsion {
	return &PeriodicTorsion{newBonded(4, idxs, mult, offset)}
}

func (p *PeriodicTorsion) TermName() string { return "PeriodicTorsion" }

//BoundPotential pairs a term descriptor with the parameter rows that
//belong to it. The numeric backend that evaluates these pairs is
//outside this library.
type BoundPotential struct {
	Term   Term
	Params [][]float64
}

//Bind attaches parameters to a term.
func Bind(t Term, params [][]float64) *BoundPotential {
	return &BoundPotential{Term: t, Params: params}
}
