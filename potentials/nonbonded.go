/*
 * nonbonded.go, part of timemachine.
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

//Nonbonded describes the pairwise nonbonded interactions of a system:
//per-atom lifting metadata, the excluded/scaled pair list and the
//physical constants beta (1/nm) and cutoff (nm). Its parameter rows are
//(charge, sigma, epsilon) triples, one per atom.
type Nonbonded struct {
	exclusionIdxs    [][2]int
	scaleFactors     [][2]float64
	lambdaPlaneIdxs  []int
	lambdaOffsetIdxs []int
	beta             float64
	cutoff           float64
}

//NewNonbonded builds a Nonbonded descriptor. It panics if the exclusion
//and scale-factor lists disagree in length, or if the two per-atom
//lifting slices disagree in length.
func NewNonbonded(exclusionIdxs [][2]int, scaleFactors [][2]float64, lambdaPlaneIdxs, lambdaOffsetIdxs []int, beta, cutoff float64) *Nonbonded {
	if len(exclusionIdxs) != len(scaleFactors) {
		panic(fmt.Sprintf("potentials: %d exclusions with %d scale factors", len(exclusionIdxs), len(scaleFactors)))
	}
	if len(lambdaPlaneIdxs) != len(lambdaOffsetIdxs) {
		panic("potentials: lambda plane and offset slices must have the same length")
	}
	return &Nonbonded{
		exclusionIdxs:    exclusionIdxs,
		scaleFactors:     scaleFactors,
		lambdaPlaneIdxs:  lambdaPlaneIdxs,
		lambdaOffsetIdxs: lambdaOffsetIdxs,
		beta:             beta,
		cutoff:           cutoff,
	}
}

func (nb *Nonbonded) TermName() string { return "Nonbonded" }

//ExclusionIdxs returns the excluded/scaled atom pairs, each sorted
//ascending within the pair.
func (nb *Nonbonded) ExclusionIdxs() [][2]int { return nb.exclusionIdxs }

//ScaleFactors returns the (charge, vdW) subtraction scales, one pair
//per exclusion.
func (nb *Nonbonded) ScaleFactors() [][2]float64 { return nb.scaleFactors }

func (nb *Nonbonded) LambdaPlaneIdxs() []int { return nb.lambdaPlaneIdxs }

func (nb *Nonbonded) LambdaOffsetIdxs() []int { return nb.lambdaOffsetIdxs }

func (nb *Nonbonded) Beta() float64 { return nb.beta }

func (nb *Nonbonded) Cutoff() float64 { return nb.cutoff }

//NumAtoms returns the number of atoms covered by the per-atom lifting
//metadata.
func (nb *Nonbonded) NumAtoms() int { return len(nb.lambdaPlaneIdxs) }

//SetLambdaPlaneIdxs replaces the per-atom lifting planes. Used by the
//topology variants that re-derive the lifting layout of a base result.
func (nb *Nonbonded) SetLambdaPlaneIdxs(idxs []int) {
	if len(idxs) != len(nb.lambdaOffsetIdxs) {
		panic("potentials: lambda plane length mismatch")
	}
	nb.lambdaPlaneIdxs = idxs
}

//SetLambdaOffsetIdxs replaces the per-atom lifting offsets.
func (nb *Nonbonded) SetLambdaOffsetIdxs(idxs []int) {
	if len(idxs) != len(nb.lambdaPlaneIdxs) {
		panic("potentials: lambda offset length mismatch")
	}
	nb.lambdaOffsetIdxs = idxs
}

//Interpolate wraps the descriptor into its parameter-interpolated form.
func (nb *Nonbonded) Interpolate() *NonbondedInterpolated {
	return &NonbondedInterpolated{nb}
}

//NonbondedTerm is implemented by both the plain and the
//parameter-interpolated nonbonded descriptors.
type NonbondedTerm interface {
	Term
	Base() *Nonbonded
	Interpolated() bool
}

func (nb *Nonbonded) Base() *Nonbonded { return nb }

func (nb *Nonbonded) Interpolated() bool { return false }

//NonbondedInterpolated marks a Nonbonded descriptor whose parameter
//rows are doubled: the first half is the lambda=0 (src) per-atom
//parameters, the second half the lambda=1 (dst) ones. The evaluator
//interpolates between the two halves.
type NonbondedInterpolated struct {
	*Nonbonded
}

func (nb *NonbondedInterpolated) TermName() string { return "NonbondedInterpolated" }

func (nb *NonbondedInterpolated) Interpolated() bool { return true }
