/*
 * pairlist.go, part of timemachine.
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

import "math"

//NonbondedPairListPrecomputed is an explicit intramolecular pair list
//whose parameter rows already have the combining rules and exclusion
//rescaling folded in: one (q_ij, sig_ij, eps_ij) row per included pair.
type NonbondedPairListPrecomputed struct {
	idxs    [][2]int
	offsets []float64
	beta    float64
	cutoff  float64
}

//NewNonbondedPairListPrecomputed panics if the 4D offsets do not match
//the pair count.
func NewNonbondedPairListPrecomputed(idxs [][2]int, offsets []float64, beta, cutoff float64) *NonbondedPairListPrecomputed {
	if len(idxs) != len(offsets) {
		panic("potentials: one 4D offset per pair required")
	}
	return &NonbondedPairListPrecomputed{idxs: idxs, offsets: offsets, beta: beta, cutoff: cutoff}
}

func (p *NonbondedPairListPrecomputed) TermName() string { return "NonbondedPairListPrecomputed" }

func (p *NonbondedPairListPrecomputed) Idxs() [][2]int { return p.idxs }

//Offsets returns the fixed 4D separation per pair.
func (p *NonbondedPairListPrecomputed) Offsets() []float64 { return p.offsets }

func (p *NonbondedPairListPrecomputed) Beta() float64 { return p.beta }

func (p *NonbondedPairListPrecomputed) Cutoff() float64 { return p.cutoff }

//CombiningRuleSigma applies the Lorentz rule: the arithmetic mean of
//the two atomic sigmas.
func CombiningRuleSigma(sigI, sigJ float64) float64 {
	return (sigI + sigJ) / 2
}

//CombiningRuleEpsilon applies the Berthelot rule: the geometric mean of
//the two atomic epsilons.
func CombiningRuleEpsilon(epsI, epsJ float64) float64 {
	return math.Sqrt(epsI * epsJ)
}
