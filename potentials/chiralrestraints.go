/*
 * chiralrestraints.go, part of timemachine.
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

import (
	"math"

	v3 "github.com/ljmartin/timemachine/v3"
)

//ChiralAtomRestraint holds ordered substituent 4-tuples (center,
//n1, n2, n3) whose signed pyramidal volume is positive at the reference
//geometry; the restraint penalizes conformations where the volume turns
//negative, i.e. where the center inverts.
type ChiralAtomRestraint struct {
	idxs [][4]int
}

func NewChiralAtomRestraint(idxs [][4]int) *ChiralAtomRestraint {
	return &ChiralAtomRestraint{idxs: idxs}
}

func (p *ChiralAtomRestraint) TermName() string { return "ChiralAtomRestraint" }

func (p *ChiralAtomRestraint) Idxs() [][4]int { return p.idxs }

//ChiralBondRestraint holds torsion 4-tuples around a double bond, each
//tagged with a sign such that sign*torsionVolume is positive at the
//reference geometry. The restraint penalizes cis/trans flips.
type ChiralBondRestraint struct {
	idxs  [][4]int
	signs []int
}

//NewChiralBondRestraint panics if the signs do not pair up with the
//index tuples.
func NewChiralBondRestraint(idxs [][4]int, signs []int) *ChiralBondRestraint {
	if len(idxs) != len(signs) {
		panic("potentials: chiral bond restraint needs one sign per tuple")
	}
	return &ChiralBondRestraint{idxs: idxs, signs: signs}
}

func (p *ChiralBondRestraint) TermName() string { return "ChiralBondRestraint" }

func (p *ChiralBondRestraint) Idxs() [][4]int { return p.idxs }

func (p *ChiralBondRestraint) Signs() []int { return p.signs }

//PyramidalVolume returns the normalized signed volume spanned by the
//unit vectors from atom c of x to atoms i, j and k. The sign encodes
//the handedness of the (i, j, k) arrangement seen from c; swapping any
//two of the three flips it.
func PyramidalVolume(x *v3.Matrix, c, i, j, k int) float64 {
	u := unitDiff(x, i, c)
	v := unitDiff(x, j, c)
	w := unitDiff(x, k, c)
	return triple(u, v, w)
}

//TorsionVolume returns the normalized triple product of the bond
//vectors a->b, b->c and c->d. It has the sign of sin(phi) for the
//torsion angle phi around the b-c axis, so it distinguishes the two
//out-of-plane directions of a near-planar torsion.
func TorsionVolume(x *v3.Matrix, a, b, c, d int) float64 {
	u := unitDiff(x, b, a)
	v := unitDiff(x, c, b)
	w := unitDiff(x, d, c)
	return triple(u, v, w)
}

//UChiralAtom is the flat-bottom restraint energy for one chiral atom
//tuple: zero while the pyramidal volume stays positive, harmonic in the
//volume once it turns negative.
func UChiralAtom(x *v3.Matrix, idxs [4]int, k float64) float64 {
	vol := PyramidalVolume(x, idxs[0], idxs[1], idxs[2], idxs[3])
	if vol >= 0 {
		return 0
	}
	return k * vol * vol
}

//UChiralAtomBatch evaluates UChiralAtom for every tuple.
func UChiralAtomBatch(x *v3.Matrix, idxs [][4]int, k float64) []float64 {
	ret := make([]float64, len(idxs))
	for i, t := range idxs {
		ret[i] = UChiralAtom(x, t, k)
	}
	return ret
}

//UChiralBond is the flat-bottom restraint energy for one chiral bond
//tuple: zero while sign*torsionVolume stays positive.
func UChiralBond(x *v3.Matrix, idxs [4]int, k float64, sign int) float64 {
	vol := TorsionVolume(x, idxs[0], idxs[1], idxs[2], idxs[3])
	s := float64(sign) * vol
	if s >= 0 {
		return 0
	}
	return k * vol * vol
}

//UChiralBondBatch evaluates UChiralBond for every tuple/sign pair.
func UChiralBondBatch(x *v3.Matrix, idxs [][4]int, k float64, signs []int) []float64 {
	if len(idxs) != len(signs) {
		panic("potentials: chiral bond batch needs one sign per tuple")
	}
	ret := make([]float64, len(idxs))
	for i, t := range idxs {
		ret[i] = UChiralBond(x, t, k, signs[i])
	}
	return ret
}

func unitDiff(x *v3.Matrix, i, j int) [3]float64 {
	var d [3]float64
	var n float64
	for k := 0; k < 3; k++ {
		d[k] = x.At(i, k) - x.At(j, k)
		n += d[k] * d[k]
	}
	if n == 0 {
		panic("potentials: coincident atoms in a chiral restraint")
	}
	n = 1 / math.Sqrt(n)
	for k := 0; k < 3; k++ {
		d[k] *= n
	}
	return d
}

func triple(u, v, w [3]float64) float64 {
	return u[0]*(v[1]*w[2]-v[2]*w[1]) - u[1]*(v[0]*w[2]-v[2]*w[0]) + u[2]*(v[0]*w[1]-v[1]*w[0])
}
