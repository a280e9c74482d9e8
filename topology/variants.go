/*
 * variants.go, part of timemachine.
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
	"fmt"

	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/ff"
	"github.com/ljmartin/timemachine/potentials"
)

//BaseTopologyConversion interpolates a ligand from its real nonbonded
//parameters (src) to a decharged state with halved LJ epsilon (dst).
//The ligand stays fully coupled in 4D: lifting plane and offset are
//both zero.
type BaseTopologyConversion struct {
	BaseTopology
}

func NewBaseTopologyConversion(mol *fep.Molecule, forcefield *ff.Forcefield) *BaseTopologyConversion {
	return &BaseTopologyConversion{BaseTopology{mol: mol, ff: forcefield}}
}

func (t *BaseTopologyConversion) ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	src, nb, err := t.BaseTopology.ParameterizeNonbonded(rawQ, rawLJ)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	dst := dechargeHalveEpsilon(src)
	combined := append(append([][]float64{}, src...), dst...)
	n := t.NumAtoms()
	base := nb.Base()
	base.SetLambdaPlaneIdxs(make([]int, n))
	base.SetLambdaOffsetIdxs(make([]int, n))
	return combined, base.Interpolate(), nil
}

//BaseTopologyDecoupling 4D-decouples a ligand that has been decharged
//and had its LJ epsilon halved in both end states. Lambda zero is the
//fully interacting state, lambda one the non-interacting one.
type BaseTopologyDecoupling struct {
	BaseTopology
}

func NewBaseTopologyDecoupling(mol *fep.Molecule, forcefield *ff.Forcefield) *BaseTopologyDecoupling {
	return &BaseTopologyDecoupling{BaseTopology{mol: mol, ff: forcefield}}
}

func (t *BaseTopologyDecoupling) ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	params, nb, err := t.BaseTopology.ParameterizeNonbonded(rawQ, rawLJ)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	return dechargeHalveEpsilon(params), nb, nil
}

//BaseTopologyRHFE is the plain single-ligand layout used in relative
//hydration runs.
type BaseTopologyRHFE struct {
	BaseTopology
}

func NewBaseTopologyRHFE(mol *fep.Molecule, forcefield *ff.Forcefield) *BaseTopologyRHFE {
	return &BaseTopologyRHFE{BaseTopology{mol: mol, ff: forcefield}}
}

//RelativeFreeEnergyForcefield runs the same ligand under two
//forcefields, interpolating the nonbonded parameters from forcefield 0
//to forcefield 1. Only the nonbonded tables may differ: the bonded
//tables and every handle's pattern labels must agree, since changing
//the term layout between end states has no meaningful interpolation.
//Its Parameterize methods therefore take one raw table per forcefield.
type RelativeFreeEnergyForcefield struct {
	BaseTopology
	ff1 *ff.Forcefield
	bt1 *BaseTopology
}

func NewRelativeFreeEnergyForcefield(mol *fep.Molecule, forcefield0, forcefield1 *ff.Forcefield) *RelativeFreeEnergyForcefield {
	return &RelativeFreeEnergyForcefield{
		BaseTopology: BaseTopology{mol: mol, ff: forcefield0},
		ff1:          forcefield1,
		bt1:          NewBaseTopology(mol, forcefield1),
	}
}

func (t *RelativeFreeEnergyForcefield) ParameterizeNonbonded2(rawQ0, rawLJ0, rawQ1, rawLJ1 [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	if t.ff.LJ.Smirks() != t.ff1.LJ.Smirks() {
		return nil, nil, fep.NewCError("changing lj patterns is not supported", "ParameterizeNonbonded2")
	}
	if t.ff.Q.Smirks() != t.ff1.Q.Smirks() {
		return nil, nil, fep.NewCError("changing charge patterns is not supported", "ParameterizeNonbonded2")
	}
	src, nb, err := t.BaseTopology.ParameterizeNonbonded(rawQ0, rawLJ0)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded2")
	}
	dst, _, err := t.bt1.ParameterizeNonbonded(rawQ1, rawLJ1)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded2")
	}
	combined := append(append([][]float64{}, src...), dst...)
	n := t.NumAtoms()
	base := nb.Base()
	base.SetLambdaPlaneIdxs(make([]int, n))
	base.SetLambdaOffsetIdxs(make([]int, n))
	return combined, base.Interpolate(), nil
}

func (t *RelativeFreeEnergyForcefield) ParameterizeHarmonicBond2(raw0, raw1 [][]float64) ([][]float64, *potentials.HarmonicBond, error) {
	if err := requireSameTable("harmonic bond", t.ff.HB.Smirks(), t.ff1.HB.Smirks(), raw0, raw1); err != nil {
		return nil, nil, err
	}
	return t.BaseTopology.ParameterizeHarmonicBond(raw0)
}

func (t *RelativeFreeEnergyForcefield) ParameterizeHarmonicAngle2(raw0, raw1 [][]float64) ([][]float64, *potentials.HarmonicAngle, error) {
	if err := requireSameTable("harmonic angle", t.ff.HA.Smirks(), t.ff1.HA.Smirks(), raw0, raw1); err != nil {
		return nil, nil, err
	}
	return t.BaseTopology.ParameterizeHarmonicAngle(raw0)
}

func (t *RelativeFreeEnergyForcefield) ParameterizePeriodicTorsion2(proper0, improper0, proper1, improper1 [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
	if err := requireSameTable("proper torsion", t.ff.PT.Smirks(), t.ff1.PT.Smirks(), proper0, proper1); err != nil {
		return nil, nil, err
	}
	if err := requireSameTable("improper torsion", t.ff.IT.Smirks(), t.ff1.IT.Smirks(), improper0, improper1); err != nil {
		return nil, nil, err
	}
	return t.BaseTopology.ParameterizePeriodicTorsion(proper0, improper0)
}

func requireSameTable(what, smirks0, smirks1 string, raw0, raw1 [][]float64) error {
	if smirks0 != smirks1 {
		return fep.NewCError(fmt.Sprintf("changing %s patterns is not supported", what), "RelativeFreeEnergyForcefield")
	}
	if len(raw0) != len(raw1) {
		return fep.NewCError(fmt.Sprintf("changing %s parameters is not supported", what), "RelativeFreeEnergyForcefield")
	}
	for i := range raw0 {
		if len(raw0[i]) != len(raw1[i]) {
			return fep.NewCError(fmt.Sprintf("changing %s parameters is not supported", what), "RelativeFreeEnergyForcefield")
		}
		for j := range raw0[i] {
			if !approxEqual(raw0[i][j], raw1[i][j]) {
				return fep.NewCError(fmt.Sprintf("changing %s parameters is not supported", what), "RelativeFreeEnergyForcefield")
			}
		}
	}
	return nil
}

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	tol := 1e-8 + 1e-5*b
	if b < 0 {
		tol = 1e-8 - 1e-5*b
	}
	return d <= tol
}

//dechargeHalveEpsilon copies (q, sig, eps) rows with q zeroed and eps
//halved.
func dechargeHalveEpsilon(params [][]float64) [][]float64 {
	ret := make([][]float64, len(params))
	for i, p := range params {
		ret[i] = []float64{0, p[1], p[2] * 0.5}
	}
	return ret
}
