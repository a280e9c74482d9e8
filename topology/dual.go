/*
 * dual.go, part of timemachine.
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
	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/ff"
	"github.com/ljmartin/timemachine/potentials"
)

//DualTopology lays two ligands side by side in one index space, mol A
//first. The two ligands never interact: every cross pair is excluded
//outright.
type DualTopology struct {
	molA *fep.Molecule
	molB *fep.Molecule
	ff   *ff.Forcefield
}

func NewDualTopology(molA, molB *fep.Molecule, forcefield *ff.Forcefield) *DualTopology {
	return &DualTopology{molA: molA, molB: molB, ff: forcefield}
}

func (t *DualTopology) MolA() *fep.Molecule { return t.molA }

func (t *DualTopology) MolB() *fep.Molecule { return t.molB }

func (t *DualTopology) NumAtoms() int { return t.molA.Len() + t.molB.Len() }

func (t *DualTopology) ComponentIdxs() [][]int {
	return [][]int{irange(t.molA.Len(), 0), irange(t.molB.Len(), t.molA.Len())}
}

func (t *DualTopology) ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	paramsA, err := qljParams(t.ff, rawQ, rawLJ, t.molA)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	paramsB, err := qljParams(t.ff, rawQ, rawLJ, t.molB)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	params := append(paramsA, paramsB...)

	exclA, scaleA := GenerateExclusionIdxs(t.molA, fep.Scale12, fep.Scale13, fep.Scale14)
	exclB, scaleB := GenerateExclusionIdxs(t.molB, fep.Scale12, fep.Scale13, fep.Scale14)

	na, nb := t.molA.Len(), t.molB.Len()
	exclusions := make([][2]int, 0, len(exclA)+len(exclB)+na*nb)
	scales := make([][2]float64, 0, cap(exclusions))
	exclusions = append(exclusions, exclA...)
	scales = append(scales, pairScales(scaleA)...)
	for _, ij := range exclB {
		exclusions = append(exclusions, [2]int{ij[0] + na, ij[1] + na})
	}
	scales = append(scales, pairScales(scaleB)...)
	for i := 0; i < na; i++ {
		for j := 0; j < nb; j++ {
			exclusions = append(exclusions, [2]int{i, j + na})
			scales = append(scales, [2]float64{1, 1})
		}
	}

	term := potentials.NewNonbonded(
		exclusions, scales,
		make([]int, na+nb),
		make([]int, na+nb),
		fep.Beta, fep.Cutoff,
	)
	return params, term, nil
}

//ParameterizeNonbondedPairlist concatenates each ligand's own pair
//list; no cross pairs are generated.
func (t *DualTopology) ParameterizeNonbondedPairlist(rawQ, rawLJ [][]float64) ([][]float64, *potentials.NonbondedPairListPrecomputed, error) {
	paramsA, pairsA, err := NewBaseTopology(t.molA, t.ff).ParameterizeNonbondedPairlist(rawQ, rawLJ)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbondedPairlist")
	}
	paramsB, pairsB, err := NewBaseTopology(t.molB, t.ff).ParameterizeNonbondedPairlist(rawQ, rawLJ)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbondedPairlist")
	}
	na := t.molA.Len()
	idxs := append([][2]int{}, pairsA.Idxs()...)
	for _, ij := range pairsB.Idxs() {
		idxs = append(idxs, [2]int{ij[0] + na, ij[1] + na})
	}
	params := append(paramsA, paramsB...)
	offsets := append(append([]float64{}, pairsA.Offsets()...), pairsB.Offsets()...)
	return params, potentials.NewNonbondedPairListPrecomputed(idxs, offsets, pairsA.Beta(), pairsA.Cutoff()), nil
}

func (t *DualTopology) parameterizeBondedTerm(raw [][]float64, handle ff.BondedHandle, caller string) ([][]float64, [][]int, error) {
	paramsA, idxsA, err := handle.PartialParameterize(raw, t.molA)
	if err != nil {
		return nil, nil, errDecorate(err, caller)
	}
	paramsB, idxsB, err := handle.PartialParameterize(raw, t.molB)
	if err != nil {
		return nil, nil, errDecorate(err, caller)
	}
	offset := t.molA.Len()
	idxs := append([][]int{}, idxsA...)
	for _, row := range idxsB {
		shifted := make([]int, len(row))
		for i, a := range row {
			shifted[i] = a + offset
		}
		idxs = append(idxs, shifted)
	}
	return append(paramsA, paramsB...), idxs, nil
}

func (t *DualTopology) ParameterizeHarmonicBond(raw [][]float64) ([][]float64, *potentials.HarmonicBond, error) {
	params, idxs, err := t.parameterizeBondedTerm(raw, t.ff.HB, "ParameterizeHarmonicBond")
	if err != nil {
		return nil, nil, err
	}
	return params, potentials.NewHarmonicBond(idxs), nil
}

func (t *DualTopology) ParameterizeHarmonicAngle(raw [][]float64) ([][]float64, *potentials.HarmonicAngle, error) {
	params, idxs, err := t.parameterizeBondedTerm(raw, t.ff.HA, "ParameterizeHarmonicAngle")
	if err != nil {
		return nil, nil, err
	}
	return params, potentials.NewHarmonicAngle(idxs), nil
}

func (t *DualTopology) ParameterizeProperTorsion(raw [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
	params, idxs, err := t.parameterizeBondedTerm(raw, t.ff.PT, "ParameterizeProperTorsion")
	if err != nil {
		return nil, nil, err
	}
	return params, potentials.NewPeriodicTorsion(idxs), nil
}

func (t *DualTopology) ParameterizeImproperTorsion(raw [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
	params, idxs, err := t.parameterizeBondedTerm(raw, t.ff.IT, "ParameterizeImproperTorsion")
	if err != nil {
		return nil, nil, err
	}
	return params, potentials.NewPeriodicTorsion(idxs), nil
}

func (t *DualTopology) ParameterizePeriodicTorsion(proper, improper [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
	pp, pt, err := t.ParameterizeProperTorsion(proper)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizePeriodicTorsion")
	}
	ip, it, err := t.ParameterizeImproperTorsion(improper)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizePeriodicTorsion")
	}
	params, term := mergeTorsions(pp, pt, ip, it)
	return params, term, nil
}

//DualTopologyRHFE is the relative hydration layout. Ligand B decouples
//as lambda goes from 0 to 1 while ligand A stays fully coupled; at
//lambda 0 both ligands run at half charge and half epsilon.
type DualTopologyRHFE struct {
	DualTopology
}

func NewDualTopologyRHFE(molA, molB *fep.Molecule, forcefield *ff.Forcefield) *DualTopologyRHFE {
	return &DualTopologyRHFE{DualTopology{molA: molA, molB: molB, ff: forcefield}}
}

func (t *DualTopologyRHFE) ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	params, nb, err := t.DualTopology.ParameterizeNonbonded(rawQ, rawLJ)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	src := make([][]float64, len(params))
	for i, p := range params {
		src[i] = []float64{p[0] * 0.5, p[1], p[2] * 0.5}
	}
	combined := append(src, params...)
	na, nbAtoms := t.molA.Len(), t.molB.Len()
	base := nb.Base()
	base.SetLambdaPlaneIdxs(make([]int, na+nbAtoms))
	base.SetLambdaOffsetIdxs(append(make([]int, na), ones(nbAtoms)...))
	return combined, base.Interpolate(), nil
}

//DualTopologyMinimization keeps both ligands 4D-lifted with offset one,
//the layout used when relaxing clashy initial coordinates.
type DualTopologyMinimization struct {
	DualTopology
}

func NewDualTopologyMinimization(molA, molB *fep.Molecule, forcefield *ff.Forcefield) *DualTopologyMinimization {
	return &DualTopologyMinimization{DualTopology{molA: molA, molB: molB, ff: forcefield}}
}

func (t *DualTopologyMinimization) ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	params, nb, err := t.DualTopology.ParameterizeNonbonded(rawQ, rawLJ)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	n := t.NumAtoms()
	base := nb.Base()
	base.SetLambdaPlaneIdxs(make([]int, n))
	base.SetLambdaOffsetIdxs(ones(n))
	return params, base, nil
}

//DualTopologyChargeConversion transfers the charges of ligand A onto
//ligand B: at lambda 0 A is charged and B decharged, at lambda 1 the
//reverse. The decharged side also runs at half epsilon. Both ligands
//stay fully coupled in 4D.
type DualTopologyChargeConversion struct {
	DualTopology
}

func NewDualTopologyChargeConversion(molA, molB *fep.Molecule, forcefield *ff.Forcefield) *DualTopologyChargeConversion {
	return &DualTopologyChargeConversion{DualTopology{molA: molA, molB: molB, ff: forcefield}}
}

func (t *DualTopologyChargeConversion) ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	params, nb, err := t.DualTopology.ParameterizeNonbonded(rawQ, rawLJ)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	na := t.molA.Len()
	src := make([][]float64, len(params))
	dst := make([][]float64, len(params))
	for i, p := range params {
		if i < na {
			src[i] = append([]float64{}, p...)
			dst[i] = []float64{0, p[1], p[2] * 0.5}
		} else {
			src[i] = []float64{0, p[1], p[2] * 0.5}
			dst[i] = append([]float64{}, p...)
		}
	}
	combined := append(src, dst...)
	n := t.NumAtoms()
	base := nb.Base()
	base.SetLambdaPlaneIdxs(make([]int, n))
	base.SetLambdaOffsetIdxs(make([]int, n))
	return combined, base.Interpolate(), nil
}

//DualTopologyDecoupling holds ligand A fully interacting throughout
//while a decharged, half-epsilon ligand B is 4D-decoupled from the
//environment as lambda goes from zero to one.
type DualTopologyDecoupling struct {
	DualTopology
}

func NewDualTopologyDecoupling(molA, molB *fep.Molecule, forcefield *ff.Forcefield) *DualTopologyDecoupling {
	return &DualTopologyDecoupling{DualTopology{molA: molA, molB: molB, ff: forcefield}}
}

func (t *DualTopologyDecoupling) ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	params, nb, err := t.DualTopology.ParameterizeNonbonded(rawQ, rawLJ)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	na, nbAtoms := t.molA.Len(), t.molB.Len()
	modified := make([][]float64, len(params))
	for i, p := range params {
		if i < na {
			modified[i] = append([]float64{}, p...)
		} else {
			modified[i] = []float64{0, p[1], p[2] * 0.5}
		}
	}
	base := nb.Base()
	base.SetLambdaPlaneIdxs(make([]int, na+nbAtoms))
	base.SetLambdaOffsetIdxs(append(make([]int, na), ones(nbAtoms)...))
	return modified, base, nil
}
