/*
 * base.go, part of timemachine.
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

//Package topology builds alchemical system descriptions from molecules
//and forcefield handles. A Topology turns raw forcefield tables into
//bound index/parameter arrays for one alchemical scheme: a single
//ligand (BaseTopology and its conversion/decoupling variants), two
//ligands side by side (DualTopology family), two ligands fused through
//a mapped core (SingleTopology), or any of these merged behind a host
//environment (HostGuestTopology).
package topology

import (
	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/chiral"
	"github.com/ljmartin/timemachine/ff"
	"github.com/ljmartin/timemachine/potentials"
)

//Topology is the contract shared by all alchemical layouts. The
//Parameterize methods take raw forcefield tables (normally the
//corresponding handle's Params()) and return per-term parameter rows
//plus the unbound descriptor carrying index arrays and lambda
//metadata.
type Topology interface {
	NumAtoms() int
	//ComponentIdxs returns, per molecular component, the indices of
	//its atoms in this topology's combined index space.
	ComponentIdxs() [][]int
	ParameterizeHarmonicBond(raw [][]float64) ([][]float64, *potentials.HarmonicBond, error)
	ParameterizeHarmonicAngle(raw [][]float64) ([][]float64, *potentials.HarmonicAngle, error)
	ParameterizePeriodicTorsion(proper, improper [][]float64) ([][]float64, *potentials.PeriodicTorsion, error)
	ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error)
}

//VacuumSystem is a fully bound description of a ligand (or ligand
//pair) without an environment. ChiralAtom and ChiralBond are nil
//unless the chiral end state was requested.
type VacuumSystem struct {
	Bond       *potentials.BoundPotential
	Angle      *potentials.BoundPotential
	Torsion    *potentials.BoundPotential
	Nonbonded  *potentials.BoundPotential
	ChiralAtom *potentials.BoundPotential
	ChiralBond *potentials.BoundPotential
}

//BaseTopology parameterizes a single ligand, 4D-decoupled from its
//environment: every atom sits on lifting plane 0 with offset 1.
type BaseTopology struct {
	mol *fep.Molecule
	ff  *ff.Forcefield
}

func NewBaseTopology(mol *fep.Molecule, forcefield *ff.Forcefield) *BaseTopology {
	return &BaseTopology{mol: mol, ff: forcefield}
}

func (t *BaseTopology) Mol() *fep.Molecule { return t.mol }

func (t *BaseTopology) Forcefield() *ff.Forcefield { return t.ff }

func (t *BaseTopology) NumAtoms() int { return t.mol.Len() }

func (t *BaseTopology) ComponentIdxs() [][]int {
	return [][]int{irange(t.NumAtoms(), 0)}
}

func (t *BaseTopology) ParameterizeHarmonicBond(raw [][]float64) ([][]float64, *potentials.HarmonicBond, error) {
	params, idxs, err := t.ff.HB.PartialParameterize(raw, t.mol)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeHarmonicBond")
	}
	return params, potentials.NewHarmonicBond(idxs), nil
}

func (t *BaseTopology) ParameterizeHarmonicAngle(raw [][]float64) ([][]float64, *potentials.HarmonicAngle, error) {
	params, idxs, err := t.ff.HA.PartialParameterize(raw, t.mol)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeHarmonicAngle")
	}
	return params, potentials.NewHarmonicAngle(idxs), nil
}

func (t *BaseTopology) ParameterizeProperTorsion(raw [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
	params, idxs, err := t.ff.PT.PartialParameterize(raw, t.mol)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeProperTorsion")
	}
	return params, potentials.NewPeriodicTorsion(idxs), nil
}

func (t *BaseTopology) ParameterizeImproperTorsion(raw [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
	params, idxs, err := t.ff.IT.PartialParameterize(raw, t.mol)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeImproperTorsion")
	}
	return params, potentials.NewPeriodicTorsion(idxs), nil
}

//ParameterizePeriodicTorsion folds propers and impropers into a single
//torsion term set, preserving each side's lambda schedule (always-on
//when absent).
func (t *BaseTopology) ParameterizePeriodicTorsion(proper, improper [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
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

//mergeTorsions concatenates two torsion term sets into one with
//explicit lambda schedules.
func mergeTorsions(pp [][]float64, pt *potentials.PeriodicTorsion, ip [][]float64, it *potentials.PeriodicTorsion) ([][]float64, *potentials.PeriodicTorsion) {
	params := append(append([][]float64{}, pp...), ip...)
	idxs := append(append([][]int{}, pt.Idxs()...), it.Idxs()...)
	mult := append(scheduleOrDefault(pt.LambdaMult(), len(pp), 0), scheduleOrDefault(it.LambdaMult(), len(ip), 0)...)
	offset := append(scheduleOrDefault(pt.LambdaOffset(), len(pp), 1), scheduleOrDefault(it.LambdaOffset(), len(ip), 1)...)
	return params, potentials.NewPeriodicTorsionAlchemical(idxs, mult, offset)
}

func scheduleOrDefault(s []int, n, fill int) []int {
	if s != nil {
		return append([]int{}, s...)
	}
	ret := make([]int, n)
	for i := range ret {
		ret[i] = fill
	}
	return ret
}

func (t *BaseTopology) ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	params, err := qljParams(t.ff, rawQ, rawLJ, t.mol)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	exclusionIdxs, scales := GenerateExclusionIdxs(t.mol, fep.Scale12, fep.Scale13, fep.Scale14)
	n := t.mol.Len()
	nb := potentials.NewNonbonded(
		exclusionIdxs,
		pairScales(scales),
		make([]int, n),
		ones(n),
		fep.Beta, fep.Cutoff,
	)
	return params, nb, nil
}

//ParameterizeNonbondedPairlist expresses the same intramolecular
//interactions as ParameterizeNonbonded through an explicit pair list
//with precombined parameters. The same scale factor is used for the
//electrostatic and vdW channels.
func (t *BaseTopology) ParameterizeNonbondedPairlist(rawQ, rawLJ [][]float64) ([][]float64, *potentials.NonbondedPairListPrecomputed, error) {
	qp, err := t.ff.Q.PartialParameterize(rawQ, t.mol)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbondedPairlist")
	}
	ljp, err := t.ff.LJ.PartialParameterize(rawLJ, t.mol)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbondedPairlist")
	}
	exclusionIdxs, scales := GenerateExclusionIdxs(t.mol, fep.Scale12, fep.Scale13, fep.Scale14)
	excluded := make(map[[2]int]float64, len(exclusionIdxs))
	for n, ij := range exclusionIdxs {
		excluded[ij] = scales[n]
	}
	var idxs [][2]int
	var params [][]float64
	n := t.mol.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rescale := 1.0 - excluded[[2]int{i, j}]
			if rescale <= 0 {
				continue
			}
			q := qp[i][0] * qp[j][0] * rescale
			sig := potentials.CombiningRuleSigma(ljp[i][0], ljp[j][0])
			eps := potentials.CombiningRuleEpsilon(ljp[i][1], ljp[j][1]) * rescale
			idxs = append(idxs, [2]int{i, j})
			params = append(params, []float64{q, sig, eps})
		}
	}
	return params, potentials.NewNonbondedPairListPrecomputed(idxs, make([]float64, len(idxs)), fep.Beta, fep.Cutoff), nil
}

//SetupEndState binds every term of the fully interacting ligand into a
//VacuumSystem, with the nonbonded part expressed as a pair list.
func (t *BaseTopology) SetupEndState() (*VacuumSystem, error) {
	bondParams, hb, err := t.ParameterizeHarmonicBond(t.ff.HB.Params())
	if err != nil {
		return nil, errDecorate(err, "SetupEndState")
	}
	angleParams, ha, err := t.ParameterizeHarmonicAngle(t.ff.HA.Params())
	if err != nil {
		return nil, errDecorate(err, "SetupEndState")
	}
	properParams, pt, err := t.ParameterizeProperTorsion(t.ff.PT.Params())
	if err != nil {
		return nil, errDecorate(err, "SetupEndState")
	}
	improperParams, it, err := t.ParameterizeImproperTorsion(t.ff.IT.Params())
	if err != nil {
		return nil, errDecorate(err, "SetupEndState")
	}
	nbParams, nbpl, err := t.ParameterizeNonbondedPairlist(t.ff.Q.Params(), t.ff.LJ.Params())
	if err != nil {
		return nil, errDecorate(err, "SetupEndState")
	}
	torsionParams := append(append([][]float64{}, properParams...), improperParams...)
	torsionIdxs := append(append([][]int{}, pt.Idxs()...), it.Idxs()...)
	return &VacuumSystem{
		Bond:      potentials.Bind(hb, bondParams),
		Angle:     potentials.Bind(ha, angleParams),
		Torsion:   potentials.Bind(potentials.NewPeriodicTorsion(torsionIdxs), torsionParams),
		Nonbonded: potentials.Bind(nbpl, nbParams),
	}, nil
}

//SetupChiralRestraints derives the ligand's chiral atom and bond
//restraints from its reference conformer and binds each with the force
//constant k.
func (t *BaseTopology) SetupChiralRestraints(k float64) (*potentials.BoundPotential, *potentials.BoundPotential) {
	conf := t.mol.Coords()

	var atomIdxs [][4]int
	for _, a := range chiral.FindChiralAtoms(t.mol) {
		atomIdxs = append(atomIdxs, chiral.SetupChiralAtomRestraints(t.mol, conf, a)...)
	}
	atomParams := make([][]float64, len(atomIdxs))
	for i := range atomParams {
		atomParams[i] = []float64{k}
	}
	atomPotential := potentials.Bind(potentials.NewChiralAtomRestraint(atomIdxs), atomParams)

	var bondIdxs [][4]int
	var bondSigns []int
	for _, b := range chiral.FindChiralBonds(t.mol) {
		idxs, signs := chiral.SetupChiralBondRestraints(t.mol, conf, b[0], b[1])
		bondIdxs = append(bondIdxs, idxs...)
		bondSigns = append(bondSigns, signs...)
	}
	bondParams := make([][]float64, len(bondIdxs))
	for i := range bondParams {
		bondParams[i] = []float64{k}
	}
	bondPotential := potentials.Bind(potentials.NewChiralBondRestraint(bondIdxs, bondSigns), bondParams)

	return atomPotential, bondPotential
}

//SetupChiralEndState is SetupEndState with the chiral restraints
//attached.
func (t *BaseTopology) SetupChiralEndState() (*VacuumSystem, error) {
	system, err := t.SetupEndState()
	if err != nil {
		return nil, errDecorate(err, "SetupChiralEndState")
	}
	system.ChiralAtom, system.ChiralBond = t.SetupChiralRestraints(fep.ChiralRestraintK)
	return system, nil
}

//qljParams assembles per-atom (charge, sigma, epsilon) rows.
func qljParams(f *ff.Forcefield, rawQ, rawLJ [][]float64, mol *fep.Molecule) ([][]float64, error) {
	qp, err := f.Q.PartialParameterize(rawQ, mol)
	if err != nil {
		return nil, err
	}
	ljp, err := f.LJ.PartialParameterize(rawLJ, mol)
	if err != nil {
		return nil, err
	}
	params := make([][]float64, len(qp))
	for i := range qp {
		params[i] = []float64{qp[i][0], ljp[i][0], ljp[i][1]}
	}
	return params, nil
}

func pairScales(scales []float64) [][2]float64 {
	ret := make([][2]float64, len(scales))
	for i, s := range scales {
		ret[i] = [2]float64{s, s}
	}
	return ret
}

func ones(n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = 1
	}
	return ret
}

func irange(n, start int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = start + i
	}
	return ret
}

func errDecorate(err error, caller string) error {
	err2, ok := err.(fep.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
