/*
 * free_energy.go, part of timemachine.
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

//Package fe assembles ready-to-simulate free energy edges. An
//assembler owns the ligand(s) and a topology, and produces the four
//things an MD engine needs: unbound potentials, their parameters, the
//combined masses and the combined starting coordinates.
package fe

import (
	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/ff"
	"github.com/ljmartin/timemachine/potentials"
	"github.com/ljmartin/timemachine/topology"
	"github.com/ljmartin/timemachine/v3"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

//SetLogger routes assembly diagnostics through l. The default logger
//discards them.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

//Edge is an assembled alchemical system: one unbound potential per
//term family with its parameter rows, plus per-atom masses and
//starting coordinates in the combined index space.
type Edge struct {
	Potentials []potentials.Term
	Params     [][][]float64
	Masses     []float64
	Coords     *v3.Matrix
}

//HostSystem is a pre-parameterized environment: its bound potentials
//(one of which must be nonbonded), per-atom masses, and coordinates.
type HostSystem struct {
	Potentials []*potentials.BoundPotential
	Masses     []float64
	Coords     *v3.Matrix
}

//systemParams runs the four Parameterize calls shared by every edge
//kind against top.
func systemParams(top topology.Topology, f *ff.Forcefield) ([]potentials.Term, [][][]float64, error) {
	var terms []potentials.Term
	var params [][][]float64

	bondParams, hb, err := top.ParameterizeHarmonicBond(f.HB.Params())
	if err != nil {
		return nil, nil, err
	}
	terms, params = append(terms, hb), append(params, bondParams)

	angleParams, ha, err := top.ParameterizeHarmonicAngle(f.HA.Params())
	if err != nil {
		return nil, nil, err
	}
	terms, params = append(terms, ha), append(params, angleParams)

	torsionParams, pt, err := top.ParameterizePeriodicTorsion(f.PT.Params(), f.IT.Params())
	if err != nil {
		return nil, nil, err
	}
	terms, params = append(terms, pt), append(params, torsionParams)

	nbParams, nb, err := top.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	if err != nil {
		return nil, nil, err
	}
	terms, params = append(terms, nb), append(params, nbParams)

	return terms, params, nil
}

//AbsoluteFreeEnergy assembles the 4D decoupling of a single ligand.
type AbsoluteFreeEnergy struct {
	mol *fep.Molecule
	ff  *ff.Forcefield
	top *topology.BaseTopology
}

func NewAbsoluteFreeEnergy(mol *fep.Molecule, forcefield *ff.Forcefield) *AbsoluteFreeEnergy {
	return &AbsoluteFreeEnergy{
		mol: mol,
		ff:  forcefield,
		top: topology.NewBaseTopology(mol, forcefield),
	}
}

func (a *AbsoluteFreeEnergy) Topology() *topology.BaseTopology { return a.top }

//PrepareHostEdge merges the ligand behind the host and assembles the
//edge, host atoms first.
func (a *AbsoluteFreeEnergy) PrepareHostEdge(host *HostSystem) (*Edge, error) {
	hgt, err := topology.NewHostGuestTopology(host.Potentials, a.top)
	if err != nil {
		return nil, errDecorate(err, "PrepareHostEdge")
	}
	terms, params, err := systemParams(hgt, a.ff)
	if err != nil {
		return nil, errDecorate(err, "PrepareHostEdge")
	}
	guestMasses, err := a.mol.Masses()
	if err != nil {
		return nil, errDecorate(err, "PrepareHostEdge")
	}
	edge := &Edge{
		Potentials: terms,
		Params:     params,
		Masses:     append(append([]float64{}, host.Masses...), guestMasses...),
		Coords:     stackCoords(host.Coords, a.mol.Coords()),
	}
	logger.Info("assembled absolute host edge",
		zap.Int("host_atoms", hgt.NumHostAtoms()),
		zap.Int("guest_atoms", a.mol.Len()))
	return edge, nil
}

//RelativeFreeEnergy assembles the single-topology transformation of
//mol A into mol B through a mapped core.
type RelativeFreeEnergy struct {
	molA *fep.Molecule
	molB *fep.Molecule
	ff   *ff.Forcefield
	top  *topology.SingleTopology
}

func NewRelativeFreeEnergy(molA, molB *fep.Molecule, core [][2]int, forcefield *ff.Forcefield) (*RelativeFreeEnergy, error) {
	top, err := topology.NewSingleTopology(molA, molB, core, forcefield, false)
	if err != nil {
		return nil, errDecorate(err, "NewRelativeFreeEnergy")
	}
	return &RelativeFreeEnergy{molA: molA, molB: molB, ff: forcefield, top: top}, nil
}

func (r *RelativeFreeEnergy) Topology() *topology.SingleTopology { return r.top }

//combinedMasses averages the src and dst end-state masses per combined
//atom.
func (r *RelativeFreeEnergy) combinedMasses() ([]float64, error) {
	massesA, err := r.molA.Masses()
	if err != nil {
		return nil, err
	}
	massesB, err := r.molB.Masses()
	if err != nil {
		return nil, err
	}
	src, dst := r.top.InterpolateParams(massesA, massesB)
	for i := range src {
		src[i] = (src[i] + dst[i]) / 2
	}
	return src, nil
}

//combinedCoords averages the src and dst end-state coordinates per
//combined atom.
func (r *RelativeFreeEnergy) combinedCoords() *v3.Matrix {
	src, dst := r.top.InterpolateCoords(r.molA.Coords(), r.molB.Coords())
	src.Add(src, dst)
	src.Scale(0.5, src)
	return src
}

//PrepareVacuumEdge assembles the transformation without an
//environment.
func (r *RelativeFreeEnergy) PrepareVacuumEdge() (*Edge, error) {
	terms, params, err := systemParams(r.top, r.ff)
	if err != nil {
		return nil, errDecorate(err, "PrepareVacuumEdge")
	}
	masses, err := r.combinedMasses()
	if err != nil {
		return nil, errDecorate(err, "PrepareVacuumEdge")
	}
	edge := &Edge{
		Potentials: terms,
		Params:     params,
		Masses:     masses,
		Coords:     r.combinedCoords(),
	}
	logger.Info("assembled relative vacuum edge",
		zap.Int("combined_atoms", r.top.NumAtoms()))
	return edge, nil
}

//PrepareHostEdge assembles the transformation behind a host, host
//atoms first.
func (r *RelativeFreeEnergy) PrepareHostEdge(host *HostSystem) (*Edge, error) {
	hgt, err := topology.NewHostGuestTopology(host.Potentials, r.top)
	if err != nil {
		return nil, errDecorate(err, "PrepareHostEdge")
	}
	terms, params, err := systemParams(hgt, r.ff)
	if err != nil {
		return nil, errDecorate(err, "PrepareHostEdge")
	}
	masses, err := r.combinedMasses()
	if err != nil {
		return nil, errDecorate(err, "PrepareHostEdge")
	}
	edge := &Edge{
		Potentials: terms,
		Params:     params,
		Masses:     append(append([]float64{}, host.Masses...), masses...),
		Coords:     stackCoords(host.Coords, r.combinedCoords()),
	}
	logger.Info("assembled relative host edge",
		zap.Int("host_atoms", hgt.NumHostAtoms()),
		zap.Int("combined_atoms", r.top.NumAtoms()))
	return edge, nil
}

func stackCoords(host, guest *v3.Matrix) *v3.Matrix {
	ret := v3.Zeros(host.NVecs() + guest.NVecs())
	ret.Stack(host, guest)
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
