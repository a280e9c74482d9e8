/*
 * hostguest.go, part of timemachine.
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
	"github.com/ljmartin/timemachine/potentials"
)

//HostGuestTopology merges a parameterized host environment with a
//guest topology, host atoms first. Host terms stay on at every lambda;
//the guest's lambda behavior passes through unchanged, with its atom
//indices shifted past the host.
type HostGuestTopology struct {
	guest Topology

	hostBond    *potentials.BoundPotential
	hostAngle   *potentials.BoundPotential
	hostTorsion *potentials.BoundPotential
	hostNB      *potentials.Nonbonded
	hostNBBound *potentials.BoundPotential

	numHostAtoms int
}

//NewHostGuestTopology classifies the host's bound potentials. Exactly
//one nonbonded potential is required (its per-atom metadata defines the
//host atom count); bonds, angles and torsions may each appear at most
//once. Anything else, or a duplicate, fails with UnsupportedPotential.
func NewHostGuestTopology(hostPotentials []*potentials.BoundPotential, guest Topology) (*HostGuestTopology, error) {
	t := &HostGuestTopology{guest: guest}
	for _, bp := range hostPotentials {
		switch term := bp.Term.(type) {
		case *potentials.HarmonicBond:
			if t.hostBond != nil {
				return nil, fep.NewUnsupportedPotential("duplicate host potential", term.TermName())
			}
			t.hostBond = bp
		case *potentials.HarmonicAngle:
			if t.hostAngle != nil {
				return nil, fep.NewUnsupportedPotential("duplicate host potential", term.TermName())
			}
			t.hostAngle = bp
		case *potentials.PeriodicTorsion:
			if t.hostTorsion != nil {
				return nil, fep.NewUnsupportedPotential("duplicate host potential", term.TermName())
			}
			t.hostTorsion = bp
		case *potentials.Nonbonded:
			if t.hostNB != nil {
				return nil, fep.NewUnsupportedPotential("duplicate host potential", term.TermName())
			}
			t.hostNB = term
			t.hostNBBound = bp
		default:
			return nil, fep.NewUnsupportedPotential("unsupported host potential", bp.Term.TermName())
		}
	}
	if t.hostNB == nil {
		return nil, fep.NewUnsupportedPotential("host must carry a nonbonded potential", "Nonbonded")
	}
	t.numHostAtoms = t.hostNB.NumAtoms()
	return t, nil
}

func (t *HostGuestTopology) NumAtoms() int { return t.numHostAtoms + t.guest.NumAtoms() }

func (t *HostGuestTopology) NumHostAtoms() int { return t.numHostAtoms }

//ComponentIdxs lists the host block first, then the guest components
//shifted past it.
func (t *HostGuestTopology) ComponentIdxs() [][]int {
	var ret [][]int
	if t.numHostAtoms > 0 {
		ret = append(ret, irange(t.numHostAtoms, 0))
	}
	for _, comp := range t.guest.ComponentIdxs() {
		shifted := make([]int, len(comp))
		for i, c := range comp {
			shifted[i] = c + t.numHostAtoms
		}
		ret = append(ret, shifted)
	}
	return ret
}

//combineBonded prepends the host's always-on terms to the guest's.
func (t *HostGuestTopology) combineBonded(guestParams [][]float64, guestIdxs [][]int, guestMult, guestOffset []int, host *potentials.BoundPotential, hostIdxs [][]int) ([][]float64, [][]int, []int, []int) {
	n := len(guestParams)
	mult := scheduleOrDefault(guestMult, n, 0)
	offset := scheduleOrDefault(guestOffset, n, 1)

	shifted := make([][]int, len(guestIdxs))
	for i, row := range guestIdxs {
		s := make([]int, len(row))
		for j, a := range row {
			s[j] = a + t.numHostAtoms
		}
		shifted[i] = s
	}

	var params [][]float64
	var idxs [][]int
	var hostMult, hostOffset []int
	if host != nil {
		params = append(params, host.Params...)
		idxs = append(idxs, hostIdxs...)
		hostMult = make([]int, len(hostIdxs))
		hostOffset = ones(len(hostIdxs))
	}
	params = append(params, guestParams...)
	idxs = append(idxs, shifted...)
	return params, idxs, append(hostMult, mult...), append(hostOffset, offset...)
}

func (t *HostGuestTopology) ParameterizeHarmonicBond(raw [][]float64) ([][]float64, *potentials.HarmonicBond, error) {
	gp, gpot, err := t.guest.ParameterizeHarmonicBond(raw)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeHarmonicBond")
	}
	var hostIdxs [][]int
	if t.hostBond != nil {
		hostIdxs = t.hostBond.Term.(*potentials.HarmonicBond).Idxs()
	}
	params, idxs, mult, offset := t.combineBonded(gp, gpot.Idxs(), gpot.LambdaMult(), gpot.LambdaOffset(), t.hostBond, hostIdxs)
	return params, potentials.NewHarmonicBondAlchemical(idxs, mult, offset), nil
}

func (t *HostGuestTopology) ParameterizeHarmonicAngle(raw [][]float64) ([][]float64, *potentials.HarmonicAngle, error) {
	gp, gpot, err := t.guest.ParameterizeHarmonicAngle(raw)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeHarmonicAngle")
	}
	var hostIdxs [][]int
	if t.hostAngle != nil {
		hostIdxs = t.hostAngle.Term.(*potentials.HarmonicAngle).Idxs()
	}
	params, idxs, mult, offset := t.combineBonded(gp, gpot.Idxs(), gpot.LambdaMult(), gpot.LambdaOffset(), t.hostAngle, hostIdxs)
	return params, potentials.NewHarmonicAngleAlchemical(idxs, mult, offset), nil
}

func (t *HostGuestTopology) ParameterizePeriodicTorsion(proper, improper [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
	gp, gpot, err := t.guest.ParameterizePeriodicTorsion(proper, improper)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizePeriodicTorsion")
	}
	var hostIdxs [][]int
	if t.hostTorsion != nil {
		hostIdxs = t.hostTorsion.Term.(*potentials.PeriodicTorsion).Idxs()
	}
	params, idxs, mult, offset := t.combineBonded(gp, gpot.Idxs(), gpot.LambdaMult(), gpot.LambdaOffset(), t.hostTorsion, hostIdxs)
	return params, potentials.NewPeriodicTorsionAlchemical(idxs, mult, offset), nil
}

func (t *HostGuestTopology) ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	numGuestAtoms := t.guest.NumAtoms()
	guestParams, guestNB, err := t.guest.ParameterizeNonbonded(rawQ, rawLJ)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	gb := guestNB.Base()
	if gb.Beta() != t.hostNB.Beta() {
		return nil, nil, fep.NewCError(fmt.Sprintf("host beta %v does not match guest beta %v", t.hostNB.Beta(), gb.Beta()), "ParameterizeNonbonded")
	}
	if gb.Cutoff() != t.hostNB.Cutoff() {
		return nil, nil, fep.NewCError(fmt.Sprintf("host cutoff %v does not match guest cutoff %v", t.hostNB.Cutoff(), gb.Cutoff()), "ParameterizeNonbonded")
	}

	exclusions := append([][2]int{}, t.hostNB.ExclusionIdxs()...)
	for _, ij := range gb.ExclusionIdxs() {
		exclusions = append(exclusions, [2]int{ij[0] + t.numHostAtoms, ij[1] + t.numHostAtoms})
	}
	scales := append(append([][2]float64{}, t.hostNB.ScaleFactors()...), gb.ScaleFactors()...)
	plane := append(append([]int{}, t.hostNB.LambdaPlaneIdxs()...), gb.LambdaPlaneIdxs()...)
	offset := append(append([]int{}, t.hostNB.LambdaOffsetIdxs()...), gb.LambdaOffsetIdxs()...)

	hostParams := t.hostNBBound.Params
	combined := potentials.NewNonbonded(exclusions, scales, plane, offset, gb.Beta(), gb.Cutoff())

	if guestNB.Interpolated() {
		if len(guestParams) != 2*numGuestAtoms {
			panic("topology: interpolated guest params must hold both end states")
		}
		src := append(append([][]float64{}, hostParams...), guestParams[:numGuestAtoms]...)
		dst := append(append([][]float64{}, hostParams...), guestParams[numGuestAtoms:]...)
		return append(src, dst...), combined.Interpolate(), nil
	}
	if len(guestParams) != numGuestAtoms {
		panic("topology: one guest param row per atom required")
	}
	return append(append([][]float64{}, hostParams...), guestParams...), combined, nil
}
