/*
 * sysio_test.go, part of timemachine.
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

package sysio

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/fe"
	"github.com/ljmartin/timemachine/ff"
	"github.com/ljmartin/timemachine/potentials"
	v3 "github.com/ljmartin/timemachine/v3"
)

func chainMol(Te *testing.T, symbols ...string) *fep.Molecule {
	Te.Helper()
	atoms := make([]*fep.Atom, len(symbols))
	for i, s := range symbols {
		atoms[i] = &fep.Atom{Symbol: s}
	}
	bonds := make([]*fep.Bond, len(symbols)-1)
	coords := v3.Zeros(len(symbols))
	for i := range symbols {
		coords.SetVec(i, []float64{0.15 * float64(i), 0, 0})
		if i > 0 {
			bonds[i-1] = &fep.Bond{At1: atoms[i-1], At2: atoms[i], Order: 1}
		}
	}
	mol, err := fep.NewMolecule(atoms, bonds, coords)
	require.NoError(Te, err)
	return mol
}

func vacuumEdge(Te *testing.T) *fe.Edge {
	Te.Helper()
	molA := chainMol(Te, "C", "C", "C")
	molB := chainMol(Te, "C", "C", "O")
	rfe, err := fe.NewRelativeFreeEnergy(molA, molB, [][2]int{{0, 0}, {1, 1}}, ff.DefaultForcefield())
	require.NoError(Te, err)
	edge, err := rfe.PrepareVacuumEdge()
	require.NoError(Te, err)
	return edge
}

func requireEdgesEqual(Te *testing.T, want, got *fe.Edge) {
	Te.Helper()
	require.Equal(Te, want.Masses, got.Masses)
	require.Equal(Te, want.Coords.NVecs(), got.Coords.NVecs())
	for i := 0; i < want.Coords.NVecs(); i++ {
		require.Equal(Te, want.Coords.Vec(i), got.Coords.Vec(i))
	}
	require.Equal(Te, want.Params, got.Params)
	require.Len(Te, got.Potentials, len(want.Potentials))
	for i := range want.Potentials {
		require.Equal(Te, want.Potentials[i].TermName(), got.Potentials[i].TermName())
	}
}

func TestRoundTrip(Te *testing.T) {
	edge := vacuumEdge(Te)
	var buf bytes.Buffer
	require.NoError(Te, Write(&buf, edge))
	got, err := Read(&buf)
	require.NoError(Te, err)
	requireEdgesEqual(Te, edge, got)

	// the torsion group of this pair is empty and must come back as
	// such, not as a missing group
	require.NotNil(Te, got.Params[2])
	require.Empty(Te, got.Params[2])

	// the alchemical schedules survive the trip
	hbWant := edge.Potentials[0].(*potentials.HarmonicBond)
	hbGot := got.Potentials[0].(*potentials.HarmonicBond)
	require.Equal(Te, hbWant.Idxs(), hbGot.Idxs())
	require.Equal(Te, hbWant.LambdaMult(), hbGot.LambdaMult())
	require.Equal(Te, hbWant.LambdaOffset(), hbGot.LambdaOffset())

	nbWant := edge.Potentials[3].(potentials.NonbondedTerm)
	nbGot, ok := got.Potentials[3].(potentials.NonbondedTerm)
	require.True(Te, ok)
	require.True(Te, nbGot.Interpolated())
	require.Equal(Te, nbWant.Base().ExclusionIdxs(), nbGot.Base().ExclusionIdxs())
	require.Equal(Te, nbWant.Base().ScaleFactors(), nbGot.Base().ScaleFactors())
	require.Equal(Te, nbWant.Base().LambdaPlaneIdxs(), nbGot.Base().LambdaPlaneIdxs())
	require.Equal(Te, nbWant.Base().LambdaOffsetIdxs(), nbGot.Base().LambdaOffsetIdxs())
	require.Equal(Te, fep.Beta, nbGot.Base().Beta())
	require.Equal(Te, fep.Cutoff, nbGot.Base().Cutoff())
}

func TestRoundTripChiralTerms(Te *testing.T) {
	atomRestr := potentials.NewChiralAtomRestraint([][4]int{{0, 1, 2, 3}, {0, 2, 1, 4}})
	bondRestr := potentials.NewChiralBondRestraint([][4]int{{1, 0, 4, 5}}, []int{-1})
	pl := potentials.NewNonbondedPairListPrecomputed([][2]int{{0, 3}}, []float64{0}, fep.Beta, fep.Cutoff)
	coords := v3.Zeros(6)
	edge := &fe.Edge{
		Potentials: []potentials.Term{atomRestr, bondRestr, pl},
		Params: [][][]float64{
			{{1000}, {1000}},
			{{1000}},
			{{0.01, 0.3, 0.5}},
		},
		Masses: []float64{12, 1, 1, 1, 12, 16},
		Coords: coords,
	}
	var buf bytes.Buffer
	require.NoError(Te, Write(&buf, edge))
	got, err := Read(&buf)
	require.NoError(Te, err)
	requireEdgesEqual(Te, edge, got)

	require.Equal(Te, atomRestr.Idxs(), got.Potentials[0].(*potentials.ChiralAtomRestraint).Idxs())
	bg := got.Potentials[1].(*potentials.ChiralBondRestraint)
	require.Equal(Te, bondRestr.Idxs(), bg.Idxs())
	require.Equal(Te, []int{-1}, bg.Signs())
	pg := got.Potentials[2].(*potentials.NonbondedPairListPrecomputed)
	require.Equal(Te, pl.Idxs(), pg.Idxs())
	require.Equal(Te, pl.Offsets(), pg.Offsets())
}

func TestFileRoundTrip(Te *testing.T) {
	edge := vacuumEdge(Te)
	name := filepath.Join(Te.TempDir(), "edge.szd")
	require.NoError(Te, WriteFile(name, edge))
	got, err := ReadFile(name)
	require.NoError(Te, err)
	requireEdgesEqual(Te, edge, got)
}

type fakeTerm struct{}

func (fakeTerm) TermName() string { return "SoftSphere" }

func TestFromEdgeRejectsUnknownTerm(Te *testing.T) {
	edge := &fe.Edge{
		Potentials: []potentials.Term{fakeTerm{}},
		Params:     [][][]float64{{{1.0}}},
		Masses:     []float64{12},
		Coords:     v3.Zeros(1),
	}
	_, err := FromEdge(edge)
	require.Error(Te, err)
}

func TestRestoreRejectsBadSnapshots(Te *testing.T) {
	s := &Snapshot{}
	_, err := s.Restore()
	require.Error(Te, err)

	s = &Snapshot{Coords: []float64{1, 2}}
	_, err = s.Restore()
	require.Error(Te, err)

	xyz := []float64{0, 0, 0}
	s = &Snapshot{Coords: xyz, Terms: []TermSnapshot{{Name: "SoftSphere"}}}
	_, err = s.Restore()
	require.Error(Te, err)

	s = &Snapshot{Coords: xyz, Terms: []TermSnapshot{{Name: "ChiralAtomRestraint", Idxs: [][]int{{0, 1, 2}}}}}
	_, err = s.Restore()
	require.Error(Te, err)
}
