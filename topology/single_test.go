/*
 * single_test.go, part of timemachine.
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
	"testing"

	"github.com/stretchr/testify/require"

	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/potentials"
)

//propane fused to C-C-O through its first two carbons: one R-group on
//each side.
func simplePair(Te *testing.T, minimize bool) *SingleTopology {
	molA := chain(Te, "C", "C", "C")
	molB := chain(Te, "C", "C", "O")
	st, err := NewSingleTopology(molA, molB, [][2]int{{0, 0}, {1, 1}}, defaultFF(), minimize)
	require.NoError(Te, err)
	return st
}

func TestSingleTopologyArena(Te *testing.T) {
	st := simplePair(Te, false)
	require.Equal(Te, 4, st.NumAtoms())
	require.Equal(Te, []int{0, 1, 2}, st.AToC())
	require.Equal(Te, []int{0, 1, 3}, st.BToC())
	require.Equal(Te, []int{FlagCore, FlagCore, FlagRA, FlagRB}, st.CFlags())
	comps := st.ComponentIdxs()
	require.Equal(Te, [][]int{{0, 1, 2}, {0, 1, 3}}, comps)
}

func TestSingleTopologyDuplicateCore(Te *testing.T) {
	molA := chain(Te, "C", "C", "C")
	molB := chain(Te, "C", "C", "O")
	_, err := NewSingleTopology(molA, molB, [][2]int{{0, 0}, {0, 1}}, defaultFF(), false)
	require.Error(Te, err)
	var ame *fep.AtomMappingError
	require.ErrorAs(Te, err, &ame)
}

func TestSingleTopologyNonFactorizable(Te *testing.T) {
	// cyclopropane onto propane, mapped at both ends: the bridging
	// atoms link two core atoms on each side
	molA := ring(Te, "C", "C", "C")
	molB := chain(Te, "C", "C", "C")
	_, err := NewSingleTopology(molA, molB, [][2]int{{0, 0}, {2, 2}}, defaultFF(), false)
	require.Error(Te, err)
	var ame *fep.AtomMappingError
	require.ErrorAs(Te, err, &ame)
	require.Equal(Te, []int{1, 3}, ame.Offending)
}

func TestInterpolateParams(Te *testing.T) {
	st := simplePair(Te, false)
	src, dst := st.InterpolateParams([]float64{10, 11, 12}, []float64{20, 21, 22})
	require.Equal(Te, []float64{10, 11, 12, 22}, src)
	require.Equal(Te, []float64{20, 21, 12, 22}, dst)
}

func TestInterpolateCoords(Te *testing.T) {
	st := simplePair(Te, false)
	molA := chain(Te, "C", "C", "C")
	molB := chain(Te, "C", "C", "O")
	src, dst := st.InterpolateCoords(molA.Coords(), molB.Coords())
	require.Equal(Te, 4, src.NVecs())
	// core and R_A rows at src come from mol A
	require.Equal(Te, molA.Coords().Vec(2), src.Vec(2))
	// the R_B row keeps mol B's position at both ends
	require.Equal(Te, molB.Coords().Vec(2), src.Vec(3))
	require.Equal(Te, molB.Coords().Vec(2), dst.Vec(3))
	// the R_A row keeps mol A's position at dst
	require.Equal(Te, molA.Coords().Vec(2), dst.Vec(2))
}

func TestSingleTopologyNonbonded(Te *testing.T) {
	st := simplePair(Te, false)
	f := defaultFF()
	params, term, err := st.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	require.NoError(Te, err)
	require.True(Te, term.Interpolated())
	require.Len(Te, params, 2*st.NumAtoms())

	src := params[:st.NumAtoms()]
	dst := params[st.NumAtoms():]
	// core atoms are identical at both ends
	require.Equal(Te, src[0], dst[0])
	require.Equal(Te, src[1], dst[1])
	// R_A keeps sigma but loses charge and epsilon at dst
	require.Equal(Te, src[2][1], dst[2][1])
	require.Zero(Te, dst[2][0])
	require.Zero(Te, dst[2][2])
	// R_B is the mirror image
	require.Equal(Te, src[3][1], dst[3][1])
	require.Zero(Te, src[3][0])
	require.Zero(Te, src[3][2])
	require.NotZero(Te, dst[3][2])

	base := term.Base()
	require.Equal(Te, []int{0, 0, 0, -1}, base.LambdaPlaneIdxs())
	require.Equal(Te, []int{0, 0, 1, 1}, base.LambdaOffsetIdxs())
	require.Equal(Te, fep.Beta, base.Beta())
	require.Equal(Te, fep.Cutoff, base.Cutoff())

	// both molecules' exclusions appear in combined indices, merged
	require.Equal(Te, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}}, base.ExclusionIdxs())
}

func TestSingleTopologyMinimize(Te *testing.T) {
	st := simplePair(Te, true)
	f := defaultFF()
	_, term, err := st.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	require.NoError(Te, err)
	// under minimization R_B shares R_A's lifting plane
	require.Equal(Te, []int{0, 0, 0, 0}, term.Base().LambdaPlaneIdxs())
	require.Equal(Te, []int{0, 0, 1, 1}, term.Base().LambdaOffsetIdxs())
}

func TestSingleTopologyExclusionDisagreement(Te *testing.T) {
	// (0,3) is a scaled 1-4 pair in the chain but a full exclusion in
	// the ring, so fusing the two through an all-atom core must fail
	molA := chain(Te, "C", "C", "C", "C")
	molB := ring(Te, "C", "C", "C", "C")
	core := [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	st, err := NewSingleTopology(molA, molB, core, defaultFF(), false)
	require.NoError(Te, err)
	f := defaultFF()
	_, _, err = st.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	require.Error(Te, err)
	var ame *fep.AtomMappingError
	require.ErrorAs(Te, err, &ame)
	require.Equal(Te, []int{0, 3}, ame.Offending)
}

func TestSingleTopologyBondedClassification(Te *testing.T) {
	st := simplePair(Te, false)
	f := defaultFF()
	params, hb, err := st.ParameterizeHarmonicBond(f.HB.Params())
	require.NoError(Te, err)
	// A: (0,1) core, (1,2) unique; B: (0,1) core, (1,3) unique
	require.Equal(Te, [][]int{{0, 1}, {0, 1}, {1, 2}, {1, 3}}, hb.Idxs())
	require.Equal(Te, []int{-1, 1, 0, 0}, hb.LambdaMult())
	require.Equal(Te, []int{1, 0, 1, 1}, hb.LambdaOffset())
	require.Len(Te, params, 4)
	// the two core copies carry each end state's parameters; here both
	// are C-C so they agree
	require.Equal(Te, params[0], params[1])

	_, ha, err := st.ParameterizeHarmonicAngle(f.HA.Params())
	require.NoError(Te, err)
	// one angle per molecule, both touching an R atom
	require.Equal(Te, [][]int{{0, 1, 2}, {0, 1, 3}}, ha.Idxs())
	require.Equal(Te, []int{0, 0}, ha.LambdaMult())
	require.Equal(Te, []int{1, 1}, ha.LambdaOffset())
}

func TestSingleTopologyPeriodicTorsion(Te *testing.T) {
	// butane onto butanol-like chain, fully mapped backbone plus one
	// extra B atom so both torsion classes appear
	molA := chain(Te, "C", "C", "C", "C")
	molB := chain(Te, "C", "C", "C", "C", "O")
	core := [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	st, err := NewSingleTopology(molA, molB, core, defaultFF(), false)
	require.NoError(Te, err)
	f := defaultFF()
	params, tt, err := st.ParameterizePeriodicTorsion(f.PT.Params(), f.IT.Params())
	require.NoError(Te, err)
	// A: its only torsion is all-core; B: one all-core, one reaching O
	require.Len(Te, tt.Idxs(), 3)
	require.Equal(Te, []int{-1, 1, 0}, tt.LambdaMult())
	require.Equal(Te, []int{1, 0, 1}, tt.LambdaOffset())
	require.Len(Te, params, 3)
}

func TestSingleTopologyDeterministic(Te *testing.T) {
	// building twice from the same inputs, and parameterizing twice on
	// the same build, must give identical orderings throughout
	build := func() (*SingleTopology, [][][]float64, [][][]int, []potentials.NonbondedTerm) {
		st := simplePair(Te, false)
		f := defaultFF()
		var params [][][]float64
		var idxs [][][]int
		var nbs []potentials.NonbondedTerm
		for run := 0; run < 2; run++ {
			bp, hb, err := st.ParameterizeHarmonicBond(f.HB.Params())
			require.NoError(Te, err)
			ap, ha, err := st.ParameterizeHarmonicAngle(f.HA.Params())
			require.NoError(Te, err)
			tp, tt, err := st.ParameterizePeriodicTorsion(f.PT.Params(), f.IT.Params())
			require.NoError(Te, err)
			np, nb, err := st.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
			require.NoError(Te, err)
			params = append(params, bp, ap, tp, np)
			idxs = append(idxs, hb.Idxs(), ha.Idxs(), tt.Idxs())
			nbs = append(nbs, nb)
		}
		return st, params, idxs, nbs
	}

	st1, params1, idxs1, nbs1 := build()
	st2, params2, idxs2, nbs2 := build()

	require.Equal(Te, st1.AToC(), st2.AToC())
	require.Equal(Te, st1.BToC(), st2.BToC())
	require.Equal(Te, st1.CFlags(), st2.CFlags())

	// run 0 vs run 1 on the same build, then build vs build
	require.Equal(Te, params1[:4], params1[4:])
	require.Equal(Te, idxs1[:3], idxs1[3:])
	require.Equal(Te, params1, params2)
	require.Equal(Te, idxs1, idxs2)
	for i := range nbs1 {
		require.Equal(Te, nbs1[0].Base().ExclusionIdxs(), nbs1[i].Base().ExclusionIdxs())
		require.Equal(Te, nbs1[i].Base().ExclusionIdxs(), nbs2[i].Base().ExclusionIdxs())
		require.Equal(Te, nbs1[i].Base().ScaleFactors(), nbs2[i].Base().ScaleFactors())
		require.Equal(Te, nbs1[i].Base().LambdaPlaneIdxs(), nbs2[i].Base().LambdaPlaneIdxs())
		require.Equal(Te, nbs1[i].Base().LambdaOffsetIdxs(), nbs2[i].Base().LambdaOffsetIdxs())
	}
}
