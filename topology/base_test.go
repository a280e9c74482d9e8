/*
 * base_test.go, part of timemachine.
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
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	fep "github.com/ljmartin/timemachine"
)

func TestBaseTopologyNonbonded(Te *testing.T) {
	mol := chain(Te, "C", "C", "C", "C", "C")
	bt := NewBaseTopology(mol, defaultFF())
	require.Equal(Te, 5, bt.NumAtoms())
	require.Equal(Te, [][]int{{0, 1, 2, 3, 4}}, bt.ComponentIdxs())

	f := defaultFF()
	params, term, err := bt.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	require.NoError(Te, err)
	require.False(Te, term.Interpolated())
	require.Len(Te, params, 5)
	// (q, sigma, epsilon) per carbon
	require.Equal(Te, []float64{-0.06, 0.170, 0.458}, params[0])
	base := term.Base()
	require.Equal(Te, []int{0, 0, 0, 0, 0}, base.LambdaPlaneIdxs())
	require.Equal(Te, []int{1, 1, 1, 1, 1}, base.LambdaOffsetIdxs())
}

func TestBaseTopologyPairlist(Te *testing.T) {
	mol := chain(Te, "C", "C", "C", "C", "C")
	bt := NewBaseTopology(mol, defaultFF())
	f := defaultFF()
	params, pl, err := bt.ParameterizeNonbondedPairlist(f.Q.Params(), f.LJ.Params())
	require.NoError(Te, err)
	// fully excluded pairs drop out; the 1-4 pairs stay at half
	// strength and (0,4) at full strength
	require.Equal(Te, [][2]int{{0, 3}, {0, 4}, {1, 4}}, pl.Idxs())
	require.Len(Te, params, 3)
	qq := -0.06 * -0.06
	require.InDelta(Te, qq*0.5, params[0][0], 1e-12)
	require.InDelta(Te, qq, params[1][0], 1e-12)
	require.InDelta(Te, 0.170, params[1][1], 1e-12)
	require.InDelta(Te, 0.458, params[1][2], 1e-12)
	require.InDelta(Te, 0.458*0.5, params[0][2], 1e-12)
	require.Equal(Te, fep.Beta, pl.Beta())
	require.Equal(Te, fep.Cutoff, pl.Cutoff())
}

func TestSetupEndState(Te *testing.T) {
	mol := chain(Te, "C", "C", "C", "C", "C")
	bt := NewBaseTopology(mol, defaultFF())
	sys, err := bt.SetupEndState()
	require.NoError(Te, err)
	require.Len(Te, sys.Bond.Params, 4)
	require.Len(Te, sys.Angle.Params, 3)
	require.Len(Te, sys.Torsion.Params, 2)
	require.Len(Te, sys.Nonbonded.Params, 3)
	require.Nil(Te, sys.ChiralAtom)

	chiralSys, err := bt.SetupChiralEndState()
	require.NoError(Te, err)
	require.NotNil(Te, chiralSys.ChiralAtom)
	require.NotNil(Te, chiralSys.ChiralBond)
	// a plain chain has nothing to restrain
	require.Empty(Te, chiralSys.ChiralAtom.Params)
}

func TestBaseTopologyConversion(Te *testing.T) {
	mol := chain(Te, "C", "C", "C")
	ct := NewBaseTopologyConversion(mol, defaultFF())
	f := defaultFF()
	params, term, err := ct.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	require.NoError(Te, err)
	require.True(Te, term.Interpolated())
	require.Len(Te, params, 6)
	src, dst := params[:3], params[3:]
	for i := range src {
		require.NotZero(Te, src[i][0])
		require.Zero(Te, dst[i][0])
		require.Equal(Te, src[i][1], dst[i][1])
		require.InDelta(Te, src[i][2]*0.5, dst[i][2], 1e-12)
	}
	// the ligand stays fully coupled
	require.Equal(Te, []int{0, 0, 0}, term.Base().LambdaOffsetIdxs())
}

func TestBaseTopologyDecoupling(Te *testing.T) {
	mol := chain(Te, "C", "C", "C")
	dt := NewBaseTopologyDecoupling(mol, defaultFF())
	f := defaultFF()
	params, term, err := dt.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	require.NoError(Te, err)
	require.False(Te, term.Interpolated())
	require.Len(Te, params, 3)
	for _, p := range params {
		require.Zero(Te, p[0])
		require.InDelta(Te, 0.458*0.5, p[2], 1e-12)
	}
	// lambda lifts the whole ligand out
	require.Equal(Te, []int{1, 1, 1}, term.Base().LambdaOffsetIdxs())
}

func TestRelativeFreeEnergyForcefield(Te *testing.T) {
	mol := chain(Te, "C", "C", "C")
	f0 := defaultFF()
	f1 := defaultFF()
	rt := NewRelativeFreeEnergyForcefield(mol, f0, f1)
	params, term, err := rt.ParameterizeNonbonded2(f0.Q.Params(), f0.LJ.Params(), f1.Q.Params(), f1.LJ.Params())
	require.NoError(Te, err)
	require.True(Te, term.Interpolated())
	require.Len(Te, params, 6)
	// identical tables interpolate to themselves
	require.Equal(Te, params[0], params[3])

	// identical bonded tables pass through as always-on terms
	bp, hb, err := rt.ParameterizeHarmonicBond2(f0.HB.Params(), f1.HB.Params())
	require.NoError(Te, err)
	require.Len(Te, bp, 2)
	require.Nil(Te, hb.LambdaMult())

	// perturbing a bonded table between end states is refused
	f1.HB.Params()[0][0] *= 2
	_, _, err = rt.ParameterizeHarmonicBond2(f0.HB.Params(), f1.HB.Params())
	require.Error(Te, err)
}

func TestDualTopology(Te *testing.T) {
	molA := chain(Te, "C", "C", "C")
	molB := chain(Te, "C", "O")
	dt := NewDualTopology(molA, molB, defaultFF())
	require.Equal(Te, 5, dt.NumAtoms())
	require.Equal(Te, [][]int{{0, 1, 2}, {3, 4}}, dt.ComponentIdxs())

	f := defaultFF()
	params, term, err := dt.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	require.NoError(Te, err)
	require.Len(Te, params, 5)
	base := term.Base()
	// 3 intra-A + 1 intra-B exclusions plus the 6 mutual ones
	require.Len(Te, base.ExclusionIdxs(), 10)
	mutual := 0
	for n, ij := range base.ExclusionIdxs() {
		if ij[0] < 3 && ij[1] >= 3 {
			mutual++
			require.Equal(Te, [2]float64{1, 1}, base.ScaleFactors()[n])
		}
	}
	require.Equal(Te, 6, mutual)

	// bonded terms concatenate with B shifted
	bp, hb, err := dt.ParameterizeHarmonicBond(f.HB.Params())
	require.NoError(Te, err)
	require.Equal(Te, [][]int{{0, 1}, {1, 2}, {3, 4}}, hb.Idxs())
	require.Len(Te, bp, 3)
}

func TestDualTopologyRHFE(Te *testing.T) {
	molA := chain(Te, "C", "C")
	molB := chain(Te, "C", "O")
	dt := NewDualTopologyRHFE(molA, molB, defaultFF())
	f := defaultFF()
	params, term, err := dt.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	require.NoError(Te, err)
	require.True(Te, term.Interpolated())
	require.Len(Te, params, 8)
	src, dst := params[:4], params[4:]
	for i := range src {
		require.InDelta(Te, dst[i][0]*0.5, src[i][0], 1e-12)
		require.InDelta(Te, dst[i][2]*0.5, src[i][2], 1e-12)
	}
	// A stays in the plane, B lifts in
	require.Equal(Te, []int{0, 0, 1, 1}, term.Base().LambdaOffsetIdxs())
}

func TestDualTopologyDecoupling(Te *testing.T) {
	molA := chain(Te, "C", "C")
	molB := chain(Te, "C", "O")
	dt := NewDualTopologyDecoupling(molA, molB, defaultFF())
	f := defaultFF()
	params, term, err := dt.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	require.NoError(Te, err)
	require.False(Te, term.Interpolated())
	require.Len(Te, params, 4)
	// B is decharged with halved epsilon in both end states
	require.Zero(Te, params[2][0])
	require.Zero(Te, params[3][0])
	require.NotZero(Te, params[0][0])
	require.Equal(Te, []int{0, 0, 1, 1}, term.Base().LambdaOffsetIdxs())
}

func TestDualTopologyChargeConversion(Te *testing.T) {
	molA := chain(Te, "C", "C")
	molB := chain(Te, "C", "O")
	dt := NewDualTopologyChargeConversion(molA, molB, defaultFF())
	f := defaultFF()
	params, term, err := dt.ParameterizeNonbonded(f.Q.Params(), f.LJ.Params())
	require.NoError(Te, err)
	require.True(Te, term.Interpolated())
	require.Len(Te, params, 8)
	src, dst := params[:4], params[4:]
	// at src B is off, at dst A is off
	require.NotZero(Te, src[0][0])
	require.Zero(Te, src[2][0])
	require.Zero(Te, dst[0][0])
	require.NotZero(Te, dst[2][0])
	// no 4D lifting during a charge swap
	require.Equal(Te, []int{0, 0, 0, 0}, term.Base().LambdaOffsetIdxs())

	if math.Abs(src[2][1]-dst[2][1]) > 1e-12 {
		Te.Error("Sigma should be preserved through the conversion")
	}
}
