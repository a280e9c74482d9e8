/*
 * single.go, part of timemachine.
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
	"github.com/emirpasic/gods/maps/treemap"
	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/ff"
	"github.com/ljmartin/timemachine/potentials"
	"github.com/ljmartin/timemachine/v3"
)

//Atom membership flags in the combined index space.
const (
	FlagCore = iota //mapped in both molecules
	FlagRA          //unique to mol A
	FlagRB          //unique to mol B
)

//SingleTopology fuses two molecules through a mapped common core. The
//combined index space starts with mol A mapped identically; mol B's
//core atoms collapse onto their A partners and its unique atoms (the
//R_B group) are appended after. Combined size is
//len(A) + len(B) - len(core).
type SingleTopology struct {
	molA *fep.Molecule
	molB *fep.Molecule
	ff   *ff.Forcefield
	core [][2]int

	//minimize shares R_A's lifting plane with R_B so both R-groups
	//interact with the environment at the lambda midpoint
	minimize bool

	aToC   []int
	bToC   []int
	cFlags []int
	nc     int
}

//NewSingleTopology builds the combined index space for molA and molB
//glued through core, a list of (a_idx, b_idx) pairs. It fails with an
//AtomMappingError when the core repeats an atom on either side, or when
//the mapping is non-factorizable: every connected R-group must branch
//from exactly one core atom, otherwise the R-group contributions to the
//partition function cannot be cancelled analytically.
func NewSingleTopology(molA, molB *fep.Molecule, core [][2]int, forcefield *ff.Forcefield, minimize bool) (*SingleTopology, error) {
	st := &SingleTopology{
		molA:     molA,
		molB:     molB,
		ff:       forcefield,
		core:     core,
		minimize: minimize,
		nc:       molA.Len() + molB.Len() - len(core),
	}
	st.aToC = irange(molA.Len(), 0)
	st.bToC = make([]int, molB.Len())
	for i := range st.bToC {
		st.bToC[i] = -1
	}
	st.cFlags = make([]int, st.nc)
	for i := range st.cFlags {
		st.cFlags[i] = FlagRA
	}

	seenA := make(map[int]bool, len(core))
	seenB := make(map[int]bool, len(core))
	for _, p := range core {
		a, b := p[0], p[1]
		if seenA[a] || seenB[b] {
			return nil, fep.NewAtomMappingError("core maps an atom more than once", a)
		}
		seenA[a] = true
		seenB[b] = true
		st.cFlags[a] = FlagCore
		st.bToC[b] = a
	}
	next := molA.Len()
	for b, c := range st.bToC {
		if c == -1 {
			st.bToC[b] = next
			st.cFlags[next] = FlagRB
			next++
		}
	}

	if offending := st.offendingCoreIndices(); len(offending) > 0 {
		return nil, fep.NewAtomMappingError("the resulting map is non-factorizable", offending...)
	}
	return st, nil
}

func (st *SingleTopology) NumAtoms() int { return st.nc }

//ComponentIdxs returns the combined indices of each molecule; core
//atoms appear in both lists.
func (st *SingleTopology) ComponentIdxs() [][]int {
	return [][]int{append([]int{}, st.aToC...), append([]int{}, st.bToC...)}
}

//AToC maps mol A indices into the combined space (the identity).
func (st *SingleTopology) AToC() []int { return append([]int{}, st.aToC...) }

//BToC maps mol B indices into the combined space.
func (st *SingleTopology) BToC() []int { return append([]int{}, st.bToC...) }

//CFlags returns the membership flag per combined atom.
func (st *SingleTopology) CFlags() []int { return append([]int{}, st.cFlags...) }

//offendingCoreIndices walks every non-core atom's connected R-group,
//with the walk confined to non-core atoms, and collects the atoms whose
//group touches a number of core atoms other than one.
func (st *SingleTopology) offendingCoreIndices() []int {
	adj := make([][]int, st.nc)
	addEdge := func(i, j int) {
		adj[i] = append(adj[i], j)
		adj[j] = append(adj[j], i)
	}
	for _, b := range st.molA.Bonds() {
		addEdge(st.aToC[b.At1.Index], st.aToC[b.At2.Index])
	}
	for _, b := range st.molB.Bonds() {
		addEdge(st.bToC[b.At1.Index], st.bToC[b.At2.Index])
	}

	var offending []int
	visited := make([]bool, st.nc)
	var stack []int
	for c := 0; c < st.nc; c++ {
		if st.cFlags[c] == FlagCore {
			continue
		}
		for i := range visited {
			visited[i] = false
		}
		coreSeen := 0
		stack = append(stack[:0], c)
		visited[c] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if st.cFlags[i] == FlagCore {
				coreSeen++
				continue
			}
			for _, nb := range adj[i] {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		if coreSeen != 1 {
			offending = append(offending, c)
		}
	}
	return offending
}

//InterpolateParams maps per-atom scalars of both molecules into the
//combined space, one set per end state. Core atoms take A's value at
//src and B's value at dst; R-group atoms keep their only value at both
//ends.
func (st *SingleTopology) InterpolateParams(paramsA, paramsB []float64) (src, dst []float64) {
	src = make([]float64, st.nc)
	dst = make([]float64, st.nc)
	for a, c := range st.aToC {
		src[c] = paramsA[a]
		dst[c] = paramsA[a]
	}
	for b, c := range st.bToC {
		dst[c] = paramsB[b]
		if st.cFlags[c] == FlagRB {
			src[c] = paramsB[b]
		}
	}
	return src, dst
}

//InterpolateCoords is InterpolateParams for conformer rows.
func (st *SingleTopology) InterpolateCoords(xA, xB *v3.Matrix) (src, dst *v3.Matrix) {
	src = v3.Zeros(st.nc)
	dst = v3.Zeros(st.nc)
	for a, c := range st.aToC {
		src.SetVec(c, xA.Vec(a))
		dst.SetVec(c, xA.Vec(a))
	}
	for b, c := range st.bToC {
		dst.SetVec(c, xB.Vec(b))
		if st.cFlags[c] == FlagRB {
			src.SetVec(c, xB.Vec(b))
		}
	}
	return src, dst
}

//interpolateNonbondedParams builds the src/dst (q, sig, eps) rows of
//the combined space. Core atoms carry their real parameters at both
//ends. R_A atoms are switched off at dst and R_B atoms at src, in both
//cases by zeroing charge and epsilon while keeping sigma, so that
//R-groups hanging off distinct attachment points stay mutually
//non-interacting and the partition function factorizes.
func (st *SingleTopology) interpolateNonbondedParams(paramsA, paramsB [][]float64) (src, dst [][]float64) {
	src = make([][]float64, st.nc)
	dst = make([][]float64, st.nc)
	for a, c := range st.aToC {
		p := paramsA[a]
		src[c] = append([]float64{}, p...)
		if st.cFlags[c] != FlagCore {
			dst[c] = []float64{0, p[1], 0}
		}
	}
	for b, c := range st.bToC {
		p := paramsB[b]
		dst[c] = append([]float64{}, p...)
		if st.cFlags[c] == FlagRB {
			src[c] = []float64{0, p[1], 0}
		}
	}
	return src, dst
}

func (st *SingleTopology) ParameterizeNonbonded(rawQ, rawLJ [][]float64) ([][]float64, potentials.NonbondedTerm, error) {
	paramsA, err := qljParams(st.ff, rawQ, rawLJ, st.molA)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	paramsB, err := qljParams(st.ff, rawQ, rawLJ, st.molB)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}
	src, dst := st.interpolateNonbondedParams(paramsA, paramsB)
	params := append(src, dst...)

	exclusions, scales, err := st.mergeExclusions()
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizeNonbonded")
	}

	//exclusions between R_A and R_B are unnecessary: under this
	//decoupling scheme the two groups are always at least a cutoff
	//apart in 4D

	//w = cutoff * (plane + offset * lambda)
	plane := make([]int, st.nc)
	offset := make([]int, st.nc)
	for c, flag := range st.cFlags {
		switch flag {
		case FlagCore:
		case FlagRA:
			offset[c] = 1
		case FlagRB:
			offset[c] = 1
			plane[c] = -1
			if st.minimize {
				plane[c] = 0
			}
		}
	}

	nb := potentials.NewNonbonded(exclusions, scales, plane, offset, fep.Beta, fep.Cutoff)
	return params, nb.Interpolate(), nil
}

//mergeExclusions maps both molecules' exclusion lists into the
//combined space. A pair both molecules produce must carry identical
//scale factors from each side; disagreement means the mapping fuses
//atoms whose bonded environments conflict. The merged list comes out
//ordered by pair, via a treemap keyed on the combined indices.
func (st *SingleTopology) mergeExclusions() ([][2]int, [][2]float64, error) {
	merged := treemap.NewWith(func(a, b interface{}) int {
		pa, pb := a.([2]int), b.([2]int)
		if pa[0] != pb[0] {
			return pa[0] - pb[0]
		}
		return pa[1] - pb[1]
	})

	put := func(toC []int, excl [][2]int, scales []float64) error {
		for n, ij := range excl {
			i, j := toC[ij[0]], toC[ij[1]]
			if j < i {
				i, j = j, i
			}
			key := [2]int{i, j}
			scale := [2]float64{scales[n], scales[n]}
			if prev, found := merged.Get(key); found {
				if prev.([2]float64) != scale {
					return fep.NewAtomMappingError("exclusion scale factors disagree between end states", i, j)
				}
				continue
			}
			merged.Put(key, scale)
		}
		return nil
	}

	exclA, scaleA := GenerateExclusionIdxs(st.molA, fep.Scale12, fep.Scale13, fep.Scale14)
	exclB, scaleB := GenerateExclusionIdxs(st.molB, fep.Scale12, fep.Scale13, fep.Scale14)
	if err := put(st.aToC, exclA, scaleA); err != nil {
		return nil, nil, err
	}
	if err := put(st.bToC, exclB, scaleB); err != nil {
		return nil, nil, err
	}

	idxs := make([][2]int, 0, merged.Size())
	scales := make([][2]float64, 0, merged.Size())
	it := merged.Iterator()
	for it.Next() {
		idxs = append(idxs, it.Key().([2]int))
		scales = append(scales, it.Value().([2]float64))
	}
	return idxs, scales, nil
}

//parameterizeBondedTerm classifies each molecule's terms. A term whose
//atoms are all core is energy-interpolated: the A-parameterized copy
//ramps off (mult -1, offset 1) while the B-parameterized copy ramps on
//(mult 1, offset 0). A term touching any R-group atom is always on.
//The resulting end states therefore keep dummy-atom bonded terms,
//whose contribution cancels out through the usual analytical
//correction.
func (st *SingleTopology) parameterizeBondedTerm(raw [][]float64, handle ff.BondedHandle, caller string) ([][]float64, [][]int, []int, []int, error) {
	paramsA, idxsA, err := handle.PartialParameterize(raw, st.molA)
	if err != nil {
		return nil, nil, nil, nil, errDecorate(err, caller)
	}
	paramsB, idxsB, err := handle.PartialParameterize(raw, st.molB)
	if err != nil {
		return nil, nil, nil, nil, errDecorate(err, caller)
	}

	var coreParamsA, coreParamsB, uniqueParams [][]float64
	var coreIdxsA, coreIdxsB, uniqueIdxs [][]int

	classify := func(toC []int, params [][]float64, idxs [][]int, coreParams *[][]float64, coreIdxs *[][]int) {
		for n, row := range idxs {
			mapped := make([]int, len(row))
			allCore := true
			for i, a := range row {
				mapped[i] = toC[a]
				if st.cFlags[mapped[i]] != FlagCore {
					allCore = false
				}
			}
			if allCore {
				*coreParams = append(*coreParams, params[n])
				*coreIdxs = append(*coreIdxs, mapped)
			} else {
				uniqueParams = append(uniqueParams, params[n])
				uniqueIdxs = append(uniqueIdxs, mapped)
			}
		}
	}
	classify(st.aToC, paramsA, idxsA, &coreParamsA, &coreIdxsA)
	classify(st.bToC, paramsB, idxsB, &coreParamsB, &coreIdxsB)

	params := append(append(append([][]float64{}, coreParamsA...), coreParamsB...), uniqueParams...)
	idxs := append(append(append([][]int{}, coreIdxsA...), coreIdxsB...), uniqueIdxs...)

	mult := make([]int, 0, len(idxs))
	offset := make([]int, 0, len(idxs))
	for range coreIdxsA {
		mult = append(mult, -1)
		offset = append(offset, 1)
	}
	for range coreIdxsB {
		mult = append(mult, 1)
		offset = append(offset, 0)
	}
	for range uniqueIdxs {
		mult = append(mult, 0)
		offset = append(offset, 1)
	}
	return params, idxs, mult, offset, nil
}

func (st *SingleTopology) ParameterizeHarmonicBond(raw [][]float64) ([][]float64, *potentials.HarmonicBond, error) {
	params, idxs, mult, offset, err := st.parameterizeBondedTerm(raw, st.ff.HB, "ParameterizeHarmonicBond")
	if err != nil {
		return nil, nil, err
	}
	return params, potentials.NewHarmonicBondAlchemical(idxs, mult, offset), nil
}

func (st *SingleTopology) ParameterizeHarmonicAngle(raw [][]float64) ([][]float64, *potentials.HarmonicAngle, error) {
	params, idxs, mult, offset, err := st.parameterizeBondedTerm(raw, st.ff.HA, "ParameterizeHarmonicAngle")
	if err != nil {
		return nil, nil, err
	}
	return params, potentials.NewHarmonicAngleAlchemical(idxs, mult, offset), nil
}

func (st *SingleTopology) ParameterizeProperTorsion(raw [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
	params, idxs, mult, offset, err := st.parameterizeBondedTerm(raw, st.ff.PT, "ParameterizeProperTorsion")
	if err != nil {
		return nil, nil, err
	}
	return params, potentials.NewPeriodicTorsionAlchemical(idxs, mult, offset), nil
}

func (st *SingleTopology) ParameterizeImproperTorsion(raw [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
	params, idxs, mult, offset, err := st.parameterizeBondedTerm(raw, st.ff.IT, "ParameterizeImproperTorsion")
	if err != nil {
		return nil, nil, err
	}
	return params, potentials.NewPeriodicTorsionAlchemical(idxs, mult, offset), nil
}

func (st *SingleTopology) ParameterizePeriodicTorsion(proper, improper [][]float64) ([][]float64, *potentials.PeriodicTorsion, error) {
	pp, pt, err := st.ParameterizeProperTorsion(proper)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizePeriodicTorsion")
	}
	ip, it, err := st.ParameterizeImproperTorsion(improper)
	if err != nil {
		return nil, nil, errDecorate(err, "ParameterizePeriodicTorsion")
	}
	params := append(append([][]float64{}, pp...), ip...)
	idxs := append(append([][]int{}, pt.Idxs()...), it.Idxs()...)
	mult := append(append([]int{}, pt.LambdaMult()...), it.LambdaMult()...)
	offset := append(append([]int{}, pt.LambdaOffset()...), it.LambdaOffset()...)
	return params, potentials.NewPeriodicTorsionAlchemical(idxs, mult, offset), nil
}
