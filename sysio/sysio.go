/*
 * sysio.go, part of timemachine.
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

// Package sysio stores assembled alchemical systems on disk. A system
// is flattened into a Snapshot of plain slices, gob-encoded and run
// through a zstd stream, so edges prepared on one machine can be
// rehydrated on another without re-running parameterization.
package sysio

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/fe"
	"github.com/ljmartin/timemachine/potentials"
	v3 "github.com/ljmartin/timemachine/v3"
)

// TermSnapshot is the serializable form of a single potential term and
// its parameters. Which fields are meaningful depends on Name.
type TermSnapshot struct {
	Name      string
	Idxs      [][]int
	Mult      []int
	Offset    []int
	Excl      [][2]int
	Scales    [][2]float64
	Plane     []int
	PlaneOff  []int
	Signs     []int
	PairIdxs  [][2]int
	PairOffs  []float64
	Beta      float64
	Cutoff    float64
	Params    [][]float64
}

// Snapshot is the serializable form of an assembled edge.
type Snapshot struct {
	Masses []float64
	Coords []float64 // flattened, 3 per atom
	Terms  []TermSnapshot
}

// FromEdge flattens an assembled edge into a Snapshot. It returns an
// error on terms it does not know how to flatten.
func FromEdge(edge *fe.Edge) (*Snapshot, error) {
	s := new(Snapshot)
	s.Masses = append([]float64{}, edge.Masses...)
	n := edge.Coords.NVecs()
	s.Coords = make([]float64, 0, 3*n)
	for i := 0; i < n; i++ {
		s.Coords = append(s.Coords, edge.Coords.Vec(i)...)
	}
	for i, t := range edge.Potentials {
		ts, err := snapshotTerm(t, edge.Params[i])
		if err != nil {
			return nil, errDecorate(err, "FromEdge")
		}
		s.Terms = append(s.Terms, ts)
	}
	return s, nil
}

func snapshotTerm(t potentials.Term, params [][]float64) (TermSnapshot, error) {
	ts := TermSnapshot{Name: t.TermName(), Params: params}
	switch p := t.(type) {
	case *potentials.HarmonicBond:
		ts.Idxs, ts.Mult, ts.Offset = p.Idxs(), p.LambdaMult(), p.LambdaOffset()
	case *potentials.HarmonicAngle:
		ts.Idxs, ts.Mult, ts.Offset = p.Idxs(), p.LambdaMult(), p.LambdaOffset()
	case *potentials.PeriodicTorsion:
		ts.Idxs, ts.Mult, ts.Offset = p.Idxs(), p.LambdaMult(), p.LambdaOffset()
	case potentials.NonbondedTerm:
		b := p.Base()
		ts.Excl = b.ExclusionIdxs()
		ts.Scales = b.ScaleFactors()
		ts.Plane = b.LambdaPlaneIdxs()
		ts.PlaneOff = b.LambdaOffsetIdxs()
		ts.Beta = b.Beta()
		ts.Cutoff = b.Cutoff()
	case *potentials.NonbondedPairListPrecomputed:
		ts.PairIdxs = p.Idxs()
		ts.PairOffs = p.Offsets()
		ts.Beta = p.Beta()
		ts.Cutoff = p.Cutoff()
	case *potentials.ChiralAtomRestraint:
		ts.Idxs = widen(p.Idxs())
	case *potentials.ChiralBondRestraint:
		ts.Idxs = widen(p.Idxs())
		ts.Signs = p.Signs()
	default:
		return ts, fep.NewCError("cannot serialize term "+t.TermName(), "snapshotTerm")
	}
	return ts, nil
}

// Restore rebuilds the edge this snapshot was taken from.
func (s *Snapshot) Restore() (*fe.Edge, error) {
	edge := new(fe.Edge)
	edge.Masses = append([]float64{}, s.Masses...)
	if len(s.Coords) == 0 {
		return nil, fep.NewCError("snapshot carries no coordinates", "Restore")
	}
	if len(s.Coords)%3 != 0 {
		return nil, fep.NewCError("coordinate slice length is not a multiple of 3", "Restore")
	}
	n := len(s.Coords) / 3
	edge.Coords = v3.Zeros(n)
	for i := 0; i < n; i++ {
		edge.Coords.SetVec(i, s.Coords[3*i:3*i+3])
	}
	for _, ts := range s.Terms {
		t, err := restoreTerm(ts)
		if err != nil {
			return nil, errDecorate(err, "Restore")
		}
		edge.Potentials = append(edge.Potentials, t)
		params := ts.Params
		if params == nil {
			// gob decodes empty parameter groups as nil
			params = [][]float64{}
		}
		edge.Params = append(edge.Params, params)
	}
	return edge, nil
}

func restoreTerm(ts TermSnapshot) (potentials.Term, error) {
	switch ts.Name {
	case "HarmonicBond":
		return potentials.NewHarmonicBondAlchemical(ts.Idxs, ts.Mult, ts.Offset), nil
	case "HarmonicAngle":
		return potentials.NewHarmonicAngleAlchemical(ts.Idxs, ts.Mult, ts.Offset), nil
	case "PeriodicTorsion":
		return potentials.NewPeriodicTorsionAlchemical(ts.Idxs, ts.Mult, ts.Offset), nil
	case "Nonbonded":
		return potentials.NewNonbonded(ts.Excl, ts.Scales, ts.Plane, ts.PlaneOff, ts.Beta, ts.Cutoff), nil
	case "NonbondedInterpolated":
		return potentials.NewNonbonded(ts.Excl, ts.Scales, ts.Plane, ts.PlaneOff, ts.Beta, ts.Cutoff).Interpolate(), nil
	case "NonbondedPairListPrecomputed":
		return potentials.NewNonbondedPairListPrecomputed(ts.PairIdxs, ts.PairOffs, ts.Beta, ts.Cutoff), nil
	case "ChiralAtomRestraint":
		q, err := narrow(ts.Idxs)
		if err != nil {
			return nil, errDecorate(err, "restoreTerm")
		}
		return potentials.NewChiralAtomRestraint(q), nil
	case "ChiralBondRestraint":
		q, err := narrow(ts.Idxs)
		if err != nil {
			return nil, errDecorate(err, "restoreTerm")
		}
		return potentials.NewChiralBondRestraint(q, ts.Signs), nil
	}
	return nil, fep.NewCError("unknown term name "+ts.Name, "restoreTerm")
}

func widen(idxs [][4]int) [][]int {
	w := make([][]int, len(idxs))
	for i, q := range idxs {
		w[i] = []int{q[0], q[1], q[2], q[3]}
	}
	return w
}

func narrow(idxs [][]int) ([][4]int, error) {
	q := make([][4]int, len(idxs))
	for i, w := range idxs {
		if len(w) != 4 {
			return nil, fep.NewCError(fmt.Sprintf("restraint tuple has %d indices, want 4", len(w)), "narrow")
		}
		copy(q[i][:], w)
	}
	return q, nil
}

// Write gob-encodes the edge through a zstd stream into w.
func Write(w io.Writer, edge *fe.Edge) error {
	s, err := FromEdge(edge)
	if err != nil {
		return errDecorate(err, "Write")
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fep.NewCError("cannot open compressed stream: "+err.Error(), "Write")
	}
	if err := gob.NewEncoder(zw).Encode(s); err != nil {
		zw.Close()
		return fep.NewCError("cannot encode snapshot: "+err.Error(), "Write")
	}
	return zw.Close()
}

// Read decodes a snapshot previously produced by Write and rebuilds
// the edge.
func Read(r io.Reader) (*fe.Edge, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fep.NewCError("cannot open compressed stream: "+err.Error(), "Read")
	}
	defer zr.Close()
	s := new(Snapshot)
	if err := gob.NewDecoder(zr).Decode(s); err != nil {
		return nil, fep.NewCError("cannot decode snapshot: "+err.Error(), "Read")
	}
	edge, err := s.Restore()
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	return edge, nil
}

// WriteFile writes the edge to the named file.
func WriteFile(name string, edge *fe.Edge) error {
	f, err := os.Create(name)
	if err != nil {
		return fep.NewCError(err.Error(), "WriteFile")
	}
	defer f.Close()
	if err := Write(f, edge); err != nil {
		return errDecorate(err, "WriteFile")
	}
	return nil
}

// ReadFile reads an edge back from the named file.
func ReadFile(name string) (*fe.Edge, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fep.NewCError(err.Error(), "ReadFile")
	}
	defer f.Close()
	edge, err := Read(f)
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	return edge, nil
}

func errDecorate(err error, caller string) error {
	err2, ok := err.(fep.Error)
	if !ok {
		return fep.NewCError(err.Error(), caller)
	}
	err2.Decorate(caller)
	return err
}
