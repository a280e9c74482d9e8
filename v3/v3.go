/*
 * v3.go, part of timemachine.
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

//Package v3 implements a container for sets of 3D vectors, backed by a
//gonum mat.Dense with 3 columns. Within the package it is understood that
//a "vector" is a row vector, i.e. the cartesian coordinates, in nm, of a
//point in 3D space.
package v3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of vectors in 3D space, one per row.
type Matrix struct {
	*mat.Dense
}

//NewMatrix returns a Matrix with 3 columns built from data, which is
//read row-major. It returns an error if the length of data is not
//divisible by 3.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}}
	}
	r := mat.NewDense(l/cols, cols, data)
	return &Matrix{r}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

//Dense2Matrix wraps a gonum Dense with 3 columns. It panics if the
//number of columns is not 3.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrShape)
	}
	return &Matrix{A}
}

//Matrix2Dense returns the underlying Dense of A.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

//NVecs returns the number of vectors in the matrix.
func (F *Matrix) NVecs() int {
	r, _ := F.Dims()
	return r
}

//VecView returns a view of the ith vector of the matrix. Changes in the
//view are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//Vec returns a copy of the ith vector as a 3-element slice.
func (F *Matrix) Vec(i int) []float64 {
	return []float64{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

//SetVec sets the ith vector of the receiver to v. It panics if v does
//not have 3 elements.
func (F *Matrix) SetVec(i int, v []float64) {
	if len(v) != 3 {
		panic(ErrShape)
	}
	F.SetRow(i, v)
}

//Copy returns a new Matrix with a copy of the data in F.
func (F *Matrix) Copy() *Matrix {
	r := F.NVecs()
	ret := Zeros(r)
	ret.Dense.Copy(F.Dense)
	return ret
}

//Sub puts the difference A-B in the receiver. The three matrices must
//have the same number of vectors.
func (F *Matrix) Sub(A, B *Matrix) {
	F.Dense.Sub(A.Dense, B.Dense)
}

//Add puts the sum A+B in the receiver.
func (F *Matrix) Add(A, B *Matrix) {
	F.Dense.Add(A.Dense, B.Dense)
}

//Scale puts A scaled by v in the receiver.
func (F *Matrix) Scale(v float64, A *Matrix) {
	F.Dense.Scale(v, A.Dense)
}

//Stack puts A stacked over B in the receiver, which must be already
//allocated with enough vectors.
func (F *Matrix) Stack(A, B *Matrix) {
	ar := A.NVecs()
	br := B.NVecs()
	if F.NVecs() < ar+br {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		F.SetRow(i, A.RawRowView(i))
	}
	for i := 0; i < br; i++ {
		F.SetRow(i+ar, B.RawRowView(i))
	}
}

//Norm returns the Frobenius norm of the matrix. For a single vector
//this is the Euclidean norm.
func (F *Matrix) Norm() float64 {
	return mat.Norm(F.Dense, 2)
}

//Dist returns the Euclidean distance between the ith vector of F and
//the jth vector of G.
func Dist(F *Matrix, i int, G *Matrix, j int) float64 {
	var d float64
	for k := 0; k < 3; k++ {
		t := F.At(i, k) - G.At(j, k)
		d += t * t
	}
	return math.Sqrt(d)
}

//Cross puts the cross product of the first vectors of A and B in the
//first vector of the receiver.
func (F *Matrix) Cross(A, B *Matrix) {
	ax, ay, az := A.At(0, 0), A.At(0, 1), A.At(0, 2)
	bx, by, bz := B.At(0, 0), B.At(0, 1), B.At(0, 2)
	F.Set(0, 0, ay*bz-az*by)
	F.Set(0, 1, az*bx-ax*bz)
	F.Set(0, 2, ax*by-ay*bx)
}

//Dot returns the dot product of the first vectors of F and A.
func (F *Matrix) Dot(A *Matrix) float64 {
	var d float64
	for k := 0; k < 3; k++ {
		d += F.At(0, k) * A.At(0, k)
	}
	return d
}

//Unit puts the first vector of A, scaled to unit length, in the first
//vector of the receiver. It panics on a zero vector.
func (F *Matrix) Unit(A *Matrix) {
	n := A.Norm()
	if n == 0 {
		panic("v3: attempted to normalize a zero vector")
	}
	F.Scale(1/n, A)
}

//Errors

//Error implements the timemachine Error interface for the v3 package.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return err.message }

//Decorate adds the given string to the error's decoration slice and
//returns the resulting slice. An empty string only retrieves.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//PanicMsg is the type used for the errors that cause this package to panic.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrShape = PanicMsg("v3: Dimension mismatch")
)
