/*
 * errors.go, part of timemachine.
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

package fep

import (
	"fmt"
	"sort"
)

// Error is the interface for errors that all packages in this library
// implement. The Decorate method allows to add and retrieve info from
// the error, without changing its type or wrapping it around something
// else. The decoration slice should contain a list of the functions in
// the calling stack, plus, for each function, any relevant information
// or nothing. If passed an empty string, Decorate should just return
// the current value, not add the empty string to the slice.
type Error interface {
	Error() string
	Decorate(string) []string
}

// CError is the general error type for the fep packages.
type CError struct {
	msg  string
	deco []string
}

// NewCError returns a CError with the given message, decorated with the
// name of the calling function.
func NewCError(msg string, caller string) *CError {
	return &CError{msg: msg, deco: []string{caller}}
}

func (err *CError) Error() string { return err.msg }

func (err *CError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// AtomMappingError reports a core mapping that fails factorizability or
// contains duplicate indices on either side. It is always fatal to the
// mapping attempt; the caller must supply a different or repaired
// mapping. No automatic repair is performed.
type AtomMappingError struct {
	msg  string
	deco []string
	// Offending holds the combined-space indices involved in
	// violations of the factorizability assumption, if any.
	Offending []int
}

// NewAtomMappingError builds an AtomMappingError. The offending indices,
// if any, are sorted and kept for diagnostics.
func NewAtomMappingError(msg string, offending ...int) *AtomMappingError {
	off := append([]int{}, offending...)
	sort.Ints(off)
	return &AtomMappingError{msg: msg, Offending: off}
}

func (err *AtomMappingError) Error() string {
	if len(err.Offending) == 0 {
		return err.msg
	}
	return fmt.Sprintf("%s (offending combined indices: %v)", err.msg, err.Offending)
}

func (err *AtomMappingError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// UnsupportedPotential reports a potential the host-guest merger does
// not recognize, a duplicate of one it already consumed, or a required
// guest-side term that is unexpectedly absent.
type UnsupportedPotential struct {
	msg  string
	deco []string
	// Name is the TermName of the potential that triggered the error.
	Name string
}

func NewUnsupportedPotential(msg, name string) *UnsupportedPotential {
	return &UnsupportedPotential{msg: msg, Name: name}
}

func (err *UnsupportedPotential) Error() string {
	if err.Name == "" {
		return err.msg
	}
	return fmt.Sprintf("%s: %s", err.msg, err.Name)
}

func (err *UnsupportedPotential) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}
