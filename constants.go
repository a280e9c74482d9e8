/*
 * constants.go, part of timemachine.
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

// Physical constants
const (
	Boltzmann = 1.380658e-23 // J/kelvin
	Avogadro  = 6.0221367e23 // mol^-1
	RGas      = Boltzmann * Avogadro
	Boltz     = RGas / 1000 // kJ/mol per kelvin
	One4PiEps0 = 138.935456
)

// Default thermodynamic ensemble
const (
	DefaultTemp     = 300.0 // kelvin
	DefaultPressure = 1.013 // bar
	DefaultKT       = Boltz * DefaultTemp
	KcalToKJ        = 4.184
)

// Nonbonded parameters for ligand topologies. Beta is the Ewald-style
// damping coefficient in 1/nm, Cutoff the interaction and 4D lifting
// distance in nm.
const (
	Beta   = 2.0
	Cutoff = 1.2
)

// Exclusion scale factors: fully excluded pairs carry 1.0, half-scaled
// 1-4 pairs 0.5.
const (
	Scale12 = 1.0
	Scale13 = 1.0
	Scale14 = 0.5
)

// ChiralRestraintK is the default force constant for the chiral atom
// and bond restraints, in kJ/mol.
const ChiralRestraintK = 1000.0
