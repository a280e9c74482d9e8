/*
 * atomicdata.go, part of timemachine.
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

//A map for assigning mass to elements.
//Note that just the common elements of small organic
//molecules and their hosts are present.
var symbolMass = map[string]float64{
	"H":  1.008,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"F":  18.998,
	"Cl": 35.45,
	"Br": 79.904,
	"I":  126.90,
	"B":  10.81,
	"Si": 28.08,
	"Se": 78.96,
	"Na": 22.99,
	"K":  39.1,
	"Mg": 24.30,
	"Ca": 40.08,
	"Zn": 65.38,
}

//A map for assigning covalent radii to elements, in nm.
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
var symbolCovrad = map[string]float64{
	"H":  0.040, // 0.031: H always has only one bond, so a longer radius is harmless, the extra bonds get eliminated later.
	"C":  0.076, //the sp3 radius
	"O":  0.066,
	"N":  0.071,
	"P":  0.107,
	"S":  0.105,
	"F":  0.057,
	"Cl": 0.102,
	"Br": 0.120,
	"I":  0.139,
	"B":  0.084,
	"Si": 0.111,
	"Se": 0.120,
}

//SymbolMass returns the atomic mass for an element symbol, or an error
//if the element is not tabulated.
func SymbolMass(symbol string) (float64, error) {
	m, ok := symbolMass[symbol]
	if !ok {
		return 0, NewCError("No mass tabulated for element "+symbol, "SymbolMass")
	}
	return m, nil
}
