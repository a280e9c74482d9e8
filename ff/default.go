/*
 * default.go, part of timemachine.
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

package ff

//DefaultForcefield returns a small element-typed forcefield adequate for
//organic molecules with H, C, N, O, F, S, P and the halogens. Energies
//are kJ/mol, distances nm, angles and phases radians. The numbers are
//GAFF-flavored round figures, not a validated parameter set.
func DefaultForcefield() *Forcefield {
	q := NewTableAtomHandle("q", []string{"H", "C", "N", "O", "F", "S", "P", "Cl", "Br", "*"},
		[][]float64{
			{0.06},
			{-0.06},
			{-0.40},
			{-0.45},
			{-0.20},
			{-0.10},
			{0.30},
			{-0.10},
			{-0.08},
			{0.0},
		})
	lj := NewTableAtomHandle("lj", []string{"H", "C", "N", "O", "F", "S", "P", "Cl", "Br", "*"},
		[][]float64{
			{0.107, 0.066},
			{0.170, 0.458},
			{0.163, 0.712},
			{0.150, 0.880},
			{0.156, 0.255},
			{0.200, 1.046},
			{0.210, 0.837},
			{0.195, 1.110},
			{0.205, 1.260},
			{0.160, 0.400},
		})
	hb := NewTableBondedHandle("hb", FamilyBond,
		[]string{"C-C", "C-H", "C-N", "C-O", "H-N", "H-O", "C-F", "C-Cl", "C-Br", "C-S", "H-S", "*"},
		[][]float64{
			{259407.0, 0.1526},
			{284512.0, 0.1090},
			{282001.0, 0.1470},
			{267776.0, 0.1410},
			{363171.0, 0.1010},
			{462750.0, 0.0960},
			{298653.0, 0.1380},
			{227191.0, 0.1766},
			{201250.0, 0.1944},
			{189953.0, 0.1810},
			{237233.0, 0.1336},
			{250000.0, 0.1500},
		})
	ha := NewTableBondedHandle("ha", FamilyAngle,
		[]string{"C-C-C", "C-C-H", "H-C-H", "C-C-N", "C-C-O", "C-N-H", "C-O-H", "H-C-N", "H-C-O", "*"},
		[][]float64{
			{527.18, 1.9461},
			{388.02, 1.9216},
			{329.95, 1.8884},
			{551.30, 1.9355},
			{563.80, 1.9208},
			{390.30, 2.0389},
			{394.10, 1.8798},
			{414.40, 1.9175},
			{427.60, 1.9241},
			{450.00, 1.9111},
		})
	pt := NewTableBondedHandle("pt", FamilyProperTorsion,
		[]string{"H-C-C-H", "C-C-C-H", "C-C-C-C", "H-C-N-H", "H-C-O-H", "*"},
		[][]float64{
			{0.6276, 0.0, 3.0},
			{0.6694, 0.0, 3.0},
			{0.7531, 0.0, 3.0},
			{1.3900, 0.0, 3.0},
			{0.6973, 0.0, 3.0},
			{0.6500, 0.0, 3.0},
		})
	it := NewTableBondedHandle("it", FamilyImproperTorsion,
		[]string{"*"},
		[][]float64{
			{4.6024, 3.141592653589793, 2.0},
		})
	return &Forcefield{Q: q, LJ: lj, HB: hb, HA: ha, PT: pt, IT: it}
}
