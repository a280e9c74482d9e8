/*
 * doc.go, part of timemachine.
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

//Package fep provides the molecule model, shared interfaces and error
//machinery for building alchemical hybrid topologies for free-energy
//perturbation calculations. Topology construction lives in the topology
//subpackage, atom mapping in atommap, stereochemistry analysis in
//chiral, and the potential-term descriptors in potentials.
//
//Distances and coordinates are in nm throughout, including those
//handled by the v3 subpackage.
package fep
