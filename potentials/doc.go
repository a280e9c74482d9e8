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

//Package potentials defines the unbound potential-energy term
//descriptors produced by the topology machinery: per-term atom index
//arrays plus the lambda interpolation metadata that a numeric backend
//consumes. The descriptors carry no evaluation code, with the exception
//of the chiral restraints, whose signed-volume math is needed when the
//restraints are set up from a reference conformer.
//
//For bonded terms the activation weight follows w(lambda) = offset +
//mult*lambda; for nonbonded atoms the 4D lifting coordinate follows
//w(lambda) = cutoff * (plane + offset*lambda).
package potentials
