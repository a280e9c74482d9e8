/*
 * graph.go, part of timemachine.
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
	"gonum.org/v1/gonum/graph/simple"
)

//BondGraph returns the undirected bond graph of the molecule, with one
//node per atom, identified by the atom index. Every atom gets a node
//even if it has no bonds.
func BondGraph(mol *Molecule) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := 0; i < mol.Len(); i++ {
		g.AddNode(simple.Node(i))
	}
	for _, b := range mol.Bonds() {
		g.SetEdge(simple.Edge{F: simple.Node(b.At1.Index), T: simple.Node(b.At2.Index)})
	}
	return g
}
