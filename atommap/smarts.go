/*
 * smarts.go, part of timemachine.
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

//Package atommap derives the core atom correspondence between two
//aligned ligands: a SMARTS-like pattern picks out the shared scaffold
//in each molecule, every placement of the pattern is enumerated, and
//the placement pair with the smallest assigned coordinate deviation
//wins.
package atommap

import (
	"fmt"
	"strings"

	fep "github.com/ljmartin/timemachine"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

//PatternAtom is one atom constraint of a parsed pattern. An empty
//Symbol matches any element. Arom restricts aromaticity when nonzero:
//1 requires an aromatic atom, -1 an aliphatic one.
type PatternAtom struct {
	Symbol string
	Arom   int
}

//Bond kinds a pattern can demand between two of its atoms.
const (
	BondDefault  = iota //single or aromatic, the SMARTS implicit bond
	BondSingle          //-
	BondDouble          //=
	BondTriple          //#
	BondAromatic        //:
	BondAny             //~
)

//PatternBond connects pattern atoms A1 and A2 with a bond constraint.
type PatternBond struct {
	A1, A2 int
	Kind   int
}

//Pattern is a parsed connected substructure query.
type Pattern struct {
	Atoms []PatternAtom
	Bonds []PatternBond
}

var numSymbol = map[int]string{
	1: "H", 5: "B", 6: "C", 7: "N", 8: "O", 9: "F",
	14: "Si", 15: "P", 16: "S", 17: "Cl", 35: "Br", 53: "I",
}

//ParseSmarts parses the subset of SMARTS the mapper supports: organic
//subset symbols (aromatic forms in lowercase), bracket atoms with an
//element symbol or #n atomic number, the bond symbols - = # : ~,
//branches, ring-closure digits and %nn pairs, and the * wildcard.
//Disconnected patterns are rejected: the dot operator is refused
//outright, and a pattern whose bond graph splits into several
//components is refused after parsing, since a disconnected core needs
//more validation than the mapper performs.
func ParseSmarts(smarts string) (*Pattern, error) {
	if strings.Contains(smarts, ".") {
		return nil, fep.NewCError("disconnected pattern (contains '.')", "ParseSmarts")
	}
	p := &Pattern{}
	prev := -1 //pattern index of the previous atom in the chain
	pendingBond := BondDefault
	var stack []int
	rings := make(map[string]ringOpen)
	addAtom := func(at PatternAtom) {
		p.Atoms = append(p.Atoms, at)
		cur := len(p.Atoms) - 1
		if prev >= 0 {
			p.Bonds = append(p.Bonds, PatternBond{A1: prev, A2: cur, Kind: pendingBond})
		}
		prev = cur
		pendingBond = BondDefault
	}
	closeRing := func(label string) {
		if open, ok := rings[label]; ok {
			kind := pendingBond
			if kind == BondDefault {
				kind = open.kind
			}
			p.Bonds = append(p.Bonds, PatternBond{A1: open.atom, A2: prev, Kind: kind})
			delete(rings, label)
		} else {
			rings[label] = ringOpen{atom: prev, kind: pendingBond}
		}
		pendingBond = BondDefault
	}
	i := 0
	for i < len(smarts) {
		c := smarts[i]
		switch {
		case c == '(':
			if prev < 0 {
				return nil, fep.NewCError("branch before any atom", "ParseSmarts")
			}
			stack = append(stack, prev)
			i++
		case c == ')':
			if len(stack) == 0 {
				return nil, fep.NewCError("unbalanced ')'", "ParseSmarts")
			}
			prev = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i++
		case c == '-':
			pendingBond = BondSingle
			i++
		case c == '=':
			pendingBond = BondDouble
			i++
		case c == '#':
			pendingBond = BondTriple
			i++
		case c == ':':
			pendingBond = BondAromatic
			i++
		case c == '~':
			pendingBond = BondAny
			i++
		case c == '/' || c == '\\':
			//directional bonds degrade to single; the mapper does not
			//match on E/Z
			pendingBond = BondSingle
			i++
		case c >= '0' && c <= '9':
			if prev < 0 {
				return nil, fep.NewCError("ring closure before any atom", "ParseSmarts")
			}
			closeRing(string(c))
			i++
		case c == '%':
			if i+2 >= len(smarts) {
				return nil, fep.NewCError("truncated %nn ring closure", "ParseSmarts")
			}
			closeRing(smarts[i+1 : i+3])
			i += 3
		case c == '*':
			addAtom(PatternAtom{})
			i++
		case c == '[':
			end := strings.IndexByte(smarts[i:], ']')
			if end < 0 {
				return nil, fep.NewCError("unclosed bracket atom", "ParseSmarts")
			}
			at, err := parseBracket(smarts[i+1 : i+end])
			if err != nil {
				return nil, err
			}
			addAtom(at)
			i += end + 1
		default:
			at, n, err := parseOrganic(smarts[i:])
			if err != nil {
				return nil, err
			}
			addAtom(at)
			i += n
		}
	}
	if len(stack) != 0 {
		return nil, fep.NewCError("unbalanced '('", "ParseSmarts")
	}
	if len(rings) != 0 {
		return nil, fep.NewCError("unclosed ring bond", "ParseSmarts")
	}
	if len(p.Atoms) == 0 {
		return nil, fep.NewCError("empty pattern", "ParseSmarts")
	}
	if !p.connected() {
		return nil, fep.NewCError("disconnected pattern", "ParseSmarts")
	}
	return p, nil
}

type ringOpen struct {
	atom int
	kind int
}

func parseBracket(body string) (PatternAtom, error) {
	if body == "" {
		return PatternAtom{}, fep.NewCError("empty bracket atom", "ParseSmarts")
	}
	if body[0] == '#' {
		n := 0
		for _, r := range body[1:] {
			if r < '0' || r > '9' {
				break
			}
			n = n*10 + int(r-'0')
		}
		sym, ok := numSymbol[n]
		if !ok {
			return PatternAtom{}, fep.NewCError(fmt.Sprintf("unsupported atomic number %d", n), "ParseSmarts")
		}
		return PatternAtom{Symbol: sym}, nil
	}
	if body == "*" {
		return PatternAtom{}, nil
	}
	at, n, err := parseOrganic(body)
	if err != nil {
		return PatternAtom{}, err
	}
	if n != len(body) {
		return PatternAtom{}, fep.NewCError(fmt.Sprintf("unsupported bracket atom [%s]", body), "ParseSmarts")
	}
	return at, nil
}

//parseOrganic reads one organic-subset symbol from the head of s,
//returning the atom constraint and the number of bytes consumed.
//Two-letter symbols are tried first so Cl beats C.
func parseOrganic(s string) (PatternAtom, int, error) {
	for _, sym := range []string{"Cl", "Br", "Si"} {
		if strings.HasPrefix(s, sym) {
			return PatternAtom{Symbol: sym, Arom: -1}, 2, nil
		}
	}
	switch s[0] {
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I', 'H':
		return PatternAtom{Symbol: string(s[0]), Arom: -1}, 1, nil
	case 'b', 'c', 'n', 'o', 'p', 's':
		return PatternAtom{Symbol: strings.ToUpper(string(s[0])), Arom: 1}, 1, nil
	}
	return PatternAtom{}, 0, fep.NewCError(fmt.Sprintf("unsupported pattern token %q", s[0]), "ParseSmarts")
}

func (p *Pattern) connected() bool {
	g := simple.NewUndirectedGraph()
	for i := range p.Atoms {
		g.AddNode(simple.Node(i))
	}
	for _, b := range p.Bonds {
		if b.A1 != b.A2 {
			g.SetEdge(g.NewEdge(simple.Node(b.A1), simple.Node(b.A2)))
		}
	}
	return len(topo.ConnectedComponents(g)) == 1
}
