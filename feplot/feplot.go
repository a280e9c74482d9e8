/*
 * feplot.go, part of timemachine.
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

// Package feplot draws diagnostic plots for alchemical schedules. A
// bonded term carries a per-term linear schedule offset + mult*lambda;
// a nonbonded atom carries a lifting distance cutoff*(plane +
// offset*lambda). Plotting the distinct schedules of a transformation
// is a quick sanity check that core and R-group terms switch on and
// off at the intended end states.
package feplot

import (
	"fmt"
	"sort"

	fep "github.com/ljmartin/timemachine"
	"github.com/ljmartin/timemachine/potentials"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Schedule is one distinct (mult, offset) pair of a term, with the
// number of interactions that carry it.
type Schedule struct {
	Mult   int
	Offset int
	Count  int
}

// At evaluates the schedule prefactor at the given lambda.
func (s Schedule) At(lambda float64) float64 {
	return float64(s.Offset) + float64(s.Mult)*lambda
}

func (s Schedule) label() string {
	return fmt.Sprintf("%+d*lambda%+d (%d terms)", s.Mult, s.Offset, s.Count)
}

// TermSchedules collects the distinct schedules of a bonded term,
// sorted by (mult, offset). Nil mult and offset slices are read as the
// always-on schedule.
func TermSchedules(mult, offset []int) []Schedule {
	if mult == nil && offset == nil {
		return []Schedule{{Mult: 0, Offset: 1, Count: 1}}
	}
	counts := make(map[[2]int]int)
	for i := range mult {
		counts[[2]int{mult[i], offset[i]}]++
	}
	scheds := make([]Schedule, 0, len(counts))
	for k, c := range counts {
		scheds = append(scheds, Schedule{Mult: k[0], Offset: k[1], Count: c})
	}
	sort.Slice(scheds, func(i, j int) bool {
		if scheds[i].Mult != scheds[j].Mult {
			return scheds[i].Mult < scheds[j].Mult
		}
		return scheds[i].Offset < scheds[j].Offset
	})
	return scheds
}

// PlotActivation draws the schedule prefactors of a set of bonded
// terms over lambda in [0,1] and saves the figure as a PNG.
func PlotActivation(title, filename string, terms ...potentials.Term) error {
	var scheds []Schedule
	var labels []string
	for _, t := range terms {
		b, ok := t.(interface {
			LambdaMult() []int
			LambdaOffset() []int
		})
		if !ok {
			return fep.NewCError("term "+t.TermName()+" carries no bonded schedule", "PlotActivation")
		}
		for _, s := range TermSchedules(b.LambdaMult(), b.LambdaOffset()) {
			scheds = append(scheds, s)
			labels = append(labels, t.TermName()+" "+s.label())
		}
	}
	if len(scheds) == 0 {
		return fep.NewCError("nothing to plot", "PlotActivation")
	}
	p := basicPlot(title, "lambda", "prefactor")
	for i, s := range scheds {
		line, err := plotter.NewLine(sampled(s.At))
		if err != nil {
			return fep.NewCError(err.Error(), "PlotActivation")
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(labels[i], line)
	}
	return save(p, filename, "PlotActivation")
}

// PlotLifting draws the 4th-dimension lifting distance of each distinct
// (plane, offset) atom class of a nonbonded term over lambda in [0,1]
// and saves the figure as a PNG.
func PlotLifting(title, filename string, nb *potentials.Nonbonded) error {
	plane := nb.LambdaPlaneIdxs()
	off := nb.LambdaOffsetIdxs()
	counts := make(map[[2]int]int)
	for i := range plane {
		counts[[2]int{plane[i], off[i]}]++
	}
	classes := make([][2]int, 0, len(counts))
	for k := range counts {
		classes = append(classes, k)
	}
	sort.Slice(classes, func(i, j int) bool {
		if classes[i][0] != classes[j][0] {
			return classes[i][0] < classes[j][0]
		}
		return classes[i][1] < classes[j][1]
	})
	p := basicPlot(title, "lambda", "w (nm)")
	cutoff := nb.Cutoff()
	for i, k := range classes {
		k := k
		f := func(lambda float64) float64 {
			return cutoff * (float64(k[0]) + float64(k[1])*lambda)
		}
		line, err := plotter.NewLine(sampled(f))
		if err != nil {
			return fep.NewCError(err.Error(), "PlotLifting")
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("plane %+d offset %+d (%d atoms)", k[0], k[1], counts[k]), line)
	}
	return save(p, filename, "PlotLifting")
}

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = vg.Millimeter * 3
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.X.Min = 0
	p.X.Max = 1
	p.Add(plotter.NewGrid())
	return p
}

func sampled(f func(float64) float64) plotter.XYs {
	const n = 101
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		pts[i].X = x
		pts[i].Y = f(x)
	}
	return pts
}

func save(p *plot.Plot, filename, caller string) error {
	if err := p.Save(14*vg.Centimeter, 10*vg.Centimeter, filename); err != nil {
		return fep.NewCError(err.Error(), caller)
	}
	return nil
}
