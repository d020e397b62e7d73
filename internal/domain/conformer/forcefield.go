package conformer

import (
	"context"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
)

// Force constants, kcal/mol with lengths in Å.
const (
	kStretch       = 300.0
	kBend          = 40.0
	kPlanar        = 10.0
	kRepulsion     = 5.0
	repulsionScale = 0.8
)

type stretchTerm struct {
	i, j int
	r0   float64
}

type bendTerm struct {
	i, j, k int
	cos0    float64
}

// planeTerm holds atoms b, c and d in the plane through a.
type planeTerm struct {
	a, b, c, d int
}

type repulsionTerm struct {
	i, j int
	rmin float64
}

// forceField is a small valence force field: harmonic stretch, cosine
// bend, planarity for trigonal centres and double bonds, and a purely
// repulsive contact term for atoms four or more bonds apart.
type forceField struct {
	stretches  []stretchTerm
	bends      []bendTerm
	planes     []planeTerm
	repulsions []repulsionTerm
}

func newForceField(t *topology) *forceField {
	m := t.m
	ff := &forceField{}
	for bi := range m.Bonds {
		b := &m.Bonds[bi]
		ff.stretches = append(ff.stretches, stretchTerm{i: b.Begin, j: b.End, r0: t.bondLen[bi]})
	}
	for _, a := range t.angles {
		ff.bends = append(ff.bends, bendTerm{i: a.i, j: a.j, k: a.k, cos0: math.Cos(a.theta * math.Pi / 180)})
	}

	for j := range m.Atoms {
		nb := m.Neighbors(j)
		if len(nb) == 3 && t.planar(j) {
			ff.planes = append(ff.planes, planeTerm{a: j, b: nb[0], c: nb[1], d: nb[2]})
		}
	}
	for bi := range m.Bonds {
		b := &m.Bonds[bi]
		if !b.Aromatic && b.Kekule != molecule.BondDouble {
			continue
		}
		if !t.planar(b.Begin, b.End) {
			continue
		}
		for _, i := range m.Neighbors(b.Begin) {
			if i == b.End {
				continue
			}
			for _, l := range m.Neighbors(b.End) {
				if l == b.Begin || l == i {
					continue
				}
				ff.planes = append(ff.planes, planeTerm{a: b.Begin, b: i, c: b.End, d: l})
			}
		}
	}

	for i := range m.Atoms {
		for j := i + 1; j < len(m.Atoms); j++ {
			if h := t.hops[i][j]; h >= 0 && h < 4 {
				continue
			}
			rmin := repulsionScale * (m.Atoms[i].Element.VdwRadius + m.Atoms[j].Element.VdwRadius)
			ff.repulsions = append(ff.repulsions, repulsionTerm{i: i, j: j, rmin: rmin})
		}
	}
	return ff
}

// energy evaluates the force field at x and, when grad is non-nil, writes
// the gradient into it.
func (ff *forceField) energy(x, grad []float64) float64 {
	if grad != nil {
		for i := range grad {
			grad[i] = 0
		}
	}
	var e float64

	for _, s := range ff.stretches {
		d := vecAt(x, s.i).Sub(vecAt(x, s.j))
		r := d.Norm()
		dr := r - s.r0
		e += kStretch * dr * dr
		if grad != nil && r > 1e-8 {
			g := d.Scale(2 * kStretch * dr / r)
			addGrad(grad, s.i, g)
			addGrad(grad, s.j, g.Scale(-1))
		}
	}

	for _, b := range ff.bends {
		pj := vecAt(x, b.j)
		u := vecAt(x, b.i).Sub(pj)
		v := vecAt(x, b.k).Sub(pj)
		lu, lv := u.Norm(), v.Norm()
		if lu < 1e-8 || lv < 1e-8 {
			continue
		}
		cos := u.Dot(v) / (lu * lv)
		dc := cos - b.cos0
		e += kBend * dc * dc
		if grad == nil {
			continue
		}
		f := 2 * kBend * dc
		gi := v.Scale(1 / (lu * lv)).Sub(u.Scale(cos / (lu * lu))).Scale(f)
		gk := u.Scale(1 / (lu * lv)).Sub(v.Scale(cos / (lv * lv))).Scale(f)
		addGrad(grad, b.i, gi)
		addGrad(grad, b.k, gk)
		addGrad(grad, b.j, gi.Add(gk).Scale(-1))
	}

	for _, p := range ff.planes {
		o := vecAt(x, p.a)
		v1 := vecAt(x, p.b).Sub(o)
		v2 := vecAt(x, p.c).Sub(o)
		v3 := vecAt(x, p.d).Sub(o)
		vol := v1.Dot(v2.Cross(v3))
		e += kPlanar * vol * vol
		if grad == nil {
			continue
		}
		f := 2 * kPlanar * vol
		g1 := v2.Cross(v3).Scale(f)
		g2 := v3.Cross(v1).Scale(f)
		g3 := v1.Cross(v2).Scale(f)
		addGrad(grad, p.b, g1)
		addGrad(grad, p.c, g2)
		addGrad(grad, p.d, g3)
		addGrad(grad, p.a, g1.Add(g2).Add(g3).Scale(-1))
	}

	for _, r := range ff.repulsions {
		d := vecAt(x, r.i).Sub(vecAt(x, r.j))
		dist := d.Norm()
		if dist >= r.rmin || dist < 1e-8 {
			continue
		}
		short := r.rmin - dist
		e += kRepulsion * short * short
		if grad != nil {
			g := d.Scale(-2 * kRepulsion * short / dist)
			addGrad(grad, r.i, g)
			addGrad(grad, r.j, g.Scale(-1))
		}
	}
	return e
}

// ─────────────────────────────────────────────────────────────────────────────
// Minimisation
// ─────────────────────────────────────────────────────────────────────────────

type objective func(x, grad []float64) float64

// minimize runs L-BFGS on f from x0 for at most iterations major steps.
// A line-search stall keeps the best point found; only cancellation of ctx
// and non-finite results are errors.
func minimize(ctx context.Context, f objective, x0 []float64, iterations int) ([]float64, float64, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 { return f(x, nil) },
		Grad: func(grad, x []float64) { f(x, grad) },
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	settings := &optimize.Settings{
		MajorIterations:   iterations,
		GradientThreshold: 1e-5,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-9,
			Relative:   1e-9,
			Iterations: 25,
		},
	}
	res, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if cerr := ctx.Err(); cerr != nil {
		return nil, 0, cerr
	}
	if res == nil {
		return nil, 0, err
	}
	if !finite(res.X) || math.IsNaN(res.F) {
		if err == nil {
			err = errNonFinite
		}
		return nil, 0, err
	}
	return res.X, res.F, nil
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func flatten(pos []geometry.Vec3) []float64 {
	x := make([]float64, 3*len(pos))
	for i, p := range pos {
		x[3*i], x[3*i+1], x[3*i+2] = p.X, p.Y, p.Z
	}
	return x
}

func unflatten(x []float64) []geometry.Vec3 {
	pos := make([]geometry.Vec3, len(x)/3)
	for i := range pos {
		pos[i] = vecAt(x, i)
	}
	return pos
}

//Personal.AI order the ending
