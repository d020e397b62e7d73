// Package depict draws 2D structure diagrams. Layout places atoms by stress
// majorization over ideal bond-graph distances; rendering emits a standalone
// SVG document.
package depict

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// XMLHeader opens every rendered document.
const XMLHeader = "<?xml version='1.0' encoding='iso-8859-1'?>"

// Options controls the canvas.
type Options struct {
	Width  int
	Height int

	// Padding is the fraction of each side kept clear of the drawing.
	Padding float64

	// MaxScale caps pixels per layout unit so small molecules are not
	// blown up.
	MaxScale float64
}

// DefaultOptions returns a 300×300 canvas.
func DefaultOptions() Options {
	return Options{Width: 300, Height: 300, Padding: 0.05, MaxScale: 30}
}

// Depict lays out m in 2D and renders it. m's conformer is replaced by the
// 2D layout, so callers pass a copy when the 3D coordinates matter.
func Depict(m *molecule.Molecule, opts Options) (string, error) {
	if m == nil || m.NumAtoms() == 0 {
		return "", errors.New(errors.ErrCodeDepictionFailed, "molecule has no atoms")
	}
	if err := Compute2DCoords(m); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDepictionFailed, "2D layout failed")
	}
	return Render(m, opts)
}

// Render draws m using its current conformer's x and y.
func Render(m *molecule.Molecule, opts Options) (string, error) {
	pos := m.Positions()
	if pos == nil {
		return "", errors.New(errors.ErrCodeDepictionFailed, "molecule has no 2D coordinates")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return "", errors.Newf(errors.ErrCodeDepictionFailed, "invalid canvas %dx%d", opts.Width, opts.Height)
	}
	if opts.MaxScale <= 0 {
		opts.MaxScale = DefaultOptions().MaxScale
	}
	c := newCanvas(m, pos, opts)

	var sb strings.Builder
	sb.WriteString(XMLHeader)
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "<svg version='1.1' baseProfile='full' xmlns='http://www.w3.org/2000/svg' xmlns:xlink='http://www.w3.org/1999/xlink' xml:space='preserve' width='%dpx' height='%dpx' viewBox='0 0 %d %d'>\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	sb.WriteString("<!-- END OF HEADER -->\n")
	fmt.Fprintf(&sb, "<rect style='opacity:1.0;fill:#FFFFFF;stroke:none' width='%d.0' height='%d.0' x='0.0' y='0.0'> </rect>\n",
		opts.Width, opts.Height)

	for bi := range m.Bonds {
		c.drawBond(&sb, bi)
	}
	for i := range m.Atoms {
		if c.labels[i] != "" {
			c.drawLabel(&sb, i)
		}
	}
	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Canvas
// ─────────────────────────────────────────────────────────────────────────────

type point struct{ x, y float64 }

type canvas struct {
	m        *molecule.Molecule
	px       []point
	labels   []string
	fontSize float64
	bondPx   float64
}

func newCanvas(m *molecule.Molecule, pos []geometry.Vec3, opts Options) *canvas {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	// Leave room for labels at the extremes.
	margin := 0.5 * BondLength
	w := maxX - minX + 2*margin
	h := maxY - minY + 2*margin
	W, H := float64(opts.Width), float64(opts.Height)
	scale := math.Min(W*(1-2*opts.Padding)/w, H*(1-2*opts.Padding)/h)
	scale = math.Min(scale, opts.MaxScale)

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	c := &canvas{
		m:      m,
		px:     make([]point, len(pos)),
		labels: make([]string, len(pos)),
		bondPx: BondLength * scale,
	}
	c.fontSize = math.Max(8, math.Min(20, 0.4*c.bondPx))
	for i, p := range pos {
		c.px[i] = point{x: W/2 + scale*(p.X-cx), y: H/2 - scale*(p.Y-cy)}
		c.labels[i] = atomLabel(m, i)
	}
	return c
}

// atomLabel is empty for plain carbons; otherwise the symbol with attached
// hydrogens, isotope prefix and charge.
func atomLabel(m *molecule.Molecule, i int) string {
	a := &m.Atoms[i]
	if a.AtomicNum() == 6 && a.Charge == 0 && a.Isotope == 0 && m.Degree(i) > 0 {
		return ""
	}
	var sb strings.Builder
	if a.Isotope > 0 {
		sb.WriteString(strconv.Itoa(a.Isotope))
	}
	sb.WriteString(a.Symbol())
	if h := a.ImplicitH + a.ExplicitH; h > 0 && !a.IsHydrogen() {
		sb.WriteByte('H')
		if h > 1 {
			sb.WriteString(strconv.Itoa(h))
		}
	}
	sb.WriteString(chargeText(a.Charge))
	return sb.String()
}

func chargeText(charge int) string {
	switch {
	case charge == 1:
		return "+"
	case charge == -1:
		return "-"
	case charge > 1:
		return strconv.Itoa(charge) + "+"
	case charge < -1:
		return strconv.Itoa(-charge) + "-"
	}
	return ""
}

func atomColour(m *molecule.Molecule, i int) string {
	switch sym := m.Atoms[i].Symbol(); sym {
	case "C", "H":
		return "#000000"
	default:
		if c := molecule.ColorFor(sym); c != molecule.DefaultColor {
			return c
		}
		return "#000000"
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Bonds
// ─────────────────────────────────────────────────────────────────────────────

// endpoints returns the bond's drawn segment, pulled back from labelled
// atoms.
func (c *canvas) endpoints(i, j int) (point, point) {
	a, b := c.px[i], c.px[j]
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return a, b
	}
	ux, uy := dx/l, dy/l
	trim := 0.6 * c.fontSize
	if c.labels[i] != "" && l > 2*trim {
		a = point{a.x + ux*trim, a.y + uy*trim}
	}
	if c.labels[j] != "" && l > 2*trim {
		b = point{b.x - ux*trim, b.y - uy*trim}
	}
	return a, b
}

func (c *canvas) drawBond(sb *strings.Builder, bi int) {
	bond := &c.m.Bonds[bi]
	i, j := bond.Begin, bond.End
	a, b := c.endpoints(i, j)
	cls := fmt.Sprintf("bond-%d atom-%d atom-%d", bi, i, j)
	ci, cj := atomColour(c.m, i), atomColour(c.m, j)
	offset := 0.15 * c.bondPx

	switch {
	case bond.Aromatic:
		c.line(sb, cls, a, b, ci, cj, false)
		ia, ib := c.innerLine(bond, a, b, offset)
		c.line(sb, cls, ia, ib, ci, cj, true)
	case bond.Order == molecule.BondDouble:
		if bond.InRing {
			c.line(sb, cls, a, b, ci, cj, false)
			ia, ib := c.innerLine(bond, a, b, offset)
			c.line(sb, cls, ia, ib, ci, cj, false)
			return
		}
		nx, ny := normal(a, b)
		h := offset / 2
		c.line(sb, cls, shift(a, nx, ny, h), shift(b, nx, ny, h), ci, cj, false)
		c.line(sb, cls, shift(a, nx, ny, -h), shift(b, nx, ny, -h), ci, cj, false)
	case bond.Order == molecule.BondTriple:
		nx, ny := normal(a, b)
		c.line(sb, cls, a, b, ci, cj, false)
		c.line(sb, cls, shift(a, nx, ny, offset), shift(b, nx, ny, offset), ci, cj, false)
		c.line(sb, cls, shift(a, nx, ny, -offset), shift(b, nx, ny, -offset), ci, cj, false)
	default:
		c.line(sb, cls, a, b, ci, cj, false)
	}
}

// innerLine returns the shortened parallel segment on the ring-centre side
// of a ring bond.
func (c *canvas) innerLine(bond *molecule.Bond, a, b point, offset float64) (point, point) {
	nx, ny := normal(a, b)
	if centre, ok := c.ringCentre(bond.Index); ok {
		mid := point{(a.x + b.x) / 2, (a.y + b.y) / 2}
		if (centre.x-mid.x)*nx+(centre.y-mid.y)*ny < 0 {
			nx, ny = -nx, -ny
		}
	}
	ia, ib := shift(a, nx, ny, offset), shift(b, nx, ny, offset)
	const shrink = 0.15
	dx, dy := ib.x-ia.x, ib.y-ia.y
	return point{ia.x + dx*shrink, ia.y + dy*shrink}, point{ib.x - dx*shrink, ib.y - dy*shrink}
}

// ringCentre returns the pixel centroid of the smallest ring holding bond.
func (c *canvas) ringCentre(bond int) (point, bool) {
	best := -1
	for ri, bonds := range c.m.RingBonds {
		for _, b := range bonds {
			if b == bond && (best < 0 || len(bonds) < len(c.m.RingBonds[best])) {
				best = ri
			}
		}
	}
	if best < 0 {
		return point{}, false
	}
	var p point
	for _, a := range c.m.Rings[best] {
		p.x += c.px[a].x
		p.y += c.px[a].y
	}
	n := float64(len(c.m.Rings[best]))
	return point{p.x / n, p.y / n}, true
}

func normal(a, b point) (float64, float64) {
	dx, dy := b.x-a.x, b.y-a.y
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return 0, 1
	}
	return -dy / l, dx / l
}

func shift(p point, nx, ny, d float64) point {
	return point{p.x + nx*d, p.y + ny*d}
}

// line draws a segment in two halves, each in its atom's colour.
func (c *canvas) line(sb *strings.Builder, cls string, a, b point, ca, cb string, dashed bool) {
	mid := point{(a.x + b.x) / 2, (a.y + b.y) / 2}
	if ca == cb {
		c.path(sb, cls, a, b, ca, dashed)
		return
	}
	c.path(sb, cls, a, mid, ca, dashed)
	c.path(sb, cls, mid, b, cb, dashed)
}

func (c *canvas) path(sb *strings.Builder, cls string, a, b point, colour string, dashed bool) {
	dash := ""
	if dashed {
		dash = ";stroke-dasharray:4,3"
	}
	fmt.Fprintf(sb, "<path class='%s' d='M %.1f,%.1f L %.1f,%.1f' style='fill:none;fill-rule:evenodd;stroke:%s;stroke-width:2.0px;stroke-linecap:butt;stroke-linejoin:miter;stroke-opacity:1%s' />\n",
		cls, a.x, a.y, b.x, b.y, colour, dash)
}

// ─────────────────────────────────────────────────────────────────────────────
// Labels
// ─────────────────────────────────────────────────────────────────────────────

func (c *canvas) drawLabel(sb *strings.Builder, i int) {
	p := c.px[i]
	fmt.Fprintf(sb, "<text x='%.1f' y='%.1f' class='atom-%d' style='font-size:%.0fpx;font-style:normal;font-weight:normal;fill-opacity:1;stroke:none;font-family:sans-serif;text-anchor:middle;fill:%s' dominant-baseline='central'>",
		p.x, p.y, i, c.fontSize, atomColour(c.m, i))
	sb.WriteString(labelMarkup(c.labels[i], c.m.Atoms[i].Charge))
	sb.WriteString("</text>\n")
}

// labelMarkup renders an isotope prefix and the charge as superscripts and
// hydrogen counts as subscripts.
func labelMarkup(label string, charge int) string {
	body, sup := label, ""
	if ct := chargeText(charge); ct != "" {
		body, sup = strings.TrimSuffix(label, ct), ct
	}
	var sb strings.Builder
	k := 0
	for k < len(body) && isDigit(body[k]) {
		k++
	}
	if k > 0 {
		writeShifted(&sb, "super", body[:k])
	}
	for k < len(body) {
		if !isDigit(body[k]) {
			sb.WriteByte(body[k])
			k++
			continue
		}
		start := k
		for k < len(body) && isDigit(body[k]) {
			k++
		}
		writeShifted(&sb, "sub", body[start:k])
	}
	if sup != "" {
		writeShifted(&sb, "super", sup)
	}
	return sb.String()
}

func writeShifted(sb *strings.Builder, shift, text string) {
	fmt.Fprintf(sb, "<tspan style='baseline-shift:%s;font-size:75%%'>%s</tspan>", shift, text)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

//Personal.AI order the ending
