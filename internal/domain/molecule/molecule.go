// Package molecule is the chemistry core of the explorer: the atom/bond graph,
// SMILES parsing, ring perception, aromaticity, hydrogen handling and PDB
// output. Coordinates are produced by the conformer and depict packages and
// stored back on the Molecule.
package molecule

import (
	"sort"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Bonds
// ─────────────────────────────────────────────────────────────────────────────

// BondOrder is the perceived order of a bond.
type BondOrder int

const (
	BondSingle BondOrder = iota + 1
	BondDouble
	BondTriple
	BondQuadruple
	BondAromatic
)

// Valence returns the bond's contribution to atom valence. Aromatic bonds
// contribute 1.5; callers needing integers use the Kekulé order instead.
func (o BondOrder) Valence() float64 {
	switch o {
	case BondSingle:
		return 1
	case BondDouble:
		return 2
	case BondTriple:
		return 3
	case BondQuadruple:
		return 4
	case BondAromatic:
		return 1.5
	}
	return 0
}

// TypeName is the wire name of the bond type: "single", "double", "triple",
// "aromatic" or "unknown".
func (o BondOrder) TypeName() string {
	switch o {
	case BondSingle:
		return "single"
	case BondDouble:
		return "double"
	case BondTriple:
		return "triple"
	case BondAromatic:
		return "aromatic"
	}
	return "unknown"
}

// BondStereo is the SMILES directional marker on a bond ('/' or '\').
type BondStereo int

const (
	StereoNone BondStereo = iota
	StereoUp              // '/'
	StereoDown            // '\'
)

// Bond connects atoms Begin and End (Begin < End is not guaranteed).
type Bond struct {
	Index      int
	Begin, End int
	Order      BondOrder // perceived order; BondAromatic inside aromatic rings
	Kekule     BondOrder // localized order, never BondAromatic
	Aromatic   bool
	Conjugated bool
	InRing     bool
	Stereo     BondStereo
}

// Other returns the atom at the opposite end of b from atom.
func (b *Bond) Other(atom int) int {
	if b.Begin == atom {
		return b.End
	}
	return b.Begin
}

// ─────────────────────────────────────────────────────────────────────────────
// Atoms
// ─────────────────────────────────────────────────────────────────────────────

// Chirality is the SMILES tetrahedral tag of an atom.
type Chirality int

const (
	ChiralNone Chirality = iota
	ChiralCCW            // '@'
	ChiralCW             // '@@'
)

// Hybridization is the geometric hybridization assigned during perception.
type Hybridization int

const (
	HybridUnspecified Hybridization = iota
	HybridS
	HybridSP
	HybridSP2
	HybridSP3
)

// ImplicitHydrogenRef marks the position of an implicit hydrogen in a chiral
// neighbour list.
const ImplicitHydrogenRef = -1

// Atom is a vertex of the molecular graph.
type Atom struct {
	Index   int
	Element *Element
	Charge  int
	Isotope int
	MapNum  int

	// ExplicitH counts hydrogens written inside brackets or folded in by
	// RemoveHydrogens. ImplicitH is derived from the default valence model.
	ExplicitH  int
	ImplicitH  int
	NoImplicit bool // bracket atoms never receive implicit hydrogens

	Aromatic      bool
	InRing        bool
	Hybridization Hybridization

	Chirality Chirality
	// ChiralRefs lists neighbour atom indices in SMILES order, with
	// ImplicitHydrogenRef standing in for a bracket hydrogen.
	ChiralRefs []int
}

// Symbol returns the element symbol.
func (a *Atom) Symbol() string { return a.Element.Symbol }

// AtomicNum returns the atomic number.
func (a *Atom) AtomicNum() int { return a.Element.Number }

// IsHydrogen reports whether the atom is a hydrogen.
func (a *Atom) IsHydrogen() bool { return a.Element.Number == 1 }

// ─────────────────────────────────────────────────────────────────────────────
// Molecule
// ─────────────────────────────────────────────────────────────────────────────

// Conformer holds one set of coordinates, indexed like Molecule.Atoms.
type Conformer struct {
	Positions []geometry.Vec3
	Is3D      bool
}

// Molecule is the molecular graph plus optional coordinates.
type Molecule struct {
	Atoms []Atom
	Bonds []Bond

	// Rings is the smallest set of smallest rings, each an ordered cycle of
	// atom indices. RingBonds holds the matching bond indices.
	Rings     [][]int
	RingBonds [][]int

	Conformer *Conformer

	adjacency [][]int // bond indices per atom
}

// New returns an empty molecule.
func New() *Molecule {
	return &Molecule{}
}

// AddAtom appends an atom and returns its index.
func (m *Molecule) AddAtom(a Atom) int {
	a.Index = len(m.Atoms)
	m.Atoms = append(m.Atoms, a)
	m.adjacency = append(m.adjacency, nil)
	return a.Index
}

// AddBond appends a bond between i and j. Kekule defaults to order.
func (m *Molecule) AddBond(i, j int, order BondOrder) (int, error) {
	if i < 0 || j < 0 || i >= len(m.Atoms) || j >= len(m.Atoms) {
		return -1, errors.Newf(errors.CodeInvalidParam, "bond atom index out of range: %d-%d", i, j)
	}
	if i == j {
		return -1, errors.Newf(errors.CodeInvalidParam, "atom %d cannot bond to itself", i)
	}
	if m.BondBetween(i, j) >= 0 {
		return -1, errors.Newf(errors.CodeInvalidParam, "duplicate bond between atoms %d and %d", i, j)
	}
	b := Bond{Index: len(m.Bonds), Begin: i, End: j, Order: order, Kekule: order}
	if order == BondAromatic {
		b.Aromatic = true
	}
	m.Bonds = append(m.Bonds, b)
	m.adjacency[i] = append(m.adjacency[i], b.Index)
	m.adjacency[j] = append(m.adjacency[j], b.Index)
	return b.Index, nil
}

// NumAtoms returns the atom count.
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// NumBonds returns the bond count.
func (m *Molecule) NumBonds() int { return len(m.Bonds) }

// AtomBonds returns the indices of bonds incident to atom i.
func (m *Molecule) AtomBonds(i int) []int { return m.adjacency[i] }

// Degree returns the number of explicit neighbours of atom i.
func (m *Molecule) Degree(i int) int { return len(m.adjacency[i]) }

// Neighbors returns the explicit neighbour atom indices of atom i.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, 0, len(m.adjacency[i]))
	for _, bi := range m.adjacency[i] {
		out = append(out, m.Bonds[bi].Other(i))
	}
	return out
}

// BondBetween returns the index of the bond joining i and j, or -1.
func (m *Molecule) BondBetween(i, j int) int {
	if i < 0 || i >= len(m.adjacency) {
		return -1
	}
	for _, bi := range m.adjacency[i] {
		if m.Bonds[bi].Other(i) == j {
			return bi
		}
	}
	return -1
}

// TotalH returns every hydrogen attached to atom i: implicit, bracket and
// explicit hydrogen neighbours.
func (m *Molecule) TotalH(i int) int {
	a := &m.Atoms[i]
	n := a.ImplicitH + a.ExplicitH
	for _, nb := range m.Neighbors(i) {
		if m.Atoms[nb].IsHydrogen() {
			n++
		}
	}
	return n
}

// HeavyDegree returns the number of non-hydrogen neighbours of atom i.
func (m *Molecule) HeavyDegree(i int) int {
	n := 0
	for _, nb := range m.Neighbors(i) {
		if !m.Atoms[nb].IsHydrogen() {
			n++
		}
	}
	return n
}

// ExplicitValence sums Kekulé bond orders at atom i plus bracket hydrogens.
func (m *Molecule) ExplicitValence(i int) int {
	v := m.Atoms[i].ExplicitH
	for _, bi := range m.adjacency[i] {
		v += int(m.Bonds[bi].Kekule.Valence())
	}
	return v
}

// TotalValence is ExplicitValence plus implicit hydrogens.
func (m *Molecule) TotalValence(i int) int {
	return m.ExplicitValence(i) + m.Atoms[i].ImplicitH
}

// HasHydrogenAtoms reports whether any atom is an explicit hydrogen.
func (m *Molecule) HasHydrogenAtoms() bool {
	for i := range m.Atoms {
		if m.Atoms[i].IsHydrogen() {
			return true
		}
	}
	return false
}

// Positions returns the conformer coordinates or nil.
func (m *Molecule) Positions() []geometry.Vec3 {
	if m.Conformer == nil {
		return nil
	}
	return m.Conformer.Positions
}

// SetConformer attaches coordinates. len(pos) must equal NumAtoms.
func (m *Molecule) SetConformer(pos []geometry.Vec3, is3D bool) error {
	if len(pos) != len(m.Atoms) {
		return errors.Newf(errors.CodeInvalidParam, "conformer has %d positions for %d atoms", len(pos), len(m.Atoms))
	}
	cp := make([]geometry.Vec3, len(pos))
	copy(cp, pos)
	m.Conformer = &Conformer{Positions: cp, Is3D: is3D}
	return nil
}

// Clone returns a deep copy.
func (m *Molecule) Clone() *Molecule {
	out := &Molecule{
		Atoms:     make([]Atom, len(m.Atoms)),
		Bonds:     make([]Bond, len(m.Bonds)),
		adjacency: make([][]int, len(m.adjacency)),
	}
	copy(out.Atoms, m.Atoms)
	for i := range out.Atoms {
		if refs := m.Atoms[i].ChiralRefs; refs != nil {
			out.Atoms[i].ChiralRefs = append([]int(nil), refs...)
		}
	}
	copy(out.Bonds, m.Bonds)
	for i, adj := range m.adjacency {
		out.adjacency[i] = append([]int(nil), adj...)
	}
	out.Rings = cloneInts2(m.Rings)
	out.RingBonds = cloneInts2(m.RingBonds)
	if m.Conformer != nil {
		out.Conformer = &Conformer{
			Positions: append([]geometry.Vec3(nil), m.Conformer.Positions...),
			Is3D:      m.Conformer.Is3D,
		}
	}
	return out
}

func cloneInts2(in [][]int) [][]int {
	if in == nil {
		return nil
	}
	out := make([][]int, len(in))
	for i, r := range in {
		out[i] = append([]int(nil), r...)
	}
	return out
}

// Components partitions atoms into connected fragments, each sorted ascending,
// ordered by their lowest atom index.
func (m *Molecule) Components() [][]int {
	seen := make([]bool, len(m.Atoms))
	var comps [][]int
	for start := range m.Atoms {
		if seen[start] {
			continue
		}
		comp := []int{}
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			comp = append(comp, cur)
			for _, nb := range m.Neighbors(cur) {
				if !seen[nb] {
					seen[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		sort.Ints(comp)
		comps = append(comps, comp)
	}
	return comps
}

// TopologicalDistances returns all-pairs shortest path lengths in bonds.
// Unreachable pairs are -1.
func (m *Molecule) TopologicalDistances() [][]int {
	n := len(m.Atoms)
	dist := make([][]int, n)
	for s := 0; s < n; s++ {
		row := make([]int, n)
		for i := range row {
			row[i] = -1
		}
		row[s] = 0
		queue := []int{s}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range m.Neighbors(cur) {
				if row[nb] < 0 {
					row[nb] = row[cur] + 1
					queue = append(queue, nb)
				}
			}
		}
		dist[s] = row
	}
	return dist
}

//Personal.AI order the ending
