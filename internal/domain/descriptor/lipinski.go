package descriptor

import "github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"

// hBondDonors counts NH (neutral trivalent or protonated), neutral OH/SH and
// aromatic [nH] atoms.
func hBondDonors(m *molecule.Molecule) int {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		h := m.TotalH(i)
		if h == 0 {
			continue
		}
		v := m.TotalValence(i)
		switch a.AtomicNum() {
		case 7:
			switch {
			case a.Aromatic:
				if h == 1 && a.Charge == 0 {
					n++
				}
			case v == 3, a.Charge == 1 && v == 4:
				n++
			}
		case 8, 16:
			if !a.Aromatic && h == 1 && a.Charge == 0 {
				n++
			}
		}
	}
	return n
}

// hBondAcceptors counts ether/carbonyl O and S, hydroxyls not on an
// acyl-like carbon, anions, trivalent N that is not amide-like, neutral
// aromatic n/o/s without H, and fluorine.
func hBondAcceptors(m *molecule.Molecule) int {
	n := 0
	for i := range m.Atoms {
		if isLipinskiAcceptor(m, i) {
			n++
		}
	}
	return n
}

func isLipinskiAcceptor(m *molecule.Molecule, i int) bool {
	a := &m.Atoms[i]
	h := m.TotalH(i)
	switch z := a.AtomicNum(); z {
	case 9:
		return true
	case 8, 16:
		if a.Aromatic {
			return h == 0 && a.Charge == 0
		}
		if a.Charge < 0 {
			return true
		}
		v := m.TotalValence(i)
		if v != 2 {
			return false
		}
		if h == 0 {
			return true
		}
		if h != 1 {
			return false
		}
		for _, j := range heavyNeighbors(m, i) {
			if !hasExoDoubleTo(m, j, -1, 7, 8, 15, 16) {
				return true
			}
		}
		return false
	case 7:
		if a.Aromatic {
			return h == 0 && a.Charge == 0
		}
		if m.TotalValence(i) != 3 {
			return false
		}
		for _, bi := range m.AtomBonds(i) {
			b := &m.Bonds[bi]
			if b.Aromatic || b.Kekule != molecule.BondSingle {
				continue
			}
			if j := b.Other(i); hasNonRingDoubleTo(m, j, i, 7, 8, 15, 16) {
				return false
			}
		}
		return true
	}
	return false
}

// rotatableBonds counts non-ring single bonds between atoms that each have
// more than one explicit connection and no triple bond.
func rotatableBonds(m *molecule.Molecule) int {
	n := 0
	for bi := range m.Bonds {
		if isRotatable(m, bi) {
			n++
		}
	}
	return n
}

func isRotatable(m *molecule.Molecule, bi int) bool {
	b := &m.Bonds[bi]
	if b.InRing || b.Aromatic || b.Kekule != molecule.BondSingle {
		return false
	}
	for _, end := range [2]int{b.Begin, b.End} {
		if m.Degree(end) < 2 || hasTripleBond(m, end) {
			return false
		}
	}
	return true
}

// strictRotatableBonds additionally drops bonds at trihalomethyl and
// tert-butyl carbons, and bonds whose two ends both belong to an amide or
// ester-like C(=X)-Y unit. Explicit hydrogens count as connections, so a
// methyl rotor is rotatable only when its hydrogens are atoms of m.
func strictRotatableBonds(m *molecule.Molecule) int {
	acyl := make([]bool, len(m.Atoms))
	for bi := range m.Bonds {
		b := &m.Bonds[bi]
		if b.InRing || b.Aromatic || b.Kekule != molecule.BondSingle {
			continue
		}
		for _, pair := range [2][2]int{{b.Begin, b.End}, {b.End, b.Begin}} {
			if acylHeteroBond(m, pair[0], pair[1]) {
				acyl[pair[0]], acyl[pair[1]] = true, true
			}
		}
	}

	n := 0
	for bi := range m.Bonds {
		b := &m.Bonds[bi]
		switch {
		case !isRotatable(m, bi):
		case symmetricRotor(m, b.Begin) || symmetricRotor(m, b.End):
		case acyl[b.Begin] && acyl[b.End]:
		default:
			n++
		}
	}
	return n
}

// symmetricRotor reports CF3, CCl3, CBr3 and C(CH3)3 carbons.
func symmetricRotor(m *molecule.Molecule, i int) bool {
	if m.Atoms[i].AtomicNum() != 6 || m.Atoms[i].Aromatic {
		return false
	}
	counts := map[int]int{}
	methyls := 0
	for _, j := range heavyNeighbors(m, i) {
		z := m.Atoms[j].AtomicNum()
		counts[z]++
		if z == 6 && m.TotalH(j) == 3 {
			methyls++
		}
	}
	return counts[9] == 3 || counts[17] == 3 || counts[35] == 3 || methyls >= 3
}

// acylHeteroBond reports an aliphatic carbon c with three heavy neighbours
// and a double bond to N, O or S, single-bonded to N, O or non-terminal S
// at x.
func acylHeteroBond(m *molecule.Molecule, c, x int) bool {
	ca := &m.Atoms[c]
	if ca.AtomicNum() != 6 || ca.Aromatic || len(heavyNeighbors(m, c)) != 3 {
		return false
	}
	switch m.Atoms[x].AtomicNum() {
	case 7, 8:
	case 16:
		if m.Degree(x) < 2 {
			return false
		}
	default:
		return false
	}
	return hasExoDoubleTo(m, c, x, 7, 8, 16)
}

// ─────────────────────────────────────────────────────────────────────────────
// Graph helpers
// ─────────────────────────────────────────────────────────────────────────────

func heavyNeighbors(m *molecule.Molecule, i int) []int {
	var out []int
	for _, j := range m.Neighbors(i) {
		if !m.Atoms[j].IsHydrogen() {
			out = append(out, j)
		}
	}
	return out
}

func hasTripleBond(m *molecule.Molecule, i int) bool {
	for _, bi := range m.AtomBonds(i) {
		if m.Bonds[bi].Kekule >= molecule.BondTriple && !m.Bonds[bi].Aromatic {
			return true
		}
	}
	return false
}

// hasExoDoubleTo reports a non-aromatic double bond from i to an atom with
// one of the given atomic numbers, ignoring the atom skip.
func hasExoDoubleTo(m *molecule.Molecule, i, skip int, elements ...int) bool {
	return doubleTo(m, i, skip, false, elements)
}

// hasNonRingDoubleTo is hasExoDoubleTo restricted to acyclic double bonds.
func hasNonRingDoubleTo(m *molecule.Molecule, i, skip int, elements ...int) bool {
	return doubleTo(m, i, skip, true, elements)
}

func doubleTo(m *molecule.Molecule, i, skip int, acyclicOnly bool, elements []int) bool {
	for _, bi := range m.AtomBonds(i) {
		b := &m.Bonds[bi]
		if b.Aromatic || b.Kekule != molecule.BondDouble || (acyclicOnly && b.InRing) {
			continue
		}
		j := b.Other(i)
		if j == skip {
			continue
		}
		z := m.Atoms[j].AtomicNum()
		for _, e := range elements {
			if z == e {
				return true
			}
		}
	}
	return false
}

//Personal.AI order the ending
