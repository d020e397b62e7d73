package molecule

import (
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// Parse reads a SMILES string and runs full perception: ring finding,
// kekulization, implicit hydrogens, aromaticity, conjugation and
// hybridization. Every failure carries ErrCodeMoleculeInvalidSMILES or a
// more specific parse code.
func Parse(smiles string) (*Molecule, error) {
	m, err := parseGraph(smiles)
	if err != nil {
		return nil, err
	}
	if err := m.Sanitize(); err != nil {
		return nil, err
	}
	return m, nil
}

// Sanitize (re)runs perception on a graph built by hand or by the parser.
func (m *Molecule) Sanitize() error {
	m.perceiveRings()
	if err := m.kekulize(); err != nil {
		return err
	}
	if err := m.assignImplicitHydrogens(); err != nil {
		return err
	}
	m.perceiveAromaticity()
	m.perceiveConjugation()
	m.perceiveHybridization()
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Valence model
// ─────────────────────────────────────────────────────────────────────────────

// allowedValences returns the valence list for an element carrying charge,
// using the isoelectronic neighbour (N+ behaves like C, O- like F).
func allowedValences(z, charge int) []int {
	e, ok := ElementByNumber(z - charge)
	if !ok || z == 0 {
		return nil
	}
	if z == 6 && charge != 0 {
		return []int{3}
	}
	return e.Valences
}

func (m *Molecule) assignImplicitHydrogens() error {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		valences := allowedValences(a.AtomicNum(), a.Charge)
		v := m.ExplicitValence(i)
		if a.NoImplicit {
			a.ImplicitH = 0
			if len(valences) > 0 && v > valences[len(valences)-1] {
				return valenceError(a, i, v)
			}
			continue
		}
		if len(valences) == 0 {
			a.ImplicitH = 0
			continue
		}
		found := false
		for _, allowed := range valences {
			if allowed >= v {
				a.ImplicitH = allowed - v
				found = true
				break
			}
		}
		if !found {
			return valenceError(a, i, v)
		}
	}
	return nil
}

func valenceError(a *Atom, i, v int) error {
	return errors.Newf(errors.ErrCodeValenceExceeded,
		"Explicit valence for atom # %d %s, %d, is greater than permitted", i, a.Symbol(), v)
}

// ─────────────────────────────────────────────────────────────────────────────
// Aromaticity (Hückel 4n+2 over SSSR rings and fused pairs)
// ─────────────────────────────────────────────────────────────────────────────

// piContribution returns the π electrons atom i donates to a ring and whether
// the atom can take part in an aromatic ring at all.
func (m *Molecule) piContribution(i int) (int, bool) {
	a := &m.Atoms[i]
	exoElectroneg := false
	for _, bi := range m.AtomBonds(i) {
		b := &m.Bonds[bi]
		if b.Kekule < BondDouble {
			continue
		}
		if b.InRing {
			return 1, true
		}
		other := m.Atoms[b.Other(i)].AtomicNum()
		if other == 7 || other == 8 || other == 16 {
			exoElectroneg = true
			continue
		}
		return 0, false
	}
	if exoElectroneg {
		return 0, true
	}

	conn := m.Degree(i) + a.ImplicitH + a.ExplicitH
	switch a.AtomicNum() {
	case 6:
		switch {
		case a.Charge == -1 && conn == 3:
			return 2, true
		case a.Charge == 1 && conn == 3:
			return 0, true
		}
	case 7, 15, 33:
		if (a.Charge == 0 && conn == 3) || (a.Charge == -1 && conn == 2) {
			return 2, true
		}
	case 8, 16, 34, 52:
		if a.Charge == 0 && conn == 2 {
			return 2, true
		}
	case 5:
		if a.Charge == 0 && conn == 3 {
			return 0, true
		}
	}
	return 0, false
}

func (m *Molecule) perceiveAromaticity() {
	for i := range m.Atoms {
		m.Atoms[i].Aromatic = false
	}
	for i := range m.Bonds {
		b := &m.Bonds[i]
		b.Aromatic = false
		b.Order = b.Kekule
	}
	if len(m.Rings) == 0 {
		return
	}

	electrons := make([]int, len(m.Atoms))
	candidate := make([]bool, len(m.Atoms))
	for i := range m.Atoms {
		electrons[i], candidate[i] = m.piContribution(i)
	}

	ringOK := make([]bool, len(m.Rings))
	for ri, ring := range m.Rings {
		ringOK[ri] = true
		for _, a := range ring {
			if !candidate[a] {
				ringOK[ri] = false
				break
			}
		}
	}

	aromaticRing := make([]bool, len(m.Rings))
	for ri, ring := range m.Rings {
		if ringOK[ri] && huckel(sumElectrons(ring, electrons)) {
			aromaticRing[ri] = true
		}
	}

	// Fused pairs aromatic only as a whole (azulene and the like).
	for ri := range m.Rings {
		for rj := ri + 1; rj < len(m.Rings); rj++ {
			if !ringOK[ri] || !ringOK[rj] || (aromaticRing[ri] && aromaticRing[rj]) {
				continue
			}
			if !sharesBond(m.RingBonds[ri], m.RingBonds[rj]) {
				continue
			}
			union := unionAtoms(m.Rings[ri], m.Rings[rj])
			if huckel(sumElectrons(union, electrons)) {
				aromaticRing[ri], aromaticRing[rj] = true, true
			}
		}
	}

	for ri, ok := range aromaticRing {
		if !ok {
			continue
		}
		for _, a := range m.Rings[ri] {
			m.Atoms[a].Aromatic = true
		}
		for _, bi := range m.RingBonds[ri] {
			m.Bonds[bi].Aromatic = true
			m.Bonds[bi].Order = BondAromatic
		}
	}
}

func huckel(n int) bool { return n >= 2 && (n-2)%4 == 0 }

func sumElectrons(atoms []int, electrons []int) int {
	s := 0
	for _, a := range atoms {
		s += electrons[a]
	}
	return s
}

func sharesBond(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func unionAtoms(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, s := range [][]int{a, b} {
		for _, x := range s {
			if !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		}
	}
	return out
}

// AromaticRingCount counts SSSR rings whose bonds are all aromatic.
func (m *Molecule) AromaticRingCount() int {
	n := 0
	for _, ring := range m.RingBonds {
		all := true
		for _, bi := range ring {
			if !m.Bonds[bi].Aromatic {
				all = false
				break
			}
		}
		if all {
			n++
		}
	}
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// Conjugation and hybridization
// ─────────────────────────────────────────────────────────────────────────────

func (m *Molecule) isMultiple(bi int) bool {
	b := &m.Bonds[bi]
	return b.Aromatic || b.Kekule >= BondDouble
}

func (m *Molecule) hasMultipleBond(i int) bool {
	for _, bi := range m.AtomBonds(i) {
		if m.isMultiple(bi) {
			return true
		}
	}
	return false
}

// hasLonePair reports whether atom i can donate a lone pair into a π system.
func (m *Molecule) hasLonePair(i int) bool {
	a := &m.Atoms[i]
	conn := m.Degree(i) + a.ImplicitH + a.ExplicitH
	switch a.AtomicNum() {
	case 7, 15:
		return a.Charge <= 0 && conn <= 3
	case 8, 16:
		return a.Charge <= 0 && conn <= 2
	case 9, 17, 35, 53:
		return conn == 1
	}
	return false
}

// perceiveConjugation marks a bond conjugated when it is aromatic, or when it
// shares an atom with a multiple bond and its far atom carries a multiple
// bond or a lone pair.
func (m *Molecule) perceiveConjugation() {
	for i := range m.Bonds {
		m.Bonds[i].Conjugated = m.Bonds[i].Aromatic
	}
	for center := range m.Atoms {
		bonds := m.AtomBonds(center)
		for _, b1 := range bonds {
			if !m.isMultiple(b1) {
				continue
			}
			for _, b2 := range bonds {
				if b1 == b2 {
					continue
				}
				far := m.Bonds[b2].Other(center)
				if m.isMultiple(b2) || m.hasMultipleBond(far) || m.hasLonePair(far) {
					m.Bonds[b1].Conjugated = true
					m.Bonds[b2].Conjugated = true
				}
			}
		}
	}
}

func (m *Molecule) perceiveHybridization() {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.IsHydrogen() {
			a.Hybridization = HybridS
			continue
		}
		doubles, triples := 0, 0
		for _, bi := range m.AtomBonds(i) {
			switch m.Bonds[bi].Kekule {
			case BondDouble:
				doubles++
			case BondTriple, BondQuadruple:
				triples++
			}
		}
		conn := m.Degree(i) + a.ImplicitH + a.ExplicitH
		switch {
		case triples > 0 || doubles >= 2:
			a.Hybridization = HybridSP
		case a.Aromatic || doubles == 1:
			a.Hybridization = HybridSP2
		case conn <= 1 && !IsHalogen(a.AtomicNum()):
			a.Hybridization = HybridS
		case (a.AtomicNum() == 7 || a.AtomicNum() == 8) && m.conjugatedAtom(i):
			a.Hybridization = HybridSP2
		case a.Charge == 1 && a.AtomicNum() == 6 && conn == 3:
			a.Hybridization = HybridSP2
		case a.Element.Valences == nil:
			a.Hybridization = HybridUnspecified
		default:
			a.Hybridization = HybridSP3
		}
	}
}

func (m *Molecule) conjugatedAtom(i int) bool {
	for _, bi := range m.AtomBonds(i) {
		if m.Bonds[bi].Conjugated {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
