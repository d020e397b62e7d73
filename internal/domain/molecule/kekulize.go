package molecule

import (
	"strconv"

	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// maxKekuleSteps bounds the matching search on pathological inputs.
const maxKekuleSteps = 200000

// kekulize assigns alternating single/double Kekulé orders to bonds read as
// aromatic. Ring membership must already be known: aromatic bonds outside
// rings become single, and aromatic atoms outside rings are rejected.
func (m *Molecule) kekulize() error {
	hasAromatic := false
	for i := range m.Bonds {
		b := &m.Bonds[i]
		if b.Order != BondAromatic {
			continue
		}
		if !b.InRing {
			b.Order, b.Kekule, b.Aromatic = BondSingle, BondSingle, false
			continue
		}
		hasAromatic = true
	}
	for i := range m.Atoms {
		if m.Atoms[i].Aromatic && !m.Atoms[i].InRing {
			return errors.New(errors.ErrCodeKekulizationFailed, "non-ring atom marked aromatic").
				WithDetail(m.atomLabel(i))
		}
	}
	if !hasAromatic {
		return nil
	}

	need := make([]bool, len(m.Atoms))
	for i := range m.Atoms {
		need[i] = m.Atoms[i].Aromatic && m.needsPiBond(i)
	}

	match := make([]int, len(m.Atoms)) // partner atom or -1
	for i := range match {
		match[i] = -1
	}
	steps := 0
	if !m.matchPi(need, match, &steps) {
		return errors.New(errors.ErrCodeKekulizationFailed, "can't kekulize aromatic system")
	}

	for i := range m.Bonds {
		b := &m.Bonds[i]
		if b.Order != BondAromatic {
			continue
		}
		if match[b.Begin] == b.End {
			b.Kekule = BondDouble
		} else {
			b.Kekule = BondSingle
		}
	}
	return nil
}

// needsPiBond decides whether an aromatic atom must take one double bond in
// the Kekulé structure, from its bonds, hydrogens and charge.
func (m *Molecule) needsPiBond(i int) bool {
	a := &m.Atoms[i]
	sum := 0
	for _, bi := range m.AtomBonds(i) {
		b := &m.Bonds[bi]
		switch b.Order {
		case BondAromatic:
			sum++
		case BondDouble, BondTriple:
			return false
		default:
			sum += int(b.Order.Valence())
		}
	}
	target, ok := aromaticValence(a.AtomicNum(), a.Charge)
	if !ok {
		return false
	}
	if a.NoImplicit {
		return target-(sum+a.ExplicitH) == 1
	}
	return target-sum >= 1
}

func aromaticValence(z, charge int) (int, bool) {
	switch z {
	case 6:
		if charge == 0 {
			return 4, true
		}
		return 3, true
	case 7, 15, 33:
		return 3 + charge, true
	case 8, 16, 34, 52:
		return 2 + charge, true
	case 5:
		return 3 - charge, true
	}
	return 0, false
}

// matchPi finds a perfect matching of need-atoms over aromatic bonds by
// backtracking, always branching on the atom with the fewest options.
func (m *Molecule) matchPi(need []bool, match []int, steps *int) bool {
	*steps++
	if *steps > maxKekuleSteps {
		return false
	}
	best, bestOpts := -1, 0
	var options []int
	for i := range need {
		if !need[i] || match[i] >= 0 {
			continue
		}
		opts := m.piOptions(i, need, match)
		if best < 0 || len(opts) < bestOpts {
			best, bestOpts, options = i, len(opts), opts
			if bestOpts == 0 {
				return false
			}
		}
	}
	if best < 0 {
		return true
	}
	for _, j := range options {
		match[best], match[j] = j, best
		if m.matchPi(need, match, steps) {
			return true
		}
		match[best], match[j] = -1, -1
	}
	return false
}

func (m *Molecule) piOptions(i int, need []bool, match []int) []int {
	var out []int
	for _, bi := range m.AtomBonds(i) {
		b := &m.Bonds[bi]
		if b.Order != BondAromatic {
			continue
		}
		j := b.Other(i)
		if need[j] && match[j] < 0 {
			out = append(out, j)
		}
	}
	return out
}

func (m *Molecule) atomLabel(i int) string {
	return m.Atoms[i].Symbol() + "#" + strconv.Itoa(i)
}

//Personal.AI order the ending
