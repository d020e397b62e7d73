package descriptor

import (
	"sort"
	"strconv"
	"strings"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
)

var hydrogen = molecule.MustElement("H")

// averageMass is the molecular weight from standard atomic weights, with
// labelled isotopes at their exact mass.
func averageMass(m *molecule.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Isotope != 0 {
			total += a.Element.IsotopeMass(a.Isotope)
		} else {
			total += a.Element.Mass
		}
		total += float64(a.ImplicitH+a.ExplicitH) * hydrogen.Mass
	}
	return total
}

// exactMass is the monoisotopic mass.
func exactMass(m *molecule.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		total += a.Element.IsotopeMass(a.Isotope)
		total += float64(a.ImplicitH+a.ExplicitH) * hydrogen.ExactMass
	}
	return total
}

// atomCounts counts explicit atoms by symbol. Implicit hydrogens are not
// atoms and are not counted.
func atomCounts(m *molecule.Molecule) map[string]int {
	counts := make(map[string]int)
	for i := range m.Atoms {
		counts[m.Atoms[i].Symbol()]++
	}
	return counts
}

// formula renders the Hill-order molecular formula: C first, then H, then
// the rest alphabetically; without carbon every element is alphabetical.
// Implicit hydrogens are included and a net charge is appended as +, -, +2.
func formula(m *molecule.Molecule) string {
	counts := make(map[string]int)
	charge := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		charge += a.Charge
		if a.AtomicNum() == 0 {
			continue
		}
		counts[a.Symbol()]++
		if h := a.ImplicitH + a.ExplicitH; h > 0 {
			counts["H"] += h
		}
	}

	symbols := make([]string, 0, len(counts))
	for sym := range counts {
		symbols = append(symbols, sym)
	}
	_, hasCarbon := counts["C"]
	sort.Slice(symbols, func(i, j int) bool {
		if hasCarbon {
			if ri, rj := hillRank(symbols[i]), hillRank(symbols[j]); ri != rj {
				return ri < rj
			}
		}
		return symbols[i] < symbols[j]
	})

	var sb strings.Builder
	for _, sym := range symbols {
		sb.WriteString(sym)
		if n := counts[sym]; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	switch {
	case charge > 0:
		sb.WriteByte('+')
		if charge > 1 {
			sb.WriteString(strconv.Itoa(charge))
		}
	case charge < 0:
		sb.WriteByte('-')
		if charge < -1 {
			sb.WriteString(strconv.Itoa(-charge))
		}
	}
	return sb.String()
}

func hillRank(sym string) int {
	switch sym {
	case "C":
		return 0
	case "H":
		return 1
	}
	return 2
}

//Personal.AI order the ending
