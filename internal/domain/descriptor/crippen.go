package descriptor

import "github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"

// crippenType is one Wildman–Crippen atom class with its logP and molar
// refractivity contributions.
type crippenType struct {
	Label string
	LogP  float64
	MR    float64
}

var (
	crC1  = crippenType{"C1", 0.1441, 2.503}
	crC2  = crippenType{"C2", 0.0000, 2.433}
	crC3  = crippenType{"C3", -0.2035, 2.753}
	crC4  = crippenType{"C4", -0.2051, 2.731}
	crC5  = crippenType{"C5", -0.2783, 5.007}
	crC6  = crippenType{"C6", 0.1551, 3.513}
	crC7  = crippenType{"C7", 0.0017, 3.888}
	crC8  = crippenType{"C8", 0.08452, 2.464}
	crC9  = crippenType{"C9", -0.1444, 2.412}
	crC10 = crippenType{"C10", -0.0516, 2.488}
	crC11 = crippenType{"C11", 0.1193, 2.582}
	crC12 = crippenType{"C12", -0.0967, 2.576}
	crC13 = crippenType{"C13", -0.5443, 4.041}
	crC14 = crippenType{"C14", 0.0000, 3.257}
	crC15 = crippenType{"C15", 0.2450, 3.564}
	crC16 = crippenType{"C16", 0.1980, 3.180}
	crC17 = crippenType{"C17", 0.0000, 3.104}
	crC18 = crippenType{"C18", 0.1581, 3.350}
	crC19 = crippenType{"C19", 0.2955, 4.346}
	crC20 = crippenType{"C20", 0.2713, 3.904}
	crC21 = crippenType{"C21", 0.1360, 3.509}
	crC22 = crippenType{"C22", 0.4619, 4.067}
	crC23 = crippenType{"C23", 0.5437, 3.853}
	crC24 = crippenType{"C24", 0.1893, 2.673}
	crC25 = crippenType{"C25", -0.8186, 3.135}
	crC26 = crippenType{"C26", 0.2640, 4.305}
	crC27 = crippenType{"C27", 0.2148, 2.693}
	crCS  = crippenType{"CS", 0.08129, 3.243}

	crH1 = crippenType{"H1", 0.1230, 1.057}
	crH2 = crippenType{"H2", -0.2677, 1.395}
	crH3 = crippenType{"H3", 0.2142, 0.9627}
	crH4 = crippenType{"H4", 0.2980, 1.805}

	crN1  = crippenType{"N1", -1.0190, 2.262}
	crN2  = crippenType{"N2", -0.7096, 2.173}
	crN3  = crippenType{"N3", -1.0270, 2.827}
	crN4  = crippenType{"N4", -0.5188, 3.000}
	crN5  = crippenType{"N5", 0.08387, 1.757}
	crN6  = crippenType{"N6", 0.1836, 2.428}
	crN7  = crippenType{"N7", -0.3187, 1.839}
	crN8  = crippenType{"N8", -0.4458, 2.819}
	crN9  = crippenType{"N9", 0.01508, 1.725}
	crN10 = crippenType{"N10", -1.9500, 0.000}
	crN11 = crippenType{"N11", -0.3239, 2.202}
	crN12 = crippenType{"N12", -1.1190, 0.000}
	crN13 = crippenType{"N13", -0.3396, 0.2604}
	crN14 = crippenType{"N14", 0.2887, 3.359}

	crO1  = crippenType{"O1", 0.1552, 1.080}
	crO2  = crippenType{"O2", -0.2893, 0.8238}
	crO3  = crippenType{"O3", -0.0684, 1.085}
	crO4  = crippenType{"O4", -0.4195, 1.182}
	crO5  = crippenType{"O5", 0.0335, 3.367}
	crO6  = crippenType{"O6", -0.3339, 0.7774}
	crO7  = crippenType{"O7", -1.1890, 0.000}
	crO8  = crippenType{"O8", 0.1788, 3.135}
	crO9  = crippenType{"O9", -0.1526, 0.000}
	crO10 = crippenType{"O10", 0.1129, 0.2215}
	crO11 = crippenType{"O11", 0.4833, 0.389}
	crO12 = crippenType{"O12", -1.3260, 0.000}
	crOS  = crippenType{"OS", -0.1188, 0.6865}

	crF    = crippenType{"F", 0.4202, 1.108}
	crCl   = crippenType{"Cl", 0.6895, 5.853}
	crBr   = crippenType{"Br", 0.8456, 8.927}
	crI    = crippenType{"I", 0.8857, 14.02}
	crP    = crippenType{"P", 0.8612, 6.920}
	crS1   = crippenType{"S1", 0.6482, 7.591}
	crS2   = crippenType{"S2", -0.0024, 7.365}
	crS3   = crippenType{"S3", 0.6237, 6.691}
	crMe1  = crippenType{"Me1", -0.3808, 5.754}
	crZero = crippenType{"*", 0, 0}
)

// crippen sums atom contributions over heavy atoms and every attached
// hydrogen, explicit or implicit. Explicit H atoms are typed through their
// parent so the result does not depend on hydrogen representation.
func crippen(m *molecule.Molecule) (logP, mr float64) {
	add := func(t crippenType, n int) {
		logP += t.LogP * float64(n)
		mr += t.MR * float64(n)
	}
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.IsHydrogen() {
			if nbs := m.Neighbors(i); len(nbs) == 1 && !m.Atoms[nbs[0]].IsHydrogen() {
				continue // counted with the parent
			}
			add(crH1, 1)
			continue
		}
		add(crippenAtomType(m, i), 1)
		if h := m.TotalH(i); h > 0 {
			add(crippenHydrogenType(m, i), h)
		}
	}
	return logP, mr
}

// neighbourSummary collects what the typing rules look at around atom i.
type neighbourSummary struct {
	aromatic  int   // aromatic heavy neighbours
	hetero    int   // N O P S or halogen neighbours
	exotic    int   // neighbours outside C H N O P S and halogens
	double    []int // partners via non-aromatic double bonds
	triple    bool
	exoSingle []int // partners via non-aromatic single bonds
}

func summarize(m *molecule.Molecule, i int) neighbourSummary {
	var s neighbourSummary
	for _, bi := range m.AtomBonds(i) {
		b := &m.Bonds[bi]
		j := b.Other(i)
		nb := &m.Atoms[j]
		if nb.IsHydrogen() {
			continue
		}
		if nb.Aromatic {
			s.aromatic++
		}
		switch z := nb.AtomicNum(); {
		case z == 7 || z == 8 || z == 15 || z == 16 || molecule.IsHalogen(z):
			s.hetero++
		case z != 6:
			s.exotic++
		}
		if b.Aromatic {
			continue
		}
		switch b.Kekule {
		case molecule.BondDouble:
			s.double = append(s.double, j)
		case molecule.BondTriple, molecule.BondQuadruple:
			s.triple = true
		default:
			s.exoSingle = append(s.exoSingle, j)
		}
	}
	return s
}

func crippenAtomType(m *molecule.Molecule, i int) crippenType {
	a := &m.Atoms[i]
	switch a.AtomicNum() {
	case 6:
		return crippenCarbon(m, i)
	case 7:
		return crippenNitrogen(m, i)
	case 8:
		return crippenOxygen(m, i)
	case 9:
		return crF
	case 17:
		return crCl
	case 35:
		return crBr
	case 53:
		return crI
	case 15:
		return crP
	case 16:
		switch {
		case a.Aromatic:
			return crS3
		case a.Charge != 0:
			return crS2
		}
		return crS1
	case 0:
		return crZero
	}
	return crMe1
}

func crippenCarbon(m *molecule.Molecule, i int) crippenType {
	a := &m.Atoms[i]
	if a.Charge != 0 {
		return crCS
	}
	s := summarize(m, i)
	h := m.TotalH(i)

	if a.Aromatic {
		for _, j := range s.double {
			switch m.Atoms[j].AtomicNum() {
			case 6, 7, 8:
				return crC25
			}
		}
		for _, j := range s.exoSingle {
			nb := &m.Atoms[j]
			if nb.Aromatic {
				return crC20
			}
			switch nb.AtomicNum() {
			case 9:
				return crC14
			case 17:
				return crC15
			case 35:
				return crC16
			case 53:
				return crC17
			case 6:
				return crC21
			case 7:
				return crC22
			case 8:
				return crC23
			case 16:
				return crC24
			}
			return crC13
		}
		if h > 0 {
			return crC18
		}
		return crC19
	}

	if s.triple {
		return crC7
	}
	if len(s.double) > 0 {
		for _, j := range s.double {
			nb := &m.Atoms[j]
			if nb.AtomicNum() != 6 {
				return crC5
			}
			if nb.Aromatic {
				return crC26
			}
		}
		if s.aromatic > 0 {
			return crC26
		}
		return crC6
	}

	switch {
	case s.exotic > 0:
		return crC27
	case s.aromatic > 0:
		switch h {
		case 3, 4:
			for _, j := range m.Neighbors(i) {
				if m.Atoms[j].Aromatic && m.Atoms[j].AtomicNum() == 6 {
					return crC8
				}
			}
			return crC9
		case 2:
			return crC10
		case 1:
			return crC11
		}
		return crC12
	case s.hetero > 0:
		if h >= 2 {
			return crC3
		}
		return crC4
	case h >= 2:
		return crC1
	}
	return crC2
}

func crippenNitrogen(m *molecule.Molecule, i int) crippenType {
	a := &m.Atoms[i]
	h := m.TotalH(i)
	if a.Aromatic {
		if a.Charge > 0 {
			return crN12
		}
		return crN11
	}
	switch {
	case a.Charge > 0 && h > 0:
		return crN10
	case a.Charge > 0:
		return crN13
	case a.Charge < 0:
		return crN14
	}

	s := summarize(m, i)
	switch {
	case s.triple:
		return crN9
	case len(s.double) > 0:
		if h > 0 {
			return crN5
		}
		return crN6
	}
	switch {
	case h >= 2:
		if s.aromatic > 0 {
			return crN3
		}
		return crN1
	case h == 1:
		if s.aromatic > 0 {
			return crN4
		}
		return crN2
	}
	if s.aromatic > 0 {
		return crN8
	}
	return crN7
}

func crippenOxygen(m *molecule.Molecule, i int) crippenType {
	a := &m.Atoms[i]
	if a.Aromatic {
		return crO1
	}
	s := summarize(m, i)

	if a.Charge < 0 {
		if len(s.exoSingle) == 1 {
			nb := s.exoSingle[0]
			switch m.Atoms[nb].AtomicNum() {
			case 7:
				return crO5
			case 16:
				return crO6
			case 6:
				if carbonylCarbon(m, nb) {
					return crO12
				}
			}
		}
		return crO7
	}

	if len(s.double) == 1 {
		c := s.double[0]
		nb := &m.Atoms[c]
		switch {
		case nb.AtomicNum() == 7 || nb.AtomicNum() == 8:
			return crO5
		case nb.AtomicNum() != 6:
			return crOS
		case nb.Aromatic:
			return crO8
		}
		heteroOnly, arom := true, false
		others := 0
		for _, j := range m.Neighbors(c) {
			if j == i || m.Atoms[j].IsHydrogen() {
				continue
			}
			others++
			if m.Atoms[j].Aromatic {
				arom = true
			}
			if m.Atoms[j].AtomicNum() == 6 {
				heteroOnly = false
			}
		}
		switch {
		case arom:
			return crO10
		case others == 2 && heteroOnly:
			return crO11
		}
		return crO9
	}

	if m.TotalH(i) > 0 {
		return crO2
	}
	if s.aromatic > 0 {
		return crO4
	}
	return crO3
}

// carbonylCarbon reports whether carbon c carries a double bond to O.
func carbonylCarbon(m *molecule.Molecule, c int) bool {
	for _, bi := range m.AtomBonds(c) {
		b := &m.Bonds[bi]
		if b.Kekule == molecule.BondDouble && !b.Aromatic && m.Atoms[b.Other(c)].AtomicNum() == 8 {
			return true
		}
	}
	return false
}

// crippenHydrogenType classifies hydrogens by the heavy atom they sit on.
func crippenHydrogenType(m *molecule.Molecule, parent int) crippenType {
	switch m.Atoms[parent].AtomicNum() {
	case 6:
		return crH1
	case 7:
		return crH3
	case 8:
		for _, j := range m.Neighbors(parent) {
			nb := &m.Atoms[j]
			switch nb.AtomicNum() {
			case 7:
				return crH3
			case 8, 16:
				return crH4
			case 6:
				for _, bi := range m.AtomBonds(j) {
					b := &m.Bonds[bi]
					if b.Kekule != molecule.BondDouble || b.Aromatic {
						continue
					}
					switch m.Atoms[b.Other(j)].AtomicNum() {
					case 6, 7, 8, 16:
						return crH4
					}
				}
			}
		}
		return crH2
	}
	return crH2
}

//Personal.AI order the ending
