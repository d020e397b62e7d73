package descriptor

import "github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"

// polarEnvironment is the bond/hydrogen signature of an N or O atom used to
// look up its Ertl polar surface contribution.
type polarEnvironment struct {
	single, double, triple, aromatic int
	hydrogens                        int
	charge                           int
	inThreeRing                      bool
}

func polarEnv(m *molecule.Molecule, i int) polarEnvironment {
	env := polarEnvironment{
		hydrogens: m.TotalH(i),
		charge:    m.Atoms[i].Charge,
	}
	for _, bi := range m.AtomBonds(i) {
		b := &m.Bonds[bi]
		if m.Atoms[b.Other(i)].IsHydrogen() {
			continue
		}
		switch {
		case b.Aromatic:
			env.aromatic++
		case b.Kekule == molecule.BondDouble:
			env.double++
		case b.Kekule >= molecule.BondTriple:
			env.triple++
		default:
			env.single++
		}
	}
	for _, ri := range m.AtomRings(i) {
		if len(m.Rings[ri]) == 3 {
			env.inThreeRing = true
		}
	}
	return env
}

func (e polarEnvironment) heavy() int { return e.single + e.double + e.triple + e.aromatic }

func (e polarEnvironment) is(single, double, triple, aromatic, hydrogens int) bool {
	return e.single == single && e.double == double && e.triple == triple &&
		e.aromatic == aromatic && e.hydrogens == hydrogens
}

// tpsa returns the topological polar surface area (Ertl et al. 2000) using
// nitrogen and oxygen contributions only.
func tpsa(m *molecule.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		switch m.Atoms[i].AtomicNum() {
		case 7:
			total += nitrogenPSA(polarEnv(m, i))
		case 8:
			total += oxygenPSA(polarEnv(m, i))
		}
	}
	return total
}

func nitrogenPSA(e polarEnvironment) float64 {
	switch e.charge {
	case 0:
		switch {
		case e.is(3, 0, 0, 0, 0):
			if e.inThreeRing {
				return 3.01
			}
			return 3.24
		case e.is(1, 1, 0, 0, 0):
			return 12.36
		case e.is(0, 0, 1, 0, 0):
			return 23.79
		case e.is(1, 2, 0, 0, 0):
			return 11.68
		case e.is(0, 1, 1, 0, 0):
			return 13.60
		case e.is(2, 0, 0, 0, 1):
			if e.inThreeRing {
				return 21.94
			}
			return 12.03
		case e.is(0, 1, 0, 0, 1):
			return 23.85
		case e.is(1, 0, 0, 0, 2):
			return 26.02
		case e.is(0, 0, 0, 2, 0):
			return 12.89
		case e.is(0, 0, 0, 3, 0):
			return 4.41
		case e.is(1, 0, 0, 2, 0):
			return 4.93
		case e.is(0, 1, 0, 2, 0):
			return 8.39
		case e.is(0, 0, 0, 2, 1):
			return 15.79
		}
	case 1:
		switch {
		case e.is(4, 0, 0, 0, 0):
			return 0.00
		case e.is(2, 1, 0, 0, 0):
			return 3.01
		case e.is(1, 0, 1, 0, 0):
			return 4.36
		case e.is(0, 2, 0, 0, 0):
			return 13.60
		case e.is(3, 0, 0, 0, 1):
			return 4.44
		case e.is(1, 1, 0, 0, 1):
			return 13.97
		case e.is(2, 0, 0, 0, 2):
			return 16.61
		case e.is(0, 1, 0, 0, 2):
			return 25.59
		case e.is(1, 0, 0, 0, 3):
			return 27.64
		case e.is(0, 0, 0, 3, 0):
			return 4.10
		case e.is(1, 0, 0, 2, 0):
			return 3.88
		case e.is(0, 0, 0, 2, 1):
			return 14.14
		}
	}
	return fallbackPSA(30.5, 8.2, e)
}

func oxygenPSA(e polarEnvironment) float64 {
	switch e.charge {
	case 0:
		switch {
		case e.is(2, 0, 0, 0, 0):
			if e.inThreeRing {
				return 12.53
			}
			return 9.23
		case e.is(0, 1, 0, 0, 0):
			return 17.07
		case e.is(1, 0, 0, 0, 1):
			return 20.23
		case e.is(0, 0, 0, 2, 0):
			return 13.14
		}
	case -1:
		if e.is(1, 0, 0, 0, 0) {
			return 23.06
		}
	}
	return fallbackPSA(28.5, 8.6, e)
}

// fallbackPSA estimates environments missing from the Ertl table.
func fallbackPSA(base, perNeighbour float64, e polarEnvironment) float64 {
	v := base - perNeighbour*float64(e.heavy()) + 1.5*float64(e.hydrogens)
	if v < 0 {
		return 0
	}
	return v
}

//Personal.AI order the ending
