// Package descriptor computes the fixed molecular descriptor table reported
// for every processed molecule: masses and formula, Crippen logP and molar
// refractivity, polar surface area, hydrogen-bond counts, ring counts, QED
// and the Lipinski rule-of-five flags.
package descriptor

import (
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

// Lipinski rule-of-five thresholds; a value strictly above the limit is a
// violation.
const (
	LipinskiMaxDonors    = 5
	LipinskiMaxAcceptors = 10
	LipinskiMaxWeight    = 500.0
	LipinskiMaxLogP      = 5.0
)

// Calculate computes the descriptor table of m. Hydrogens may be implicit or
// explicit; every value except AtomCounts and RotatableBondCount is the same
// either way. RotatableBondCount uses the strict rule, so terminal methyl and
// hydroxyl rotors only count once their hydrogens are explicit. The molecule
// is not modified.
func Calculate(m *molecule.Molecule) (*moltypes.Descriptors, error) {
	if m == nil || m.NumAtoms() == 0 {
		return nil, errors.New(errors.ErrCodeDescriptorFailed, "molecule has no atoms")
	}

	mw := averageMass(m)
	logP, mr := crippen(m)
	donors := hBondDonors(m)
	acceptors := hBondAcceptors(m)

	d := &moltypes.Descriptors{
		MolecularWeight:    geometry.Round(mw, 2),
		HeavyAtomCount:     heavyAtomCount(m),
		AromaticAtomCount:  aromaticAtomCount(m),
		LogP:               geometry.Round(logP, 2),
		MolMR:              geometry.Round(mr, 2),
		TPSA:               geometry.Round(tpsa(m), 2),
		RotatableBondCount: strictRotatableBonds(m),
		HBondDonorCount:    donors,
		HBondAcceptorCount: acceptors,
		RingCount:          len(m.Rings),
		AromaticRingCount:  m.AromaticRingCount(),
		QEDScore:           geometry.Round(qed(qedProperties(m)), 3),
		LipinskiHBD:        donors > LipinskiMaxDonors,
		LipinskiHBA:        acceptors > LipinskiMaxAcceptors,
		LipinskiMWT:        mw > LipinskiMaxWeight,
		LipinskiLogP:       logP > LipinskiMaxLogP,
		AtomCounts:         atomCounts(m),
		Formula:            formula(m),
		ExactMass:          geometry.Round(exactMass(m), 4),
	}
	d.LipinskiViolations = LipinskiViolations(d)
	return d, nil
}

// LipinskiViolations counts the true Lipinski flags of d.
func LipinskiViolations(d *moltypes.Descriptors) int {
	n := 0
	for _, v := range []bool{d.LipinskiHBD, d.LipinskiHBA, d.LipinskiMWT, d.LipinskiLogP} {
		if v {
			n++
		}
	}
	return n
}

// Properties exposes the raw QED inputs, for diagnostics and the CLI.
func Properties(m *molecule.Molecule) QEDProperties {
	return qedProperties(m)
}

func heavyAtomCount(m *molecule.Molecule) int {
	n := 0
	for i := range m.Atoms {
		if m.Atoms[i].AtomicNum() > 1 {
			n++
		}
	}
	return n
}

func aromaticAtomCount(m *molecule.Molecule) int {
	n := 0
	for i := range m.Atoms {
		if m.Atoms[i].Aromatic {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
