package descriptor

import (
	"math"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
)

// adsParams are the asymmetric double sigmoid parameters of one QED property
// (Bickerton et al., Nature Chemistry 2012).
type adsParams struct {
	A, B, C, D, E, F, DMax float64
}

var (
	adsMW     = adsParams{2.817065973, 392.5754953, 290.7489764, 2.419764353, 49.22325677, 65.37051707, 104.9805561}
	adsALogP  = adsParams{3.172690585, 137.8624751, 2.534937431, 4.581497897, 0.822739154, 0.576295591, 131.3186604}
	adsHBA    = adsParams{2.948620388, 160.4605972, 3.615294657, 4.435986202, 0.290141953, 1.300669958, 148.7763046}
	adsHBD    = adsParams{1.618662227, 1010.051101, 0.985094388, 0.000000001, 0.713820843, 0.920922555, 258.1632616}
	adsPSA    = adsParams{1.876861559, 125.2232657, 62.90773554, 87.83366614, 12.01999824, 28.51324732, 104.5686167}
	adsROTB   = adsParams{0.010000000, 272.4121427, 2.558379970, 1.565547684, 1.271567166, 2.758063707, 105.4420403}
	adsAROM   = adsParams{3.217788970, 957.7374108, 2.274627939, 0.000000001, 1.317690384, 0.375760881, 312.3372610}
	adsALERTS = adsParams{0.010000000, 1199.094025, -0.09002883, 0.000000001, 0.185904477, 0.875193782, 417.7253140}
)

// qedMeanWeights are the "mean" weights used by the default QED score, in
// the order MW, ALOGP, HBA, HBD, PSA, ROTB, AROM, ALERTS.
var qedMeanWeights = [8]float64{0.66, 0.46, 0.05, 0.61, 0.06, 0.65, 0.48, 0.95}

func (p adsParams) desirability(x float64) float64 {
	rise := 1 / (1 + math.Exp(-(x-p.C+p.D/2)/p.E))
	fall := 1 - 1/(1+math.Exp(-(x-p.C-p.D/2)/p.F))
	return (p.A + p.B*rise*fall) / p.DMax
}

// QEDProperties are the eight raw inputs of the QED score.
type QEDProperties struct {
	MW             float64
	ALogP          float64
	HBA            int
	HBD            int
	PSA            float64
	RotatableBonds int
	AromaticRings  int
	Alerts         int
}

// qedProperties computes QED inputs on the hydrogen-suppressed graph.
func qedProperties(m *molecule.Molecule) QEDProperties {
	h := m
	if m.HasHydrogenAtoms() {
		h = molecule.RemoveHydrogens(m)
	}
	logP, _ := crippen(h)
	return QEDProperties{
		MW:             averageMass(h),
		ALogP:          logP,
		HBA:            qedAcceptors(h),
		HBD:            hBondDonors(h),
		PSA:            tpsa(h),
		RotatableBonds: strictRotatableBonds(h),
		AromaticRings:  h.AromaticRingCount(),
		Alerts:         structuralAlerts(h),
	}
}

// qed returns the weighted quantitative estimate of drug-likeness.
func qed(p QEDProperties) float64 {
	d := [8]float64{
		adsMW.desirability(p.MW),
		adsALogP.desirability(p.ALogP),
		adsHBA.desirability(float64(p.HBA)),
		adsHBD.desirability(float64(p.HBD)),
		adsPSA.desirability(p.PSA),
		adsROTB.desirability(float64(p.RotatableBonds)),
		adsAROM.desirability(float64(p.AromaticRings)),
		adsALERTS.desirability(float64(p.Alerts)),
	}
	sum, wsum := 0.0, 0.0
	for i, w := range qedMeanWeights {
		sum += w * math.Log(math.Max(d[i], 1e-12))
		wsum += w
	}
	return math.Exp(sum / wsum)
}

// qedAcceptors counts acceptors with the QED pattern set, which differs from
// the Lipinski rules in how it treats hydroxyls and amide nitrogens.
func qedAcceptors(m *molecule.Molecule) int {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		h := m.TotalH(i)
		conn := m.Degree(i) + a.ImplicitH + a.ExplicitH
		v := m.TotalValence(i)
		switch a.AtomicNum() {
		case 8:
			switch {
			case a.Aromatic:
				if h == 0 && conn == 2 {
					n++
				}
			case a.Charge < 0:
				if conn == 1 {
					n++
				}
			case v == 2 && (h == 1 && conn == 2 || h == 0 && (conn == 1 || conn == 2)):
				n++
			}
		case 16:
			switch {
			case a.Aromatic:
			case a.Charge < 0:
				if conn == 1 {
					n++
				}
			case v == 2 && h == 0 && (conn == 1 || conn == 2):
				n++
			}
		case 7:
			switch {
			case a.Aromatic:
				if h == 0 && conn == 2 {
					n++
				}
			case a.Charge != 0 || v != 3:
			case h == 0 && conn == 1:
				n++
			case conn == 3 && !acylNitrogen(m, i):
				n++
			}
		}
	}
	return n
}

// acylNitrogen reports N bonded to C or S that carries a double bond to O.
func acylNitrogen(m *molecule.Molecule, i int) bool {
	for _, j := range heavyNeighbors(m, i) {
		z := m.Atoms[j].AtomicNum()
		if (z == 6 || z == 16) && hasExoDoubleTo(m, j, -1, 8) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
