package molecule

import "github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"

// AddHydrogens returns a copy of m in which every implicit and bracket
// hydrogen becomes an explicit H atom. New atoms are appended after the
// heavy atoms, grouped by parent in parent order. Existing coordinates are
// dropped because the new atoms have none.
func AddHydrogens(m *Molecule) *Molecule {
	out := m.Clone()
	out.Conformer = nil
	hydrogen := MustElement("H")

	n := len(m.Atoms)
	for i := 0; i < n; i++ {
		count := out.Atoms[i].ImplicitH + out.Atoms[i].ExplicitH
		if count == 0 {
			continue
		}
		out.Atoms[i].ImplicitH = 0
		out.Atoms[i].ExplicitH = 0
		out.Atoms[i].NoImplicit = true

		first := -1
		for k := 0; k < count; k++ {
			h := out.AddAtom(Atom{Element: hydrogen, NoImplicit: true, Hybridization: HybridS})
			if first < 0 {
				first = h
			}
			// AddBond only fails on bad indices or duplicates, neither possible here.
			_, _ = out.AddBond(i, h, BondSingle)
		}
		refs := out.Atoms[i].ChiralRefs
		for k, r := range refs {
			if r == ImplicitHydrogenRef {
				refs[k] = first
			}
		}
	}
	return out
}

// removableHydrogen reports whether atom i is a plain hydrogen that
// RemoveHydrogens may fold into its neighbour.
func (m *Molecule) removableHydrogen(i int) bool {
	a := &m.Atoms[i]
	if !a.IsHydrogen() || a.Isotope != 0 || a.Charge != 0 || a.MapNum != 0 {
		return false
	}
	if m.Degree(i) != 1 {
		return false
	}
	return !m.Atoms[m.Neighbors(i)[0]].IsHydrogen()
}

// RemoveHydrogens returns a copy of m without explicit hydrogen atoms. Each
// removed hydrogen is folded into its parent's ExplicitH count so formulas
// and descriptors are unchanged. Coordinates of the kept atoms are preserved.
func RemoveHydrogens(m *Molecule) *Molecule {
	remap := make([]int, len(m.Atoms))
	out := New()
	for i := range m.Atoms {
		if m.removableHydrogen(i) {
			remap[i] = -1
			continue
		}
		a := m.Atoms[i]
		a.ChiralRefs = append([]int(nil), a.ChiralRefs...)
		remap[i] = out.AddAtom(a)
	}

	for i := range m.Atoms {
		if remap[i] >= 0 {
			continue
		}
		parent := remap[m.Neighbors(i)[0]]
		out.Atoms[parent].ExplicitH++
		out.Atoms[parent].NoImplicit = true
	}

	for i := range out.Atoms {
		refs := out.Atoms[i].ChiralRefs
		for k, r := range refs {
			if r >= 0 {
				if remap[r] >= 0 {
					refs[k] = remap[r]
				} else {
					refs[k] = ImplicitHydrogenRef
				}
			}
		}
	}

	for _, b := range m.Bonds {
		if remap[b.Begin] < 0 || remap[b.End] < 0 {
			continue
		}
		bi, _ := out.AddBond(remap[b.Begin], remap[b.End], b.Order)
		nb := &out.Bonds[bi]
		nb.Kekule = b.Kekule
		nb.Aromatic = b.Aromatic
		nb.Conjugated = b.Conjugated
		nb.InRing = b.InRing
		nb.Stereo = b.Stereo
	}

	for _, ring := range m.Rings {
		atoms := make([]int, len(ring))
		for k, a := range ring {
			atoms[k] = remap[a]
		}
		bonds := make([]int, len(atoms))
		for k := range atoms {
			bonds[k] = out.BondBetween(atoms[k], atoms[(k+1)%len(atoms)])
		}
		out.Rings = append(out.Rings, atoms)
		out.RingBonds = append(out.RingBonds, bonds)
	}

	if m.Conformer != nil {
		pos := make([]geometry.Vec3, 0, len(out.Atoms))
		for i, p := range m.Conformer.Positions {
			if remap[i] >= 0 {
				pos = append(pos, p)
			}
		}
		out.Conformer = &Conformer{Positions: pos, Is3D: m.Conformer.Is3D}
	}
	return out
}

//Personal.AI order the ending
