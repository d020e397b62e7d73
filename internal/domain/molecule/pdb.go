package molecule

import (
	"fmt"
	"strings"

	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// WritePDB renders the molecule's conformer as a PDB block: one HETATM
// record per atom (residue UNL 1, atom names symbol+per-element counter),
// CONECT records listing every bond (multiple bonds repeated per order) and
// a closing END line.
func WritePDB(m *Molecule) (string, error) {
	pos := m.Positions()
	if pos == nil {
		return "", errors.New(errors.ErrCodeEmbeddingFailed, "molecule has no coordinates")
	}

	var sb strings.Builder
	counts := make(map[string]int)
	for i := range m.Atoms {
		a := &m.Atoms[i]
		sym := a.Symbol()
		counts[sym]++
		name := fmt.Sprintf("%s%d", sym, counts[sym])
		if len(sym) == 1 && len(name) < 4 {
			name = " " + name
		}
		if len(name) > 4 {
			name = name[:4]
		}
		fmt.Fprintf(&sb, "%-6s%5d %-4s%1s%3s %1s%4d%1s   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s%2s\n",
			"HETATM", i+1, name, "", "UNL", "", 1, "",
			pos[i].X, pos[i].Y, pos[i].Z, 1.0, 0.0,
			strings.ToUpper(sym), pdbCharge(a.Charge))
	}

	for i := range m.Atoms {
		var partners []int
		for _, bi := range m.AtomBonds(i) {
			b := &m.Bonds[bi]
			repeat := int(b.Kekule.Valence())
			if repeat < 1 {
				repeat = 1
			}
			for k := 0; k < repeat; k++ {
				partners = append(partners, b.Other(i)+1)
			}
		}
		for start := 0; start < len(partners); start += 4 {
			end := start + 4
			if end > len(partners) {
				end = len(partners)
			}
			fmt.Fprintf(&sb, "CONECT%5d", i+1)
			for _, p := range partners[start:end] {
				fmt.Fprintf(&sb, "%5d", p)
			}
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("END\n")
	return sb.String(), nil
}

func pdbCharge(q int) string {
	switch {
	case q > 0:
		return fmt.Sprintf("%d+", q)
	case q < 0:
		return fmt.Sprintf("%d-", -q)
	}
	return ""
}

//Personal.AI order the ending
