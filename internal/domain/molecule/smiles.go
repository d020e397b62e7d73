package molecule

import (
	"fmt"
	"strings"

	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// SMILES reader
//
// Supports the OpenSMILES feature set used in practice: the organic subset,
// bracket atoms (isotope, chirality, hydrogen count, charge, atom class),
// aromatic lowercase atoms, branches, ring closures (digits and %nn),
// bond symbols - = # $ : / \ and disconnected fragments joined by '.'.
// ─────────────────────────────────────────────────────────────────────────────

type pendingBond struct {
	set    bool
	order  BondOrder
	stereo BondStereo
}

// pendingRingRef reserves a chiral-order slot until the ring bond closes.
const pendingRingRef = -2

type ringOpening struct {
	atom int
	bond pendingBond
	slot int // index into the opening atom's ChiralRefs
}

type smilesParser struct {
	src   string
	pos   int
	mol   *Molecule
	prev  int
	bond  pendingBond
	stack []int
	rings map[int]ringOpening
}

func invalidSMILES(detail string, args ...interface{}) *errors.AppError {
	return errors.New(errors.ErrCodeMoleculeInvalidSMILES, "Invalid SMILES string").
		WithDetail(fmt.Sprintf(detail, args...))
}

// parseGraph builds the raw graph from SMILES text. No valence or aromaticity
// perception happens here.
func parseGraph(smiles string) (*Molecule, error) {
	src := strings.TrimSpace(smiles)
	if i := strings.IndexAny(src, " \t\r\n"); i >= 0 {
		src = src[:i]
	}
	if src == "" {
		return nil, invalidSMILES("empty input")
	}
	p := &smilesParser{
		src:   src,
		mol:   New(),
		prev:  -1,
		rings: make(map[int]ringOpening),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.mol, nil
}

func (p *smilesParser) run() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return invalidSMILES("branch opened before any atom at position %d", p.pos)
			}
			if p.bond.set {
				return invalidSMILES("bond symbol before branch at position %d", p.pos)
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return invalidSMILES("unbalanced ')' at position %d", p.pos)
			}
			if p.bond.set {
				return invalidSMILES("dangling bond before ')' at position %d", p.pos)
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			if p.prev < 0 {
				return invalidSMILES("empty fragment before '.' at position %d", p.pos)
			}
			if p.pos == len(p.src)-1 {
				return invalidSMILES("empty fragment after trailing '.'")
			}
			if p.bond.set {
				return invalidSMILES("bond symbol before '.' at position %d", p.pos)
			}
			if len(p.stack) > 0 {
				return invalidSMILES("'.' inside a branch at position %d", p.pos)
			}
			p.prev = -1
			p.pos++
		case strings.IndexByte("-=#$:/\\", c) >= 0:
			if p.bond.set {
				return invalidSMILES("two consecutive bond symbols at position %d", p.pos)
			}
			if p.prev < 0 {
				return invalidSMILES("bond symbol without a preceding atom at position %d", p.pos)
			}
			p.bond = bondFromSymbol(c)
			p.pos++
		case c >= '0' && c <= '9' || c == '%':
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}
	if len(p.stack) > 0 {
		return invalidSMILES("unclosed branch")
	}
	if p.bond.set {
		return invalidSMILES("dangling bond at end of input")
	}
	if len(p.rings) > 0 {
		for label := range p.rings {
			return invalidSMILES("unclosed ring bond %d", label)
		}
	}
	if p.mol.NumAtoms() == 0 {
		return invalidSMILES("no atoms")
	}
	return nil
}

func bondFromSymbol(c byte) pendingBond {
	switch c {
	case '=':
		return pendingBond{set: true, order: BondDouble}
	case '#':
		return pendingBond{set: true, order: BondTriple}
	case '$':
		return pendingBond{set: true, order: BondQuadruple}
	case ':':
		return pendingBond{set: true, order: BondAromatic}
	case '/':
		return pendingBond{set: true, order: BondSingle, stereo: StereoUp}
	case '\\':
		return pendingBond{set: true, order: BondSingle, stereo: StereoDown}
	}
	return pendingBond{set: true, order: BondSingle}
}

// addAtom appends a, bonds it to the previous atom and records chiral order.
func (p *smilesParser) addAtom(a Atom, bracketH bool) error {
	idx := p.mol.AddAtom(a)
	atom := &p.mol.Atoms[idx]
	if p.prev >= 0 {
		atom.ChiralRefs = append(atom.ChiralRefs, p.prev)
		if err := p.link(p.prev, idx, p.bond); err != nil {
			return err
		}
		prevAtom := &p.mol.Atoms[p.prev]
		prevAtom.ChiralRefs = append(prevAtom.ChiralRefs, idx)
	} else if p.bond.set {
		return invalidSMILES("bond symbol without a preceding atom")
	}
	if bracketH {
		atom.ChiralRefs = append(atom.ChiralRefs, ImplicitHydrogenRef)
	}
	p.bond = pendingBond{}
	p.prev = idx
	return nil
}

func (p *smilesParser) link(i, j int, pb pendingBond) error {
	order := BondSingle
	if pb.set {
		order = pb.order
	} else if p.mol.Atoms[i].Aromatic && p.mol.Atoms[j].Aromatic {
		order = BondAromatic
	}
	bi, err := p.mol.AddBond(i, j, order)
	if err != nil {
		return invalidSMILES("%s", err.Error())
	}
	p.mol.Bonds[bi].Stereo = pb.stereo
	return nil
}

func (p *smilesParser) ringClosure() error {
	if p.prev < 0 {
		return invalidSMILES("ring closure without an atom at position %d", p.pos)
	}
	var label int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return invalidSMILES("malformed %%nn ring closure at position %d", p.pos)
		}
		label = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		label = int(p.src[p.pos] - '0')
		p.pos++
	}

	cur := &p.mol.Atoms[p.prev]
	open, ok := p.rings[label]
	if !ok {
		p.rings[label] = ringOpening{atom: p.prev, bond: p.bond, slot: len(cur.ChiralRefs)}
		cur.ChiralRefs = append(cur.ChiralRefs, pendingRingRef)
		p.bond = pendingBond{}
		return nil
	}
	delete(p.rings, label)

	if open.atom == p.prev {
		return invalidSMILES("ring bond %d closes on its own atom", label)
	}
	pb := open.bond
	if p.bond.set {
		if pb.set && (pb.order != p.bond.order) {
			return invalidSMILES("conflicting bond orders for ring bond %d", label)
		}
		pb = p.bond
	}
	if err := p.link(open.atom, p.prev, pb); err != nil {
		return err
	}
	p.mol.Atoms[open.atom].ChiralRefs[open.slot] = p.prev
	cur.ChiralRefs = append(cur.ChiralRefs, open.atom)
	p.bond = pendingBond{}
	return nil
}

func (p *smilesParser) organicAtom() error {
	start := p.pos
	c := p.src[p.pos]
	var sym string
	aromatic := false
	switch {
	case c == '*':
		sym = "*"
		p.pos++
	case c == 'C' && p.peek(1) == 'l':
		sym = "Cl"
		p.pos += 2
	case c == 'B' && p.peek(1) == 'r':
		sym = "Br"
		p.pos += 2
	case strings.IndexByte("BCNOPSFI", c) >= 0:
		sym = string(c)
		p.pos++
	case strings.IndexByte("bcnops", c) >= 0:
		sym = strings.ToUpper(string(c))
		aromatic = true
		p.pos++
	default:
		return invalidSMILES("unexpected character %q at position %d", c, start)
	}
	el := MustElement(sym)
	return p.addAtom(Atom{Element: el, Aromatic: aromatic, NoImplicit: sym == "*"}, false)
}

func (p *smilesParser) bracketAtom() error {
	start := p.pos
	end := strings.IndexByte(p.src[p.pos:], ']')
	if end < 0 {
		return invalidSMILES("unclosed bracket atom at position %d", start)
	}
	body := p.src[p.pos+1 : p.pos+end]
	p.pos += end + 1

	i := 0
	isotope := 0
	for i < len(body) && isDigit(body[i]) {
		isotope = isotope*10 + int(body[i]-'0')
		i++
	}

	el, aromatic, n := readBracketSymbol(body[i:])
	if el == nil {
		return invalidSMILES("unknown element in bracket atom [%s]", body)
	}
	i += n

	chir := ChiralNone
	if i < len(body) && body[i] == '@' {
		chir = ChiralCCW
		i++
		switch {
		case i < len(body) && body[i] == '@':
			chir = ChiralCW
			i++
		case strings.HasPrefix(body[i:], "TH1"):
			i += 3
		case strings.HasPrefix(body[i:], "TH2"):
			chir = ChiralCW
			i += 3
		}
	}

	hcount := 0
	if i < len(body) && body[i] == 'H' {
		hcount = 1
		i++
		if i < len(body) && isDigit(body[i]) {
			hcount = int(body[i] - '0')
			i++
		}
	}

	charge := 0
	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		sym := body[i]
		i++
		mag := 1
		if i < len(body) && isDigit(body[i]) {
			mag = 0
			for i < len(body) && isDigit(body[i]) {
				mag = mag*10 + int(body[i]-'0')
				i++
			}
		} else {
			for i < len(body) && body[i] == sym {
				mag++
				i++
			}
		}
		charge = sign * mag
	}

	mapNum := 0
	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) || !isDigit(body[i]) {
			return invalidSMILES("malformed atom class in [%s]", body)
		}
		for i < len(body) && isDigit(body[i]) {
			mapNum = mapNum*10 + int(body[i]-'0')
			i++
		}
	}

	if i != len(body) {
		return invalidSMILES("unexpected %q in bracket atom [%s]", body[i:], body)
	}

	a := Atom{
		Element:    el,
		Isotope:    isotope,
		Charge:     charge,
		ExplicitH:  hcount,
		NoImplicit: true,
		Aromatic:   aromatic,
		Chirality:  chir,
		MapNum:     mapNum,
	}
	return p.addAtom(a, hcount > 0 && chir != ChiralNone)
}

// readBracketSymbol reads an element symbol at the start of s and returns the
// element, whether it was written aromatic, and the bytes consumed.
func readBracketSymbol(s string) (*Element, bool, int) {
	if s == "" {
		return nil, false, 0
	}
	if len(s) >= 2 {
		if e, ok := LookupElement(s[:2]); ok {
			return e, false, 2
		}
		if up, ok := aromaticSymbols[s[:2]]; ok {
			return MustElement(up), true, 2
		}
	}
	if e, ok := LookupElement(s[:1]); ok {
		return e, false, 1
	}
	if up, ok := aromaticSymbols[s[:1]]; ok {
		return MustElement(up), true, 1
	}
	return nil, false, 0
}

func (p *smilesParser) peek(off int) byte {
	if p.pos+off < len(p.src) {
		return p.src[p.pos+off]
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

//Personal.AI order the ending
