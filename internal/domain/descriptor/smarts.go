package descriptor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// SMARTS subset
//
// Atom primitives: * a A, element symbols (lowercase for aromatic), #n,
// H<n> D<n> X<n> v<n> R<n> r<n>, charges, isotopes and recursive $(...).
// Bond primitives: - = # : ~ @ / \. Both accept ! & , ; with the usual
// precedence. Ring closures, branches and '.' components are supported;
// chirality and component-level grouping are not.
// ─────────────────────────────────────────────────────────────────────────────

// smartsTarget caches the per-atom ring data a pattern search reads.
type smartsTarget struct {
	m         *molecule.Molecule
	all       []int
	ringCount []int
	minRing   []int
}

func newSMARTSTarget(m *molecule.Molecule) *smartsTarget {
	n := m.NumAtoms()
	t := &smartsTarget{
		m:         m,
		all:       make([]int, n),
		ringCount: make([]int, n),
		minRing:   make([]int, n),
	}
	for i := range t.all {
		t.all[i] = i
	}
	for _, ring := range m.Rings {
		for _, a := range ring {
			t.ringCount[a]++
			if t.minRing[a] == 0 || len(ring) < t.minRing[a] {
				t.minRing[a] = len(ring)
			}
		}
	}
	return t
}

type atomRef struct {
	t *smartsTarget
	i int
}

func (r atomRef) atom() *molecule.Atom { return &r.t.m.Atoms[r.i] }

type (
	atomPredicate = func(atomRef) bool
	bondPredicate = func(*molecule.Bond) bool
)

type smartsBond struct {
	a, b int
	pred bondPredicate
}

type smartsPattern struct {
	source string
	atoms  []atomPredicate
	bonds  []smartsBond
	adj    [][]int
}

// matches reports whether p occurs in t. A non-negative anchor pins the
// first pattern atom to that target atom.
func (p *smartsPattern) matches(t *smartsTarget, anchor int) bool {
	if len(p.atoms) == 0 || len(p.atoms) > len(t.all) {
		return false
	}
	mapping := make([]int, len(p.atoms))
	used := make([]bool, len(t.all))
	return p.extend(t, 0, anchor, mapping, used)
}

func (p *smartsPattern) extend(t *smartsTarget, k, anchor int, mapping []int, used []bool) bool {
	if k == len(p.atoms) {
		return true
	}
	for _, i := range p.candidates(t, k, anchor, mapping) {
		if used[i] || !p.atoms[k](atomRef{t, i}) || !p.bondsAgree(t, k, i, mapping) {
			continue
		}
		mapping[k] = i
		used[i] = true
		if p.extend(t, k+1, anchor, mapping, used) {
			return true
		}
		used[i] = false
	}
	return false
}

func (p *smartsPattern) candidates(t *smartsTarget, k, anchor int, mapping []int) []int {
	if k == 0 && anchor >= 0 {
		return []int{anchor}
	}
	for _, bi := range p.adj[k] {
		b := p.bonds[bi]
		if j := b.a + b.b - k; j < k {
			return t.m.Neighbors(mapping[j])
		}
	}
	return t.all
}

func (p *smartsPattern) bondsAgree(t *smartsTarget, k, i int, mapping []int) bool {
	for _, bi := range p.adj[k] {
		b := p.bonds[bi]
		j := b.a + b.b - k
		if j >= k {
			continue
		}
		tb := t.m.BondBetween(mapping[j], i)
		if tb < 0 || !b.pred(&t.m.Bonds[tb]) {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Pattern reader
// ─────────────────────────────────────────────────────────────────────────────

type smartsRing struct {
	atom int
	bond bondPredicate
}

type smartsParser struct {
	src   string
	pos   int
	pat   *smartsPattern
	prev  int
	bond  bondPredicate
	stack []int
	rings map[int]smartsRing
}

func invalidSMARTS(src, detail string, args ...interface{}) *errors.AppError {
	return errors.New(errors.ErrCodeDescriptorFailed, "invalid substructure pattern").
		WithDetail(fmt.Sprintf("%s: %s", src, fmt.Sprintf(detail, args...)))
}

func compileSMARTS(src string) (*smartsPattern, error) {
	p := &smartsParser{
		src:   src,
		pat:   &smartsPattern{source: src},
		prev:  -1,
		rings: make(map[int]smartsRing),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.pat, nil
}

func mustCompileSMARTS(src string) *smartsPattern {
	p, err := compileSMARTS(src)
	if err != nil {
		panic(err)
	}
	return p
}

const smartsBondChars = "-=#:~@!/\\&,;"

func (p *smartsParser) run() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return invalidSMARTS(p.src, "branch before any atom at %d", p.pos)
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return invalidSMARTS(p.src, "unbalanced ')' at %d", p.pos)
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			p.prev = -1
			p.pos++
		case strings.IndexByte(smartsBondChars, c) >= 0:
			start := p.pos
			for p.pos < len(p.src) && strings.IndexByte(smartsBondChars, p.src[p.pos]) >= 0 {
				p.pos++
			}
			pred, err := compileBondExpr(p.src[start:p.pos])
			if err != nil {
				return invalidSMARTS(p.src, "%v", err)
			}
			p.bond = pred
		case isDigitByte(c) || c == '%':
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			end := closingBracket(p.src, p.pos)
			if end < 0 {
				return invalidSMARTS(p.src, "unclosed '[' at %d", p.pos)
			}
			pred, err := compileAtomExpr(p.src[p.pos+1 : end])
			if err != nil {
				return invalidSMARTS(p.src, "%v", err)
			}
			p.addAtom(pred)
			p.pos = end + 1
		default:
			pred, n := organicSMARTSAtom(p.src[p.pos:])
			if n == 0 {
				return invalidSMARTS(p.src, "unexpected %q at %d", c, p.pos)
			}
			p.addAtom(pred)
			p.pos += n
		}
	}
	if len(p.stack) > 0 || len(p.rings) > 0 {
		return invalidSMARTS(p.src, "unclosed branch or ring")
	}
	return nil
}

func (p *smartsParser) addAtom(pred atomPredicate) {
	idx := len(p.pat.atoms)
	p.pat.atoms = append(p.pat.atoms, pred)
	p.pat.adj = append(p.pat.adj, nil)
	if p.prev >= 0 {
		p.link(p.prev, idx, p.bond)
	}
	p.bond = nil
	p.prev = idx
}

func (p *smartsParser) link(a, b int, pred bondPredicate) {
	if pred == nil {
		pred = defaultBond
	}
	bi := len(p.pat.bonds)
	p.pat.bonds = append(p.pat.bonds, smartsBond{a: a, b: b, pred: pred})
	p.pat.adj[a] = append(p.pat.adj[a], bi)
	p.pat.adj[b] = append(p.pat.adj[b], bi)
}

func (p *smartsParser) ringClosure() error {
	if p.prev < 0 {
		return invalidSMARTS(p.src, "ring closure before any atom at %d", p.pos)
	}
	var label int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigitByte(p.src[p.pos+1]) || !isDigitByte(p.src[p.pos+2]) {
			return invalidSMARTS(p.src, "bad ring label at %d", p.pos)
		}
		label = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		label = int(p.src[p.pos] - '0')
		p.pos++
	}
	if open, ok := p.rings[label]; ok {
		pred := p.bond
		if pred == nil {
			pred = open.bond
		}
		p.link(open.atom, p.prev, pred)
		delete(p.rings, label)
	} else {
		p.rings[label] = smartsRing{atom: p.prev, bond: p.bond}
	}
	p.bond = nil
	return nil
}

func closingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

func defaultBond(b *molecule.Bond) bool {
	return b.Aromatic || b.Kekule == molecule.BondSingle
}

// organicSMARTSAtom reads an atom written outside brackets and returns the
// number of bytes consumed, or 0.
func organicSMARTSAtom(s string) (atomPredicate, int) {
	if len(s) >= 2 && (s[:2] == "Cl" || s[:2] == "Br") {
		return elementPredicate(molecule.MustElement(s[:2]).Number, false), 2
	}
	switch c := s[0]; c {
	case '*':
		return func(atomRef) bool { return true }, 1
	case 'a':
		return func(r atomRef) bool { return r.atom().Aromatic }, 1
	case 'A':
		return func(r atomRef) bool { return !r.atom().Aromatic }, 1
	case 'B', 'C', 'N', 'O', 'P', 'S', 'F', 'I':
		return elementPredicate(molecule.MustElement(string(c)).Number, false), 1
	case 'b', 'c', 'n', 'o', 'p', 's':
		return elementPredicate(molecule.MustElement(strings.ToUpper(string(c))).Number, true), 1
	}
	return nil, 0
}

func elementPredicate(z int, aromatic bool) atomPredicate {
	return func(r atomRef) bool {
		a := r.atom()
		return a.AtomicNum() == z && a.Aromatic == aromatic
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Logical expressions
// ─────────────────────────────────────────────────────────────────────────────

// logicParser reads "!", "&", "," and ";" around primitives read by the
// supplied callback. Precedence from high to low: "!", implicit or "&",
// ",", ";".
type logicParser[T any] struct {
	src       string
	pos       int
	primitive func(*logicParser[T]) (func(T) bool, error)
}

func (l *logicParser[T]) parse() (func(T) bool, error) {
	pred, err := l.lowAnd()
	if err != nil {
		return nil, err
	}
	if l.pos != len(l.src) {
		return nil, fmt.Errorf("unexpected %q in %q", l.src[l.pos], l.src)
	}
	return pred, nil
}

func (l *logicParser[T]) lowAnd() (func(T) bool, error) {
	left, err := l.or()
	for err == nil && l.peek() == ';' {
		l.pos++
		var right func(T) bool
		if right, err = l.or(); err == nil {
			left = andPredicate(left, right)
		}
	}
	return left, err
}

func (l *logicParser[T]) or() (func(T) bool, error) {
	left, err := l.highAnd()
	for err == nil && l.peek() == ',' {
		l.pos++
		var right func(T) bool
		if right, err = l.highAnd(); err == nil {
			left = orPredicate(left, right)
		}
	}
	return left, err
}

func (l *logicParser[T]) highAnd() (func(T) bool, error) {
	left, err := l.unary()
	for err == nil && l.pos < len(l.src) && l.peek() != ',' && l.peek() != ';' {
		if l.peek() == '&' {
			l.pos++
		}
		var right func(T) bool
		if right, err = l.unary(); err == nil {
			left = andPredicate(left, right)
		}
	}
	return left, err
}

func (l *logicParser[T]) unary() (func(T) bool, error) {
	if l.peek() == '!' {
		l.pos++
		inner, err := l.unary()
		if err != nil {
			return nil, err
		}
		return func(v T) bool { return !inner(v) }, nil
	}
	if l.pos >= len(l.src) {
		return nil, fmt.Errorf("expression %q ends early", l.src)
	}
	return l.primitive(l)
}

func (l *logicParser[T]) peek() byte {
	if l.pos < len(l.src) {
		return l.src[l.pos]
	}
	return 0
}

// number reads an optional unsigned integer, returning def when absent.
func (l *logicParser[T]) number(def int) int {
	start := l.pos
	for l.pos < len(l.src) && isDigitByte(l.src[l.pos]) {
		l.pos++
	}
	if start == l.pos {
		return def
	}
	n, _ := strconv.Atoi(l.src[start:l.pos])
	return n
}

func andPredicate[T any](a, b func(T) bool) func(T) bool {
	return func(v T) bool { return a(v) && b(v) }
}

func orPredicate[T any](a, b func(T) bool) func(T) bool {
	return func(v T) bool { return a(v) || b(v) }
}

// ─────────────────────────────────────────────────────────────────────────────
// Bond primitives
// ─────────────────────────────────────────────────────────────────────────────

func compileBondExpr(src string) (bondPredicate, error) {
	l := &logicParser[*molecule.Bond]{src: src, primitive: bondPrimitive}
	return l.parse()
}

func bondPrimitive(l *logicParser[*molecule.Bond]) (bondPredicate, error) {
	c := l.src[l.pos]
	l.pos++
	switch c {
	case '-', '/', '\\':
		return func(b *molecule.Bond) bool { return !b.Aromatic && b.Kekule == molecule.BondSingle }, nil
	case '=':
		return func(b *molecule.Bond) bool { return !b.Aromatic && b.Kekule == molecule.BondDouble }, nil
	case '#':
		return func(b *molecule.Bond) bool { return !b.Aromatic && b.Kekule == molecule.BondTriple }, nil
	case ':':
		return func(b *molecule.Bond) bool { return b.Aromatic }, nil
	case '~':
		return func(*molecule.Bond) bool { return true }, nil
	case '@':
		return func(b *molecule.Bond) bool { return b.InRing }, nil
	}
	return nil, fmt.Errorf("unknown bond primitive %q", c)
}

// ─────────────────────────────────────────────────────────────────────────────
// Atom primitives
// ─────────────────────────────────────────────────────────────────────────────

func compileAtomExpr(src string) (atomPredicate, error) {
	// A lone [H] or [2H] names hydrogen rather than a hydrogen count.
	if trimmed := strings.TrimLeft(src, "0123456789"); trimmed == "H" || strings.HasPrefix(trimmed, "H+") || strings.HasPrefix(trimmed, "H-") {
		iso := 0
		if len(trimmed) < len(src) {
			iso, _ = strconv.Atoi(src[:len(src)-len(trimmed)])
		}
		rest, err := compileOptionalAtomExpr(trimmed[1:])
		if err != nil {
			return nil, err
		}
		return func(r atomRef) bool {
			a := r.atom()
			return a.IsHydrogen() && (iso == 0 || a.Isotope == iso) && rest(r)
		}, nil
	}
	l := &logicParser[atomRef]{src: src, primitive: atomPrimitive}
	return l.parse()
}

func compileOptionalAtomExpr(src string) (atomPredicate, error) {
	if src == "" {
		return func(atomRef) bool { return true }, nil
	}
	l := &logicParser[atomRef]{src: src, primitive: atomPrimitive}
	return l.parse()
}

var aromaticTwoLetter = map[string]bool{"se": true, "as": true, "te": true}

func atomPrimitive(l *logicParser[atomRef]) (atomPredicate, error) {
	s := l.src[l.pos:]
	c := s[0]

	switch {
	case strings.HasPrefix(s, "$("):
		end := closingParen(s, 1)
		if end < 0 {
			return nil, fmt.Errorf("unclosed recursive pattern in %q", l.src)
		}
		inner, err := compileSMARTS(s[2:end])
		if err != nil {
			return nil, err
		}
		l.pos += end + 1
		return func(r atomRef) bool { return inner.matches(r.t, r.i) }, nil
	case isDigitByte(c):
		iso := l.number(0)
		return func(r atomRef) bool { return r.atom().Isotope == iso }, nil
	case c == '#':
		l.pos++
		z := l.number(-1)
		if z < 0 {
			return nil, fmt.Errorf("'#' without atomic number in %q", l.src)
		}
		return func(r atomRef) bool { return r.atom().AtomicNum() == z }, nil
	case c == '*':
		l.pos++
		return func(atomRef) bool { return true }, nil
	case c == '+' || c == '-':
		return chargePrimitive(l), nil
	}

	if c >= 'A' && c <= 'Z' {
		if len(s) >= 2 && s[1] >= 'a' && s[1] <= 'z' {
			if e, ok := molecule.LookupElement(s[:2]); ok {
				l.pos += 2
				return elementPredicate(e.Number, false), nil
			}
		}
		switch c {
		case 'A':
			l.pos++
			return func(r atomRef) bool { return !r.atom().Aromatic }, nil
		case 'H':
			l.pos++
			n := l.number(1)
			return func(r atomRef) bool { return r.t.m.TotalH(r.i) == n }, nil
		case 'D':
			l.pos++
			n := l.number(1)
			return func(r atomRef) bool { return r.t.m.Degree(r.i) == n }, nil
		case 'X':
			l.pos++
			n := l.number(1)
			return func(r atomRef) bool {
				a := r.atom()
				return r.t.m.Degree(r.i)+a.ImplicitH+a.ExplicitH == n
			}, nil
		case 'R':
			l.pos++
			n := l.number(-1)
			if n < 0 {
				return func(r atomRef) bool { return r.atom().InRing }, nil
			}
			return func(r atomRef) bool { return r.t.ringCount[r.i] == n }, nil
		}
		if e, ok := molecule.LookupElement(string(c)); ok {
			l.pos++
			return elementPredicate(e.Number, false), nil
		}
		return nil, fmt.Errorf("unknown atom primitive %q in %q", c, l.src)
	}

	if len(s) >= 2 && aromaticTwoLetter[s[:2]] {
		l.pos += 2
		return elementPredicate(molecule.MustElement(strings.ToUpper(s[:1])+s[1:2]).Number, true), nil
	}
	switch c {
	case 'a':
		l.pos++
		return func(r atomRef) bool { return r.atom().Aromatic }, nil
	case 'b', 'c', 'n', 'o', 'p', 's':
		l.pos++
		return elementPredicate(molecule.MustElement(strings.ToUpper(string(c))).Number, true), nil
	case 'v':
		l.pos++
		n := l.number(1)
		return func(r atomRef) bool { return r.t.m.TotalValence(r.i) == n }, nil
	case 'r':
		l.pos++
		n := l.number(-1)
		if n < 0 {
			return func(r atomRef) bool { return r.atom().InRing }, nil
		}
		return func(r atomRef) bool { return r.t.minRing[r.i] == n }, nil
	}
	return nil, fmt.Errorf("unknown atom primitive %q in %q", c, l.src)
}

// chargePrimitive reads "+", "++", "+2", "-" and friends.
func chargePrimitive(l *logicParser[atomRef]) atomPredicate {
	sign := 1
	if l.src[l.pos] == '-' {
		sign = -1
	}
	sym := l.src[l.pos]
	l.pos++
	charge := 1
	if isDigitByte(l.peek()) {
		charge = l.number(1)
	} else {
		for l.peek() == sym {
			charge++
			l.pos++
		}
	}
	q := sign * charge
	return func(r atomRef) bool { return r.atom().Charge == q }
}

func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

//Personal.AI order the ending
