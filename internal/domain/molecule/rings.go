package molecule

import (
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Ring perception
//
// The smallest set of smallest rings is chosen from Horton-style candidate
// cycles (shortest path r→x + bond x-y + shortest path y→r) ordered by size
// and accepted while linearly independent over GF(2) until the cyclomatic
// number is reached.
// ─────────────────────────────────────────────────────────────────────────────

type ringCandidate struct {
	atoms []int
	bonds []int
	key   string
}

func (m *Molecule) perceiveRings() {
	for i := range m.Atoms {
		m.Atoms[i].InRing = false
	}
	for i := range m.Bonds {
		m.Bonds[i].InRing = false
	}
	m.Rings, m.RingBonds = nil, nil

	alive := m.cyclicCore()
	target := m.cyclomaticNumber(alive)
	if target <= 0 {
		return
	}

	cands := m.ringCandidates(alive)
	sort.SliceStable(cands, func(i, j int) bool {
		if len(cands[i].bonds) != len(cands[j].bonds) {
			return len(cands[i].bonds) < len(cands[j].bonds)
		}
		return cands[i].key < cands[j].key
	})

	basis := newGF2Basis(len(m.Bonds))
	for _, c := range cands {
		if !basis.add(c.bonds) {
			continue
		}
		m.Rings = append(m.Rings, c.atoms)
		m.RingBonds = append(m.RingBonds, c.bonds)
		for _, a := range c.atoms {
			m.Atoms[a].InRing = true
		}
		for _, b := range c.bonds {
			m.Bonds[b].InRing = true
		}
		if len(m.Rings) == target {
			break
		}
	}
}

// cyclicCore strips atoms of degree <= 1 until none remain; what survives can
// lie on a cycle.
func (m *Molecule) cyclicCore() []bool {
	n := len(m.Atoms)
	alive := make([]bool, n)
	deg := make([]int, n)
	var queue []int
	for i := 0; i < n; i++ {
		alive[i] = true
		deg[i] = m.Degree(i)
		if deg[i] <= 1 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !alive[cur] {
			continue
		}
		alive[cur] = false
		for _, nb := range m.Neighbors(cur) {
			if alive[nb] {
				deg[nb]--
				if deg[nb] == 1 {
					queue = append(queue, nb)
				}
			}
		}
	}
	return alive
}

func (m *Molecule) cyclomaticNumber(alive []bool) int {
	atoms, bonds := 0, 0
	for _, ok := range alive {
		if ok {
			atoms++
		}
	}
	for i := range m.Bonds {
		if alive[m.Bonds[i].Begin] && alive[m.Bonds[i].End] {
			bonds++
		}
	}
	comps := 0
	seen := make([]bool, len(alive))
	for s, ok := range alive {
		if !ok || seen[s] {
			continue
		}
		comps++
		stack := []int{s}
		seen[s] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range m.Neighbors(cur) {
				if alive[nb] && !seen[nb] {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
		}
	}
	return bonds - atoms + comps
}

func (m *Molecule) ringCandidates(alive []bool) []ringCandidate {
	n := len(m.Atoms)
	seen := make(map[string]bool)
	var out []ringCandidate

	for root := 0; root < n; root++ {
		if !alive[root] {
			continue
		}
		parent := make([]int, n)
		dist := make([]int, n)
		for i := range dist {
			dist[i] = -1
			parent[i] = -1
		}
		dist[root] = 0
		queue := []int{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range m.Neighbors(cur) {
				if alive[nb] && dist[nb] < 0 {
					dist[nb] = dist[cur] + 1
					parent[nb] = cur
					queue = append(queue, nb)
				}
			}
		}

		for bi := range m.Bonds {
			x, y := m.Bonds[bi].Begin, m.Bonds[bi].End
			if !alive[x] || !alive[y] || dist[x] < 0 || dist[y] < 0 {
				continue
			}
			if parent[x] == y || parent[y] == x {
				continue
			}
			px := pathToRoot(parent, x)
			py := pathToRoot(parent, y)
			if !disjointBelowRoot(px, py) {
				continue
			}
			// px = x..root, py = y..root; cycle = root..x, y..child-of-root
			atoms := make([]int, 0, len(px)+len(py)-1)
			for i := len(px) - 1; i >= 0; i-- {
				atoms = append(atoms, px[i])
			}
			for i := 0; i < len(py)-1; i++ {
				atoms = append(atoms, py[i])
			}
			bonds := make([]int, len(atoms))
			for i := range atoms {
				bonds[i] = m.BondBetween(atoms[i], atoms[(i+1)%len(atoms)])
			}
			key := bondSetKey(bonds)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, ringCandidate{atoms: atoms, bonds: bonds, key: key})
		}
	}
	return out
}

func pathToRoot(parent []int, v int) []int {
	path := []int{v}
	for parent[v] >= 0 {
		v = parent[v]
		path = append(path, v)
	}
	return path
}

func disjointBelowRoot(a, b []int) bool {
	set := make(map[int]bool, len(a))
	for _, v := range a[:len(a)-1] {
		set[v] = true
	}
	for _, v := range b[:len(b)-1] {
		if set[v] {
			return false
		}
	}
	return true
}

func bondSetKey(bonds []int) string {
	sorted := append([]int(nil), bonds...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, b := range sorted {
		parts[i] = strconv.Itoa(b)
	}
	return strings.Join(parts, ",")
}

// gf2Basis keeps reduced bond-incidence vectors keyed by their highest bit.
type gf2Basis struct {
	words int
	rows  map[int][]uint64
}

func newGF2Basis(nbits int) *gf2Basis {
	return &gf2Basis{words: (nbits + 63) / 64, rows: make(map[int][]uint64)}
}

// add reports whether the vector with the given set bits is independent of
// the basis, inserting it when it is.
func (g *gf2Basis) add(setBits []int) bool {
	v := make([]uint64, g.words)
	for _, b := range setBits {
		v[b/64] ^= 1 << uint(b%64)
	}
	for {
		hi := highestBit(v)
		if hi < 0 {
			return false
		}
		row, ok := g.rows[hi]
		if !ok {
			g.rows[hi] = v
			return true
		}
		for i := range v {
			v[i] ^= row[i]
		}
	}
}

func highestBit(v []uint64) int {
	for i := len(v) - 1; i >= 0; i-- {
		if v[i] != 0 {
			return i*64 + 63 - bits.LeadingZeros64(v[i])
		}
	}
	return -1
}

// AtomRings returns the indices of the rings containing atom i.
func (m *Molecule) AtomRings(i int) []int {
	var out []int
	for ri, ring := range m.Rings {
		for _, a := range ring {
			if a == i {
				out = append(out, ri)
				break
			}
		}
	}
	return out
}

// SmallestCommonRing returns the size of the smallest ring containing both
// atoms, or 0 when they share none.
func (m *Molecule) SmallestCommonRing(i, j int) int {
	best := 0
	for _, ring := range m.Rings {
		hasI, hasJ := false, false
		for _, a := range ring {
			hasI = hasI || a == i
			hasJ = hasJ || a == j
		}
		if hasI && hasJ && (best == 0 || len(ring) < best) {
			best = len(ring)
		}
	}
	return best
}

//Personal.AI order the ending
