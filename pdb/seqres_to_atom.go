package pdb

import (
	"sort"

	"github.com/TuftsBCB/seq"
)

// observedResidue is a residue of a chain that some ATOM or REMARK 465
// record refers to.
type observedResidue struct {
	seqNum
	Name seq.Residue
}

// mapSeqres maps every SEQRES residue to the index of the observed residue it
// corresponds to, or -1 if it corresponds to none. observed must be sorted.
//
// Observed residues are mapped a chunk at a time, where a chunk is a run of
// residues with contiguous numbers. When the chunks cannot be laid out in
// SEQRES in order (the file disagrees with itself), we fall back to a
// global alignment and aligned is true.
func mapSeqres(seqres []seq.Residue, observed []observedResidue) (
	mapping []int, aligned bool) {

	if mapping, ok := chunksMerge(seqres, observed); ok {
		return mapping, false
	}
	return seqAtomsAlign(seqres, observed), true
}

func seqAtomsAlign(seqres []seq.Residue, observed []observedResidue) []int {
	names := make([]seq.Residue, len(observed))
	for i, o := range observed {
		names[i] = o.Name
	}
	aligned := seq.NeedlemanWunsch(seqres, names, seq.SubstBlosum62)

	mapping := noMapping(len(seqres))
	si, oi := 0, 0
	for i := range aligned.A {
		a, b := aligned.A[i], aligned.B[i]
		switch {
		case a != '-' && b != '-':
			mapping[si] = oi
			si++
			oi++
		case a != '-':
			si++
		case b != '-':
			oi++
		}
	}
	return mapping
}

func chunksMerge(seqres []seq.Residue, observed []observedResidue) ([]int, bool) {
	mapping := noMapping(len(seqres))
	if len(observed) == 0 {
		return mapping, true
	}
	if len(observed) > len(seqres) {
		return nil, false
	}

	m := &merger{
		seqres:   seqres,
		observed: observed,
		chunks:   chunk(observed),
		failed:   make(map[[2]int]bool),
	}
	m.starts = make([]int, len(m.chunks))
	m.width = observed[len(observed)-1].num - observed[0].num + 1
	for i := 1; i < len(observed); i++ {
		if observed[i].num == observed[i-1].num {
			m.width++
		}
	}
	m.need = make([]int, len(m.chunks)+1)
	for k := len(m.chunks) - 1; k >= 0; k-- {
		m.need[k] = m.need[k+1] + m.chunks[k].len()
	}
	if !m.merge(0, 0) {
		return nil, false
	}
	for k, c := range m.chunks {
		for i := c.lo; i < c.hi; i++ {
			mapping[m.starts[k]+i-c.lo] = i
		}
	}
	return mapping, true
}

func noMapping(n int) []int {
	mapping := make([]int, n)
	for i := range mapping {
		mapping[i] = -1
	}
	return mapping
}

// span is the half-open range [lo, hi) of a chunk of observed residues.
type span struct {
	lo, hi int
}

func (s span) len() int { return s.hi - s.lo }

// chunk splits up sorted residues into contiguous segments.
func chunk(observed []observedResidue) []span {
	if len(observed) == 0 {
		return nil
	}
	var chunks []span
	cur := span{0, 1}
	for i := 1; i < len(observed); i++ {
		if observed[i-1].isNext(observed[i].seqNum) {
			cur.hi++
			continue
		}
		chunks = append(chunks, cur)
		cur = span{i, i + 1}
	}
	return append(chunks, cur)
}

// isNext reports whether b directly follows a. Two residues with the same
// number are always contiguous, since they only differ by insertion code.
func (a seqNum) isNext(b seqNum) bool {
	return b.num == a.num || b.num == a.num+1
}

type merger struct {
	seqres   []seq.Residue
	observed []observedResidue
	chunks   []span

	// need[k] is the number of residues in chunks k and after.
	need []int

	// starts[k] is where chunk k landed in SEQRES.
	starts []int

	// (chunk, position) pairs known to lead nowhere.
	failed map[[2]int]bool

	// How many SEQRES residues the observed numbering spans.
	width int
}

// merge lays out chunks k and after in SEQRES, starting no earlier than
// position p. Every place where a chunk fits is tried, closest to where its
// numbering says it should be first.
func (m *merger) merge(k, p int) bool {
	if k == len(m.chunks) {
		return true
	}
	if m.failed[[2]int{k, p}] {
		return false
	}

	c := m.chunks[k]
	var fits []int
	for s := p; s <= len(m.seqres)-m.need[k]; s++ {
		if m.fits(c, s) {
			fits = append(fits, s)
		}
	}
	want := m.expected(k, p)
	sort.SliceStable(fits, func(i, j int) bool {
		return abs(fits[i]-want) < abs(fits[j]-want)
	})
	for _, s := range fits {
		m.starts[k] = s
		if m.merge(k+1, s+c.len()) {
			return true
		}
	}
	m.failed[[2]int{k, p}] = true
	return false
}

func (m *merger) fits(c span, start int) bool {
	for i := c.lo; i < c.hi; i++ {
		if m.seqres[start+i-c.lo] != m.observed[i].Name {
			return false
		}
	}
	return true
}

// expected is where chunk k would start if the residue numbers skipped
// before it were exactly the residues of SEQRES that nothing observed. The
// first chunk is expected where conventional 1-based numbering puts it, or
// as far along as the observed numbering still fits in SEQRES.
func (m *merger) expected(k, p int) int {
	first := m.observed[m.chunks[k].lo]
	if k == 0 {
		want := first.num - 1
		if room := len(m.seqres) - m.width; room >= 0 && want > room {
			want = room
		}
		return want
	}
	prev := m.observed[m.chunks[k-1].hi-1]
	skipped := first.num - prev.num - 1
	if skipped < 0 {
		skipped = 0
	}
	return p + skipped
}
