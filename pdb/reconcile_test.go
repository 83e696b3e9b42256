package pdb

import (
	"fmt"
	"strings"
	"testing"
	"unicode"

	"github.com/TuftsBCB/seq"
	"github.com/TuftsBCB/structure"
	"github.com/google/go-cmp/cmp"
)

func testIndex(t *testing.T, chains ...string) *ChainIndex {
	b := new(structureBuilder)
	b.compnd("TEST", chains...)
	idx, err := NewChainIndex(ReadRecords(b.build()).Compounds)
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func declare(chain string, first int, residues string) []DeclaredResidue {
	ds := make([]DeclaredResidue, len(residues))
	for i := range residues {
		ds[i] = DeclaredResidue{
			Chain:  chain,
			Number: first + i,
			Name:   seq.Residue(residues[i]),
		}
	}
	return ds
}

func miss(chain string, num int, name seq.Residue) MissingAnnotation {
	return MissingAnnotation{Chain: chain, Number: num, Name: name}
}

func sample(chain string, num int, name seq.Residue) AtomSample {
	return AtomSample{
		Chain:  chain,
		Number: num,
		Name:   name,
		Atom:   "CA",
		Coords: structure.Coords{X: float64(num)},
	}
}

// ledger renders a chain as "id:residue" pairs, where absent residues are
// lower case and implicit ones are '.'.
func ledger(c *Chain) string {
	parts := make([]string, len(c.Residues))
	for i, r := range c.Residues {
		name := rune(r.Name)
		switch {
		case r.Implicit:
			name = '.'
		case !r.Present:
			name = unicode.ToLower(name)
		}
		parts[i] = fmt.Sprintf("%s:%c", r.ID(), name)
	}
	return strings.Join(parts, " ")
}

// checkGapFree checks that residue ids strictly increase and that numbers
// never skip. Only insertion codes may repeat a number.
func checkGapFree(t *testing.T, c *Chain) {
	for i := 1; i < len(c.Residues); i++ {
		prev, r := c.Residues[i-1], c.Residues[i]
		ok := r.Number == prev.Number+1 ||
			(r.Number == prev.Number && r.Insertion > prev.Insertion)
		if !ok {
			t.Fatalf("Chain %s ledger is not gap-free at index %d: %s -> %s",
				c.Ident, i, prev.ID(), r.ID())
		}
	}
}

func TestReconcileMissingWins(t *testing.T) {
	idx := testIndex(t, "A")
	obs := Observations{
		Declared: declare("A", 1, "GAVLI"),
		Missing:  []MissingAnnotation{miss("A", 3, 'V')},
		Atoms: []AtomSample{
			sample("A", 1, 'G'), sample("A", 2, 'A'), sample("A", 3, 'V'),
			sample("A", 4, 'L'), sample("A", 5, 'I'),
		},
	}
	chains, warnings := Reconcile(idx, obs, nil)
	c := chains[0]
	checkGapFree(t, c)
	if c.Residues[2].Present || c.Residues[2].Ca != nil {
		t.Fatalf("A residue in REMARK 465 must be absent, got %+v.",
			c.Residues[2])
	}
	if len(warnings) != 1 || warnings[0].Kind != WarnMissingHasAtom {
		t.Fatalf("Expected one missing-has-atom warning, got %v.", warnings)
	}
	if *warnings[0].Number != 3 {
		t.Fatalf("Expected the warning for residue 3, got %s.", warnings[0])
	}
}

func TestReconcileImplicitGap(t *testing.T) {
	idx := testIndex(t, "A")
	obs := Observations{
		// Residue 4 is declared nowhere at all.
		Declared: append(declare("A", 1, "GAV"), declare("A", 5, "LI")...),
		Atoms: []AtomSample{
			sample("A", 1, 'G'), sample("A", 2, 'A'), sample("A", 5, 'L'),
		},
	}
	chains, _ := Reconcile(idx, obs, nil)
	c := chains[0]
	checkGapFree(t, c)
	got := ledger(c)
	want := "1:G 2:A 3:v 4:. 5:L 6:i"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ledger mismatch (-want +got):\n%s", diff)
	}
	if got := fmt.Sprintf("%s", c.Gapped().Residues); got != "GA-L-" {
		t.Fatalf("Implicit residues are not part of the sequence, got %s.", got)
	}
	if n := len(c.Missing()); n != 2 {
		t.Fatalf("Expected 2 missing residues, got %d.", n)
	}
}

func TestReconcileInferredSpan(t *testing.T) {
	idx := testIndex(t, "A")
	obs := Observations{
		Missing: []MissingAnnotation{miss("A", -1, 'M'), miss("A", 0, 'S')},
		Atoms: []AtomSample{
			sample("A", 1, 'G'), sample("A", 2, 'A'), sample("A", 4, 'L'),
		},
	}
	chains, warnings := Reconcile(idx, obs, nil)
	if len(warnings) != 0 {
		t.Fatalf("Unexpected warnings: %v", warnings)
	}
	c := chains[0]
	checkGapFree(t, c)
	got := ledger(c)
	want := "-1:m 0:s 1:G 2:A 3:x 4:L"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileEmptyChain(t *testing.T) {
	idx := testIndex(t, "A", "B")
	obs := Observations{Declared: declare("A", 1, "GG")}
	chains, _ := Reconcile(idx, obs, nil)
	if len(chains) != 2 {
		t.Fatalf("Expected both chains, got %d.", len(chains))
	}
	if len(chains[1].Residues) != 0 {
		t.Fatalf("Expected an empty ledger for B, got %v.", chains[1].Residues)
	}
}

func TestReconcileTypePrecedence(t *testing.T) {
	idx := testIndex(t, "A")
	obs := Observations{
		Declared: declare("A", 1, "GA"),
		Missing:  []MissingAnnotation{miss("A", 1, 'S'), miss("A", 3, 'W')},
		Atoms: []AtomSample{
			sample("A", 2, 'C'),
		},
	}
	chains, warnings := Reconcile(idx, obs, nil)
	c := chains[0]
	if got := ledger(c); got != "1:g 2:A" {
		t.Fatalf("Declared types must win, got %s.", got)
	}

	var kinds []WarningKind
	for _, w := range warnings {
		kinds = append(kinds, w.Kind)
	}
	want := []WarningKind{WarnOutsideSpan, WarnTypeMismatch, WarnTypeMismatch}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}

	// Without a declared sequence, the REMARK 465 type wins over ATOM.
	obs = Observations{
		Missing: []MissingAnnotation{miss("A", 1, 'S')},
		Atoms:   []AtomSample{sample("A", 1, 'C')},
	}
	chains, warnings = Reconcile(idx, obs, nil)
	if got := ledger(chains[0]); got != "1:s" {
		t.Fatalf("REMARK 465 type must win over ATOM, got %s.", got)
	}
	if len(warnings) != 2 {
		t.Fatalf("Expected a type mismatch and a missing-has-atom warning, "+
			"got %v.", warnings)
	}
}

func TestReconcileDeterministic(t *testing.T) {
	idx := testIndex(t, "A", "B")
	obs := Observations{
		Declared: append(declare("A", 1, "GAVLIMKT"), declare("B", 3, "PQRS")...),
		Missing:  []MissingAnnotation{miss("A", 2, 'A'), miss("B", 6, 'S')},
		Atoms: []AtomSample{
			sample("B", 3, 'P'), sample("A", 1, 'G'), sample("A", 5, 'I'),
			sample("B", 4, 'Q'), sample("A", 8, 'T'), sample("B", 9, 'Z'),
		},
	}
	first, w1 := Reconcile(idx, obs, nil)
	for i := 0; i < 20; i++ {
		again, w2 := Reconcile(idx, obs, nil)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("ledgers differ between runs (-first +again):\n%s", diff)
		}
		if diff := cmp.Diff(w1, w2); diff != "" {
			t.Fatalf("warnings differ between runs (-first +again):\n%s", diff)
		}
	}
}

func TestReconcileInsertionCodes(t *testing.T) {
	idx := testIndex(t, "A")
	declared := declare("A", 1, "GAVLI")
	declared[3].Number, declared[3].Insertion = 3, 'A'
	declared[4].Number = 4
	obs := Observations{
		Declared: declared,
		Missing: []MissingAnnotation{
			{Chain: "A", Number: 3, Insertion: 'A', Name: 'L'},
		},
		Atoms: []AtomSample{
			sample("A", 1, 'G'), sample("A", 3, 'V'), sample("A", 4, 'I'),
		},
	}
	chains, warnings := Reconcile(idx, obs, nil)
	if len(warnings) != 0 {
		t.Fatalf("Unexpected warnings: %v", warnings)
	}
	c := chains[0]
	checkGapFree(t, c)
	if diff := cmp.Diff("1:G 2:a 3:V 3A:l 4:I", ledger(c)); diff != "" {
		t.Fatalf("ledger mismatch (-want +got):\n%s", diff)
	}
}

// An observed residue inside the declared span keeps its atom even when
// SEQRES has no room for it.
func TestReconcileUndeclared(t *testing.T) {
	idx := testIndex(t, "A")
	atom := sample("A", 2, 'W')
	atom.Insertion = 'A'
	obs := Observations{
		Declared: declare("A", 1, "GAV"),
		Atoms:    []AtomSample{sample("A", 1, 'G'), atom, sample("A", 3, 'V')},
	}
	chains, warnings := Reconcile(idx, obs, nil)
	c := chains[0]
	checkGapFree(t, c)
	if diff := cmp.Diff("1:G 2:a 2A:W 3:V", ledger(c)); diff != "" {
		t.Fatalf("ledger mismatch (-want +got):\n%s", diff)
	}
	if len(warnings) != 1 || warnings[0].Kind != WarnUndeclared {
		t.Fatalf("Expected an undeclared residue warning, got %v.", warnings)
	}
	if got := warnings[0].String(); !strings.HasPrefix(got, "[undeclared-residue] A:2A ") {
		t.Fatalf("Unexpected warning text: %s", got)
	}
}

func observe(ids ...string) []observedResidue {
	obs := make([]observedResidue, len(ids))
	for i, id := range ids {
		var r observedResidue
		r.Name = seq.Residue(id[0])
		fmt.Sscanf(id[1:], "%d", &r.num)
		if last := id[len(id)-1]; last >= 'a' && last <= 'z' {
			r.icode = byte(unicode.ToUpper(rune(last)))
		}
		obs[i] = r
	}
	return obs
}

func TestNumberSeqres(t *testing.T) {
	tests := []struct {
		name     string
		seqres   string
		observed []observedResidue
		want     string
		aligned  bool
	}{
		{"nothing observed", "MGSAK", nil, "1 2 3 4 5", false},
		{"conventional", "MGSSHHHHHHAKTV",
			observe("A11", "K12", "T13"),
			"1 2 3 4 5 6 7 8 9 10 11 12 13 14", false},
		{"tag numbered negative", "MGSSHHHHHHAKTV",
			observe("M-9", "G-8", "A1", "K2", "T3", "V4"),
			"-9 -8 -7 -6 -5 -4 -3 -2 -1 0 1 2 3 4", false},
		{"shifted", "MGSSHHHHHHAKTV",
			observe("A111", "K112", "T113", "V114"),
			"101 102 103 104 105 106 107 108 109 110 111 112 113 114", false},
		{"jump", "MKTAYIAKQR",
			observe("M1", "K2", "T3", "A4", "Y5", "I10", "A11", "K12", "Q13", "R14"),
			"1 2 3 4 5 10 11 12 13 14", false},
		{"insertion", "MKTGAY",
			observe("M1", "K2", "T3", "G3a", "A4", "Y5"),
			"1 2 3 3A 4 5", false},
		{"unobserved insertion", "MKTGAY",
			observe("M1", "K2", "T3", "A4", "Y5"),
			"1 2 3 3A 4 5", true},
		{"repeats", "GSGSGSGS",
			observe("G1", "S2", "G3", "S4", "G11", "S12", "G13", "S14"),
			"1 2 3 4 11 12 13 14", false},
		{"disagreement", "MKTAYIAKQR",
			observe("M1", "K2", "W3", "A4", "Y5", "I6", "A7", "K8", "Q9", "R10"),
			"1 2 3 4 5 6 7 8 9 10", true},
	}
	for _, test := range tests {
		rep := newReporter(nil)
		declared := numberSeqres("A", []seq.Residue(test.seqres),
			test.observed, rep)
		ids := make([]string, len(declared))
		for i, d := range declared {
			ids[i] = seqNum{d.Number, d.Insertion}.String()
			if d.Name != seq.Residue(test.seqres[i]) {
				t.Errorf("%s: residue %d changed type", test.name, i)
			}
		}
		if got := strings.Join(ids, " "); got != test.want {
			t.Errorf("%s: expected numbers %s, got %s.",
				test.name, test.want, got)
		}
		if aligned := len(rep.warnings) > 0; aligned != test.aligned {
			t.Errorf("%s: expected aligned=%v, got warnings %v",
				test.name, test.aligned, rep.warnings)
		}
	}
}
