package pdb

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"testing"
)

// structureBuilder writes the records of a synthetic PDB file with the same
// column layout as files from the PDB.
type structureBuilder struct {
	lines  []string
	serial int
}

func (b *structureBuilder) compnd(molecule string, chains ...string) *structureBuilder {
	molId := 1
	for _, l := range b.lines {
		if strings.Contains(l, "MOL_ID") {
			molId++
		}
	}
	b.add("COMPND    MOL_ID: %d;", molId)
	b.add("COMPND   2 MOLECULE: %s;", molecule)
	b.add("COMPND   3 CHAIN: %s;", strings.Join(chains, ", "))
	return b
}

// seqres writes SEQRES records for a chain, 13 residues per record.
func (b *structureBuilder) seqres(chain string, residues ...string) *structureBuilder {
	for i, ser := 0, 1; i < len(residues); i, ser = i+13, ser+1 {
		end := i + 13
		if end > len(residues) {
			end = len(residues)
		}
		padded := make([]string, end-i)
		for j, r := range residues[i:end] {
			padded[j] = fmt.Sprintf("%3s", r)
		}
		b.add("SEQRES %3d %s %4d  %s", ser, chain, len(residues),
			strings.Join(padded, " "))
	}
	return b
}

func (b *structureBuilder) missing(res, chain string, num int) *structureBuilder {
	return b.missingIns(res, chain, num, ' ')
}

func (b *structureBuilder) missingIns(res, chain string, num int,
	icode byte) *structureBuilder {

	if len(b.remarkHeader()) == 0 {
		b.add("REMARK 465 MISSING RESIDUES")
		b.add("REMARK 465   M RES C SSSEQI")
	}
	b.add("REMARK 465     %3s %s %5d%c", res, chain, num, icode)
	return b
}

func (b *structureBuilder) remarkHeader() string {
	for _, l := range b.lines {
		if strings.HasPrefix(l, "REMARK 465   M RES") {
			return l
		}
	}
	return ""
}

func (b *structureBuilder) atom(name, res, chain string, num int,
	x, y, z float64) *structureBuilder {

	return b.record("ATOM", name, ' ', res, chain, num, x, y, z)
}

// atomIns writes a CA atom for a residue with an insertion code.
func (b *structureBuilder) atomIns(res, chain string, num int, icode byte,
	x float64) *structureBuilder {

	b.serial++
	b.add("%-6s%5d %-4s%c%3s %s%4d%c   %8.3f%8.3f%8.3f  1.00 20.00",
		"ATOM", b.serial, " CA", ' ', res, chain, num, icode, x, 0.0, 0.0)
	return b
}

func (b *structureBuilder) record(rec, name string, alt byte, res, chain string,
	num int, x, y, z float64) *structureBuilder {

	b.serial++
	if len(name) < 4 {
		name = " " + name
	}
	b.add("%-6s%5d %-4s%c%3s %s%4d    %8.3f%8.3f%8.3f  1.00 20.00",
		rec, b.serial, name, alt, res, chain, num, x, y, z)
	return b
}

// backbone writes N, CA and C atoms for every residue number given.
func (b *structureBuilder) backbone(chain string, residues []string,
	nums ...int) *structureBuilder {

	for _, num := range nums {
		res := residues[num-1]
		x := float64(num)
		b.atom("N", res, chain, num, x-0.5, 0, 0)
		b.atom("CA", res, chain, num, x, 0, 0)
		b.atom("C", res, chain, num, x+0.5, 0, 0)
	}
	return b
}

func (b *structureBuilder) add(format string, v ...interface{}) *structureBuilder {
	b.lines = append(b.lines, fmt.Sprintf(format, v...))
	return b
}

func (b *structureBuilder) build() []string {
	return append([]string(nil), b.lines...)
}

func numRange(lo, hi int) []int {
	nums := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		nums = append(nums, i)
	}
	return nums
}

func without(nums []int, drop ...int) []int {
	var kept []int
outer:
	for _, n := range nums {
		for _, d := range drop {
			if n == d {
				continue outer
			}
		}
		kept = append(kept, n)
	}
	return kept
}

var threeLetter = map[byte]string{
	'A': "ALA", 'G': "GLY", 'I': "ILE", 'K': "LYS", 'M': "MET",
	'Q': "GLN", 'R': "ARG", 'S': "SER", 'T': "THR", 'Y': "TYR",
}

// parseID splits a residue id like "52A" into its number and insertion code.
// The insertion code is a blank when there is none.
func parseID(t *testing.T, id string) (int, byte) {
	icode := byte(' ')
	if last := id[len(id)-1]; last >= 'A' && last <= 'Z' {
		icode, id = last, id[:len(id)-1]
	}
	num, err := strconv.Atoi(id)
	if err != nil {
		t.Fatalf("bad residue id '%s'", id)
	}
	return num, icode
}

var tenResidues = []string{
	"MET", "LYS", "THR", "ALA", "TYR", "ILE", "ALA", "LYS", "GLN", "ARG",
}

// twoChains is the structure with chains A and B, both declaring residues
// 1-10, where residue 5 of chain A is missing.
func twoChains() []string {
	b := new(structureBuilder)
	b.compnd("TEST KINASE", "A", "B")
	b.missing("TYR", "A", 5)
	b.seqres("A", tenResidues...)
	b.seqres("B", tenResidues...)
	b.backbone("A", tenResidues, without(numRange(1, 10), 5)...)
	b.backbone("B", tenResidues, numRange(1, 10)...)
	return b.build()
}

func readPDB() *Assembly {
	lines, err := readLines("testdata/2abc.pdb")
	assert(err)
	a, err := ParseAndReconcile("2abc", lines, Options{})
	assert(err)
	return a
}

func readLines(path string) ([]string, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(bs), "\n"), "\n"), nil
}

func assert(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}
