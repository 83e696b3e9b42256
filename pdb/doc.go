/*
Package pdb reads PDB files and reconciles, for every polymer chain, the
residues that have coordinates with the residues that were declared but not
resolved.

A PDB file records the residues of a chain three times over, and the three
views don't always agree: SEQRES records declare the full sequence, REMARK 465
records list residues that could not be located, and ATOM records give the
coordinates of everything else. ParseAndReconcile merges them into a ledger
with one entry per residue (number and insertion code), each flagged present
or missing. SEQRES has no residue numbers, so its residues are first mapped
onto the residues the other records number. Only the
representative atom of each residue (the alpha-carbon, by default) in the
first model is kept.

Chains are identified and ordered by the COMPND records. Partition can then
split the chains of a multimeric structure into biological units, given the
number of mers.

Anything in a PDB file that isn't part of a polymer chain is ignored.
*/
package pdb
