/*
Package fasta writes sequences in the FASTA format described by NCBI:
http://blast.ncbi.nlm.nih.gov/blastcgihelp.shtml

Sequences are written exactly as given. In particular, lower case residues
(which is how package pdb marks residues without coordinates) are preserved,
as are gap characters.
*/
package fasta
