// Package fasta streams sequence records from FASTA and FASTQ input.
//
// Inputs may be plain or gzip-compressed (detected by magic bytes or a .gz
// suffix), and "-" reads standard input. Record names are the first
// whitespace-delimited token of the header line.
package fasta
