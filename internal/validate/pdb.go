package validate

import (
	"bufio"
	"os"
	"strings"
)

// atomRecord is one ATOM/HETATM line with its fixed-width fields extracted.
// Fields whose columns fall past the end of a short line are left empty
// rather than rejecting the line.
type atomRecord struct {
	AtomName string // columns 13-16
	ResName  string // columns 18-20
	Chain    string // column 22
	ResSeq   string // columns 23-26
}

// scanAtomRecords reads every ATOM/HETATM record from a PDB-like file.
// Lines shorter than a field's column range simply omit that field.
func scanAtomRecords(path string) ([]atomRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []atomRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "ATOM") && !strings.HasPrefix(line, "HETATM") {
			continue
		}
		records = append(records, atomRecord{
			AtomName: pdbField(line, 12, 16),
			ResName:  pdbField(line, 17, 20),
			Chain:    pdbField(line, 21, 22),
			ResSeq:   pdbField(line, 22, 26),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func pdbField(line string, start, end int) string {
	if len(line) < end {
		return ""
	}
	return strings.TrimSpace(line[start:end])
}

// standardAminoAcids covers the residues every protein force field
// parameterizes, including the protonation-state histidine variants.
var standardAminoAcids = map[string]bool{
	"ALA": true, "ARG": true, "ASN": true, "ASP": true, "CYS": true,
	"GLN": true, "GLU": true, "GLY": true, "HIS": true, "ILE": true,
	"LEU": true, "LYS": true, "MET": true, "PHE": true, "PRO": true,
	"SER": true, "THR": true, "TRP": true, "TYR": true, "VAL": true,
	"HIE": true, "HID": true, "HIP": true,
}

var waterResidues = map[string]bool{
	"HOH": true, "WAT": true, "TIP3": true, "SOL": true, "TIP3P": true,
}

var ionResidues = map[string]bool{
	"NA": true, "CL": true, "K": true, "MG": true, "CA": true,
	"NA+": true, "CL-": true,
}
