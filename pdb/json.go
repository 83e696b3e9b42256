package pdb

import (
	"encoding/json"
)

type jsonResidue struct {
	Number    int         `json:"number"`
	Insertion string      `json:"insertion,omitempty"`
	Name      string      `json:"name"`
	Present   bool        `json:"present"`
	Implicit  bool        `json:"implicit,omitempty"`
	Ca        *[3]float64 `json:"ca,omitempty"`
}

// MarshalJSON writes the residue type and insertion code as one letter
// strings and the coordinates, if any, as an [x, y, z] triple.
func (r Residue) MarshalJSON() ([]byte, error) {
	jr := jsonResidue{
		Number:   r.Number,
		Name:     string(rune(r.Name)),
		Present:  r.Present,
		Implicit: r.Implicit,
	}
	if r.Insertion != 0 {
		jr.Insertion = string(rune(r.Insertion))
	}
	if r.Ca != nil {
		jr.Ca = &[3]float64{r.Ca.X, r.Ca.Y, r.Ca.Z}
	}
	return json.Marshal(jr)
}

// MarshalJSON writes a group as its index and the identifiers of its
// chains. The ledgers themselves are part of the Assembly.
func (g MerGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index  int      `json:"index"`
		Chains []string `json:"chains"`
	}{g.Index, g.Idents()})
}
