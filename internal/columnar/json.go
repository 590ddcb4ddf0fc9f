package columnar

import (
	"encoding/json"
	"fmt"
)

// Wire shape for persisted aggregates. Presence is carried in a
// separate validity array so a stored null never collapses into the
// absent marker on the way through storage.
type columnJSON struct {
	Values []any  `json:"values"`
	Valid  []bool `json:"valid"`
}

type aggregateJSON struct {
	Rows    int                   `json:"rows"`
	Keys    []string              `json:"keys"`
	Columns map[string]columnJSON `json:"columns"`
}

func (a *Aggregate) MarshalJSON() ([]byte, error) {
	payload := aggregateJSON{
		Rows:    a.rows,
		Keys:    a.keys,
		Columns: make(map[string]columnJSON, len(a.keys)),
	}
	if payload.Keys == nil {
		payload.Keys = []string{}
	}
	for _, k := range a.keys {
		col := a.cols[k]
		cj := columnJSON{
			Values: make([]any, len(col)),
			Valid:  make([]bool, len(col)),
		}
		for i, cell := range col {
			cj.Values[i] = cell.Data
			cj.Valid[i] = cell.Present
		}
		payload.Columns[k] = cj
	}
	return json.Marshal(payload)
}

// UnmarshalJSON decodes a persisted aggregate. Structural damage inside
// a single column (values and validity of different lengths) surfaces as
// an *AsymmetryError right away; a column whose length disagrees with
// the stored row count is loaded as-is and rejected by the next Inflate,
// matching where the corruption is observable.
func (a *Aggregate) UnmarshalJSON(data []byte) error {
	var payload aggregateJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	cols := make(map[string]column, len(payload.Keys))
	for _, k := range payload.Keys {
		cj, ok := payload.Columns[k]
		if !ok {
			return fmt.Errorf("columnar: column %q missing from payload", k)
		}
		if len(cj.Values) != len(cj.Valid) {
			return &AsymmetryError{Key: k, Want: len(cj.Values), Got: len(cj.Valid)}
		}
		col := make(column, len(cj.Values))
		for i := range cj.Values {
			col[i] = Value{Present: cj.Valid[i], Data: cj.Values[i]}
			if !cj.Valid[i] {
				col[i].Data = nil
			}
		}
		cols[k] = col
	}
	a.keys = payload.Keys
	a.cols = cols
	a.rows = payload.Rows
	return nil
}
