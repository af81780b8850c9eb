package models

import (
	"encoding/json"
	"math"
)

// NullFloat is a float64 with an explicit missing state. Derived
// metrics that hit a division hazard (zero revenue, null input) are
// carried as invalid NullFloats instead of NaN.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float wraps a present value.
func Float(f float64) NullFloat {
	return NullFloat{Float64: f, Valid: true}
}

// MarshalJSON encodes missing values as JSON null.
func (f NullFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid || math.IsNaN(f.Float64) || math.IsInf(f.Float64, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f.Float64)
}

// UnmarshalJSON decodes JSON null as a missing value.
func (f *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}
