// Package analytics is the pure computation layer behind body-composition
// assessment, trend and plateau detection, goal prediction, statistics and
// insight cards. Nothing in this package performs I/O or keeps state between
// calls; every function is safe to call concurrently on unshared inputs.
package analytics

import (
	"encoding/json"
	"math"
)

// Reason explains why a Value is unavailable.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonInsufficientData Reason = "insufficient_data"
	ReasonInvalidInput     Reason = "invalid_input"
	ReasonNonConverging    Reason = "non_converging"
	ReasonNoGoal           Reason = "no_goal"
)

// Value is either a finite number or an unavailable marker with a reason.
type Value struct {
	Value  float64
	Reason Reason
}

// Of wraps x. Non-finite numbers become invalid input.
func Of(x float64) Value {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Value{Reason: ReasonInvalidInput}
	}
	return Value{Value: x}
}

// Unavailable returns a Value carrying reason r.
func Unavailable(r Reason) Value {
	return Value{Reason: r}
}

// Available reports whether v holds a number.
func (v Value) Available() bool {
	return v.Reason == ReasonNone
}

// Or returns the number, or fallback when unavailable.
func (v Value) Or(fallback float64) float64 {
	if !v.Available() {
		return fallback
	}
	return v.Value
}

// Round returns v rounded to the given number of decimals.
func (v Value) Round(decimals int) Value {
	if !v.Available() {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return Value{Value: math.Round(v.Value*p) / p}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Available() {
		return json.Marshal(struct {
			Reason Reason `json:"reason"`
		}{v.Reason})
	}
	return json.Marshal(struct {
		Value float64 `json:"value"`
	}{v.Value})
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw struct {
		Value  *float64 `json:"value"`
		Reason Reason   `json:"reason"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Value == nil {
		if raw.Reason == ReasonNone {
			raw.Reason = ReasonInsufficientData
		}
		*v = Unavailable(raw.Reason)
		return nil
	}
	*v = Of(*raw.Value)
	return nil
}
