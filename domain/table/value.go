package table

import (
	"strconv"
	"time"
)

// Value is a typed cell with deterministic coercion outcomes
type Value struct {
	Kind      Kind       `json:"kind"`
	TextVal   *string    `json:"text_val,omitempty"`
	NumberVal *float64   `json:"number_val,omitempty"`
	TimeVal   *time.Time `json:"time_val,omitempty"`
}

// Kind defines the storage type for cell values
type Kind string

const (
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindTime    Kind = "time"
	KindMissing Kind = "missing"
)

// Text creates a text value; the empty string is stored as-is,
// blank handling is the cleaning pipeline's job
func Text(s string) Value {
	return Value{Kind: KindText, TextVal: &s}
}

// Number creates a numeric value
func Number(n float64) Value {
	return Value{Kind: KindNumber, NumberVal: &n}
}

// Time creates a temporal value
func Time(t time.Time) Value {
	return Value{Kind: KindTime, TimeVal: &t}
}

// Missing creates the missing marker
func Missing() Value {
	return Value{Kind: KindMissing}
}

// IsText returns true if the value holds text
func (v Value) IsText() bool {
	return v.Kind == KindText && v.TextVal != nil
}

// IsNumber returns true if the value holds a valid number
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber && v.NumberVal != nil
}

// IsTime returns true if the value holds a timestamp
func (v Value) IsTime() bool {
	return v.Kind == KindTime && v.TimeVal != nil
}

// IsMissing returns true for the missing marker
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// AsText returns the text payload, or empty string for other kinds
func (v Value) AsText() string {
	if v.TextVal != nil {
		return *v.TextVal
	}
	return ""
}

// AsNumber returns the numeric payload, or 0 for other kinds
func (v Value) AsNumber() float64 {
	if v.NumberVal != nil {
		return *v.NumberVal
	}
	return 0
}

// AsTime returns the temporal payload, or the zero time for other kinds
func (v Value) AsTime() time.Time {
	if v.TimeVal != nil {
		return *v.TimeVal
	}
	return time.Time{}
}

// String renders the value the way the exporters serialize it.
// Numbers use the shortest round-trip representation, times use RFC 3339
// date-time unless the clock is midnight UTC, then just the date.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.AsText()
	case KindNumber:
		return strconv.FormatFloat(v.AsNumber(), 'f', -1, 64)
	case KindTime:
		t := v.AsTime()
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	case KindMissing:
		return ""
	}
	return ""
}

// Equal reports exact equality of kind and payload
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.AsText() == o.AsText()
	case KindNumber:
		return v.AsNumber() == o.AsNumber()
	case KindTime:
		return v.AsTime().Equal(o.AsTime())
	}
	return true // both missing
}
