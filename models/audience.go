package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SegmentField identifies a customer attribute a segmentation rule can target.
// The set is closed; anything else is an unrecognized field and contributes no
// constraint (permissive-parsing policy inherited from the campaign API contract).
type SegmentField string

const (
	SegmentFieldSpend        SegmentField = "spend"
	SegmentFieldVisits       SegmentField = "visits"
	SegmentFieldInactiveDays SegmentField = "inactive_days"
)

// String returns the string representation of the field
func (f SegmentField) String() string {
	return string(f)
}

// Valid checks if the field is one of the recognized segmentation targets
func (f SegmentField) Valid() bool {
	switch f {
	case SegmentFieldSpend, SegmentFieldVisits, SegmentFieldInactiveDays:
		return true
	default:
		return false
	}
}

// SegmentOperator is a comparison operator applied by a segmentation rule.
type SegmentOperator string

const (
	SegmentOperatorGT  SegmentOperator = "gt"
	SegmentOperatorLT  SegmentOperator = "lt"
	SegmentOperatorGTE SegmentOperator = "gte"
	SegmentOperatorLTE SegmentOperator = "lte"
	SegmentOperatorEQ  SegmentOperator = "eq"
)

// String returns the string representation of the operator
func (o SegmentOperator) String() string {
	return string(o)
}

// Valid checks if the operator is valid
func (o SegmentOperator) Valid() bool {
	switch o {
	case SegmentOperatorGT, SegmentOperatorLT, SegmentOperatorGTE,
		SegmentOperatorLTE, SegmentOperatorEQ:
		return true
	default:
		return false
	}
}

// Combinator joins the rules of an audience filter.
type Combinator string

const (
	CombinatorAnd Combinator = "AND"
	CombinatorOr  Combinator = "OR"
)

// String returns the string representation of the combinator
func (c Combinator) String() string {
	return string(c)
}

// Valid checks if the combinator is valid
func (c Combinator) Valid() bool {
	return c == CombinatorAnd || c == CombinatorOr
}

// SegmentRule is a single declarative constraint over a customer attribute.
// Rules are constructed per request and persisted only as part of a campaign's
// audience filter snapshot.
type SegmentRule struct {
	Field    SegmentField    `json:"field"`
	Operator SegmentOperator `json:"operator"`
	Value    float64         `json:"value"`
}

// AudienceFilter is an ordered rule set plus the combinator that joins it.
// A campaign stores the filter as-is for audit; membership is resolved once at
// dispatch time and never re-evaluated from the filter afterwards.
type AudienceFilter struct {
	Rules     []SegmentRule `json:"rules"`
	Condition Combinator    `json:"condition"`
}

// Value implements the driver.Valuer interface for AudienceFilter
func (f AudienceFilter) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements the sql.Scanner interface for AudienceFilter
func (f *AudienceFilter) Scan(value any) error {
	if value == nil {
		*f = AudienceFilter{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AudienceFilter", value)
	}

	return json.Unmarshal(bytes, f)
}
