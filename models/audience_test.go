package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentVocabulary(t *testing.T) {
	for _, field := range []SegmentField{SegmentFieldSpend, SegmentFieldVisits, SegmentFieldInactiveDays} {
		assert.True(t, field.Valid(), field)
	}
	assert.False(t, SegmentField("loyalty_tier").Valid())
	assert.False(t, SegmentField("").Valid())

	for _, op := range []SegmentOperator{SegmentOperatorGT, SegmentOperatorLT, SegmentOperatorGTE, SegmentOperatorLTE, SegmentOperatorEQ} {
		assert.True(t, op.Valid(), op)
	}
	assert.False(t, SegmentOperator("between").Valid())
	assert.False(t, SegmentOperator(">").Valid())

	assert.True(t, CombinatorAnd.Valid())
	assert.True(t, CombinatorOr.Valid())
	assert.False(t, Combinator("XOR").Valid())
	assert.False(t, Combinator("and").Valid())
}

func TestAudienceFilterValueScan(t *testing.T) {
	filter := AudienceFilter{
		Rules: []SegmentRule{
			{Field: SegmentFieldSpend, Operator: SegmentOperatorGT, Value: 10000},
			{Field: SegmentFieldInactiveDays, Operator: SegmentOperatorGT, Value: 90},
		},
		Condition: CombinatorOr,
	}

	value, err := filter.Value()
	require.NoError(t, err)

	var scanned AudienceFilter
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, filter, scanned)
}

func TestAudienceFilterScanString(t *testing.T) {
	var filter AudienceFilter
	require.NoError(t, filter.Scan(`{"rules":[{"field":"visits","operator":"lte","value":2}],"condition":"AND"}`))

	require.Len(t, filter.Rules, 1)
	assert.Equal(t, SegmentFieldVisits, filter.Rules[0].Field)
	assert.Equal(t, SegmentOperatorLTE, filter.Rules[0].Operator)
	assert.Equal(t, 2.0, filter.Rules[0].Value)
	assert.Equal(t, CombinatorAnd, filter.Condition)
}

func TestAudienceFilterScanNilAndGarbage(t *testing.T) {
	var filter AudienceFilter
	require.NoError(t, filter.Scan(nil))
	assert.Empty(t, filter.Rules)

	assert.Error(t, filter.Scan(42))
	assert.Error(t, filter.Scan("not json"))
}
