package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected FlexString
	}{
		{name: "string", input: `"250.00"`, expected: "250.00"},
		{name: "number", input: `250`, expected: "250"},
		{name: "bool", input: `true`, expected: "true"},
		{name: "null", input: `null`, expected: ""},
		{name: "object", input: `{"a":1}`, expected: ""},
		{name: "array", input: `[1]`, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				F FlexString `json:"f"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"f":`+tt.input+`}`), &v))
			assert.Equal(t, tt.expected, v.F)
		})
	}
}

func TestAmount_Float(t *testing.T) {
	v, ok := Amount("199.95").Float()
	assert.True(t, ok)
	assert.Equal(t, 199.95, v)

	_, ok = Amount("").Float()
	assert.False(t, ok)

	_, ok = Amount("N/A").Float()
	assert.False(t, ok)

	for _, value := range []Amount{"NaN", "Inf", "+Inf", "-Infinity", "infinity"} {
		v, ok := Amount(value).Float()
		assert.False(t, ok, value)
		assert.Zero(t, v, value)
	}
}

func TestRawOffer_PreservesUnknownFields(t *testing.T) {
	input := `{"id":"1","oneWay":true,"price":{"currency":"AUD","total":"199.00"},"pricingOptions":{"fareType":["PUBLISHED"]}}`

	var offer RawOffer
	require.NoError(t, json.Unmarshal([]byte(input), &offer))
	assert.Equal(t, FlexString("1"), offer.ID)
	assert.True(t, offer.OneWay)
	assert.Equal(t, "AUD", offer.Price.Currency)

	out, err := json.Marshal(offer)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestRawOffer_MarshalWithoutRaw(t *testing.T) {
	offer := RawOffer{ID: "9", Price: RawPrice{Currency: "AUD", Total: "100"}}

	out, err := json.Marshal(offer)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "9", decoded["id"])
	assert.Contains(t, decoded, "price")
}

func TestSearchPayload_RoundTripThroughWorkflowInput(t *testing.T) {
	var payload SearchPayload
	require.NoError(t, json.Unmarshal([]byte(`{"data":[{"id":"3","source":"GDS","extra":42}]}`), &payload))
	require.Len(t, payload.Data, 1)

	input := PricingWorkflowInput{Token: "tok", OfferID: "3", RawOffer: payload.Data[0]}
	encoded, err := json.Marshal(input)
	require.NoError(t, err)

	var decoded PricingWorkflowInput
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, "GDS", decoded.RawOffer.Source)

	again, err := json.Marshal(decoded.RawOffer)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"3","source":"GDS","extra":42}`, string(again))
}

func TestPricingWorkflowID(t *testing.T) {
	assert.Equal(t, "pricing-7-tok-1", PricingWorkflowID("tok-1", "7"))
}
