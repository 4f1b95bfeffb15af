package recurrence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleJSONRoundTrip(t *testing.T) {
	until := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name string
		rule Rule
	}{
		{"weekly with end date", Rule{Frequency: Weekly, Interval: 2, Until: &until}},
		{"daily without end date", Rule{Frequency: Daily, Interval: 1}},
		{"yearly", Rule{Frequency: Yearly, Interval: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.rule)
			require.NoError(t, err)

			got := DecodeRule(data)
			require.True(t, got.IsPresent())
			assert.True(t, got.MustGet().Equal(tt.rule))
		})
	}
}

func TestRuleMarshalShape(t *testing.T) {
	until := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)

	data, err := json.Marshal(Rule{Frequency: Weekly, Interval: 2, Until: &until})
	require.NoError(t, err)
	assert.JSONEq(t, `{"frequency":"weekly","interval":2,"endDate":"2026-12-31T23:59:00Z"}`, string(data))

	data, err = json.Marshal(Rule{Frequency: Daily, Interval: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"frequency":"daily","interval":1}`, string(data))
}

func TestDecodeRuleDefaultsInterval(t *testing.T) {
	got := DecodeRule([]byte(`{"frequency":"monthly"}`))
	require.True(t, got.IsPresent())
	assert.Equal(t, 1, got.MustGet().Interval)
	assert.Equal(t, Monthly, got.MustGet().Frequency)
}

func TestDecodeRuleFailSoft(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "not json"},
		{"empty string", ""},
		{"wrong shape", `[1,2,3]`},
		{"unknown frequency", `{"frequency":"fortnightly"}`},
		{"zero interval", `{"frequency":"daily","interval":0}`},
		{"negative interval", `{"frequency":"daily","interval":-1}`},
		{"bad end date", `{"frequency":"daily","endDate":"tomorrow"}`},
		{"missing frequency", `{"interval":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, DecodeRule([]byte(tt.payload)).IsAbsent())
		})
	}
}

func TestDecodeRuleLocalEndDate(t *testing.T) {
	got := DecodeRule([]byte(`{"frequency":"weekly","interval":1,"endDate":"2026-12-31T23:59:00.000"}`))
	require.True(t, got.IsPresent())

	rule := got.MustGet()
	require.NotNil(t, rule.Until)
	assert.True(t, rule.Until.Equal(time.Date(2026, 12, 31, 23, 59, 0, 0, time.Local)))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339 utc", "2026-03-15T14:30:00Z", time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)},
		{"rfc3339 offset", "2026-03-15T14:30:00+02:00", time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)},
		{"zone-less", "2026-03-15T14:30:00", time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local)},
		{"zone-less with millis", "2026-03-15T14:30:00.500", time.Date(2026, 3, 15, 14, 30, 0, 500000000, time.Local)},
		{"date only", "2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}

	_, err := ParseDate("soon")
	assert.Error(t, err)
}
