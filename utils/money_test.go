package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		name     string
		input    decimal.Decimal
		expected string
	}{
		{"exact value unchanged", decimal.NewFromInt(60), "60"},
		{"three places unchanged", decimal.NewFromFloat(2.073), "2.073"},
		{"repeating decimal rounds up", decimal.NewFromInt(100).Div(decimal.NewFromInt(3)), "33.334"},
		{"tiny remainder rounds up", decimal.NewFromFloat(0.0001), "0.001"},
		{"fourth place always rounds up", decimal.NewFromFloat(12.3451), "12.346"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rounded := RoundMoney(tc.input)
			assert.True(t, rounded.Equal(decimal.RequireFromString(tc.expected)),
				"RoundMoney(%s) = %s, expected %s", tc.input, rounded, tc.expected)
		})
	}
}

func TestRoundMoney_NeverRoundsDown(t *testing.T) {
	inputs := []string{"0.0005", "1.23456", "99.9991", "33.333333"}
	for _, input := range inputs {
		d := decimal.RequireFromString(input)
		assert.True(t, RoundMoney(d).GreaterThanOrEqual(d), "RoundMoney(%s) dropped below the input", input)
	}
}

func TestWithinOffsetBand(t *testing.T) {
	expected := decimal.NewFromInt(100)

	assert.True(t, WithinOffsetBand(decimal.NewFromInt(100), expected))
	assert.True(t, WithinOffsetBand(decimal.NewFromFloat(100.002), expected))
	assert.True(t, WithinOffsetBand(decimal.NewFromFloat(100.1), expected))
	assert.False(t, WithinOffsetBand(decimal.NewFromFloat(100.101), expected))
	assert.False(t, WithinOffsetBand(decimal.NewFromFloat(99.999), expected), "under-totals are never tolerated")
}
