package gemini

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain object",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "json fence",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare fence",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding whitespace",
			raw:  "  \n{\"a\": 1}\n  ",
			want: `{"a": 1}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, extractJSON(tc.raw))
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	require.Equal(t, 0.82, coerceFloat(0.82))
	require.Equal(t, 3.0, coerceFloat(3))
	require.Equal(t, 0.5, coerceFloat(" 0.5 "))
	require.True(t, math.IsNaN(coerceFloat("")))
	require.True(t, math.IsNaN(coerceFloat("high")))
	require.True(t, math.IsNaN(coerceFloat(nil)))
	require.True(t, math.IsNaN(coerceFloat([]any{1})))
}

func TestCoerceString(t *testing.T) {
	require.Equal(t, "solid bid", coerceString("  solid bid \n"))
	require.Equal(t, "", coerceString(nil))
	require.Equal(t, `{"k":"v"}`, coerceString(map[string]any{"k": "v"}))
}

func TestCoerceStringSlice(t *testing.T) {
	require.Equal(t, []string{"bid_1", "bid_2"}, coerceStringSlice([]any{"bid_1", " bid_2 ", ""}))
	require.Nil(t, coerceStringSlice("bid_1"))
	require.Nil(t, coerceStringSlice(nil))
}

func TestClamp01(t *testing.T) {
	require.Equal(t, 0.0, clamp01(-0.4))
	require.Equal(t, 1.0, clamp01(1.7))
	require.Equal(t, 0.6, clamp01(0.6))
	require.Equal(t, 0.0, clamp01(math.NaN()))
}
