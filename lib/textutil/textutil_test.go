package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanDate(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{in: "", expected: ""},
		{in: "Sa, 12.07.2025\n   20:00 Uhr", expected: "Sa, 12.07.2025 20:00 Uhr"},
		{in: "12.07.2025 In Kalender Speichern", expected: "12.07.2025"},
		{in: "12.07.2025 in Kalender speichern 13.07.2025", expected: "12.07.202513.07.2025"},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, CleanDate(test.in), test.in)
	}
}

func TestNullHelpers(t *testing.T) {
	require.Equal(t, "null", NullIfMissing("N/A"))
	require.Equal(t, "null", NullIfMissing("NULL"))
	require.Equal(t, "Null", NullIfMissing("Null"))
	require.Equal(t, "x", NullIfMissing("x"))

	require.Equal(t, "null", OrNull(""))
	require.Equal(t, "a", OrNull("a"))

	require.Equal(t, "a, b", JoinOrNull([]string{"a", "", "b"}, ", "))
	require.Equal(t, "null", JoinOrNull(nil, ", "))
}

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "a b c", CollapseWhitespace("  a \n\t b   c "))
}
