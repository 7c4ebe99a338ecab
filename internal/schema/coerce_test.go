package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cell string
		kind Kind
		want any
	}{
		{"42", Int, int64(42)},
		{" 7 ", Int, int64(7)},
		{"2.5", Float, 2.5},
		{"3", Float, 3.0},
		{"True", Bool, true},
		{"false", Bool, false},
		{"Hubei", Text, "Hubei"},
		{" spaced ", Text, " spaced "},
		{"", Int, nil},
		{"NA", Text, nil},
		{"NaN", Float, nil},
	}
	for _, tc := range tests {
		got, err := Coerce(tc.cell, tc.kind)
		require.NoError(t, err, "%q as %s", tc.cell, tc.kind)
		assert.Equal(t, tc.want, got, "%q as %s", tc.cell, tc.kind)
	}
}

func TestCoerce_Rejects(t *testing.T) {
	t.Parallel()

	_, err := Coerce("1.5", Int)
	assert.ErrorContains(t, err, `"1.5" is not a valid int`)
	_, err = Coerce("abc", Float)
	assert.Error(t, err)
	_, err = Coerce("yes", Bool)
	assert.Error(t, err)
}

func TestRow(t *testing.T) {
	t.Parallel()

	cols := []Column{{"state", Text}, {"confirmed", Int}, {"deaths", Float}}

	got, err := Row(cols, []string{"Hubei", "444", ""})
	require.NoError(t, err)
	assert.Equal(t, []any{"Hubei", int64(444), nil}, got)

	got, err = Row(cols, []string{"x", "1", "inf"})
	require.NoError(t, err)
	assert.Nil(t, got[2], "infinities are stored as NULL")

	_, err = Row(cols, []string{"Hubei", "many", "1"})
	assert.ErrorContains(t, err, `column "confirmed"`)

	_, err = Row(cols, []string{"short"})
	assert.ErrorContains(t, err, "row has 1 cells, want 3")
}
