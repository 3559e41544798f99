package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/pkg/money"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1990", "1990"},
		{"$1.990", "1990"},
		{" $ 12.500 ", "12500"},
		{"12,5", "12.5"},
		{"$1.234,75", "1234.75"},
		{"0", "0"},
	}
	for _, tc := range cases {
		got, err := money.ParsePrice(tc.in)
		require.NoError(t, err, "entrada %q", tc.in)
		assert.Equal(t, tc.want, got.String(), "entrada %q", tc.in)
	}
}

func TestParsePrice_Invalido(t *testing.T) {
	for _, in := range []string{"abc", "", "  ", "$", "12a"} {
		_, err := money.ParsePrice(in)
		assert.Error(t, err, "entrada %q debe fallar", in)
	}
}

func TestParseQuantity(t *testing.T) {
	n, err := money.ParseQuantity("1.200")
	require.NoError(t, err)
	assert.Equal(t, 1200, n)

	n, err = money.ParseQuantity("")
	require.NoError(t, err)
	assert.Equal(t, 0, n, "vacío se interpreta como 0")

	_, err = money.ParseQuantity("diez")
	assert.Error(t, err)
}
