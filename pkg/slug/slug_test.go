package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/suvenirs-api/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Tazón Cerámico 11oz", "tazon-ceramico-11oz"},
		{"  Libreta   A5 -- Ecológica  ", "libreta-a5-ecologica"},
		{"Ñandú & Pingüino!", "nandu-pinguino"},
		{"Mochila/Bolso (Negro)", "mochila-bolso-negro"},
		{"---", ""},
		{"", ""},
		{"ALREADY-slug-123", "already-slug-123"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slug.Make(tc.in), "entrada %q", tc.in)
	}
}

func TestMake_Idempotente(t *testing.T) {
	names := []string{"Bolígrafo Metálico Grabado", "Polera Algodón Orgánico", "Set Café ☕ Premium"}
	for _, n := range names {
		first := slug.Make(n)
		assert.Equal(t, first, slug.Make(n), "misma entrada, mismo slug")
		assert.Equal(t, first, slug.Make(first), "aplicar sobre un slug no lo cambia")
	}
}
