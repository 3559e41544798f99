// Package money interpreta importes escritos con formato local (CLP).
package money

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParsePrice acepta "$1.990", "1990", "12,5" o " 3.500 ".
// Quita el símbolo $, los separadores de miles y los espacios, y convierte la coma decimal en punto.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := clean(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("precio vacío")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("precio inválido %q", raw)
	}
	return d, nil
}

// ParseQuantity interpreta una cantidad entera con la misma limpieza que ParsePrice.
func ParseQuantity(raw string) (int, error) {
	cleaned := clean(raw)
	if cleaned == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("cantidad inválida %q", raw)
	}
	return n, nil
}

func clean(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r == '$' || r == '.' || unicode.IsSpace(r) {
			continue
		}
		if r == ',' {
			r = '.'
		}
		b.WriteRune(r)
	}
	return b.String()
}
