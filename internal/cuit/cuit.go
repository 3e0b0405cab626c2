// Package cuit normalizes and validates Argentine CUIT/CUIL numbers.
package cuit

import "strings"

var pesos = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// Normalizar strips separators and returns the canonical XX-XXXXXXXX-X form.
// The input is returned unchanged when it does not have 11 digits.
func Normalizar(s string) string {
	d := digitos(s)
	if len(d) != 11 {
		return strings.TrimSpace(s)
	}
	return d[:2] + "-" + d[2:10] + "-" + d[10:]
}

// Valido checks length, known prefix and the mod-11 check digit.
func Valido(s string) bool {
	d := digitos(s)
	if len(d) != 11 {
		return false
	}
	switch d[:2] {
	case "20", "23", "24", "27", "30", "33", "34":
	default:
		return false
	}
	suma := 0
	for i, p := range pesos {
		suma += int(d[i]-'0') * p
	}
	dv := 11 - suma%11
	switch dv {
	case 11:
		dv = 0
	case 10:
		return false
	}
	return int(d[10]-'0') == dv
}

func digitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '.':
		default:
			return ""
		}
	}
	return b.String()
}
