// Package otp genera y compara códigos de un solo uso de 6 dígitos.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// Length número de dígitos del código.
const Length = 6

var max = big.NewInt(1_000_000)

// Generate devuelve un código aleatorio de 6 dígitos (con ceros a la izquierda) usando crypto/rand.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("otp: generar código: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Valid indica si s tiene exactamente 6 dígitos ASCII.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Equal compara en tiempo constante.
func Equal(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
