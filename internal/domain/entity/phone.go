package entity

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone valida el teléfono y lo devuelve en formato E.164.
// region se usa cuando el número no trae prefijo internacional (ej. "CO", "US").
// Un teléfono vacío es válido (campo opcional).
func NormalizePhone(phone, region string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil {
		return "", fmt.Errorf("teléfono inválido: %w", err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("teléfono inválido")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
