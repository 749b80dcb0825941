package utils

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"maria@example.com",
		"maria.lopez+pos@tienda.com.ni",
	}
	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}

	invalid := []string{
		"",
		"maria",
		"maria@",
		"@example.com",
		"maria@example",
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	// Nicaraguan mobile numbers are 8 digits starting with 8
	if err := ValidatePhoneNumber("88881234", CountryCode); err != nil {
		t.Errorf("expected local number to be valid: %v", err)
	}
	if err := ValidatePhoneNumber("+50588881234", CountryCode); err != nil {
		t.Errorf("expected E.164 number to be valid: %v", err)
	}
	if err := ValidatePhoneNumber("123", CountryCode); err == nil {
		t.Errorf("expected short number to be invalid")
	}
	if err := ValidatePhoneNumber("not-a-number", CountryCode); err == nil {
		t.Errorf("expected garbage to be invalid")
	}
}
