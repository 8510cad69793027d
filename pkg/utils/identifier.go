package utils

import (
	"regexp"
	"strings"
)

type IdentifierKind int

const (
	IdentifierInvalid IdentifierKind = iota
	IdentifierEmail
	IdentifierPhone
	IdentifierOther
)

var (
	phoneNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "")
	phoneRe    = regexp.MustCompile(`^\d{7,15}$`)
	digitsRe   = regexp.MustCompile(`^\d+$`)
)

// NormalizeIdentifier giriş/kayıt için e-posta veya telefonu tek biçime indirger.
// E-posta küçük harfe çevrilir, telefondan boşluk ve ayraçlar atılır.
func NormalizeIdentifier(raw string) (IdentifierKind, string) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return IdentifierInvalid, ""
	}
	if strings.Contains(value, "@") {
		return IdentifierEmail, strings.ToLower(value)
	}

	digits := phoneNoise.Replace(value)
	if digitsRe.MatchString(digits) {
		if phoneRe.MatchString(digits) {
			return IdentifierPhone, digits
		}
		return IdentifierInvalid, digits
	}
	return IdentifierOther, strings.ToLower(value)
}

// PlaceholderEmail sadece telefonla kayıt olan kullanıcılar için
func PlaceholderEmail(phone string) string {
	return phone + "@placeholder.local"
}
