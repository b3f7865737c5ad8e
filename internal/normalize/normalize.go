// Package normalize holds the pure canonicalization, hashing, and masking
// functions for donor-identifying fields. Everything here is deterministic
// and side-effect free; identity resolution and receipt issuance build on
// these primitives.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const countryCode = "91" // India; other country formats are rejected

var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// Phone normalizes a raw phone number to E.164 (+91XXXXXXXXXX). It accepts
// a bare 10-digit subscriber number, 11 digits with a leading 0, 12 digits
// with the country code, or 13 digits with 0 plus the country code.
func Phone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "+" + countryCode + digits, true
	case len(digits) == 11 && digits[0] == '0':
		return "+" + countryCode + digits[1:], true
	case len(digits) == 12 && strings.HasPrefix(digits, countryCode):
		return "+" + digits, true
	case len(digits) == 13 && strings.HasPrefix(digits, "0"+countryCode):
		return "+" + digits[1:], true
	}
	return "", false
}

// Email normalizes an email address to lowercase trimmed form. The address
// must contain exactly one @ and a dot in the domain part.
func Email(raw string) (string, bool) {
	e := strings.ToLower(strings.TrimSpace(raw))
	at := strings.Index(e, "@")
	if at <= 0 || at != strings.LastIndex(e, "@") {
		return "", false
	}
	domain := e[at+1:]
	if len(domain) < 3 || !strings.Contains(domain, ".") {
		return "", false
	}
	return e, true
}

// PAN normalizes an Indian PAN to uppercase trimmed form and validates the
// 5-letter, 4-digit, 1-letter shape.
func PAN(raw string) (string, bool) {
	p := strings.ToUpper(strings.TrimSpace(raw))
	if !panPattern.MatchString(p) {
		return "", false
	}
	return p, true
}

// Amount parses a numeric or string amount, rejecting negatives and
// non-numeric input, and rounds half away from zero to two decimal places.
func Amount(v any) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(x)
	case float32:
		if f := float64(x); math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat32(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case json.Number:
		parsed, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	default:
		return decimal.Zero, false
	}
	if d.IsNegative() {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

// Hash returns the one-way identifying hash of a normalized value, prefixed
// so stored hashes are self-describing. Used for PAN and email aliases; raw
// values never land in an index key.
func Hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return "h:sha256:" + hex.EncodeToString(sum[:])
}

// ShortHash returns the first 12 hex characters of SHA-256(value). Used for
// deterministic donor ID derivation.
func ShortHash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:12]
}

// MaskPAN redacts a PAN for display: first five characters, four stars, and
// the final letter.
func MaskPAN(pan string) string {
	if len(pan) != 10 {
		return pan
	}
	return pan[:5] + "****" + pan[9:]
}

// MaskEmail redacts an email for display: first character, three stars, and
// the domain.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	return email[:1] + "***" + email[at:]
}

// MaskPhone redacts an E.164 phone for display: country code and first
// three subscriber digits kept, middle five masked, last two kept.
func MaskPhone(e164 string) string {
	if !strings.HasPrefix(e164, "+"+countryCode) || len(e164) != 13 {
		return e164
	}
	sub := e164[3:]
	return "+" + countryCode + sub[:3] + "*****" + sub[8:]
}
