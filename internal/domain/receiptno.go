package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// Receipt numbers are "YYYY-NNNNN": four-digit year, dash, five-digit
// zero-padded sequence. Range IDs are "YYYY-S" where S is a one or two
// character alphanumeric suffix.
var (
	receiptNoPattern = regexp.MustCompile(`^(\d{4})-(\d{5})$`)
	rangeIDPattern   = regexp.MustCompile(`^(\d{4})-[A-Za-z0-9]{1,2}$`)
)

// MaxRangeSize caps how many numbers a single range may hold.
const MaxRangeSize = 99999

// FormatReceiptNo renders a year and sequence number as a receipt number.
func FormatReceiptNo(year, seq int) string {
	return fmt.Sprintf("%04d-%05d", year, seq)
}

// ParseReceiptNo splits a receipt number back into year and sequence.
func ParseReceiptNo(receiptNo string) (year, seq int, err error) {
	m := receiptNoPattern.FindStringSubmatch(receiptNo)
	if m == nil {
		return 0, 0, NewValidationError("receipt_no", "must match YYYY-NNNNN")
	}
	year, _ = strconv.Atoi(m[1])
	seq, _ = strconv.Atoi(m[2])
	return year, seq, nil
}

// ValidateRangeID checks the range ID format and that its year prefix
// matches the range's year.
func ValidateRangeID(id string, year int) error {
	m := rangeIDPattern.FindStringSubmatch(id)
	if m == nil {
		return NewValidationError("range_id", "must match YYYY-<1-2 alphanumeric chars>")
	}
	prefix, _ := strconv.Atoi(m[1])
	if prefix != year {
		return NewValidationError("range_id", "year prefix does not match range year")
	}
	return nil
}
