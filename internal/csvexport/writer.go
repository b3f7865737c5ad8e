package csvexport

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"devasthan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row for the donation register.
var columns = []string{
	"Receipt No",
	"Date",
	"Donor ID",
	"Donor Name",
	"Donor PAN",
	"Donor Phone",
	"Breakup",
	"Payment Mode",
	"Payment Ref",
	"80G Eligible",
	"Total",
	"Range",
	"Created At",
}

// Writer wraps csv.Writer for exporting donations as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDonations converts a batch of donations to CSV rows and writes them.
func (w *Writer) WriteDonations(donations []domain.Donation) error {
	for i := range donations {
		if err := w.csv.Write(donationToRow(&donations[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

// Columns returns a copy of the header columns, shared with the Excel
// exporter so both register formats stay aligned.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// DonationRow renders one donation as a row of cells in header order.
func DonationRow(d *domain.Donation) []string {
	return donationToRow(d)
}

func donationToRow(d *domain.Donation) []string {
	return []string{
		d.ReceiptNo,
		d.Date.Format("2006-01-02"),
		d.DonorID,
		d.DonorName,
		deref(d.DonorPANMasked),
		deref(d.DonorPhoneMasked),
		formatBreakup(d),
		string(d.PaymentMode),
		deref(d.PaymentRef),
		boolCell(d.Eligible80G),
		d.Total.StringFixed(2),
		d.RangeID,
		d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// formatBreakup renders the purpose→amount map as "purpose: amount; ..."
// with purposes sorted for stable output.
func formatBreakup(d *domain.Donation) string {
	m, err := d.BreakupMap()
	if err != nil {
		return ""
	}
	purposes := make([]string, 0, len(m))
	for p := range m {
		purposes = append(purposes, p)
	}
	sort.Strings(purposes)

	parts := make([]string, 0, len(purposes))
	for _, p := range purposes {
		parts = append(parts, p+": "+m[p].StringFixed(2))
	}
	return strings.Join(parts, "; ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolCell(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
