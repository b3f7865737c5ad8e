package csvexport_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"devasthan/internal/csvexport"
	"devasthan/internal/domain"
)

func sampleDonation() domain.Donation {
	pan := "ABCDE****F"
	phone := "+91987*****10"
	ref := "UPI-12345"
	breakup, _ := json.Marshal(map[string]string{"general": "100.50", "annadanam": "501.00"})
	return domain.Donation{
		OrgID:            uuid.New(),
		ReceiptNo:        "2025-00042",
		RangeID:          "2025-A",
		Seq:              42,
		Date:             time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		DonorID:          "D_abc123def456",
		DonorName:        "Ravi Kumar",
		DonorPANMasked:   &pan,
		DonorPhoneMasked: &phone,
		Breakup:          breakup,
		PaymentMode:      domain.PaymentModeUPI,
		PaymentRef:       &ref,
		Eligible80G:      true,
		Total:            decimal.RequireFromString("601.50"),
		CreatedAt:        time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestWriter_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)

	assert.NoError(t, w.WriteHeader())
	assert.NoError(t, w.WriteDonations([]domain.Donation{sampleDonation()}))
	assert.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Receipt No,Date,Donor ID"))

	row := lines[1]
	assert.Contains(t, row, "2025-00042")
	assert.Contains(t, row, "2025-03-15")
	assert.Contains(t, row, "Ravi Kumar")
	assert.Contains(t, row, "ABCDE****F")
	// Breakup purposes are sorted for stable output.
	assert.Contains(t, row, "annadanam: 501.00; general: 100.50")
	assert.Contains(t, row, "Yes")
	assert.Contains(t, row, "601.50")
}

func TestWriter_NilOptionalFields(t *testing.T) {
	d := sampleDonation()
	d.DonorPANMasked = nil
	d.DonorPhoneMasked = nil
	d.PaymentRef = nil
	d.Eligible80G = false

	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	assert.NoError(t, w.WriteDonations([]domain.Donation{d}))
	assert.NoError(t, w.Flush())

	row := strings.TrimRight(buf.String(), "\n")
	assert.Contains(t, row, ",,")
	assert.Contains(t, row, "No")
}

func TestColumnsIsACopy(t *testing.T) {
	cols := csvexport.Columns()
	cols[0] = "tampered"
	assert.Equal(t, "Receipt No", csvexport.Columns()[0])
}

func TestDonationRowMatchesHeaderWidth(t *testing.T) {
	d := sampleDonation()
	assert.Len(t, csvexport.DonationRow(&d), len(csvexport.Columns()))
}
