package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"devasthan/internal/csvexport"
	"devasthan/internal/port"
)

// exportPageSize is how many donations are fetched per repository page
// while streaming an export.
const exportPageSize = 500

// ExportService renders the donation register as CSV or Excel, optionally
// parking the result in object storage for download.
type ExportService interface {
	WriteCSV(ctx context.Context, orgID uuid.UUID, filter port.DonationFilter, w io.Writer) (int, error)
	WriteExcel(ctx context.Context, orgID uuid.UUID, filter port.DonationFilter, w io.Writer) (int, error)
	StoreExport(ctx context.Context, orgID uuid.UUID, filter port.DonationFilter, format string) (string, error)
}

type exportService struct {
	donations     port.DonationRepository
	storage       port.ObjectStorage
	bucket        string
	presignExpiry int64
}

// NewExportService creates a new ExportService. Storage may be nil, in
// which case StoreExport is unavailable.
func NewExportService(donations port.DonationRepository, storage port.ObjectStorage, bucket string, presignExpiry int64) ExportService {
	return &exportService{donations: donations, storage: storage, bucket: bucket, presignExpiry: presignExpiry}
}

// WriteCSV streams the filtered register as BOM-prefixed CSV and returns
// the number of rows written.
func (s *exportService) WriteCSV(ctx context.Context, orgID uuid.UUID, filter port.DonationFilter, w io.Writer) (int, error) {
	if _, err := w.Write(csvexport.BOM); err != nil {
		return 0, fmt.Errorf("export.WriteCSV: %w", err)
	}

	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return 0, fmt.Errorf("export.WriteCSV header: %w", err)
	}

	rows := 0
	filter.Limit = exportPageSize
	for offset := 0; ; offset += exportPageSize {
		filter.Offset = offset
		batch, _, err := s.donations.List(ctx, orgID, filter)
		if err != nil {
			return rows, err
		}
		if err := cw.WriteDonations(batch); err != nil {
			return rows, fmt.Errorf("export.WriteCSV rows: %w", err)
		}
		rows += len(batch)
		if len(batch) < exportPageSize {
			break
		}
	}
	return rows, cw.Flush()
}

// WriteExcel renders the filtered register as an xlsx workbook.
func (s *exportService) WriteExcel(ctx context.Context, orgID uuid.UUID, filter port.DonationFilter, w io.Writer) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Donations"
	f.SetSheetName("Sheet1", sheet)

	header := csvexport.Columns()
	for i, col := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return 0, fmt.Errorf("export.WriteExcel header: %w", err)
		}
	}

	rows := 0
	filter.Limit = exportPageSize
	for offset := 0; ; offset += exportPageSize {
		filter.Offset = offset
		batch, _, err := s.donations.List(ctx, orgID, filter)
		if err != nil {
			return rows, err
		}
		for i := range batch {
			cells := csvexport.DonationRow(&batch[i])
			for j, v := range cells {
				cell, _ := excelize.CoordinatesToCellName(j+1, rows+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return rows, fmt.Errorf("export.WriteExcel row: %w", err)
				}
			}
			rows++
		}
		if len(batch) < exportPageSize {
			break
		}
	}

	if err := f.Write(w); err != nil {
		return rows, fmt.Errorf("export.WriteExcel write: %w", err)
	}
	return rows, nil
}

// StoreExport renders the register, uploads it to object storage, and
// returns a presigned download URL.
func (s *exportService) StoreExport(ctx context.Context, orgID uuid.UUID, filter port.DonationFilter, format string) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("export.StoreExport: object storage not configured")
	}

	var buf bytes.Buffer
	var contentType, ext string
	var err error

	switch format {
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		ext = "xlsx"
		_, err = s.WriteExcel(ctx, orgID, filter, &buf)
	default:
		contentType = "text/csv"
		ext = "csv"
		_, err = s.WriteCSV(ctx, orgID, filter, &buf)
	}
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/%s/donations-%s.%s", orgID, time.Now().UTC().Format("20060102-150405"), ext)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        &buf,
		ContentType: contentType,
		Size:        int64(buf.Len()),
	})
	if err != nil {
		return "", fmt.Errorf("export.StoreExport upload: %w", err)
	}

	return s.storage.GetPresignedURL(ctx, s.bucket, key, s.presignExpiry)
}
