// Package export renders entries as a spreadsheet.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jonathan/resutrack/internal/types"
	"github.com/xuri/excelize/v2"
)

// DefaultFilename is the suggested name for an exported workbook.
const DefaultFilename = "resume_entries.xlsx"

// ContentType is the MIME type of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the worksheet that holds the entries.
const SheetName = "Sheet1"

// DateLayout formats every date column.
const DateLayout = "2006-01-02 15:04"

// Headers is the header row, in column order.
var Headers = []string{
	"Company Name",
	"Resume Link",
	"Date Applied",
	"Stipend",
	"Exam Date",
	"Interview Date",
	"Note",
	"Has Image",
	"Link Status",
}

// Row projects one entry onto the header columns.
func Row(e types.ResumeEntry) []any {
	hasImage := "No"
	if e.Image != "" {
		hasImage = "Yes"
	}
	status := string(e.ValidationStatus)
	if status == "" {
		status = string(types.StatusPending)
	}
	return []any{
		e.CompanyName,
		e.ResumeLink,
		e.RegistrationDate.Format(DateLayout),
		e.Stipend,
		formatOptional(e.ExamDate),
		formatOptional(e.InterviewDate),
		e.Note,
		hasImage,
		status,
	}
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// WriteXLSX writes entries as an .xlsx workbook to w, one row per entry in
// the given order. Image payloads are not embedded.
func WriteXLSX(w io.Writer, entries []types.ResumeEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, Row(e)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
