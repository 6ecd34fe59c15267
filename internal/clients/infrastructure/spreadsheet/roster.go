// Package spreadsheet exports the roster as an Excel workbook.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the roster.
const SheetName = "Clients"

var headers = []string{
	"#", "Name", "Phone", "Goals", "Medical History", "Location", "Tags", "Recurring", "One-time",
}

// RosterEncoder writes one row per client.
type RosterEncoder struct{}

// NewRosterEncoder creates a RosterEncoder.
func NewRosterEncoder() *RosterEncoder {
	return &RosterEncoder{}
}

// Encode writes the roster as an .xlsx workbook.
func (e *RosterEncoder) Encode(w io.Writer, roster []queries.ClientDTO) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return err
		}
	}

	for i, client := range roster {
		row := i + 2
		values := []any{
			client.Position,
			client.Name,
			client.Phone,
			client.Goals,
			client.MedicalHistory,
			client.Location,
			strings.Join(client.Tags, ", "),
			strings.Join(client.Recurring, "\n"),
			strings.Join(client.OneTime, "\n"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

var _ queries.RosterEncoder = (*RosterEncoder)(nil)
