// Package export renders record collections as styled Excel reports.
package export

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	OrganizationName = "جامعة الإمام محمد بن سعود الإسلامية"
	DepartmentName   = "وحدة إسكان هيئة التدريس"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// first table row; rows above hold the report title block
	headerRow = 6
)

type column[T any] struct {
	header string
	width  float64
	value  func(T) any
}

// Exporter builds reports stamped with a report number and issue time.
type Exporter struct {
	now func() time.Time
}

func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Report a generated workbook.
type Report struct {
	Number   string
	Filename string
	Data     []byte
}

// reportNumber TR-YYYYMMDD-NNN.
func (e *Exporter) reportNumber(at time.Time) string {
	return fmt.Sprintf("TR-%s-%03d", at.Format("20060102"), rand.IntN(1000))
}

func build[T any](e *Exporter, sheetName, title, filePrefix string, cols []column[T], rows []T) (*Report, error) {
	now := e.now()
	number := e.reportNumber(now)

	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	rtl := true
	if err := f.SetSheetView(sheetName, -1, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set sheet view: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to convert column number: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "#1A5F3F"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}
	titleBlock := []string{
		OrganizationName,
		DepartmentName,
		title,
		fmt.Sprintf("رقم التقرير: %s | تاريخ الإصدار: %s | عدد السجلات: %d", number, now.Format("2006-01-02 15:04"), len(rows)),
	}
	for i, text := range titleBlock {
		row := i + 1
		first, last := fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row)
		if err := f.MergeCell(sheetName, first, last); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to merge title row %d: %w", row, err)
		}
		if err := f.SetCellValue(sheetName, first, text); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set title row %d: %w", row, err)
		}
		if err := f.SetCellStyle(sheetName, first, last, titleStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set title style: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, c.header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, name, name, c.width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for r, item := range rows {
		for i, c := range cols {
			v := c.value(item)
			if v == nil || v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, headerRow+1+r)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	// the file must stay open while writing
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return &Report{
		Number:   number,
		Filename: fmt.Sprintf("%s_%s.xlsx", filePrefix, now.Format("20060102_150405")),
		Data:     buf.Bytes(),
	}, nil
}
