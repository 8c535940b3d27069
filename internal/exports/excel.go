package exports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Báo giá"

// columnWidths maps the printed columns. Keep in sync with writeItemRow.
var columnWidths = map[string]float64{
	"A": 6,  // STT
	"B": 40, // Hạng mục
	"C": 35, // Thông số kỹ thuật
	"D": 8,  // SL
	"E": 10, // Đơn vị
	"F": 14, // Hãng
	"G": 12, // Xuất xứ
	"H": 16, // Đơn giá
	"I": 18, // Thành tiền trước VAT
	"J": 8,  // VAT %
	"K": 18, // Thành tiền sau VAT
	"L": 24, // Ghi chú
}

// RenderExcel writes the quotation form into an xlsx workbook and returns
// the serialized bytes.
func RenderExcel(form Form) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	row, err := writeHeader(f, styles, form.Info)
	if err != nil {
		return nil, err
	}

	row, err = writeColumnHeadings(f, styles, row)
	if err != nil {
		return nil, err
	}

	for _, section := range form.Sections {
		row, err = writeSection(f, styles, row, section)
		if err != nil {
			return nil, err
		}
	}

	if err := writeSummary(f, styles, row, form.Summary); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type styleSet struct {
	title    int
	header   int
	section  int
	cell     int
	money    int
	subtotal int
	summary  int
}

func newStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	moneyFmt := "#,##0"

	s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("title style: %w", err)
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
		Border:    thin,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}

	s.section, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FCE4D6"}},
		Border: thin,
	})
	if err != nil {
		return s, fmt.Errorf("section style: %w", err)
	}

	s.cell, err = f.NewStyle(&excelize.Style{
		Border:    thin,
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	})
	if err != nil {
		return s, fmt.Errorf("cell style: %w", err)
	}

	s.money, err = f.NewStyle(&excelize.Style{
		Border:       thin,
		CustomNumFmt: &moneyFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("money style: %w", err)
	}

	s.subtotal, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Border:       thin,
		CustomNumFmt: &moneyFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("subtotal style: %w", err)
	}

	s.summary, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 12},
		Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF2CC"}},
		Border:       thin,
		CustomNumFmt: &moneyFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("summary style: %w", err)
	}

	return s, nil
}

func writeHeader(f *excelize.File, styles styleSet, info FormInfo) (int, error) {
	set := func(cell string, value any) error {
		return f.SetCellValue(sheetName, cell, value)
	}

	if err := set("A1", info.CompanyName); err != nil {
		return 0, err
	}
	if err := set("A2", info.CompanyAddress); err != nil {
		return 0, err
	}
	if err := set("A3", fmt.Sprintf("Người liên hệ: %s - %s - %s", info.ContactName, info.ContactPhone, info.ContactEmail)); err != nil {
		return 0, err
	}

	if err := f.MergeCell(sheetName, "A5", "L5"); err != nil {
		return 0, err
	}
	if err := set("A5", "BÁO GIÁ DỰ TOÁN HỆ THỐNG GIÁM SÁT"); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheetName, "A5", "L5", styles.title); err != nil {
		return 0, err
	}

	if err := set("A6", fmt.Sprintf("Dịch vụ: %s", info.ProjectName)); err != nil {
		return 0, err
	}
	if err := set("A7", fmt.Sprintf("Loại hình: %s", info.QuotationType)); err != nil {
		return 0, err
	}
	if err := set("A8", fmt.Sprintf("Ngày báo giá: %s", info.QuotationDate)); err != nil {
		return 0, err
	}

	return 10, nil
}

func writeColumnHeadings(f *excelize.File, styles styleSet, row int) (int, error) {
	headings := []string{
		"STT", "Hạng mục", "Thông số kỹ thuật", "SL", "Đơn vị", "Hãng",
		"Xuất xứ", "Đơn giá", "Thành tiền trước VAT", "VAT (%)", "Thành tiền sau VAT", "Ghi chú",
	}
	for i, heading := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(sheetName, cell, heading); err != nil {
			return 0, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(headings), row)
	if err := f.SetCellStyle(sheetName, first, last, styles.header); err != nil {
		return 0, err
	}
	return row + 1, nil
}

func writeSection(f *excelize.File, styles styleSet, row int, section FormSection) (int, error) {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(12, row)
	if err := f.MergeCell(sheetName, first, last); err != nil {
		return 0, err
	}
	if err := f.SetCellValue(sheetName, first, section.Name); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheetName, first, last, styles.section); err != nil {
		return 0, err
	}
	row++

	for _, item := range section.Items {
		if err := writeItemRow(f, styles, row, item); err != nil {
			return 0, err
		}
		row++
	}

	labelCell, _ := excelize.CoordinatesToCellName(1, row)
	labelEnd, _ := excelize.CoordinatesToCellName(8, row)
	if err := f.MergeCell(sheetName, labelCell, labelEnd); err != nil {
		return 0, err
	}
	if err := f.SetCellValue(sheetName, labelCell, fmt.Sprintf("Tổng %s", section.Name)); err != nil {
		return 0, err
	}
	beforeCell, _ := excelize.CoordinatesToCellName(9, row)
	if err := f.SetCellValue(sheetName, beforeCell, section.SubtotalBeforeVAT); err != nil {
		return 0, err
	}
	vatCell, _ := excelize.CoordinatesToCellName(10, row)
	if err := f.SetCellValue(sheetName, vatCell, section.SubtotalVAT); err != nil {
		return 0, err
	}
	afterCell, _ := excelize.CoordinatesToCellName(11, row)
	if err := f.SetCellValue(sheetName, afterCell, section.SubtotalAfterVAT); err != nil {
		return 0, err
	}
	rowEnd, _ := excelize.CoordinatesToCellName(12, row)
	if err := f.SetCellStyle(sheetName, labelCell, rowEnd, styles.subtotal); err != nil {
		return 0, err
	}

	return row + 2, nil
}

func writeItemRow(f *excelize.File, styles styleSet, row int, item FormItem) error {
	values := []any{
		item.Index, item.Description, item.TechnicalSpecs, item.Quantity,
		item.Unit, item.Brand, item.Origin, item.UnitPrice,
		item.TotalBeforeVAT, item.VATRate, item.TotalAfterVAT, item.Note,
	}
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	priceStart, _ := excelize.CoordinatesToCellName(8, row)
	priceEnd, _ := excelize.CoordinatesToCellName(11, row)
	last, _ := excelize.CoordinatesToCellName(12, row)
	if err := f.SetCellStyle(sheetName, first, last, styles.cell); err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, priceStart, priceEnd, styles.money)
}

func writeSummary(f *excelize.File, styles styleSet, row int, summary FormSummary) error {
	lines := []struct {
		label string
		value float64
	}{
		{"Tổng trước VAT", summary.TotalBeforeVAT},
		{"VAT", summary.VAT},
		{"TỔNG CỘNG", summary.TotalAfterVAT},
	}
	for _, line := range lines {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		labelEnd, _ := excelize.CoordinatesToCellName(9, row)
		if err := f.MergeCell(sheetName, labelCell, labelEnd); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, labelCell, line.label); err != nil {
			return err
		}
		valueStart, _ := excelize.CoordinatesToCellName(10, row)
		valueCell, _ := excelize.CoordinatesToCellName(11, row)
		if err := f.MergeCell(sheetName, valueStart, valueCell); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, valueStart, line.value); err != nil {
			return err
		}
		rowEnd, _ := excelize.CoordinatesToCellName(12, row)
		if err := f.SetCellStyle(sheetName, labelCell, rowEnd, styles.summary); err != nil {
			return err
		}
		row++
	}

	if summary.Note != "" {
		noteCell, _ := excelize.CoordinatesToCellName(1, row+1)
		noteEnd, _ := excelize.CoordinatesToCellName(12, row+1)
		if err := f.MergeCell(sheetName, noteCell, noteEnd); err != nil {
			return err
		}
		return f.SetCellValue(sheetName, noteCell, summary.Note)
	}
	return nil
}

// renderToReader is a small helper for callers that need an io.Reader.
func renderToReader(form Form) (*bytes.Reader, int64, error) {
	data, err := RenderExcel(form)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
