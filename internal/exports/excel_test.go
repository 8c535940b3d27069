package exports

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestRenderExcel_ProducesReadableWorkbook(t *testing.T) {
	form := BuildForm(fixtureQuotation(), fakeConfig{}, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))

	data, err := RenderExcel(form)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != sheetName {
		t.Fatalf("expected single sheet %q, got %v", sheetName, sheets)
	}

	company, err := f.GetCellValue(sheetName, "A1")
	if err != nil {
		t.Fatalf("read company cell: %v", err)
	}
	if company != form.Info.CompanyName {
		t.Fatalf("expected company %q in A1, got %q", form.Info.CompanyName, company)
	}

	title, err := f.GetCellValue(sheetName, "A5")
	if err != nil {
		t.Fatalf("read title cell: %v", err)
	}
	if title != "BÁO GIÁ DỰ TOÁN HỆ THỐNG GIÁM SÁT" {
		t.Fatalf("unexpected title %q", title)
	}
}

func TestRenderExcel_ContainsAllLineDescriptions(t *testing.T) {
	quotation := fixtureQuotation()
	form := BuildForm(quotation, fakeConfig{}, time.Now())

	data, err := RenderExcel(form)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}

	wantCells := []string{
		"IP Camera 4MP",
		"VMS Base License",
		"Server Dell R750",
		"Triển khai, lắp đặt và cấu hình hệ thống",
		"TỔNG CỘNG",
	}
	for _, want := range wantCells {
		if !workbookContains(rows, want) {
			t.Fatalf("expected workbook to contain %q", want)
		}
	}
}

func TestRenderExcel_SummaryMatchesForm(t *testing.T) {
	form := BuildForm(fixtureQuotation(), fakeConfig{}, time.Now())

	data, err := RenderExcel(form)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	// Raw values bypass the thousands-separator number format.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}

	// The grand total row carries the authoritative after-VAT figure.
	var grandRow []string
	for _, row := range rows {
		if len(row) > 0 && row[0] == "TỔNG CỘNG" {
			grandRow = row
		}
	}
	if grandRow == nil {
		t.Fatal("grand total row not found")
	}
	if !rowContains(grandRow, "91600000") {
		t.Fatalf("expected grand total 91600000 in row %v", grandRow)
	}
}

func workbookContains(rows [][]string, want string) bool {
	for _, row := range rows {
		if rowContains(row, want) {
			return true
		}
	}
	return false
}

func rowContains(row []string, want string) bool {
	for _, cell := range row {
		if cell == want {
			return true
		}
	}
	return false
}
