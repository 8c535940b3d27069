// Package exports renders computed quotations to formatted xlsx workbooks
// and serves them through object storage.
package exports

import (
	"time"

	"quotation_backend/internal/quotation/transport"
	"quotation_backend/platform/config"
)

// FormInfo is the header block printed at the top of the workbook.
type FormInfo struct {
	ProjectName    string
	QuotationType  string
	CompanyName    string
	CompanyAddress string
	ContactName    string
	ContactPhone   string
	ContactEmail   string
	QuotationDate  string
}

// FormItem is one printed product or service row.
type FormItem struct {
	Index          int
	Description    string
	TechnicalSpecs string
	Quantity       int
	Unit           string
	Brand          string
	Origin         string
	UnitPrice      float64
	TotalBeforeVAT float64
	VATRate        float64
	TotalAfterVAT  float64
	Note           string
}

// FormSection groups rows by cost kind (devices, licenses, servers,
// deployment), each with before/after-VAT subtotals.
type FormSection struct {
	Name              string
	Items             []FormItem
	SubtotalBeforeVAT float64
	SubtotalVAT       float64
	SubtotalAfterVAT  float64
}

// FormSummary is the closing totals block.
type FormSummary struct {
	TotalBeforeVAT float64
	VAT            float64
	TotalAfterVAT  float64
	Note           string
}

// Form is the complete printable quotation.
type Form struct {
	Info     FormInfo
	Sections []FormSection
	Summary  FormSummary
}

const (
	sectionDevices    = "Chi phí thiết bị"
	sectionLicenses   = "Chi phí License phần mềm"
	sectionServers    = "Chi phí hạ tầng máy chủ"
	sectionDeployment = "Chi phí triển khai"

	summaryNote = "Chi phí ước tính, có thể chênh lệch ±10% theo khảo sát thực tế."
)

// BuildForm shapes a computed quotation into the printable form layout.
// Line totals are VAT-inclusive; each row backs its own VAT out at the
// item's stored rate for the before/after columns.
func BuildForm(quotation transport.QuotationResponse, header config.QuotationHeaderConfig, now time.Time) Form {
	form := Form{
		Info: FormInfo{
			ProjectName:    quotation.CategoryName,
			QuotationType:  quotationType(quotation),
			CompanyName:    header.GetCompanyName(),
			CompanyAddress: header.GetCompanyAddress(),
			ContactName:    header.GetContactName(),
			ContactPhone:   header.GetContactPhone(),
			ContactEmail:   header.GetContactEmail(),
			QuotationDate:  now.Format("02/01/2006"),
		},
	}

	if section, ok := buildSection(sectionDevices, "Bộ", quotation.Devices); ok {
		form.Sections = append(form.Sections, section)
	}
	if section, ok := buildSection(sectionLicenses, "License", quotation.Licenses); ok {
		form.Sections = append(form.Sections, section)
	}
	if section, ok := buildSection(sectionServers, "Máy chủ", quotation.CostServers); ok {
		form.Sections = append(form.Sections, section)
	}

	deployment := deploymentSection(quotation)
	form.Sections = append(form.Sections, deployment)

	for _, section := range form.Sections {
		form.Summary.TotalBeforeVAT += section.SubtotalBeforeVAT
		form.Summary.VAT += section.SubtotalVAT
	}
	// The grand total is authoritative; the before-VAT and VAT columns are
	// a decomposition of it, so the after-VAT figure comes straight from
	// the pricing engine.
	form.Summary.TotalAfterVAT = quotation.Summary.GrandTotal
	form.Summary.Note = summaryNote

	return form
}

func quotationType(quotation transport.QuotationResponse) string {
	if quotation.DeploymentType == string(transport.DeploymentOnPremise) {
		return "C-CAM On-premise"
	}
	return "C-CAM Cloud"
}

func buildSection(name, unit string, lines []transport.LineItem) (FormSection, bool) {
	if len(lines) == 0 {
		return FormSection{}, false
	}

	section := FormSection{Name: name}
	for i, line := range lines {
		beforeVAT := line.TotalAmount / (1 + line.VATRate/100)
		item := FormItem{
			Index:          i + 1,
			Description:    line.Name,
			TechnicalSpecs: line.Description,
			Quantity:       line.Quantity,
			Unit:           unit,
			Brand:          line.Vendor,
			Origin:         line.Origin,
			UnitPrice:      line.UnitPrice,
			TotalBeforeVAT: beforeVAT,
			VATRate:        line.VATRate,
			TotalAfterVAT:  line.TotalAmount,
		}
		if line.Note != nil {
			item.Note = *line.Note
		}
		section.Items = append(section.Items, item)
		section.SubtotalBeforeVAT += beforeVAT
		section.SubtotalVAT += line.TotalAmount - beforeVAT
		section.SubtotalAfterVAT += line.TotalAmount
	}
	return section, true
}

func deploymentSection(quotation transport.QuotationResponse) FormSection {
	quantity := 0
	unit := "Điểm"
	if quotation.PointCount != nil {
		quantity = *quotation.PointCount
	}
	if quotation.CameraCount != nil && len(quotation.SelectedFeatures) > 0 {
		quantity = *quotation.CameraCount
		unit = "Camera"
	}

	cost := quotation.Summary.DeploymentCost
	unitPrice := 0.0
	if quantity > 0 {
		unitPrice = cost / float64(quantity)
	}

	return FormSection{
		Name: sectionDeployment,
		Items: []FormItem{{
			Index:          1,
			Description:    "Triển khai, lắp đặt và cấu hình hệ thống",
			Quantity:       quantity,
			Unit:           unit,
			UnitPrice:      unitPrice,
			TotalBeforeVAT: cost,
			VATRate:        0,
			TotalAfterVAT:  cost,
		}},
		SubtotalBeforeVAT: cost,
		SubtotalAfterVAT:  cost,
	}
}
