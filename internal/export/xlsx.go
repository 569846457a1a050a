// Package export renders project estimates to files handed to customers
// or to the back office.
package export

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/elgrid-dk/calc-cli/internal/model"
)

const moneyFormat = "#,##0.00"

// WriteXLSX writes a project estimate as an XLSX workbook with overview,
// room, panel, cable and risk sheets.
func WriteXLSX(projectName string, est model.ProjectEstimate, path string) error {
	f := xlsx.NewFile()

	if err := addOverviewSheet(f, projectName, est); err != nil {
		return err
	}
	if err := addRoomsSheet(f, est); err != nil {
		return err
	}
	if err := addPanelSheet(f, est); err != nil {
		return err
	}
	if err := addCablesSheet(f, est); err != nil {
		return err
	}
	if err := addRiskSheet(f, est); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "export: save workbook %s", path)
}

func addOverviewSheet(f *xlsx.File, projectName string, est model.ProjectEstimate) error {
	sheet, err := f.AddSheet("Overview")
	if err != nil {
		return eris.Wrap(err, "export: add overview sheet")
	}

	addTextRow(sheet, "Project", projectName)
	addTextRow(sheet, "Rooms", fmt.Sprintf("%d", len(est.Rooms)))
	addMoneyRow(sheet, "Total hours", est.TotalLaborHours)
	addMoneyRow(sheet, "Hourly rate", est.HourlyRate)
	sheet.AddRow()

	addMoneyRow(sheet, "Material cost", est.TotalMaterialCost)
	addMoneyRow(sheet, "Labor cost", est.TotalLaborCost)
	addMoneyRow(sheet, "Other costs", est.OtherCosts)
	sheet.AddRow()

	p := est.Price
	addMoneyRow(sheet, "Cost price", p.CostPrice)
	addMoneyRow(sheet, "Overhead", p.OverheadAmount)
	addMoneyRow(sheet, "Risk supplement", p.RiskAmount)
	addMoneyRow(sheet, "Sales basis", p.SalesBasis)
	addMoneyRow(sheet, "Margin", p.MarginAmount)
	addMoneyRow(sheet, "Sale price excl. VAT", p.SalePriceExVAT)
	addMoneyRow(sheet, "Discount", p.DiscountAmount)
	addMoneyRow(sheet, "Net price", p.NetPrice)
	addMoneyRow(sheet, "VAT", p.VATAmount)
	addMoneyRow(sheet, "Final amount incl. VAT", p.FinalAmount)
	sheet.AddRow()

	addMoneyRow(sheet, "Contribution (DB)", p.DBAmount)
	addMoneyRow(sheet, "DB %", p.DBPercentage)
	addMoneyRow(sheet, "DB per hour", p.DBPerHour)

	if len(est.ObsPoints) > 0 {
		sheet.AddRow()
		for _, obs := range est.ObsPoints {
			addTextRow(sheet, "", obs)
		}
	}
	return nil
}

func addRoomsSheet(f *xlsx.File, est model.ProjectEstimate) error {
	sheet, err := f.AddSheet("Rooms")
	if err != nil {
		return eris.Wrap(err, "export: add rooms sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Room", "Type", "Points", "Hours", "Material", "Labor", "Total", "Notes"} {
		header.AddCell().Value = h
	}

	for _, room := range est.Rooms {
		row := sheet.AddRow()
		row.AddCell().Value = room.RoomName
		row.AddCell().Value = room.RoomType
		row.AddCell().SetInt(room.TotalPoints())
		row.AddCell().SetFloatWithFormat(room.TotalTimeSeconds/3600, moneyFormat)
		row.AddCell().SetFloatWithFormat(room.TotalMaterialCost, moneyFormat)
		row.AddCell().SetFloatWithFormat(room.TotalLaborCost, moneyFormat)
		row.AddCell().SetFloatWithFormat(room.TotalCost, moneyFormat)
		row.AddCell().Value = strings.Join(append(room.Warnings, room.Recommendations...), "; ")
	}
	return nil
}

func addPanelSheet(f *xlsx.File, est model.ProjectEstimate) error {
	sheet, err := f.AddSheet("Panel")
	if err != nil {
		return eris.Wrap(err, "export: add panel sheet")
	}

	addTextRow(sheet, "Circuit groups", fmt.Sprintf("%d", est.Panel.TotalGroupsNeeded))
	addTextRow(sheet, "RCD groups", fmt.Sprintf("%d", est.Panel.RCDGroupsNeeded))
	addTextRow(sheet, "Main breaker upgrade", yesNo(est.Panel.MainBreakerUpgrade))
	addTextRow(sheet, "Surge protection", yesNo(est.Panel.SurgeProtectionRecommended))
	addMoneyRow(sheet, "Estimated panel cost", est.Panel.EstimatedPanelCost)

	if len(est.Panel.Details) > 0 {
		sheet.AddRow()
		for _, d := range est.Panel.Details {
			addTextRow(sheet, "", d)
		}
	}
	return nil
}

func addCablesSheet(f *xlsx.File, est model.ProjectEstimate) error {
	sheet, err := f.AddSheet("Cables")
	if err != nil {
		return eris.Wrap(err, "export: add cables sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Cable type", "Meters", "Price/m", "Total"} {
		header.AddCell().Value = h
	}

	for _, line := range est.Cables.Lines {
		row := sheet.AddRow()
		row.AddCell().Value = line.CableType
		row.AddCell().SetFloatWithFormat(line.Meters, moneyFormat)
		row.AddCell().SetFloatWithFormat(line.CostPerMeter, moneyFormat)
		row.AddCell().SetFloatWithFormat(line.TotalCost, moneyFormat)
	}

	total := sheet.AddRow()
	total.AddCell().Value = "Total"
	total.AddCell().SetFloatWithFormat(est.Cables.TotalMeters, moneyFormat)
	total.AddCell()
	total.AddCell().SetFloatWithFormat(est.Cables.TotalCost, moneyFormat)
	return nil
}

func addRiskSheet(f *xlsx.File, est model.ProjectEstimate) error {
	sheet, err := f.AddSheet("Risk")
	if err != nil {
		return eris.Wrap(err, "export: add risk sheet")
	}

	addTextRow(sheet, "Risk score", fmt.Sprintf("%d/5 (%s)", est.Risk.RiskScore, est.Risk.RiskLevel))
	addMoneyRow(sheet, "Recommended buffer %", est.Risk.RecommendedBufferPct)
	sheet.AddRow()

	header := sheet.AddRow()
	for _, h := range []string{"Factor", "Severity", "Impact %", "Description"} {
		header.AddCell().Value = h
	}
	for _, factor := range est.Risk.Factors {
		row := sheet.AddRow()
		row.AddCell().Value = factor.Type
		row.AddCell().Value = factor.Severity
		row.AddCell().SetFloatWithFormat(factor.ImpactPct, moneyFormat)
		row.AddCell().Value = factor.Description
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func addTextRow(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().Value = label
	row.AddCell().Value = value
}

func addMoneyRow(sheet *xlsx.Sheet, label string, value float64) {
	row := sheet.AddRow()
	row.AddCell().Value = label
	row.AddCell().SetFloatWithFormat(value, moneyFormat)
}
