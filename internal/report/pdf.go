package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/fleetware/fleet-mileage/internal/models"
)

// BuildGapReportPDF renders the outstanding unaccounted-mileage report for a
// company: summary statistics followed by one line per open gap, in the
// order the gaps were handed in (severity first, largest first).
func BuildGapReportPDF(companyName string, gaps []models.MileageGap, stats models.GapStats) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Unaccounted Mileage Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "UNACCOUNTED MILEAGE REPORT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Company   : %s", companyName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated : %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	summary := []string{
		fmt.Sprintf("Open gaps          : %d", stats.TotalGaps),
		fmt.Sprintf("Unaccounted km     : %.1f", stats.TotalUnaccountedKm),
		fmt.Sprintf("High / Medium / Low: %d / %d / %d", stats.HighSeverityCount, stats.MediumSeverityCount, stats.LowSeverityCount),
		fmt.Sprintf("Affected vehicles  : %d", stats.AffectedVehicles),
		fmt.Sprintf("Average gap size   : %.1f km", stats.AverageGapSize),
	}
	for _, line := range summary {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Open gaps")
	pdf.Ln(8)

	widths := []float64{40, 32, 32, 28, 24, 24, 48}
	headers := []string{"Vehicle", "Prev end (km)", "Start (km)", "Gap (km)", "Days", "Severity", "Period"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(gaps) == 0 {
		pdf.Cell(0, 7, "No outstanding gaps.")
		pdf.Ln(7)
	}
	for _, g := range gaps {
		period := fmt.Sprintf("%s - %s",
			g.PreviousDate.Format("2006-01-02"), g.CurrentDate.Format("2006-01-02"))
		row := []string{
			g.VehicleName,
			fmt.Sprintf("%.1f", g.PreviousEndMileage),
			fmt.Sprintf("%.1f", g.CurrentStartMileage),
			fmt.Sprintf("%.1f", g.UnaccountedKm),
			fmt.Sprintf("%d", g.DaysBetween),
			string(g.Severity),
			period,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render gap report: %w", err)
	}
	return buf.Bytes(), nil
}
