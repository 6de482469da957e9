// Package export renders a trip plan, with the user's current selections
// applied, into a downloadable PDF summary.
package export

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"ai-trip-planner/internal/planner"
	"ai-trip-planner/internal/selection"
)

// PDF renders the chosen trip into an A4 document: header, cost summary with
// the selected lodgings, the derived day-by-day itinerary and the plan's
// tips. The itinerary and total come from the selection, so stopover choices
// show up exactly as the user left them.
func PDF(trip planner.TripPlan, sel selection.Selection) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("Viagem para %s", trip.DestinationName)), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s, %s", trip.DestinationName, trip.DestinationCountry)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("De %s até %s (%d dias) - saindo de %s",
		trip.StartDate, trip.EndDate, trip.DurationDays, trip.StartLocation)), "", 1, "C", false, 0, "")
	party := fmt.Sprintf("%d adulto(s)", trip.Travelers.Adults)
	if len(trip.Travelers.Children) > 0 {
		party += fmt.Sprintf(" e %d menor(es)", len(trip.Travelers.Children))
	}
	pdf.CellFormat(0, 7, tr(party), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	sectionTitle := func(title string) {
		pdf.SetFont("Arial", "B", 14)
		pdf.SetFillColor(235, 240, 250)
		pdf.CellFormat(0, 9, tr(title), "", 1, "L", true, 0, "")
		pdf.Ln(2)
	}

	sectionTitle("Resumo de custos")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf(
		"Transporte (%s): R$ %.2f\nAlimentação: R$ %.2f\nAtividades: R$ %.2f\nCompras: R$ %.2f",
		trip.TransportationDetails.Mode,
		trip.CostBreakdown.Transportation,
		trip.CostBreakdown.Food,
		trip.CostBreakdown.Activities,
		trip.CostBreakdown.Shopping)), "", "L", false)

	if sel.Accommodation != nil {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Hospedagem (%s, %s): R$ %.2f",
			sel.Accommodation.Name, sel.Accommodation.City, sel.Accommodation.TotalStayPrice)), "", "L", false)
	}
	if sel.OutboundStop != nil && sel.OutboundAccommodation != nil {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Pernoite na ida em %s (%s): R$ %.2f",
			sel.OutboundStop.Name, sel.OutboundAccommodation.Name, sel.OutboundAccommodation.TotalStayPrice)), "", "L", false)
	}
	if sel.ReturnStop != nil && sel.ReturnAccommodation != nil {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Pernoite na volta em %s (%s): R$ %.2f",
			sel.ReturnStop.Name, sel.ReturnAccommodation.Name, sel.ReturnAccommodation.TotalStayPrice)), "", "L", false)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Custo total estimado: R$ %.2f", sel.TotalCost(trip))), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	sectionTitle("Roteiro dia a dia")
	for _, day := range sel.Itinerary(trip) {
		pdf.SetFont("Arial", "B", 11)
		title := fmt.Sprintf("Dia %d: %s", day.Day, day.Title)
		if day.EstimatedDayCost > 0 {
			title += fmt.Sprintf(" (R$ %.2f)", day.EstimatedDayCost)
		}
		pdf.CellFormat(0, 7, tr(title), "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, act := range day.Activities {
			line := "- " + act.Description
			if act.EstimatedCost > 0 {
				line += fmt.Sprintf(" (R$ %.2f)", act.EstimatedCost)
			}
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
		if len(day.FoodSuggestions) > 0 {
			for _, food := range day.FoodSuggestions {
				pdf.MultiCell(0, 5, tr("- Onde comer: "+food), "", "L", false)
			}
		}
		pdf.Ln(2)
	}

	if len(trip.RestaurantSuggestions) > 0 {
		sectionTitle("Restaurantes sugeridos")
		pdf.SetFont("Arial", "", 10)
		for _, r := range trip.RestaurantSuggestions {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("- %s (%s): R$ %.2f para o grupo. %s",
				r.Name, r.Cuisine, r.AverageGroupCost, r.Description)), "", "L", false)
		}
		pdf.Ln(2)
	}

	if len(trip.DestinationTips) > 0 {
		sectionTitle("Dicas do destino")
		pdf.SetFont("Arial", "", 10)
		for _, tip := range trip.DestinationTips {
			pdf.MultiCell(0, 5, tr("- "+tip), "", "L", false)
		}
		pdf.Ln(2)
	}

	if len(trip.ShoppingTips) > 0 {
		sectionTitle("Dicas de compras")
		pdf.SetFont("Arial", "", 10)
		for _, tip := range trip.ShoppingTips {
			pdf.MultiCell(0, 5, tr("- "+tip), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render trip pdf: %w", err)
	}
	return buf.Bytes(), nil
}
