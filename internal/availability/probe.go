// Package availability simulates lodging availability checks through the
// generative backend and tracks the per-plan probe state consumed by the
// presentation layer.
package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-trip-planner/internal/llm"
	"ai-trip-planner/internal/planner"
	"ai-trip-planner/internal/shared"

	"github.com/google/generative-ai-go/genai"
)

var availabilitySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"availableHotels": {
			Type:        genai.TypeArray,
			Description: "Uma lista contendo APENAS OS NOMES dos hotéis que estão disponíveis.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"availableHotels"},
}

// Probe asks the backend which candidate lodgings are available for the
// trip's dates and party size. There is no real inventory behind it: the
// check is a simulation, which is why callers fail open on errors.
type Probe struct {
	textGen llm.TextGenerator
}

// NewProbe creates a new Probe.
func NewProbe(textGen llm.TextGenerator) *Probe {
	return &Probe{textGen: textGen}
}

// Check returns the names of the lodgings deemed available. An empty input
// resolves to an empty set without calling the backend.
func (p *Probe) Check(ctx context.Context, accommodations []planner.AccommodationSuggestion, trip planner.TripPlan) ([]string, shared.AgentMeta, error) {
	start := time.Now()
	meta := shared.AgentMeta{AgentName: "Availability"}

	if len(accommodations) == 0 {
		return []string{}, meta, nil
	}

	names := make([]string, len(accommodations))
	for i, a := range accommodations {
		names[i] = a.Name
	}

	prompt := fmt.Sprintf(`Aja como um sistema de verificação de disponibilidade de hotéis.

**INFORMAÇÕES DA VIAGEM:**
- **Datas:** De %s até %s.
- **Hóspedes:** %d pessoa(s).

**TAREFA:**
Verifique a disponibilidade para a lista de hotéis abaixo. Considere que alguns podem ser fictícios; para esses, assuma que estão indisponíveis. Para os reais, simule uma verificação para as datas e número de hóspedes. Retorne APENAS os hotéis que possuem vagas.

**LISTA DE HOTÉIS PARA VERIFICAR:**
["%s"]

Sua resposta DEVE ser um objeto JSON que corresponda ao schema, contendo uma lista com os nomes dos hotéis disponíveis.`,
		trip.StartDate, trip.EndDate, trip.Travelers.Total(), strings.Join(names, `", "`))

	resp, err := p.textGen.GenerateJSON(ctx, prompt, availabilitySchema)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return nil, meta, fmt.Errorf("availability check failed: %w", err)
	}

	var result struct {
		AvailableHotels []string `json:"availableHotels"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		return nil, meta, fmt.Errorf("failed to parse availability response: %w", err)
	}
	if result.AvailableHotels == nil {
		result.AvailableHotels = []string{}
	}

	return result.AvailableHotels, meta, nil
}
