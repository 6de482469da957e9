package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-trip-planner/internal/llm"
	"ai-trip-planner/internal/shared"

	"github.com/google/uuid"
)

// Service generates, refines and enriches trip plans through the generative
// backend. Calls are single attempt: the caller gets either the full result
// or an error, never a partial batch or stale fallback. Identical criteria
// may yield different plans on repeated calls; ids are always fresh.
type Service struct {
	composer *Composer
	textGen  llm.TextGenerator
	newID    func() string
}

// NewService creates a new Service instance.
func NewService(textGen llm.TextGenerator) *Service {
	return &Service{
		composer: NewComposer(),
		textGen:  textGen,
		newID:    uuid.NewString,
	}
}

// GenerateTrips composes the prompt for the criteria, requests plans matching
// the trip-plan array schema and assigns each plan a fresh unique id.
func (s *Service) GenerateTrips(ctx context.Context, criteria SearchCriteria) ([]TripPlan, shared.AgentMeta, error) {
	start := time.Now()
	meta := shared.AgentMeta{AgentName: "TripSearch"}

	prompt, err := s.composer.Compose(criteria)
	if err != nil {
		return nil, meta, err
	}

	resp, err := s.textGen.GenerateJSON(ctx, prompt, tripPlansSchema)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to generate trip suggestions: %w", err)
	}

	var plans []TripPlan
	if err := json.Unmarshal([]byte(resp.Content), &plans); err != nil {
		return nil, meta, fmt.Errorf("failed to parse trip plans: %w. Response: %s", err, resp.Content)
	}

	for i := range plans {
		plans[i].ID = s.newID()
	}

	return plans, meta, nil
}

// RefineTrip asks the backend for a new complete plan that applies the user's
// natural-language instruction to an existing plan. The original travelers
// and start location are preserved by instruction; the result gets a new id.
func (s *Service) RefineTrip(ctx context.Context, original TripPlan, instruction string) (TripPlan, shared.AgentMeta, error) {
	start := time.Now()
	meta := shared.AgentMeta{AgentName: "TripRefine"}

	stripped := original
	stripped.ID = ""
	stripped.FavoritedAt = nil
	originalJSON, err := json.Marshal(stripped)
	if err != nil {
		return TripPlan{}, meta, fmt.Errorf("failed to marshal original plan: %w", err)
	}

	prompt := fmt.Sprintf(`Aja como um assistente de viagens. O usuário forneceu um plano de viagem existente e uma instrução para modificá-lo.

**PLANO DE VIAGEM ATUAL (em formato JSON):**
%s

**INSTRUÇÃO DO USUÁRIO PARA MUDANÇA:**
"%s"

**SUA TAREFA:**
Gere um NOVO plano de viagem completo que incorpore a mudança solicitada. Mantenha o máximo possível do plano original. A resposta DEVE ser um único objeto JSON que corresponda ao schema. Preserve o 'startLocation', 'startLocationCoords' e 'travelers' originais.`, originalJSON, instruction)

	resp, err := s.textGen.GenerateJSON(ctx, prompt, tripPlanSchema)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return TripPlan{}, meta, fmt.Errorf("failed to refine trip plan: %w", err)
	}

	var plan TripPlan
	if err := json.Unmarshal([]byte(resp.Content), &plan); err != nil {
		return TripPlan{}, meta, fmt.Errorf("failed to parse refined plan: %w. Response: %s", err, resp.Content)
	}
	plan.ID = s.newID()

	return plan, meta, nil
}

// MoreRestaurants fetches five additional restaurant suggestions for the
// destination, sized for the traveling party.
func (s *Service) MoreRestaurants(ctx context.Context, destination string, travelers Travelers) ([]RestaurantSuggestion, shared.AgentMeta, error) {
	start := time.Now()
	meta := shared.AgentMeta{AgentName: "Restaurants"}

	travelerText := fmt.Sprintf("%d adulto(s)", travelers.Adults)
	if len(travelers.Children) > 0 {
		ages := make([]string, len(travelers.Children))
		for i, age := range travelers.Children {
			ages[i] = fmt.Sprintf("%d", age)
		}
		travelerText += fmt.Sprintf(", %d menor(es) (idades: %s)", len(travelers.Children), strings.Join(ages, ", "))
	}

	prompt := fmt.Sprintf("Sugira mais 5 opções de restaurantes em %s para um grupo de %s. Para cada, forneça nome, custo médio para o grupo (averageGroupCost), tipo de culinária e uma breve descrição. Gere apenas o JSON.", destination, travelerText)

	resp, err := s.textGen.GenerateJSON(ctx, prompt, restaurantsSchema)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to fetch more restaurants: %w", err)
	}

	var suggestions []RestaurantSuggestion
	if err := json.Unmarshal([]byte(resp.Content), &suggestions); err != nil {
		return nil, meta, fmt.Errorf("failed to parse restaurant suggestions: %w", err)
	}

	return suggestions, meta, nil
}

// GeoRequest selects which geographic listing the wizard needs.
type GeoRequest struct {
	Type      string `json:"type"`
	Region    string `json:"region,omitempty"`
	Continent string `json:"continent,omitempty"`
	Country   string `json:"country,omitempty"`
}

// ErrUnknownGeoType reports a geo request whose type is not one of the
// wizard's supported listings. It is a client error, unlike backend failures.
var ErrUnknownGeoType = errors.New("unknown geo suggestion type")

// Geo request types used by the step-by-step destination wizard.
const (
	GeoCitiesInBrazilRegion  = "CITIES_IN_BRAZIL_REGION"
	GeoContinents            = "CONTINENTS"
	GeoCountriesInContinent  = "COUNTRIES_IN_CONTINENT"
	GeoRegionsInCountry      = "REGIONS_IN_COUNTRY"
	GeoCitiesInCountryRegion = "CITIES_IN_COUNTRY_REGION"
)

// GeoSuggestions lists continents, countries, regions or cities for the
// destination wizard.
func (s *Service) GeoSuggestions(ctx context.Context, req GeoRequest) ([]string, shared.AgentMeta, error) {
	start := time.Now()
	meta := shared.AgentMeta{AgentName: "GeoSuggestions"}

	var prompt string
	switch req.Type {
	case GeoCitiesInBrazilRegion:
		prompt = fmt.Sprintf("Liste cidades turísticas populares na região '%s' do Brasil. Retorne um JSON com a chave \"suggestions\" e um array de strings (ex: 'Gramado, RS').", req.Region)
	case GeoContinents:
		prompt = "Liste os continentes do mundo. Retorne um JSON com a chave \"suggestions\" e um array de strings."
	case GeoCountriesInContinent:
		prompt = fmt.Sprintf("Liste os principais países turísticos do continente '%s'. Retorne um JSON com a chave \"suggestions\" e um array de strings.", req.Continent)
	case GeoRegionsInCountry:
		prompt = fmt.Sprintf("Liste as principais regiões turísticas (estados, províncias) do país '%s'. Retorne um JSON com a chave \"suggestions\" e um array de strings.", req.Country)
	case GeoCitiesInCountryRegion:
		prompt = fmt.Sprintf("Liste cidades turísticas populares em '%s', '%s'. Retorne um JSON com a chave \"suggestions\" e um array de strings.", req.Region, req.Country)
	default:
		return nil, meta, fmt.Errorf("%w: %q", ErrUnknownGeoType, req.Type)
	}

	resp, err := s.textGen.GenerateJSON(ctx, prompt, suggestionsSchema)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to fetch geo suggestions: %w", err)
	}

	return parseSuggestions(resp.Content, meta)
}

// AttractionSuggestions lists up to 20 popular attractions in the given
// cities, each formatted as "Attraction (City)".
func (s *Service) AttractionSuggestions(ctx context.Context, cities []string) ([]string, shared.AgentMeta, error) {
	start := time.Now()
	meta := shared.AgentMeta{AgentName: "Attractions"}

	prompt := fmt.Sprintf("Liste até 20 atrações turísticas populares (pontos turísticos, museus, parques) localizadas em: %s. Formate cada atração como 'Nome da Atração (Cidade)'. Retorne um JSON com a chave \"suggestions\" e um array de strings.", strings.Join(cities, ", "))

	resp, err := s.textGen.GenerateJSON(ctx, prompt, suggestionsSchema)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to fetch attraction suggestions: %w", err)
	}

	return parseSuggestions(resp.Content, meta)
}

func parseSuggestions(content string, meta shared.AgentMeta) ([]string, shared.AgentMeta, error) {
	var result struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, meta, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	return result.Suggestions, meta, nil
}
