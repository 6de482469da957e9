package planner

import (
	"errors"
)

// SurpriseMe is the sentinel destination used by the "surprise me" flow.
const SurpriseMe = "SURPRISE_ME"

// SearchCriteria is the normalized set of user inputs driving prompt
// composition. Which optional fields are set decides the prompt template.
type SearchCriteria struct {
	StartLocation       string       `json:"startLocation"`
	StartLocationCoords *Coordinates `json:"startLocationCoords,omitempty"`
	Destination         string       `json:"destination"`
	Budget              string       `json:"budget"`
	StartDate           string       `json:"startDate"`
	EndDate             string       `json:"endDate"`
	Travelers           Travelers    `json:"travelers"`

	// Advanced options
	MultipleDestinations string   `json:"multipleDestinations,omitempty"`
	DestinationsOrder    []string `json:"destinationsOrder,omitempty"`
	PreferredTransport   string   `json:"preferredTransport,omitempty"`
	PreferredCuisine     string   `json:"preferredCuisine,omitempty"`
	UserProfile          string   `json:"userProfile,omitempty"`

	// "Build a Trip" wizard fields
	AccommodationPreferences []string `json:"accommodationPreferences,omitempty"`
	ActivityPreferences      []string `json:"activityPreferences,omitempty"`
	SelectedAttractions      []string `json:"selectedAttractions,omitempty"`
}

// PromptKind is the tagged variant selecting which prompt template a search
// uses. Exactly one kind applies to any criteria.
type PromptKind int

const (
	PromptDefault PromptKind = iota
	PromptMultiDestination
	PromptBudget
	PromptSurprise
)

func (k PromptKind) String() string {
	switch k {
	case PromptMultiDestination:
		return "multi-destination"
	case PromptBudget:
		return "budget"
	case PromptSurprise:
		return "surprise"
	default:
		return "default"
	}
}

// Classify resolves the mutually exclusive template choice in fixed priority:
// multi-destination > budget > surprise-me > default.
func Classify(c SearchCriteria) PromptKind {
	switch {
	case c.MultipleDestinations != "":
		return PromptMultiDestination
	case c.Budget != "":
		return PromptBudget
	case c.Destination == SurpriseMe:
		return PromptSurprise
	default:
		return PromptDefault
	}
}

// Validation errors are user facing and caught before any backend call.
var (
	ErrNoTravelers      = errors.New("selecione ao menos um viajante")
	ErrInvalidChildAge  = errors.New("idades dos menores devem estar entre 0 e 17 anos")
	ErrInvalidDateRange = errors.New("a data final deve ser igual ou posterior à data inicial")
	ErrNoCities         = errors.New("selecione ao menos uma cidade para o roteiro")
	ErrNoTransport      = errors.New("escolha um meio de transporte para o roteiro montado")
)

// Validate checks the criteria locally. Failures here are inline UI errors
// and must never reach the generative backend.
func (c SearchCriteria) Validate() error {
	if c.Travelers.Adults < 0 || c.Travelers.Total() == 0 {
		return ErrNoTravelers
	}
	for _, age := range c.Travelers.Children {
		if age < 0 || age > 17 {
			return ErrInvalidChildAge
		}
	}
	if c.StartDate != "" && c.EndDate != "" && c.EndDate < c.StartDate {
		return ErrInvalidDateRange
	}
	if Classify(c) == PromptMultiDestination {
		if c.MultipleDestinations == "" && len(c.DestinationsOrder) == 0 {
			return ErrNoCities
		}
		if c.PreferredTransport == "" {
			return ErrNoTransport
		}
	}
	return nil
}
