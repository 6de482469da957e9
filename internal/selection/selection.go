// Package selection recomputes the view state derived from a trip plan and
// the user's sub-selections: which lodging, and which overnight stopovers on
// the way out and back. Everything here is a pure function of the current
// state; cost and itinerary are rebuilt from scratch on every change.
package selection

import (
	"fmt"

	"ai-trip-planner/internal/planner"
)

// CheapestAccommodation returns the suggestion with the lowest total stay
// price, or nil when there are none. On exact price ties the first in input
// order wins, so the result is stable for the same input.
func CheapestAccommodation(options planner.AccommodationOptions) *planner.AccommodationSuggestion {
	if len(options.Suggestions) == 0 {
		return nil
	}
	cheapest := options.Suggestions[0]
	for _, s := range options.Suggestions[1:] {
		if s.TotalStayPrice < cheapest.TotalStayPrice {
			cheapest = s
		}
	}
	return &cheapest
}

// Selection holds the user's sub-selections for one open trip plan. A nil
// stop means "skip"; a nil accommodation means none is available.
type Selection struct {
	Accommodation         *planner.AccommodationSuggestion
	OutboundStop          *planner.OvernightStop
	OutboundAccommodation *planner.AccommodationSuggestion
	ReturnStop            *planner.OvernightStop
	ReturnAccommodation   *planner.AccommodationSuggestion
}

// New builds the default selection for a freshly opened plan: the cheapest
// main lodging, the first candidate stopover in each direction, and the
// cheapest lodging of each selected stopover.
func New(plan planner.TripPlan) Selection {
	s := Selection{
		Accommodation: CheapestAccommodation(plan.AccommodationOptions),
	}
	if stops := plan.TransportationDetails.PotentialOutboundStops; len(stops) > 0 {
		s.SetOutboundStop(&stops[0])
	}
	if stops := plan.TransportationDetails.PotentialReturnStops; len(stops) > 0 {
		s.SetReturnStop(&stops[0])
	}
	return s
}

// SetOutboundStop selects (or, with nil, skips) the outbound stopover and
// recomputes that stopover's default lodging.
func (s *Selection) SetOutboundStop(stop *planner.OvernightStop) {
	s.OutboundStop = stop
	s.OutboundAccommodation = nil
	if stop != nil {
		s.OutboundAccommodation = CheapestAccommodation(stop.AccommodationOptions)
	}
}

// SetReturnStop selects (or, with nil, skips) the return stopover and
// recomputes that stopover's default lodging.
func (s *Selection) SetReturnStop(stop *planner.OvernightStop) {
	s.ReturnStop = stop
	s.ReturnAccommodation = nil
	if stop != nil {
		s.ReturnAccommodation = CheapestAccommodation(stop.AccommodationOptions)
	}
}

// TotalCost is the plan's base cost plus the prices of every selected
// lodging. The base cost never includes lodging, so nothing is counted twice.
func (s Selection) TotalCost(plan planner.TripPlan) float64 {
	total := plan.BaseCost
	if s.Accommodation != nil {
		total += s.Accommodation.TotalStayPrice
	}
	if s.OutboundAccommodation != nil {
		total += s.OutboundAccommodation.TotalStayPrice
	}
	if s.ReturnAccommodation != nil {
		total += s.ReturnAccommodation.TotalStayPrice
	}
	return total
}

// Itinerary rebuilds the day-by-day view: a synthetic arrival day when an
// outbound stopover is selected, the plan's own days renumbered, and a
// synthetic return day when a return stopover is selected. Day numbers are
// always the contiguous sequence 1..N.
func (s Selection) Itinerary(plan planner.TripPlan) []planner.ItineraryDay {
	days := make([]planner.ItineraryDay, 0, len(plan.Itinerary)+2)
	dayCounter := 1

	if s.OutboundStop != nil {
		days = append(days, stopoverDay(
			dayCounter,
			fmt.Sprintf("Chegada e pernoite em %s", s.OutboundStop.Name),
			*s.OutboundStop,
			s.OutboundAccommodation,
		))
		dayCounter++
	}

	for _, day := range plan.Itinerary {
		day.Day = dayCounter
		days = append(days, day)
		dayCounter++
	}

	if s.ReturnStop != nil {
		days = append(days, stopoverDay(
			dayCounter,
			fmt.Sprintf("Retorno com pernoite em %s", s.ReturnStop.Name),
			*s.ReturnStop,
			s.ReturnAccommodation,
		))
	}

	return days
}

// stopoverDay synthesizes one itinerary day for an overnight stop. Its cost
// is the stop's activities plus the selected stop lodging; stopover days
// carry no food suggestions.
func stopoverDay(day int, title string, stop planner.OvernightStop, accommodation *planner.AccommodationSuggestion) planner.ItineraryDay {
	cost := 0.0
	for _, act := range stop.Activities {
		cost += act.EstimatedCost
	}
	if accommodation != nil {
		cost += accommodation.TotalStayPrice
	}
	return planner.ItineraryDay{
		Day:              day,
		Title:            title,
		Location:         stop.Name,
		EstimatedDayCost: cost,
		Activities:       stop.Activities,
		FoodSuggestions:  []string{},
	}
}

// Choices is the wire form of a selection: entries are referenced by name so
// a client never has to round-trip whole objects.
type Choices struct {
	AccommodationName string `json:"accommodationName,omitempty"`
	OutboundStopName  string `json:"outboundStopName,omitempty"`
	SkipOutboundStop  bool   `json:"skipOutboundStop,omitempty"`
	ReturnStopName    string `json:"returnStopName,omitempty"`
	SkipReturnStop    bool   `json:"skipReturnStop,omitempty"`
}

// FromChoices resolves named choices against the plan, starting from the
// defaults. Unknown names leave the default in place; Skip flags win over
// names.
func FromChoices(plan planner.TripPlan, choices Choices) Selection {
	s := New(plan)

	if choices.AccommodationName != "" {
		for _, a := range plan.AccommodationOptions.Suggestions {
			if a.Name == choices.AccommodationName {
				a := a
				s.Accommodation = &a
				break
			}
		}
	}

	switch {
	case choices.SkipOutboundStop:
		s.SetOutboundStop(nil)
	case choices.OutboundStopName != "":
		if stop := findStop(plan.TransportationDetails.PotentialOutboundStops, choices.OutboundStopName); stop != nil {
			s.SetOutboundStop(stop)
		}
	}

	switch {
	case choices.SkipReturnStop:
		s.SetReturnStop(nil)
	case choices.ReturnStopName != "":
		if stop := findStop(plan.TransportationDetails.PotentialReturnStops, choices.ReturnStopName); stop != nil {
			s.SetReturnStop(stop)
		}
	}

	return s
}

func findStop(stops []planner.OvernightStop, name string) *planner.OvernightStop {
	for i := range stops {
		if stops[i].Name == name {
			return &stops[i]
		}
	}
	return nil
}
