package planner

import "time"

// Travelers describes the composition of the traveling party.
type Travelers struct {
	Adults   int   `json:"adults"`
	Children []int `json:"children"` // ages of the minors
}

// Total returns the full party size.
func (t Travelers) Total() int {
	return t.Adults + len(t.Children)
}

// Coordinates is a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ItineraryActivity is a single activity with its estimated cost.
type ItineraryActivity struct {
	Description   string  `json:"description"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// Amenities are the boolean amenity flags of an accommodation.
type Amenities struct {
	HasBreakfast bool `json:"hasBreakfast"`
	HasPool      bool `json:"hasPool"`
	HasKitchen   bool `json:"hasKitchen"`
}

// AccommodationSuggestion is one lodging candidate.
type AccommodationSuggestion struct {
	Name           string    `json:"name"`
	Type           string    `json:"type"` // Hotel, Airbnb or Hostel
	City           string    `json:"city"`
	Location       string    `json:"location"`
	TotalStayPrice float64   `json:"totalStayPrice"`
	Amenities      Amenities `json:"amenities"`
	BookingSite    string    `json:"bookingSite,omitempty"`
}

// AccommodationOptions wraps the 7-10 lodging suggestions of a plan or stop.
type AccommodationOptions struct {
	Suggestions []AccommodationSuggestion `json:"suggestions"`
}

// OvernightStop is an intermediate city proposed for long car/bus journeys,
// carrying its own lodging options and activities for the stopover day.
type OvernightStop struct {
	Name                 string               `json:"name"`
	Description          string               `json:"description"`
	AccommodationOptions AccommodationOptions `json:"accommodationOptions"`
	Activities           []ItineraryActivity  `json:"activities"`
}

// TollPlaza is one toll booth of a car trip with its cost.
type TollPlaza struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// BreakdownItem is a labeled line of the transportation cost breakdown.
type BreakdownItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StrategicStop is a short rest stop along the route (no overnight).
type StrategicStop struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TransportationDetails describes how the trip is traveled and what it costs.
type TransportationDetails struct {
	Mode                   string          `json:"mode"`
	TotalCost              float64         `json:"totalCost"`
	Details                string          `json:"details"`
	SuggestedDepartureTime string          `json:"suggestedDepartureTime"`
	Breakdown              []BreakdownItem `json:"breakdown,omitempty"`
	StrategicStops         []StrategicStop `json:"strategicStops,omitempty"`
	PotentialOutboundStops []OvernightStop `json:"potentialOutboundStops,omitempty"`
	PotentialReturnStops   []OvernightStop `json:"potentialReturnStops,omitempty"`
	OriginIataCode         string          `json:"originIataCode,omitempty"`
	DestinationIataCode    string          `json:"destinationIataCode,omitempty"`
	PriceSource            string          `json:"priceSource,omitempty"`
	BookingURL             string          `json:"bookingUrl,omitempty"`
	TotalDistanceKm        float64         `json:"totalDistanceKm,omitempty"`
	TollPlazaBreakdown     []TollPlaza     `json:"tollPlazaBreakdown,omitempty"`
}

// CostBreakdown splits the base cost. Accommodation is deliberately absent:
// it is added dynamically from the user's lodging selection.
type CostBreakdown struct {
	Transportation float64 `json:"transportation"`
	Food           float64 `json:"food"`
	Activities     float64 `json:"activities"`
	Shopping       float64 `json:"shopping"`
}

// RestaurantSuggestion is one restaurant recommendation for the group.
type RestaurantSuggestion struct {
	Name             string  `json:"name"`
	AverageGroupCost float64 `json:"averageGroupCost"`
	Cuisine          string  `json:"cuisine"`
	Description      string  `json:"description"`
}

// ItineraryDay is a single day of the trip itinerary.
type ItineraryDay struct {
	Day              int                 `json:"day"`
	Title            string              `json:"title"`
	Location         string              `json:"location,omitempty"`
	EstimatedDayCost float64             `json:"estimatedDayCost"`
	Activities       []ItineraryActivity `json:"activities"`
	FoodSuggestions  []string            `json:"foodSuggestions"`
}

// TripPlan is one complete generated travel proposal. Once returned it is an
// immutable value owned by the session; favoriting persists a copy by ID.
type TripPlan struct {
	ID                    string                `json:"id"`
	DestinationName       string                `json:"destinationName"`
	DestinationCountry    string                `json:"destinationCountry"`
	StartDate             string                `json:"startDate"` // ISO date
	EndDate               string                `json:"endDate"`   // ISO date
	DurationDays          int                   `json:"durationDays"`
	BaseCost              float64               `json:"baseCost"` // excludes lodging
	Travelers             Travelers             `json:"travelers"`
	TransportationDetails TransportationDetails `json:"transportationDetails"`
	CostBreakdown         CostBreakdown         `json:"costBreakdown"`
	AccommodationOptions  AccommodationOptions  `json:"accommodationOptions"`
	RestaurantSuggestions []RestaurantSuggestion `json:"restaurantSuggestions"`
	Itinerary             []ItineraryDay        `json:"itinerary"`
	ShoppingTips          []string              `json:"shoppingTips"`
	DestinationTips       []string              `json:"destinationTips"`
	StartLocation         string                `json:"startLocation"`
	StartLocationCoords   *Coordinates          `json:"startLocationCoords,omitempty"`
	FavoritedAt           *time.Time            `json:"favoritedAt,omitempty"`
}
