// Package booking builds deep links into external booking platforms from a
// trip plan. No platform is called here; the links open pre-filled searches.
package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-trip-planner/internal/planner"
)

// escape percent-encodes everything outside the RFC 3986 unreserved set, so
// a space becomes %20 rather than the form encoding +. Stricter than
// encodeURIComponent, which also leaves !'()* bare; the target sites accept
// either form.
func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '_' || c == '.' || c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// RoutePoint is a named location, optionally with exact coordinates.
type RoutePoint struct {
	Name   string
	Coords *planner.Coordinates
}

// GoogleMapsRouteURL builds a directions link from start to destination,
// threading optional waypoints. Coordinates win over the start name when
// present.
func GoogleMapsRouteURL(start RoutePoint, destination string, waypoints []string) string {
	startQuery := start.Name
	if start.Coords != nil {
		startQuery = fmt.Sprintf("%v,%v", start.Coords.Lat, start.Coords.Lon)
	}
	url := "https://www.google.com/maps/dir/?api=1" +
		"&origin=" + escape(startQuery) +
		"&destination=" + escape(destination)
	if len(waypoints) > 0 {
		escaped := make([]string, len(waypoints))
		for i, w := range waypoints {
			escaped[i] = escape(w)
		}
		url += "&waypoints=" + strings.Join(escaped, "|")
	}
	return url
}

// GoogleMapsSearchURL builds a place search link for the query.
func GoogleMapsSearchURL(query string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + escape(query)
}

// HotelURL builds a lodging search link on the suggestion's booking site,
// pre-filled with dates and party. Unknown sites fall back to a Google Maps
// search for the property.
func HotelURL(accommodation planner.AccommodationSuggestion, trip planner.TripPlan) string {
	destinationQuery := escape(accommodation.Name + ", " + accommodation.City)
	cityQuery := escape(accommodation.City + ", " + trip.DestinationCountry)
	checkin := trip.StartDate
	checkout := trip.EndDate
	adults := trip.Travelers.Adults
	childrenAges := trip.Travelers.Children

	switch strings.ToLower(accommodation.BookingSite) {
	case "booking.com":
		url := fmt.Sprintf("https://www.booking.com/searchresults.html?ss=%s&checkin=%s&checkout=%s&group_adults=%d&no_rooms=1",
			destinationQuery, checkin, checkout, adults)
		if len(childrenAges) > 0 {
			url += fmt.Sprintf("&group_children=%d", len(childrenAges))
			for _, age := range childrenAges {
				url += fmt.Sprintf("&age=%d", age)
			}
		}
		return url

	case "airbnb.com":
		return fmt.Sprintf("https://www.airbnb.com/s/%s/homes?checkin=%s&checkout=%s&adults=%d&children=%d",
			cityQuery, checkin, checkout, adults, len(childrenAges))

	case "hostelworld":
		return fmt.Sprintf("https://www.hostelworld.com/search?search_keywords=%s&date_from=%s&date_to=%s&number_of_guests=%d",
			cityQuery, checkin, checkout, adults+len(childrenAges))

	default:
		return GoogleMapsSearchURL(accommodation.Name + ", " + accommodation.City)
	}
}

// skyscannerDate turns an ISO date into Skyscanner's YYMMDD path form, or ""
// when the input is not a valid ISO date.
func skyscannerDate(isoDate string) string {
	if _, err := time.Parse("2006-01-02", isoDate); err != nil {
		return ""
	}
	return strings.ReplaceAll(isoDate[2:], "-", "")
}

// FlightURL builds a Skyscanner round-trip search from the plan's IATA codes
// and dates. When any of those are missing or malformed it falls back to the
// booking URL the plan already carries, which may be empty.
func FlightURL(trip planner.TripPlan) string {
	details := trip.TransportationDetails
	if details.OriginIataCode == "" || details.DestinationIataCode == "" ||
		skyscannerDate(trip.StartDate) == "" || skyscannerDate(trip.EndDate) == "" {
		return details.BookingURL
	}

	url := fmt.Sprintf("https://www.skyscanner.com.br/transport/flights/%s/%s/%s/%s/?adults=%d",
		strings.ToLower(details.OriginIataCode),
		strings.ToLower(details.DestinationIataCode),
		skyscannerDate(trip.StartDate),
		skyscannerDate(trip.EndDate),
		trip.Travelers.Adults)

	if len(trip.Travelers.Children) > 0 {
		ages := make([]string, len(trip.Travelers.Children))
		for i, age := range trip.Travelers.Children {
			ages[i] = strconv.Itoa(age)
		}
		// Skyscanner takes the children's ages as a comma-separated list.
		url += "&children=" + strings.Join(ages, ",")
	}

	return url
}

// BusURL builds a Buson search between the origin and destination cities.
// Only the part before the first comma of each place is used, so "Gramado,
// RS" searches for "Gramado".
func BusURL(trip planner.TripPlan) string {
	origin := escape(strings.TrimSpace(strings.Split(trip.StartLocation, ",")[0]))
	destination := escape(strings.TrimSpace(strings.Split(trip.DestinationName, ",")[0]))

	url := fmt.Sprintf("https://www.buson.com.br/passagem-de-onibus/%s/%s?ida=%s&passageiros=%d",
		origin, destination, trip.StartDate, trip.Travelers.Total())
	if trip.EndDate != "" {
		url += "&volta=" + trip.EndDate
	}
	return url
}

// CarRentalURL builds a Rentcars search with pickup and dropoff at the
// destination city, defaulting both to 10:00.
func CarRentalURL(trip planner.TripPlan) string {
	pickupLocation := escape(strings.Split(trip.DestinationName, ",")[0])
	return fmt.Sprintf("https://www.rentcars.com/pt-br/cidades/brasil/%s/?data_retirada=%sT10:00&data_devolucao=%sT10:00",
		pickupLocation, trip.StartDate, trip.EndDate)
}
