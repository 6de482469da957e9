package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"ai-trip-planner/internal/availability"
	"ai-trip-planner/internal/booking"
	"ai-trip-planner/internal/export"
	"ai-trip-planner/internal/llm"
	"ai-trip-planner/internal/planner"
	"ai-trip-planner/internal/selection"
)

// User-facing messages are in Portuguese, like the rest of the product.
const (
	msgBlocked         = "A resposta foi bloqueada devido a políticas de segurança. Tente uma busca diferente."
	msgUpstreamFailure = "Não foi possível falar com o serviço de planejamento. Tente novamente."
	msgBadRequest      = "corpo da requisição inválido"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeLLMError maps backend failures onto the API contract: safety blocks
// are a distinct 422, everything else is a 502.
func writeLLMError(w http.ResponseWriter, err error) {
	if errors.Is(err, llm.ErrContentBlocked) {
		writeError(w, http.StatusUnprocessableEntity, msgBlocked)
		return
	}
	log.Printf("generative backend call failed: %v", err)
	writeError(w, http.StatusBadGateway, msgUpstreamFailure)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTripSuggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var criteria planner.SearchCriteria
	if !decodeBody(w, r, &criteria) {
		return
	}
	if err := criteria.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Authenticated users get their preference history folded into the
	// prompt, unless the client already sent a profile line.
	if id, ok := userID(r.Context()); ok && criteria.UserProfile == "" && s.profiles != nil {
		summary, err := s.profiles.Summary(r.Context(), id)
		if err != nil {
			log.Printf("failed to load profile for %s: %v", id, err)
		} else {
			criteria.UserProfile = summary
		}
	}

	plans, meta, err := s.trips.GenerateTrips(r.Context(), criteria)
	s.recordMeta(meta)
	if err != nil {
		writeLLMError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleRefineTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Trip        planner.TripPlan `json:"trip"`
		Instruction string           `json:"instruction"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Instruction == "" {
		writeError(w, http.StatusBadRequest, "informe a instrução de mudança")
		return
	}

	refined, meta, err := s.trips.RefineTrip(r.Context(), req.Trip, req.Instruction)
	s.recordMeta(meta)
	if err != nil {
		writeLLMError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, refined)
}

// derivedView is what a client needs to render a plan with choices applied.
type derivedView struct {
	TotalCost    float64                `json:"totalCost"`
	Itinerary    []planner.ItineraryDay `json:"itinerary"`
	Selection    selectionView          `json:"selection"`
	BookingLinks map[string]string      `json:"bookingLinks"`
}

type selectionView struct {
	Accommodation         *planner.AccommodationSuggestion `json:"accommodation,omitempty"`
	OutboundStop          *planner.OvernightStop           `json:"outboundStop,omitempty"`
	OutboundAccommodation *planner.AccommodationSuggestion `json:"outboundAccommodation,omitempty"`
	ReturnStop            *planner.OvernightStop           `json:"returnStop,omitempty"`
	ReturnAccommodation   *planner.AccommodationSuggestion `json:"returnAccommodation,omitempty"`
}

func deriveView(trip planner.TripPlan, sel selection.Selection) derivedView {
	links := map[string]string{}
	if sel.Accommodation != nil {
		links["accommodation"] = booking.HotelURL(*sel.Accommodation, trip)
	}
	if sel.OutboundAccommodation != nil {
		links["outboundAccommodation"] = booking.HotelURL(*sel.OutboundAccommodation, trip)
	}
	if sel.ReturnAccommodation != nil {
		links["returnAccommodation"] = booking.HotelURL(*sel.ReturnAccommodation, trip)
	}

	switch trip.TransportationDetails.Mode {
	case "Avião":
		if url := booking.FlightURL(trip); url != "" {
			links["transport"] = url
		}
	case "Ônibus":
		links["transport"] = booking.BusURL(trip)
	case "Carro alugado":
		links["transport"] = booking.CarRentalURL(trip)
	case "Carro próprio":
		var waypoints []string
		if sel.OutboundStop != nil {
			waypoints = append(waypoints, sel.OutboundStop.Name)
		}
		start := booking.RoutePoint{Name: trip.StartLocation, Coords: trip.StartLocationCoords}
		links["transport"] = booking.GoogleMapsRouteURL(start, trip.DestinationName, waypoints)
	}

	return derivedView{
		TotalCost: sel.TotalCost(trip),
		Itinerary: sel.Itinerary(trip),
		Selection: selectionView{
			Accommodation:         sel.Accommodation,
			OutboundStop:          sel.OutboundStop,
			OutboundAccommodation: sel.OutboundAccommodation,
			ReturnStop:            sel.ReturnStop,
			ReturnAccommodation:   sel.ReturnAccommodation,
		},
		BookingLinks: links,
	}
}

func (s *Server) handleDeriveTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Trip    planner.TripPlan  `json:"trip"`
		Choices selection.Choices `json:"choices"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Trip.ID == "" {
		writeError(w, http.StatusBadRequest, "plano de viagem ausente")
		return
	}

	sel := selection.FromChoices(req.Trip, req.Choices)
	writeJSON(w, http.StatusOK, deriveView(req.Trip, sel))
}

func (s *Server) handleChooseTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Trip planner.TripPlan `json:"trip"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Trip.ID == "" {
		writeError(w, http.StatusBadRequest, "plano de viagem ausente")
		return
	}

	// Both side effects are best-effort: choosing a trip always succeeds.
	if id, ok := userID(r.Context()); ok && s.profiles != nil {
		if err := s.profiles.SaveTripChoice(r.Context(), id, req.Trip); err != nil {
			log.Printf("failed to save trip choice for %s: %v", id, err)
		}
	}
	s.notifier.Notify(r.Context(), req.Trip)

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleExportTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Trip    planner.TripPlan  `json:"trip"`
		Choices selection.Choices `json:"choices"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Trip.ID == "" {
		writeError(w, http.StatusBadRequest, "plano de viagem ausente")
		return
	}

	pdf, err := export.PDF(req.Trip, selection.FromChoices(req.Trip, req.Choices))
	if err != nil {
		log.Printf("failed to export trip %s: %v", req.Trip.ID, err)
		writeError(w, http.StatusInternalServerError, "não foi possível gerar o PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=viagem-%s.pdf", req.Trip.ID))
	w.Write(pdf)
}

func (s *Server) handleRestaurants(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Destination string            `json:"destination"`
		Travelers   planner.Travelers `json:"travelers"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Destination == "" {
		writeError(w, http.StatusBadRequest, "informe o destino")
		return
	}

	suggestions, meta, err := s.trips.MoreRestaurants(r.Context(), req.Destination, req.Travelers)
	s.recordMeta(meta)
	if err != nil {
		writeLLMError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) handleGeoSuggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req planner.GeoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	suggestions, meta, err := s.trips.GeoSuggestions(r.Context(), req)
	s.recordMeta(meta)
	if err != nil {
		// Only an unsupported request type is the client's fault.
		if errors.Is(err, planner.ErrUnknownGeoType) {
			writeError(w, http.StatusBadRequest, "tipo de sugestão desconhecido")
			return
		}
		writeLLMError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

func (s *Server) handleAttractionSuggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Cities []string `json:"cities"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Cities) == 0 {
		writeError(w, http.StatusBadRequest, "informe ao menos uma cidade")
		return
	}

	suggestions, meta, err := s.trips.AttractionSuggestions(r.Context(), req.Cities)
	s.recordMeta(meta)
	if err != nil {
		writeLLMError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

func (s *Server) handleBeginAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Trip planner.TripPlan `json:"trip"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Trip.ID == "" {
		writeError(w, http.StatusBadRequest, "plano de viagem ausente")
		return
	}

	s.availability.Open(clientID(r), req.Trip)
	res, _ := s.availability.Status(clientID(r))
	writeJSON(w, http.StatusAccepted, res)
}

func (s *Server) handleAvailabilityStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, ok := s.availability.Status(clientID(r))
	if !ok || res.PlanID != ps.ByName("tripID") {
		// Not the open plan (or nothing open): the client sees it unchecked.
		writeJSON(w, http.StatusOK, availability.Result{PlanID: ps.ByName("tripID"), Status: availability.StatusUnchecked})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, _ := userID(r.Context())
	plans, err := s.favorites.List(r.Context(), id)
	if err != nil {
		log.Printf("failed to list favorites for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "não foi possível carregar os favoritos")
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleSaveFavorite(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var trip planner.TripPlan
	if !decodeBody(w, r, &trip) {
		return
	}

	id, _ := userID(r.Context())
	saved, err := s.favorites.Save(r.Context(), id, trip)
	if err != nil {
		if trip.ID == "" {
			writeError(w, http.StatusBadRequest, "plano de viagem ausente")
			return
		}
		log.Printf("failed to save favorite for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "não foi possível salvar o favorito")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeleteFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, _ := userID(r.Context())
	if err := s.favorites.Delete(r.Context(), id, ps.ByName("tripID")); err != nil {
		log.Printf("failed to delete favorite for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "não foi possível remover o favorito")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
