package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-trip-planner/internal/availability"
	"ai-trip-planner/internal/database"
	"ai-trip-planner/internal/favorites"
	"ai-trip-planner/internal/llm"
	"ai-trip-planner/internal/metrics"
	"ai-trip-planner/internal/planner"
	"ai-trip-planner/internal/profile"
	"ai-trip-planner/internal/webhook"
)

const testSecret = "test-secret"

type mockTextGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (m *mockTextGenerator) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (llm.ContentResponse, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{Content: m.response}, nil
}

func newTestServer(t *testing.T, gen llm.TextGenerator, webhookURL string) (*Server, *profile.Repository) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	profiles := profile.NewRepository(db.SQL)
	srv := New(Options{
		Trips:          planner.NewService(gen),
		Availability:   availability.NewTracker(availability.NewProbe(gen), nil),
		Favorites:      favorites.NewRepository(db.SQL),
		Profiles:       profiles,
		Metrics:        metrics.NewStore(db.SQL),
		Notifier:       webhook.NewNotifier(webhookURL),
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"*"},
	})
	return srv, profiles
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	claims := &Claims{
		Username: "tester",
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func validCriteria() planner.SearchCriteria {
	return planner.SearchCriteria{
		StartLocation: "São Paulo, SP",
		Destination:   "Gramado",
		Travelers:     planner.Travelers{Adults: 2},
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &mockTextGenerator{}, "")
	rec := doJSON(srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTripSuggestions(t *testing.T) {
	plansJSON := `[{"destinationName": "Gramado", "baseCost": 2000}]`

	t.Run("ReturnsPlansWithIDs", func(t *testing.T) {
		srv, _ := newTestServer(t, &mockTextGenerator{response: plansJSON}, "")
		rec := doJSON(srv, http.MethodPost, "/api/trip-suggestions", "", validCriteria())
		require.Equal(t, http.StatusOK, rec.Code)

		var plans []planner.TripPlan
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
		require.Len(t, plans, 1)
		assert.NotEmpty(t, plans[0].ID)
	})

	t.Run("InvalidCriteriaIs400", func(t *testing.T) {
		srv, _ := newTestServer(t, &mockTextGenerator{response: plansJSON}, "")
		rec := doJSON(srv, http.MethodPost, "/api/trip-suggestions", "", planner.SearchCriteria{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "viajante")
	})

	t.Run("SafetyBlockIs422", func(t *testing.T) {
		srv, _ := newTestServer(t, &mockTextGenerator{err: llm.ErrContentBlocked}, "")
		rec := doJSON(srv, http.MethodPost, "/api/trip-suggestions", "", validCriteria())
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "políticas de segurança")
	})

	t.Run("UpstreamFailureIs502", func(t *testing.T) {
		srv, _ := newTestServer(t, &mockTextGenerator{err: assert.AnError}, "")
		rec := doJSON(srv, http.MethodPost, "/api/trip-suggestions", "", validCriteria())
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("AuthenticatedUserGetsProfileContext", func(t *testing.T) {
		gen := &mockTextGenerator{response: plansJSON}
		srv, profiles := newTestServer(t, gen, "")

		require.NoError(t, profiles.SaveTripChoice(context.Background(), "user-1", planner.TripPlan{
			DestinationName:       "Bonito",
			DurationDays:          4,
			BaseCost:              1200,
			TransportationDetails: planner.TransportationDetails{Mode: "Avião"},
		}))

		rec := doJSON(srv, http.MethodPost, "/api/trip-suggestions", bearerToken(t, "user-1"), validCriteria())
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, gen.lastPrompt, "As preferências anteriores do usuário são")
		assert.Contains(t, gen.lastPrompt, "Bonito")
	})
}

func TestRefineTrip(t *testing.T) {
	srv, _ := newTestServer(t, &mockTextGenerator{response: `{"destinationName": "Gramado"}`}, "")

	body := map[string]any{
		"trip":        planner.TripPlan{ID: "t1", DestinationName: "Gramado"},
		"instruction": "hotel mais barato",
	}
	rec := doJSON(srv, http.MethodPost, "/api/trips/refine", "", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var refined planner.TripPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refined))
	assert.NotEmpty(t, refined.ID)
	assert.NotEqual(t, "t1", refined.ID)

	rec = doJSON(srv, http.MethodPost, "/api/trips/refine", "", map[string]any{"trip": planner.TripPlan{ID: "t1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func deriveTestTrip() planner.TripPlan {
	return planner.TripPlan{
		ID:              "t1",
		DestinationName: "Gramado",
		StartLocation:   "São Paulo, SP",
		BaseCost:        1000,
		Travelers:       planner.Travelers{Adults: 2},
		TransportationDetails: planner.TransportationDetails{
			Mode: "Carro próprio",
			PotentialOutboundStops: []planner.OvernightStop{{
				Name: "Curitiba",
				AccommodationOptions: planner.AccommodationOptions{
					Suggestions: []planner.AccommodationSuggestion{{Name: "Curitiba Inn", TotalStayPrice: 80}},
				},
			}},
		},
		AccommodationOptions: planner.AccommodationOptions{
			Suggestions: []planner.AccommodationSuggestion{
				{Name: "Hotel Serra", City: "Gramado", TotalStayPrice: 500, BookingSite: "Booking.com"},
			},
		},
		Itinerary: []planner.ItineraryDay{{Day: 1, Title: "Chegada"}, {Day: 2, Title: "Passeios"}},
	}
}

func TestDeriveTrip(t *testing.T) {
	srv, _ := newTestServer(t, &mockTextGenerator{}, "")

	body := map[string]any{"trip": deriveTestTrip(), "choices": map[string]any{}}
	rec := doJSON(srv, http.MethodPost, "/api/trips/derive", "", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		TotalCost    float64                `json:"totalCost"`
		Itinerary    []planner.ItineraryDay `json:"itinerary"`
		BookingLinks map[string]string      `json:"bookingLinks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 1580.0, view.TotalCost) // base 1000 + lodging 500 + stop 80
	require.Len(t, view.Itinerary, 3)       // synthetic stopover day + 2 original
	for i, day := range view.Itinerary {
		assert.Equal(t, i+1, day.Day)
	}
	assert.Contains(t, view.BookingLinks["accommodation"], "booking.com")
	assert.Contains(t, view.BookingLinks["transport"], "google.com/maps/dir")
	assert.Contains(t, view.BookingLinks["transport"], "Curitiba")
}

func TestGeoSuggestions(t *testing.T) {
	t.Run("ReturnsSuggestions", func(t *testing.T) {
		srv, _ := newTestServer(t, &mockTextGenerator{response: `{"suggestions": ["Gramado, RS"]}`}, "")
		rec := doJSON(srv, http.MethodPost, "/api/geo-suggestions", "", planner.GeoRequest{Type: planner.GeoCitiesInBrazilRegion, Region: "Sul"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Gramado, RS")
	})

	t.Run("UnknownTypeIs400", func(t *testing.T) {
		srv, _ := newTestServer(t, &mockTextGenerator{response: `{}`}, "")
		rec := doJSON(srv, http.MethodPost, "/api/geo-suggestions", "", planner.GeoRequest{Type: "NOPE"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "tipo de sugestão desconhecido")
	})

	t.Run("UpstreamFailureIs502", func(t *testing.T) {
		srv, _ := newTestServer(t, &mockTextGenerator{err: assert.AnError}, "")
		rec := doJSON(srv, http.MethodPost, "/api/geo-suggestions", "", planner.GeoRequest{Type: planner.GeoContinents})
		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), msgUpstreamFailure)
	})

	t.Run("SafetyBlockIs422", func(t *testing.T) {
		srv, _ := newTestServer(t, &mockTextGenerator{err: llm.ErrContentBlocked}, "")
		rec := doJSON(srv, http.MethodPost, "/api/geo-suggestions", "", planner.GeoRequest{Type: planner.GeoContinents})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestChooseTrip(t *testing.T) {
	received := make(chan planner.TripPlan, 1)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var trip planner.TripPlan
		json.NewDecoder(r.Body).Decode(&trip)
		received <- trip
	}))
	defer hook.Close()

	srv, profiles := newTestServer(t, &mockTextGenerator{}, hook.URL)
	trip := deriveTestTrip()

	rec := doJSON(srv, http.MethodPost, "/api/trips/choose", bearerToken(t, "user-1"), map[string]any{"trip": trip})
	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case got := <-received:
		assert.Equal(t, "t1", got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("Webhook never received the chosen trip")
	}

	summary, err := profiles.Summary(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Contains(t, summary, "Gramado")
}

func TestExportTrip(t *testing.T) {
	srv, _ := newTestServer(t, &mockTextGenerator{}, "")

	rec := doJSON(srv, http.MethodPost, "/api/trips/export", "", map[string]any{"trip": deriveTestTrip()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestHotelAvailability(t *testing.T) {
	gen := &mockTextGenerator{response: `{"availableHotels": ["Hotel Serra"]}`}
	srv, _ := newTestServer(t, gen, "")
	trip := deriveTestTrip()

	rec := doJSON(srv, http.MethodPost, "/api/hotel-availability", "", map[string]any{"trip": trip})
	require.Equal(t, http.StatusAccepted, rec.Code)

	deadline := time.Now().Add(2 * time.Second)
	var res availability.Result
	for time.Now().Before(deadline) {
		rec = doJSON(srv, http.MethodGet, "/api/hotel-availability/t1", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		if res.Status == availability.StatusResolved {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, availability.StatusResolved, res.Status)
	assert.Equal(t, []string{"Hotel Serra"}, res.AvailableHotels)

	// Polling a plan that is not the open one reads as unchecked.
	rec = doJSON(srv, http.MethodGet, "/api/hotel-availability/other", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, availability.StatusUnchecked, res.Status)
}

func TestFavorites(t *testing.T) {
	srv, _ := newTestServer(t, &mockTextGenerator{}, "")
	token := bearerToken(t, "user-1")
	trip := deriveTestTrip()

	t.Run("RequiresAuth", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doJSON(srv, http.MethodGet, "/api/favorites", "", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, doJSON(srv, http.MethodPost, "/api/favorites", "Bearer bogus", trip).Code)
	})

	t.Run("SaveListDelete", func(t *testing.T) {
		rec := doJSON(srv, http.MethodPost, "/api/favorites", token, trip)
		require.Equal(t, http.StatusCreated, rec.Code)

		var saved planner.TripPlan
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
		assert.NotNil(t, saved.FavoritedAt)

		rec = doJSON(srv, http.MethodGet, "/api/favorites", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var plans []planner.TripPlan
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
		require.Len(t, plans, 1)

		rec = doJSON(srv, http.MethodDelete, "/api/favorites/t1", token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(srv, http.MethodGet, "/api/favorites", token, nil)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
		assert.Empty(t, plans)
	})
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, &mockTextGenerator{response: `[]`}, "")

	limited := false
	for i := 0; i < 10; i++ {
		rec := doJSON(srv, http.MethodPost, "/api/trip-suggestions", "", validCriteria())
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited, "Expected the burst to hit the rate limit")
}
