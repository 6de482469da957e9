package profile

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-trip-planner/internal/database"
	"ai-trip-planner/internal/planner"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func choice(destination string, days int) planner.TripPlan {
	return planner.TripPlan{
		DestinationName:       destination,
		DurationDays:          days,
		BaseCost:              1500,
		TransportationDetails: planner.TransportationDetails{Mode: "Carro próprio"},
	}
}

func TestSummaryEmptyWithoutHistory(t *testing.T) {
	repo := testRepository(t)
	got, err := repo.Summary(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty summary, got %q", got)
	}
}

func TestSummaryFormat(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	if err := repo.SaveTripChoice(ctx, "user-1", choice("Gramado", 5)); err != nil {
		t.Fatalf("SaveTripChoice failed: %v", err)
	}

	got, err := repo.Summary(ctx, "user-1")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	want := "As preferências anteriores do usuário são: uma viagem de 5 dias para Gramado usando Carro próprio, com um custo base de aproximadamente 1500 BRL."
	if got != want {
		t.Errorf("Unexpected summary:\n got %q\nwant %q", got, want)
	}
}

func TestSummaryKeepsNewestFive(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	destinations := []string{"Gramado", "Salvador", "Curitiba", "Recife", "Natal", "Bonito", "Paraty"}
	for i, d := range destinations {
		ts := base.Add(time.Duration(i) * time.Hour)
		repo.now = func() time.Time { return ts }
		if err := repo.SaveTripChoice(ctx, "user-1", choice(d, 3)); err != nil {
			t.Fatalf("SaveTripChoice failed: %v", err)
		}
	}

	got, err := repo.Summary(ctx, "user-1")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	for _, old := range destinations[:2] {
		if strings.Contains(got, old) {
			t.Errorf("Expected %q to age out of the summary", old)
		}
	}
	for _, recent := range destinations[2:] {
		if !strings.Contains(got, recent) {
			t.Errorf("Expected %q in the summary", recent)
		}
	}
	if !strings.HasPrefix(got, "As preferências anteriores do usuário são: uma viagem de 3 dias para Paraty") {
		t.Errorf("Expected the newest choice first, got %q", got)
	}
	if strings.Count(got, "uma viagem") != 5 {
		t.Errorf("Expected exactly 5 entries, got %q", got)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	if err := repo.SaveTripChoice(ctx, "user-1", choice("Gramado", 5)); err != nil {
		t.Fatalf("SaveTripChoice failed: %v", err)
	}
	got, err := repo.Summary(ctx, "user-2")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty summary for another user, got %q", got)
	}
}
