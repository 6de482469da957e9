package availability

import (
	"context"
	"log"
	"sync"
	"time"

	"ai-trip-planner/internal/planner"
	"ai-trip-planner/internal/shared"
)

// Status is the lifecycle of one plan's availability check.
type Status string

const (
	StatusUnchecked Status = "unchecked"
	StatusPending   Status = "pending"
	StatusResolved  Status = "resolved"
	StatusFailed    Status = "failed"
)

// Result is the current availability state for a user's open plan.
type Result struct {
	PlanID          string   `json:"planId"`
	Status          Status   `json:"status"`
	AvailableHotels []string `json:"availableHotels,omitempty"`
}

const probeTimeout = 45 * time.Second

// Tracker runs at most one availability check per user, for the plan that
// user currently has open. Opening a different plan supersedes the previous
// check: a result that arrives for a plan no longer open is dropped, so the
// state can never describe a plan the user already left.
type Tracker struct {
	probe  *Probe
	onMeta func(shared.AgentMeta)

	mu      sync.Mutex
	current map[string]*Result
}

// NewTracker creates a Tracker. onMeta, when non-nil, receives the usage
// metadata of every completed probe call.
func NewTracker(probe *Probe, onMeta func(shared.AgentMeta)) *Tracker {
	return &Tracker{
		probe:   probe,
		onMeta:  onMeta,
		current: make(map[string]*Result),
	}
}

// Open marks the plan as the user's open plan and starts its availability
// check in the background. Re-opening the plan that is already current is a
// no-op, so revisits never trigger duplicate checks.
func (t *Tracker) Open(userID string, plan planner.TripPlan) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cur, ok := t.current[userID]; ok && cur.PlanID == plan.ID {
		return
	}

	t.current[userID] = &Result{PlanID: plan.ID, Status: StatusPending}
	go t.check(userID, plan)
}

// Status returns the availability state for the user's open plan. The second
// return is false when the user has no open plan.
func (t *Tracker) Status(userID string) (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.current[userID]
	if !ok {
		return Result{Status: StatusUnchecked}, false
	}
	return *cur, true
}

func (t *Tracker) check(userID string, plan planner.TripPlan) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	accommodations := collectAccommodations(plan)
	available, meta, err := t.probe.Check(ctx, accommodations, plan)
	if t.onMeta != nil {
		t.onMeta(meta)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.current[userID]
	if !ok || cur.PlanID != plan.ID {
		// The user moved on to another plan; this result is stale.
		return
	}

	if err != nil {
		// Fail open: a broken check must never hide lodging options.
		log.Printf("availability check for plan %s failed, keeping all options: %v", plan.ID, err)
		names := make([]string, len(accommodations))
		for i, a := range accommodations {
			names[i] = a.Name
		}
		t.current[userID] = &Result{PlanID: plan.ID, Status: StatusFailed, AvailableHotels: names}
		return
	}

	t.current[userID] = &Result{PlanID: plan.ID, Status: StatusResolved, AvailableHotels: available}
}

// collectAccommodations gathers every lodging suggestion the plan offers,
// from the main destination and from both stopover directions.
func collectAccommodations(plan planner.TripPlan) []planner.AccommodationSuggestion {
	var out []planner.AccommodationSuggestion
	out = append(out, plan.AccommodationOptions.Suggestions...)
	for _, s := range plan.TransportationDetails.PotentialOutboundStops {
		out = append(out, s.AccommodationOptions.Suggestions...)
	}
	for _, s := range plan.TransportationDetails.PotentialReturnStops {
		out = append(out, s.AccommodationOptions.Suggestions...)
	}
	return out
}
