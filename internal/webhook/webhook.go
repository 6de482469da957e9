// Package webhook pushes chosen trip plans to an external automation hook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ai-trip-planner/internal/planner"
)

// Notifier sends fire-and-forget notifications when a user settles on a
// trip. Failures are logged and swallowed; choosing a trip must never break
// because an automation endpoint is down.
type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier creates a Notifier. An empty URL disables delivery.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify posts the full trip plan as JSON to the configured hook.
func (n *Notifier) Notify(ctx context.Context, trip planner.TripPlan) {
	if n == nil || n.url == "" {
		return
	}

	body, err := json.Marshal(trip)
	if err != nil {
		log.Printf("webhook: failed to encode trip %s: %v", trip.ID, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("webhook: failed to build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("webhook: delivery for trip %s failed: %v", trip.ID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("webhook: endpoint answered %d for trip %s", resp.StatusCode, trip.ID)
	}
}
