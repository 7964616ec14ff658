package apiclient

import (
	"context"
	"net/http"
	"time"

	"github.com/civiclens-lk/civiclens/internal/civic"
	"github.com/civiclens-lk/civiclens/internal/mockdata"
)

// Health is the service health report.
type Health struct {
	OK        bool      `json:"ok"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DemoMode  bool      `json:"demo_mode"`
}

// Stats fetches the dashboard aggregates. Offline, they are derived from
// the seed set with the same counting rules.
func (c *Client) Stats(ctx context.Context) civic.Stats {
	fetched, fetchErr := fetchJSON[civic.Stats](ctx, c, "get_stats", http.MethodGet, "/api/stats", "", nil)
	return withFallback(c, fetched, fetchErr, func() civic.Stats {
		return civic.ComputeStats(mockdata.AllIssues())
	})
}

// Health reports reachability. The fallback is the one place where
// degradation is visible: ok=false, status "fallback".
func (c *Client) Health(ctx context.Context) Health {
	fetched, fetchErr := fetchJSON[Health](ctx, c, "get_health", http.MethodGet, "/api/health", "", nil)
	return withFallback(c, fetched, fetchErr, func() Health {
		return Health{OK: false, Status: "fallback", Timestamp: c.clock().UTC(), DemoMode: true}
	})
}

// Contacts fetches the emergency contact directory.
func (c *Client) Contacts(ctx context.Context) []civic.EmergencyContact {
	fetched, fetchErr := fetchJSON[[]civic.EmergencyContact](ctx, c, "get_contacts", http.MethodGet, "/api/contacts", "", nil)
	return withFallback(c, fetched, fetchErr, mockdata.EmergencyContacts)
}

// Hotlines fetches the national short-dial numbers.
func (c *Client) Hotlines(ctx context.Context) []civic.NationalHotline {
	fetched, fetchErr := fetchJSON[[]civic.NationalHotline](ctx, c, "get_hotlines", http.MethodGet, "/api/hotlines", "", nil)
	return withFallback(c, fetched, fetchErr, mockdata.NationalHotlines)
}
