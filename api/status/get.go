// Package status exposes the live counters of a running batch.
package status

import (
	"sonarfleet/api/web"
	"sonarfleet/domains/onboard"
)

// healthResponse is the health check response
type healthResponse struct {
	Status string `json:"status"`
}

// Health handles GET /healthz
func Health(c web.Context) error {
	return c.OK(healthResponse{Status: "ok"})
}

// statsResponse is the live stats response
type statsResponse struct {
	Stats    onboard.Snapshot `json:"stats"`
	Terminal int              `json:"terminal_total"`
}

// GetStats returns the current aggregate counters mid-run.
func GetStats(stats *onboard.Stats) web.HandlerFunc {
	return func(c web.Context) error {
		snap := stats.Snapshot()
		return c.OK(statsResponse{
			Stats:    snap,
			Terminal: snap.TerminalTotal(),
		})
	}
}
