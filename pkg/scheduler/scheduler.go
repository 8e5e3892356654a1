// Package scheduler implements the meeting coordination engine: booking
// template resolution, two-sided meeting booking, and free-slot queries
// against the external booking service.
package scheduler

import (
	"time"

	"github.com/npash/officemgr/pkg/calcom"
	"github.com/npash/officemgr/pkg/config"
	"github.com/npash/officemgr/pkg/directory"
)

// Engine coordinates meetings between employees through the external
// booking service. All operations resolve identities through the
// directory and templates through ResolveOrCreateTemplate before touching
// the booking or slots endpoints.
type Engine struct {
	directory directory.Store
	cal       *calcom.Client

	timeZone        string
	slotsTimeout    time.Duration
	defaultDuration int
}

// New creates a meeting coordination engine
func New(store directory.Store, client *calcom.Client, cfg config.CalendarConfig) *Engine {
	timeout := time.Duration(cfg.SlotsTimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	defaultDuration := cfg.DefaultDurationMinutes
	if defaultDuration == 0 {
		defaultDuration = 60
	}

	return &Engine{
		directory:       store,
		cal:             client,
		timeZone:        cfg.TimeZone,
		slotsTimeout:    timeout,
		defaultDuration: defaultDuration,
	}
}
