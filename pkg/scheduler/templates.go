package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/npash/officemgr/pkg/calcom"
)

// ResolveOrCreateTemplate finds an event type with the requested duration
// visible to the given API key, creating one when none exists. The first
// template whose length matches wins; duplicates are not collapsed.
//
// A non-2xx response on the listing call is treated the same as an empty
// list, so the engine falls through to creation. Listing and creation are
// not atomic: two concurrent calls for the same duration can each create
// a template.
func (e *Engine) ResolveOrCreateTemplate(ctx context.Context, apiKey string, durationMinutes int, title, slug string) (int, error) {
	eventTypes, err := e.cal.GetEventTypes(ctx, apiKey)
	if err != nil {
		var apiErr *calcom.APIError
		if !errors.As(err, &apiErr) {
			return 0, &InternalError{Err: fmt.Errorf("list event types: %w", err)}
		}
		eventTypes = nil
	}

	for _, et := range eventTypes {
		if et.Length == durationMinutes {
			return et.ID, nil
		}
	}

	if slug == "" {
		slug = fmt.Sprintf("meeting-%dmin", durationMinutes)
	}
	if title == "" {
		title = fmt.Sprintf("Meeting %dmin", durationMinutes)
	}

	created, err := e.cal.CreateEventType(ctx, apiKey, calcom.CreateEventTypeRequest{
		Title:  title,
		Slug:   slug,
		Length: durationMinutes,
		Hidden: false,
	})
	if err != nil {
		return 0, externalOrInternal("create event type", err)
	}

	return created.ID, nil
}
