package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/npash/officemgr/pkg/calcom"
)

// BookingRequest describes one meeting to be created in the organizer's
// calendar with the attendee as guest.
type BookingRequest struct {
	OrganizerName   string
	AttendeeName    string
	Start           string // ISO 8601 instant, passed through verbatim
	DurationMinutes int
	Title           string
	Metadata        map[string]interface{}
}

// Participant is the display info for one side of a booking
type Participant struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Meeting describes the created booking. It carries no end time: only
// availability queries compute ends, bookings report what the service
// returned.
type Meeting struct {
	Title           string `json:"title"`
	Start           string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	BookingID       int    `json:"booking_id"`
	BookingUID      string `json:"booking_uid,omitempty"`
	BookingURL      string `json:"booking_url,omitempty"`
}

// BookingResult is the successful outcome of a single booking call
type BookingResult struct {
	Organizer Participant `json:"organizer"`
	Attendee  Participant `json:"attendee"`
	Meeting   Meeting     `json:"meeting"`
}

// Book creates one booking in the organizer's calendar with the attendee
// as guest. Both names are resolved through the directory before any
// external call is made.
func (e *Engine) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	organizer, err := e.directory.FindByName(ctx, req.OrganizerName)
	if err != nil {
		return nil, &InternalError{Err: fmt.Errorf("directory lookup: %w", err)}
	}
	if organizer == nil {
		return nil, &NotFoundError{Name: req.OrganizerName}
	}

	attendee, err := e.directory.FindByName(ctx, req.AttendeeName)
	if err != nil {
		return nil, &InternalError{Err: fmt.Errorf("directory lookup: %w", err)}
	}
	if attendee == nil {
		return nil, &NotFoundError{Name: req.AttendeeName}
	}

	title := req.Title
	if title == "" {
		title = "Meeting"
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = e.defaultDuration
	}

	templateID, err := e.ResolveOrCreateTemplate(ctx, organizer.CalAPIKey, duration,
		fmt.Sprintf("%s (%dmin)", title, duration), "")
	if err != nil {
		return nil, err
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	booking, err := e.cal.CreateBooking(ctx, organizer.CalAPIKey, organizer.CalUsername,
		calcom.CreateBookingRequest{
			EventTypeID: templateID,
			Start:       req.Start,
			Responses: calcom.BookingResponses{
				Name:  attendee.Name,
				Email: attendee.Email,
			},
			TimeZone: e.timeZone,
			Language: "en",
			Metadata: metadata,
		})
	if err != nil {
		return nil, externalOrInternal("create booking", err)
	}

	return &BookingResult{
		Organizer: Participant{
			Name:       organizer.Name,
			Email:      organizer.Email,
			Department: organizer.Department,
		},
		Attendee: Participant{
			Name:       attendee.Name,
			Email:      attendee.Email,
			Department: attendee.Department,
		},
		Meeting: Meeting{
			Title:           title,
			Start:           req.Start,
			DurationMinutes: duration,
			BookingID:       booking.ID,
			BookingUID:      booking.UID,
			BookingURL:      booking.URL,
		},
	}, nil
}

// SideResult is one half of a mirrored booking
type SideResult struct {
	Result *BookingResult `json:"result,omitempty"`
	Err    error          `json:"-"`
}

// MirroredResult carries both sub-results of a mirrored booking. When one
// side succeeded and the other failed the meeting exists in only one
// calendar; callers must surface that to the user.
type MirroredResult struct {
	MirrorID  string     `json:"mirror_id"`
	Organizer SideResult `json:"organizer_booking"`
	Attendee  SideResult `json:"attendee_booking"`
}

// Success reports whether both sides booked
func (r *MirroredResult) Success() bool {
	return r.Organizer.Err == nil && r.Attendee.Err == nil
}

// Partial reports whether exactly one side booked
func (r *MirroredResult) Partial() bool {
	return (r.Organizer.Err == nil) != (r.Attendee.Err == nil)
}

// BookMirrored books the meeting twice, once from each participant's
// side, so it appears in both calendars. The two calls are sequential and
// independent: the second is attempted even when the first fails, and a
// success is never rolled back when the other side fails.
func (e *Engine) BookMirrored(ctx context.Context, req BookingRequest) *MirroredResult {
	mirrorID := uuid.New().String()
	if req.Metadata == nil {
		req.Metadata = map[string]interface{}{}
	}
	req.Metadata["mirror_id"] = mirrorID

	first, firstErr := e.Book(ctx, req)

	swapped := req
	swapped.OrganizerName = req.AttendeeName
	swapped.AttendeeName = req.OrganizerName
	second, secondErr := e.Book(ctx, swapped)

	return &MirroredResult{
		MirrorID:  mirrorID,
		Organizer: SideResult{Result: first, Err: firstErr},
		Attendee:  SideResult{Result: second, Err: secondErr},
	}
}
