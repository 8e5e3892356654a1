package calcom

// EventType represents a Cal.com event type (reusable booking template)
type EventType struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Length int    `json:"length"` // Duration in minutes
	Hidden bool   `json:"hidden"`

	Description string `json:"description,omitempty"`
	BookingURL  string `json:"link,omitempty"`
	UserID      int    `json:"userId,omitempty"`
	Username    string `json:"username,omitempty"`
}

// CreateEventTypeRequest represents the request to create an event type
type CreateEventTypeRequest struct {
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Length int    `json:"length"`
	Hidden bool   `json:"hidden"`
}

// BookingResponses holds the guest details attached to a booking
type BookingResponses struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	EventTypeID int                    `json:"eventTypeId"`
	Start       string                 `json:"start"` // ISO 8601 datetime, passed through verbatim
	Responses   BookingResponses       `json:"responses"`
	TimeZone    string                 `json:"timeZone"`
	Language    string                 `json:"language,omitempty"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// Booking represents a created Cal.com booking
type Booking struct {
	ID    int    `json:"id"`
	UID   string `json:"uid"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`

	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Slot is a single free slot start time as returned by the service
type Slot struct {
	Time string `json:"time"`
}

// SlotsResponse wraps the slots endpoint: free slots grouped by date
type SlotsResponse struct {
	Slots map[string][]Slot `json:"slots"`
}

// API response wrappers

// EventTypesResponse wraps the event types list endpoint
type EventTypesResponse struct {
	EventTypes []EventType `json:"event_types"`
}

// CreateEventTypeResponse wraps the event type creation endpoint
type CreateEventTypeResponse struct {
	EventType EventType `json:"event_type"`
}
