package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/npash/officemgr/pkg/calcom"
	"github.com/npash/officemgr/pkg/config"
	"github.com/npash/officemgr/pkg/directory"
)

// memDirectory is an in-memory directory store for tests
type memDirectory map[string]*directory.Employee

func (m memDirectory) FindByName(ctx context.Context, name string) (*directory.Employee, error) {
	return m[name], nil
}

func (m memDirectory) Departments(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, e := range m {
		if !seen[e.Department] {
			seen[e.Department] = true
			out = append(out, e.Department)
		}
	}
	return out, nil
}

func (m memDirectory) NamesInDepartment(ctx context.Context, department string) ([]string, error) {
	var out []string
	for _, e := range m {
		if e.Department == department {
			out = append(out, e.Name)
		}
	}
	return out, nil
}

func testDirectory() memDirectory {
	return memDirectory{
		"Alice": {
			Name: "Alice", Email: "alice@demo.com", Department: "AI",
			CalUsername: "alice", CalAPIKey: "K1",
		},
		"Bob": {
			Name: "Bob", Email: "bob@demo.com", Department: "Sales",
			CalUsername: "bob", CalAPIKey: "K2",
		},
	}
}

// recordedBooking captures one POST /v1/bookings call
type recordedBooking struct {
	APIKey   string
	Username string
	Request  calcom.CreateBookingRequest
}

// fakeCal is an in-memory stand-in for the external booking service
type fakeCal struct {
	mu         sync.Mutex
	nextID     int
	eventTypes map[string][]calcom.EventType // keyed by apiKey
	bookings   []recordedBooking
	requests   int

	listStatus     int               // non-zero forces that status on GET /v1/event-types
	createStatus   int               // non-zero forces that status on POST /v1/event-types
	bookingStatus  map[string]int    // apiKey -> forced status on POST /v1/bookings
	slotsStatus    int               // non-zero forces that status on GET /v1/slots
	slotsBody      string            // raw body for GET /v1/slots
	slotsHang      bool              // block the slots call until the client gives up
}

func newFakeCal() *fakeCal {
	return &fakeCal{
		nextID:        100,
		eventTypes:    map[string][]calcom.EventType{},
		bookingStatus: map[string]int{},
		slotsBody:     `{"slots":{}}`,
	}
}

func (f *fakeCal) templatesFor(apiKey string) []calcom.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]calcom.EventType(nil), f.eventTypes[apiKey]...)
}

func (f *fakeCal) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeCal) recordedBookings() []recordedBooking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedBooking(nil), f.bookings...)
}

func (f *fakeCal) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests++
		f.mu.Unlock()

		apiKey := r.URL.Query().Get("apiKey")

		switch {
		case r.URL.Path == "/v1/event-types" && r.Method == http.MethodGet:
			if f.listStatus != 0 {
				w.WriteHeader(f.listStatus)
				w.Write([]byte(`{"message":"list failed"}`))
				return
			}
			f.mu.Lock()
			resp := calcom.EventTypesResponse{EventTypes: f.eventTypes[apiKey]}
			f.mu.Unlock()
			json.NewEncoder(w).Encode(resp)

		case r.URL.Path == "/v1/event-types" && r.Method == http.MethodPost:
			if f.createStatus != 0 {
				w.WriteHeader(f.createStatus)
				w.Write([]byte(`{"message":"create failed"}`))
				return
			}
			var req calcom.CreateEventTypeRequest
			json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			f.nextID++
			et := calcom.EventType{ID: f.nextID, Title: req.Title, Slug: req.Slug, Length: req.Length}
			f.eventTypes[apiKey] = append(f.eventTypes[apiKey], et)
			f.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(calcom.CreateEventTypeResponse{EventType: et})

		case r.URL.Path == "/v1/bookings" && r.Method == http.MethodPost:
			if status := f.bookingStatus[apiKey]; status != 0 {
				w.WriteHeader(status)
				w.Write([]byte(`{"message":"no_available_users_found_error"}`))
				return
			}
			var req calcom.CreateBookingRequest
			json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			f.nextID++
			id := f.nextID
			f.bookings = append(f.bookings, recordedBooking{
				APIKey:   apiKey,
				Username: r.URL.Query().Get("username"),
				Request:  req,
			})
			f.mu.Unlock()
			json.NewEncoder(w).Encode(calcom.Booking{ID: id, UID: "uid-" + apiKey})

		case r.URL.Path == "/v1/slots" && r.Method == http.MethodGet:
			if f.slotsHang {
				<-r.Context().Done()
				return
			}
			if f.slotsStatus != 0 {
				w.WriteHeader(f.slotsStatus)
				w.Write([]byte(`{"message":"slots failed"}`))
				return
			}
			w.Write([]byte(f.slotsBody))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// newTestEngine wires an Engine against the fake service. The returned
// cleanup closes the server.
func newTestEngine(fake *fakeCal, timeoutSeconds int) (*Engine, func()) {
	srv := httptest.NewServer(fake.handler())
	client := calcom.NewClient(srv.URL)
	engine := New(testDirectory(), client, config.CalendarConfig{
		TimeZone:               "Europe/Moscow",
		SlotsTimeoutSeconds:    timeoutSeconds,
		DefaultDurationMinutes: 60,
	})
	return engine, srv.Close
}

func hasStatus(err error, status int) bool {
	extErr, ok := err.(*ExternalServiceError)
	return ok && extErr.Status == status
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
