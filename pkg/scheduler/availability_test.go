package scheduler

import (
	"context"
	"errors"
	"testing"
)

// Scenario: one 60-minute slot on 2025-12-10 starting at 09:00Z.
func TestAvailableSlotsComputesEndTimes(t *testing.T) {
	fake := newFakeCal()
	fake.slotsBody = `{"slots":{"2025-12-10":[{"time":"2025-12-10T09:00:00Z"}]}}`
	engine, cleanup := newTestEngine(fake, 10)
	defer cleanup()

	avail, err := engine.AvailableSlots(context.Background(), "Alice", "2025-12-10", "2025-12-10", 60)
	if err != nil {
		t.Fatalf("AvailableSlots() error = %v", err)
	}

	if avail.TotalSlots != 1 {
		t.Errorf("TotalSlots = %d, want 1", avail.TotalSlots)
	}
	day := avail.Slots["2025-12-10"]
	if len(day) != 1 {
		t.Fatalf("slots on 2025-12-10 = %d, want 1", len(day))
	}
	if day[0].Start != "2025-12-10T09:00:00Z" {
		t.Errorf("Start = %q", day[0].Start)
	}
	if day[0].End != "2025-12-10T10:00:00Z" {
		t.Errorf("End = %q, want start + 60min", day[0].End)
	}
}

func TestAvailableSlotsPreservesServiceOrdering(t *testing.T) {
	fake := newFakeCal()
	// Deliberately not sorted: the service's order is authoritative.
	fake.slotsBody = `{"slots":{"2025-12-10":[` +
		`{"time":"2025-12-10T14:00:00Z"},` +
		`{"time":"2025-12-10T09:00:00Z"},` +
		`{"time":"2025-12-10T11:30:00Z"}],` +
		`"2025-12-11":[{"time":"2025-12-11T10:00:00Z"}]}}`
	engine, cleanup := newTestEngine(fake, 10)
	defer cleanup()

	avail, err := engine.AvailableSlots(context.Background(), "Alice", "2025-12-10", "2025-12-11", 30)
	if err != nil {
		t.Fatalf("AvailableSlots() error = %v", err)
	}

	if avail.TotalSlots != 4 {
		t.Errorf("TotalSlots = %d, want 4", avail.TotalSlots)
	}

	day := avail.Slots["2025-12-10"]
	wantStarts := []string{"2025-12-10T14:00:00Z", "2025-12-10T09:00:00Z", "2025-12-10T11:30:00Z"}
	for i, want := range wantStarts {
		if day[i].Start != want {
			t.Errorf("slot %d start = %q, want %q (no re-sorting)", i, day[i].Start, want)
		}
	}

	// Every window is exactly start + duration
	if day[1].End != "2025-12-10T09:30:00Z" {
		t.Errorf("End = %q, want 09:30Z", day[1].End)
	}
}

func TestAvailableSlotsUnknownEmployee(t *testing.T) {
	fake := newFakeCal()
	engine, cleanup := newTestEngine(fake, 10)
	defer cleanup()

	_, err := engine.AvailableSlots(context.Background(), "Nobody", "2025-12-10", "2025-12-10", 60)

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if fake.requestCount() != 0 {
		t.Errorf("external service saw %d requests, want 0", fake.requestCount())
	}
}

// Scenario: the slots endpoint hangs. The bounded wait expires, the error
// names the employee, and the template created beforehand remains.
func TestAvailableSlotsTimeout(t *testing.T) {
	fake := newFakeCal()
	fake.slotsHang = true
	engine, cleanup := newTestEngine(fake, 1)
	defer cleanup()

	_, err := engine.AvailableSlots(context.Background(), "Alice", "2025-12-10", "2025-12-10", 60)

	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("err = %v, want TimeoutError", err)
	}
	if timeout.Employee != "Alice" {
		t.Errorf("TimeoutError.Employee = %q, want Alice", timeout.Employee)
	}

	// The template step ran before the timed call and is not undone.
	if len(fake.templatesFor("K1")) != 1 {
		t.Error("template creation side effect should have happened before the timeout")
	}
}

func TestAvailableSlotsExternalError(t *testing.T) {
	fake := newFakeCal()
	fake.slotsStatus = 500
	engine, cleanup := newTestEngine(fake, 10)
	defer cleanup()

	_, err := engine.AvailableSlots(context.Background(), "Alice", "2025-12-10", "2025-12-10", 60)
	if !hasStatus(err, 500) {
		t.Fatalf("err = %v, want ExternalServiceError with status 500", err)
	}
	if !containsAll(err.Error(), "slots failed") {
		t.Errorf("error should carry the response body, got %q", err.Error())
	}
}

func TestAvailableSlotsDefaultDuration(t *testing.T) {
	fake := newFakeCal()
	fake.slotsBody = `{"slots":{"2025-12-10":[{"time":"2025-12-10T09:00:00Z"}]}}`
	engine, cleanup := newTestEngine(fake, 10)
	defer cleanup()

	avail, err := engine.AvailableSlots(context.Background(), "Alice", "2025-12-10", "2025-12-10", 0)
	if err != nil {
		t.Fatalf("AvailableSlots() error = %v", err)
	}
	if avail.DurationMinutes != 60 {
		t.Errorf("DurationMinutes = %d, want configured default 60", avail.DurationMinutes)
	}

	templates := fake.templatesFor("K1")
	if len(templates) != 1 || templates[0].Length != 60 {
		t.Errorf("templates = %+v, want one 60min template", templates)
	}
}

func TestAvailableSlotsMalformedSlotTime(t *testing.T) {
	fake := newFakeCal()
	fake.slotsBody = `{"slots":{"2025-12-10":[{"time":"not-a-time"}]}}`
	engine, cleanup := newTestEngine(fake, 10)
	defer cleanup()

	_, err := engine.AvailableSlots(context.Background(), "Alice", "2025-12-10", "2025-12-10", 60)

	var internal *InternalError
	if !errors.As(err, &internal) {
		t.Fatalf("err = %v, want InternalError", err)
	}
}
