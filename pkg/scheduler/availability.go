package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SlotWindow is one free window. End is always Start plus the requested
// duration; the service itself only reports starts.
type SlotWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability is the day-keyed set of free windows for one employee
type Availability struct {
	Employee        string                  `json:"employee"`
	CalUsername     string                  `json:"cal_username"`
	DurationMinutes int                     `json:"duration_minutes"`
	DateFrom        string                  `json:"date_from"`
	DateTo          string                  `json:"date_to"`
	Slots           map[string][]SlotWindow `json:"slots"`
	TotalSlots      int                     `json:"total_slots"`
}

// AvailableSlots fetches the employee's free slots in the date range and
// derives an end time for each. The template resolution side effect
// happens before the slots call, so a template may be created even when
// the query itself later fails. Only this call carries a bounded wait;
// on expiry it reports a TimeoutError naming the employee.
func (e *Engine) AvailableSlots(ctx context.Context, employeeName, dateFrom, dateTo string, durationMinutes int) (*Availability, error) {
	employee, err := e.directory.FindByName(ctx, employeeName)
	if err != nil {
		return nil, &InternalError{Err: fmt.Errorf("directory lookup: %w", err)}
	}
	if employee == nil {
		return nil, &NotFoundError{Name: employeeName}
	}

	if durationMinutes == 0 {
		durationMinutes = e.defaultDuration
	}

	templateID, err := e.ResolveOrCreateTemplate(ctx, employee.CalAPIKey, durationMinutes,
		fmt.Sprintf("Meeting %dmin", durationMinutes), "")
	if err != nil {
		return nil, err
	}

	slotsCtx, cancel := context.WithTimeout(ctx, e.slotsTimeout)
	defer cancel()

	resp, err := e.cal.GetSlots(slotsCtx, employee.CalAPIKey, employee.CalUsername, templateID,
		dateFrom+"T00:00:00Z", dateTo+"T23:59:59Z", e.timeZone)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || slotsCtx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{Employee: employeeName}
		}
		return nil, externalOrInternal("get slots", err)
	}

	duration := time.Duration(durationMinutes) * time.Minute
	windows := make(map[string][]SlotWindow, len(resp.Slots))
	total := 0

	for date, slots := range resp.Slots {
		dayWindows := make([]SlotWindow, 0, len(slots))
		for _, slot := range slots {
			start, err := time.Parse(time.RFC3339, slot.Time)
			if err != nil {
				return nil, &InternalError{Err: fmt.Errorf("parse slot time %q: %w", slot.Time, err)}
			}
			dayWindows = append(dayWindows, SlotWindow{
				Start: slot.Time,
				End:   start.Add(duration).Format(time.RFC3339),
			})
			total++
		}
		windows[date] = dayWindows
	}

	return &Availability{
		Employee:        employee.Name,
		CalUsername:     employee.CalUsername,
		DurationMinutes: durationMinutes,
		DateFrom:        dateFrom,
		DateTo:          dateTo,
		Slots:           windows,
		TotalSlots:      total,
	}, nil
}
