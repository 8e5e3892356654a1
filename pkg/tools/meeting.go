package tools

import (
	"context"
	"fmt"

	"github.com/npash/officemgr/pkg/metrics"
	"github.com/npash/officemgr/pkg/scheduler"
)

// CreateMeetingRequest holds the arguments for create_meeting
type CreateMeetingRequest struct {
	OrganizerName   string `json:"organizer_name"`
	AttendeeName    string `json:"attendee_name"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Title           string `json:"title,omitempty"`
}

// CreateMeetingTool books a meeting into both participants' calendars
type CreateMeetingTool struct {
	engine *scheduler.Engine
}

// NewCreateMeetingTool creates the create_meeting tool
func NewCreateMeetingTool(engine *scheduler.Engine) *CreateMeetingTool {
	return &CreateMeetingTool{engine: engine}
}

func (t *CreateMeetingTool) Name() string {
	return "create_meeting"
}

func (t *CreateMeetingTool) Description() string {
	return "Schedule a meeting between two employees. The meeting is booked into both calendars."
}

func (t *CreateMeetingTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"organizer_name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the employee organizing the meeting",
			},
			"attendee_name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the employee invited to the meeting",
			},
			"start_time": map[string]interface{}{
				"type":        "string",
				"description": "Meeting start as an ISO 8601 instant, e.g. 2025-12-18T10:00:00Z",
			},
			"duration_minutes": map[string]interface{}{
				"type":        "integer",
				"description": "Meeting duration in minutes",
			},
			"title": map[string]interface{}{
				"type":        "string",
				"description": "Meeting title. Defaults to \"Meeting\"",
			},
		},
		"required": []interface{}{"organizer_name", "attendee_name", "start_time", "duration_minutes"},
	}
}

func (t *CreateMeetingTool) Execute(ctx context.Context, args map[string]interface{}) (*Result, error) {
	var req CreateMeetingRequest
	if err := decodeArgs(t.InputSchema(), args, &req); err != nil {
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "invalid").Inc()
		return ErrorResult(err.Error()), nil
	}

	result := t.engine.BookMirrored(ctx, scheduler.BookingRequest{
		OrganizerName:   req.OrganizerName,
		AttendeeName:    req.AttendeeName,
		Start:           req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Title:           req.Title,
	})

	data := map[string]interface{}{
		"mirror_id":         result.MirrorID,
		"organizer_booking": sideData(result.Organizer),
		"attendee_booking":  sideData(result.Attendee),
	}

	switch {
	case result.Success():
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "ok").Inc()
		return &Result{
			Success: true,
			Output: fmt.Sprintf("Meeting %q booked for %s and %s at %s (%d min). Both calendars updated.",
				result.Organizer.Result.Meeting.Title, req.OrganizerName, req.AttendeeName,
				req.StartTime, result.Organizer.Result.Meeting.DurationMinutes),
			Data: data,
		}, nil

	case result.Partial():
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "partial").Inc()
		booked, failed := req.OrganizerName, req.AttendeeName
		if result.Organizer.Err != nil {
			booked, failed = req.AttendeeName, req.OrganizerName
		}
		data["error_kind"] = "partial_failure"
		return &Result{
			Success: false,
			Error:   "mirrored booking partially failed",
			Output: fmt.Sprintf("The meeting was booked in %s's calendar but NOT in %s's calendar. Tell the users which side is missing.",
				booked, failed),
			Data: data,
		}, nil

	default:
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "error").Inc()
		data["error_kind"] = "booking_failed"
		return &Result{
			Success: false,
			Error:   result.Organizer.Err.Error(),
			Output:  "The meeting could not be booked in either calendar.",
			Data:    data,
		}, nil
	}
}

// sideData flattens one side of a mirrored booking for the payload
func sideData(side scheduler.SideResult) map[string]interface{} {
	if side.Err != nil {
		payload := errorResult(side.Err)
		return map[string]interface{}{
			"success": false,
			"error":   payload.Error,
			"data":    payload.Data,
		}
	}
	return map[string]interface{}{
		"success": true,
		"result":  side.Result,
	}
}

// FreeSlotsRequest holds the arguments for free_slots
type FreeSlotsRequest struct {
	Employee        string `json:"employee"`
	DateFrom        string `json:"date_from"`
	DateTo          string `json:"date_to"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// FreeSlotsTool queries an employee's free slots for a date range
type FreeSlotsTool struct {
	engine *scheduler.Engine
}

// NewFreeSlotsTool creates the free_slots tool
func NewFreeSlotsTool(engine *scheduler.Engine) *FreeSlotsTool {
	return &FreeSlotsTool{engine: engine}
}

func (t *FreeSlotsTool) Name() string {
	return "free_slots"
}

func (t *FreeSlotsTool) Description() string {
	return "Get an employee's free time slots of a given duration in a date range."
}

func (t *FreeSlotsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"employee": map[string]interface{}{
				"type":        "string",
				"description": "Employee name as stored in the directory",
			},
			"date_from": map[string]interface{}{
				"type":        "string",
				"description": "Range start date in YYYY-MM-DD format",
			},
			"date_to": map[string]interface{}{
				"type":        "string",
				"description": "Range end date in YYYY-MM-DD format",
			},
			"duration_minutes": map[string]interface{}{
				"type":        "integer",
				"description": "Meeting duration in minutes. Defaults to 60",
			},
		},
		"required": []interface{}{"employee", "date_from", "date_to"},
	}
}

func (t *FreeSlotsTool) Execute(ctx context.Context, args map[string]interface{}) (*Result, error) {
	var req FreeSlotsRequest
	if err := decodeArgs(t.InputSchema(), args, &req); err != nil {
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "invalid").Inc()
		return ErrorResult(err.Error()), nil
	}

	avail, err := t.engine.AvailableSlots(ctx, req.Employee, req.DateFrom, req.DateTo, req.DurationMinutes)
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(t.Name(), "error").Inc()
		return errorResult(err), nil
	}

	metrics.ToolCallsTotal.WithLabelValues(t.Name(), "ok").Inc()
	return &Result{
		Success: true,
		Output: fmt.Sprintf("Found %d free %d-minute slots for %s between %s and %s.",
			avail.TotalSlots, avail.DurationMinutes, avail.Employee, avail.DateFrom, avail.DateTo),
		Data: map[string]interface{}{
			"employee":         avail.Employee,
			"cal_username":     avail.CalUsername,
			"duration_minutes": avail.DurationMinutes,
			"date_range": map[string]interface{}{
				"from": avail.DateFrom,
				"to":   avail.DateTo,
			},
			"slots":       avail.Slots,
			"total_slots": avail.TotalSlots,
		},
	}, nil
}
