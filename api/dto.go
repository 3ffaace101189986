/*
dto.go - Request and response shapes for the reconciliation API

PURPOSE:
  Decouples the engine/store types from the JSON contract. DTOs are pure
  data carriers; validation happens in handlers.

SEE ALSO:
  - handlers.go: Produces and consumes these types
  - factory:     ConfigJSON is reused verbatim for employment configs
*/
package api

import (
	"time"

	"github.com/stechuhr/timecore/engine"
	"github.com/stechuhr/timecore/factory"
	"github.com/stechuhr/timecore/store/sqlite"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Email             string             `json:"email,omitempty"`
	Canton            string             `json:"canton"`
	JoinedAt          string             `json:"joined_at,omitempty"`
	DefaultDailyHours float64            `json:"default_daily_hours"`
	Config            factory.ConfigJSON `json:"config"`
	BalanceMinutes    int                `json:"balance_minutes"`
}

type SaveEmployeeRequest struct {
	ID                string             `json:"id,omitempty"`
	Name              string             `json:"name"`
	Email             string             `json:"email,omitempty"`
	Canton            string             `json:"canton"`
	JoinedAt          string             `json:"joined_at,omitempty"`
	DefaultDailyHours float64            `json:"default_daily_hours,omitempty"`
	Config            factory.ConfigJSON `json:"config"`
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	hours, _ := e.DefaultDailyHours.Float64()
	dto := EmployeeDTO{
		ID:                e.ID,
		Name:              e.Name,
		Email:             e.Email,
		Canton:            e.Canton,
		DefaultDailyHours: hours,
		Config:            factory.ToJSON(e.Config),
		BalanceMinutes:    int(e.Balance),
	}
	if !e.JoinedAt.IsZero() {
		dto.JoinedAt = e.JoinedAt.String()
	}
	return dto
}

// =============================================================================
// PUNCHES AND SUMMARIES
// =============================================================================

type PunchRequest struct {
	Kind   string `json:"kind"`             // start | end
	At     string `json:"at"`               // RFC3339
	Source string `json:"source,omitempty"` // manual | terminal | auto_close
}

type PunchDTO struct {
	ID     string `json:"id"`
	Day    string `json:"day"`
	Kind   string `json:"kind"`
	At     string `json:"at"`
	Source string `json:"source"`
}

type SummaryDTO struct {
	Date            string     `json:"date"`
	WorkedMinutes   int        `json:"worked_minutes"`
	BreakMinutes    int        `json:"break_minutes"`
	OpenPunch       bool       `json:"open_punch"`
	NeedsCorrection bool       `json:"needs_correction"`
	Punches         []PunchDTO `json:"punches"`
}

func toSummaryDTO(s engine.DailySummary) SummaryDTO {
	punches := make([]PunchDTO, len(s.Punches))
	for i, p := range s.Punches {
		punches[i] = PunchDTO{
			Day:    s.Date.String(),
			Kind:   string(p.Kind),
			At:     p.At.UTC().Format(time.RFC3339),
			Source: string(p.Source),
		}
	}
	return SummaryDTO{
		Date:            s.Date.String(),
		WorkedMinutes:   s.WorkedMinutes,
		BreakMinutes:    s.BreakMinutes,
		OpenPunch:       s.OpenPunch,
		NeedsCorrection: s.NeedsCorrection,
		Punches:         punches,
	}
}

// =============================================================================
// ABSENCES
// =============================================================================

type VacationRequest struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	State        string `json:"state,omitempty"` // pending | approved | denied
	HalfDay      bool   `json:"half_day,omitempty"`
	FromOvertime bool   `json:"from_overtime,omitempty"`
}

type SickLeaveRequest struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	HalfDay bool   `json:"half_day,omitempty"`
}

type HolidayOptionRequest struct {
	Day    string `json:"day"`
	Option string `json:"option"`
}

// =============================================================================
// RECONCILIATION
// =============================================================================

type ExpectedDTO struct {
	Date            string `json:"date"`
	BaseMinutes     int    `json:"base_minutes"`
	ExpectedMinutes int    `json:"expected_minutes"`
	IsHoliday       bool   `json:"is_holiday"`
}

type WeekDTO struct {
	Monday          string `json:"monday"`
	Sunday          string `json:"sunday"`
	ExpectedMinutes int    `json:"expected_minutes"`
	ActualMinutes   int    `json:"actual_minutes"`
	DeltaMinutes    int    `json:"delta_minutes"`
}

type BalanceDTO struct {
	EmployeeID     string `json:"employee_id"`
	BalanceMinutes int    `json:"balance_minutes"`
}

type ProblemDayDTO struct {
	Date string `json:"date"`
	Tag  string `json:"tag"`
}

type ProblemReportDTO struct {
	Counts map[string]int  `json:"counts"`
	Days   []ProblemDayDTO `json:"days"`
}

func toProblemReportDTO(r engine.ProblemReport) ProblemReportDTO {
	dto := ProblemReportDTO{Counts: make(map[string]int, len(r.Counts)), Days: make([]ProblemDayDTO, len(r.Days))}
	for tag, n := range r.Counts {
		dto.Counts[string(tag)] = n
	}
	for i, d := range r.Days {
		dto.Days[i] = ProblemDayDTO{Date: d.Date.String(), Tag: string(d.Tag)}
	}
	return dto
}

// =============================================================================
// CALENDAR
// =============================================================================

type HolidayDTO struct {
	Date   string `json:"date"`
	Canton string `json:"canton"`
	Name   string `json:"name"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
