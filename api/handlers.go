/*
handlers.go - HTTP handlers for the reconciliation API

PURPOSE:
  Exposes the engine over REST. Handlers load immutable snapshots from the
  store (employee config, punches, absences, holiday options, canton
  holidays), hand them to the pure engine, and serialize the result. No
  calculation happens here.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List employees
    POST   /api/employees                    Create/update employee
    GET    /api/employees/{id}               Employee details

  Time tracking:
    POST   /api/employees/{id}/punches       Record a punch
    GET    /api/employees/{id}/summaries     Day summaries in a range
    POST   /api/punches/{punchID}/correct    Confirm an auto-closed day

  Absences:
    GET/POST /api/employees/{id}/vacations
    GET/POST /api/employees/{id}/sick-leaves
    GET/PUT  /api/employees/{id}/holiday-options

  Reconciliation:
    GET    /api/employees/{id}/expected?date=YYYY-MM-DD
    GET    /api/employees/{id}/week?start=YYYY-MM-DD
    GET    /api/employees/{id}/balance
    POST   /api/employees/{id}/week/close?start=YYYY-MM-DD
    POST   /api/employees/{id}/balance/recompute
    GET    /api/employees/{id}/problems

  Calendar:
    GET    /api/holidays?canton=ZH&year=2025

ERROR HANDLING:
  The engine never errors; every error here is a boundary failure
  (bad input -> 400, unknown employee -> 404, storage -> 500).

SEE ALSO:
  - dto.go:    Request/response shapes
  - server.go: Router and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/stechuhr/timecore/engine"
	"github.com/stechuhr/timecore/engine/holidaycache"
	"github.com/stechuhr/timecore/factory"
	"github.com/stechuhr/timecore/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Holidays *holidaycache.Cache
	Log      *logrus.Logger
}

func NewHandler(store *sqlite.Store, holidays *holidaycache.Cache, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{Store: store, Holidays: holidays, Log: log}
}

// absenceContext bundles the per-employee snapshot most endpoints need.
type absenceContext struct {
	emp        *sqlite.Employee
	vacations  []engine.Vacation
	sickLeaves []engine.SickLeave
	options    engine.HolidayOptions
}

func (h *Handler) loadAbsenceContext(r *http.Request, employeeID string) (*absenceContext, int, error) {
	ctx := r.Context()
	emp, err := h.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if emp == nil {
		return nil, http.StatusNotFound, errEmployeeNotFound
	}
	vacations, err := h.Store.ListVacations(ctx, employeeID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	sickLeaves, err := h.Store.ListSickLeaves(ctx, employeeID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	options, err := h.Store.HolidayOptions(ctx, employeeID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &absenceContext{emp: emp, vacations: vacations, sickLeaves: sickLeaves, options: options}, 0, nil
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	cfg, err := factory.FromJSON(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employment config", err)
		return
	}

	emp := sqlite.Employee{
		ID:                req.ID,
		Name:              req.Name,
		Email:             req.Email,
		Canton:            req.Canton,
		Config:            cfg,
		DefaultDailyHours: decimal.NewFromFloat(8.5),
	}
	if req.DefaultDailyHours > 0 {
		emp.DefaultDailyHours = decimal.NewFromFloat(req.DefaultDailyHours)
	}
	if req.JoinedAt != "" {
		day, err := engine.ParseDay(req.JoinedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid joined_at (use YYYY-MM-DD)", err)
			return
		}
		emp.JoinedAt = day
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"employee_id": emp.ID,
		"kind":        string(cfg.Kind),
		"canton":      emp.Canton,
	}).Info("employee saved")

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

func (h *Handler) RecordPunch(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	at, err := time.Parse(time.RFC3339, req.At)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC3339)", err)
		return
	}
	kind := engine.PunchKind(req.Kind)
	if kind != engine.PunchStart && kind != engine.PunchEnd {
		writeError(w, http.StatusBadRequest, "kind must be start or end", nil)
		return
	}
	source := engine.PunchSource(req.Source)
	if source == "" {
		source = engine.SourceManual
	}

	rec := sqlite.PunchRecord{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Day:        engine.DayOf(at),
		Punch:      engine.Punch{Kind: kind, At: at, Source: source},
	}
	if err := h.Store.AppendPunch(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record punch", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"day":         rec.Day.String(),
		"kind":        string(kind),
		"source":      string(source),
	}).Info("punch recorded")

	writeJSON(w, http.StatusCreated, PunchDTO{
		ID:     rec.ID,
		Day:    rec.Day.String(),
		Kind:   string(kind),
		At:     at.UTC().Format(time.RFC3339),
		Source: string(source),
	})
}

func (h *Handler) CorrectPunch(w http.ResponseWriter, r *http.Request) {
	punchID := chi.URLParam(r, "punchID")
	if err := h.Store.MarkPunchCorrected(r.Context(), punchID); err != nil {
		writeError(w, http.StatusNotFound, "Punch not found", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "corrected"})
}

func (h *Handler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	from, err := engine.ParseDay(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := engine.ParseDay(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	summaries, err := h.Store.SummariesInRange(r.Context(), employeeID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load summaries", err)
		return
	}

	dtos := make([]SummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ABSENCE HANDLERS
// =============================================================================

func (h *Handler) CreateVacation(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req VacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err1 := engine.ParseDay(req.Start)
	end, err2 := engine.ParseDay(req.End)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "Invalid start/end date", nil)
		return
	}

	state := engine.ApprovalState(req.State)
	if state == "" {
		state = engine.ApprovalPending
	}
	v := engine.Vacation{
		Start:        start,
		End:          end,
		State:        state,
		HalfDay:      req.HalfDay,
		FromOvertime: req.FromOvertime,
	}
	if err := h.Store.SaveVacation(r.Context(), uuid.NewString(), employeeID, v); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save vacation", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) ListVacations(w http.ResponseWriter, r *http.Request) {
	vacations, err := h.Store.ListVacations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list vacations", err)
		return
	}
	dtos := make([]VacationRequest, len(vacations))
	for i, v := range vacations {
		dtos[i] = VacationRequest{
			Start:        v.Start.String(),
			End:          v.End.String(),
			State:        string(v.State),
			HalfDay:      v.HalfDay,
			FromOvertime: v.FromOvertime,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateSickLeave(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req SickLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err1 := engine.ParseDay(req.Start)
	end, err2 := engine.ParseDay(req.End)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "Invalid start/end date", nil)
		return
	}

	sl := engine.SickLeave{Start: start, End: end, HalfDay: req.HalfDay}
	if err := h.Store.SaveSickLeave(r.Context(), uuid.NewString(), employeeID, sl); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save sick leave", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) ListSickLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Store.ListSickLeaves(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sick leaves", err)
		return
	}
	dtos := make([]SickLeaveRequest, len(leaves))
	for i, sl := range leaves {
		dtos[i] = SickLeaveRequest{Start: sl.Start.String(), End: sl.End.String(), HalfDay: sl.HalfDay}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SetHolidayOption(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req HolidayOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	day, err := engine.ParseDay(req.Day)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day", err)
		return
	}
	option := engine.HolidayOption(req.Option)
	switch option {
	case engine.OptionPending, engine.OptionDeduct, engine.OptionDoNotDeduct:
	default:
		writeError(w, http.StatusBadRequest, "Unknown holiday option", nil)
		return
	}

	if err := h.Store.SetHolidayOption(r.Context(), employeeID, day, option); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set holiday option", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) ListHolidayOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Store.HolidayOptions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holiday options", err)
		return
	}
	dtos := make([]HolidayOptionRequest, 0, len(options))
	for day, option := range options {
		dtos = append(dtos, HolidayOptionRequest{Day: day.String(), Option: string(option)})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RECONCILIATION HANDLERS
// =============================================================================

func (h *Handler) GetExpected(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	date, err := engine.ParseDay(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	ac, status, err := h.loadAbsenceContext(r, employeeID)
	if err != nil {
		writeError(w, status, "Failed to load employee", err)
		return
	}
	holidays, err := h.Holidays.Holidays(ac.emp.Canton, date.Year())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve holidays", err)
		return
	}

	base := engine.ExpectedMinutes(date, ac.emp.Config, ac.emp.DefaultDailyHours)
	adjusted := engine.ApplyAbsences(date, base, ac.emp.Config, holidays, ac.vacations, ac.sickLeaves, ac.options)

	writeJSON(w, http.StatusOK, ExpectedDTO{
		Date:            date.String(),
		BaseMinutes:     base,
		ExpectedMinutes: adjusted,
		IsHoliday:       engine.IsHoliday(holidays, date),
	})
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	start, err := engine.ParseDay(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}

	ac, status, err := h.loadAbsenceContext(r, employeeID)
	if err != nil {
		writeError(w, status, "Failed to load employee", err)
		return
	}

	week := engine.WeekOf(start)
	holidays, err := h.Holidays.HolidaysInRange(ac.emp.Canton, week[0], week[6])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve holidays", err)
		return
	}
	summaries, err := h.Store.SummariesInRange(r.Context(), employeeID, week[0], week[6])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load summaries", err)
		return
	}

	expected := engine.WeeklyExpected(week, ac.emp.Config, ac.emp.DefaultDailyHours, ac.vacations, ac.sickLeaves, holidays, ac.options)
	actual := engine.WeeklyActual(summaries)

	writeJSON(w, http.StatusOK, WeekDTO{
		Monday:          week[0].String(),
		Sunday:          week[6].String(),
		ExpectedMinutes: expected,
		ActualMinutes:   actual,
		DeltaMinutes:    engine.Delta(actual, expected),
	})
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{
		EmployeeID:     emp.ID,
		BalanceMinutes: int(emp.Balance),
	})
}

// CloseWeek folds one week's delta into the stored balance. Intended to run
// once per employee after a week ends; recompute repairs double applications.
func (h *Handler) CloseWeek(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	start, err := engine.ParseDay(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}

	ac, status, err := h.loadAbsenceContext(r, employeeID)
	if err != nil {
		writeError(w, status, "Failed to load employee", err)
		return
	}

	week := engine.WeekOf(start)
	holidays, err := h.Holidays.HolidaysInRange(ac.emp.Canton, week[0], week[6])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve holidays", err)
		return
	}
	summaries, err := h.Store.SummariesInRange(r.Context(), employeeID, week[0], week[6])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load summaries", err)
		return
	}

	delta := engine.WeeklyDelta(week, ac.emp.Config, ac.emp.DefaultDailyHours, summaries, ac.vacations, ac.sickLeaves, holidays, ac.options)
	balance, err := h.Store.ApplyBalanceDelta(r.Context(), employeeID, delta)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to apply balance delta", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"employee_id":     employeeID,
		"week_monday":     week[0].String(),
		"delta_minutes":   delta,
		"balance_minutes": int(balance),
	}).Info("week closed")

	writeJSON(w, http.StatusOK, BalanceDTO{EmployeeID: employeeID, BalanceMinutes: int(balance)})
}

// RecomputeBalance replays every completed week of the employee's tracked
// history and overwrites the stored balance with the accumulated delta.
func (h *Handler) RecomputeBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	ac, status, err := h.loadAbsenceContext(r, employeeID)
	if err != nil {
		writeError(w, status, "Failed to load employee", err)
		return
	}

	today := engine.Today()
	start := engine.MaxDay(ac.emp.Config.EffectiveFrom, ac.emp.JoinedAt)
	if start.IsZero() {
		start = today.AddMonths(-1)
	}

	balance := engine.TrackingBalance(0)
	// Only completed weeks count; the running week would bias the balance
	// toward undertime.
	for monday := start.MondayOf(); monday.AddDays(6).Before(today); monday = monday.AddDays(7) {
		week := engine.WeekOf(monday)
		holidays, err := h.Holidays.HolidaysInRange(ac.emp.Canton, week[0], week[6])
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to resolve holidays", err)
			return
		}
		summaries, err := h.Store.SummariesInRange(r.Context(), employeeID, week[0], week[6])
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load summaries", err)
			return
		}
		delta := engine.WeeklyDelta(week, ac.emp.Config, ac.emp.DefaultDailyHours, summaries, ac.vacations, ac.sickLeaves, holidays, ac.options)
		balance = balance.Apply(delta)
	}

	if err := h.Store.SetBalance(r.Context(), employeeID, balance); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store balance", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"employee_id":     employeeID,
		"balance_minutes": int(balance),
	}).Info("balance recomputed")

	writeJSON(w, http.StatusOK, BalanceDTO{EmployeeID: employeeID, BalanceMinutes: int(balance)})
}

func (h *Handler) GetProblems(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	ac, status, err := h.loadAbsenceContext(r, employeeID)
	if err != nil {
		writeError(w, status, "Failed to load employee", err)
		return
	}

	today := engine.Today()
	from := engine.MaxDay(ac.emp.Config.EffectiveFrom, ac.emp.JoinedAt)
	if from.IsZero() {
		from = today.AddMonths(-1)
	}

	holidays, err := h.Holidays.HolidaysInRange(ac.emp.Canton, from, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve holidays", err)
		return
	}
	summaries, err := h.Store.SummariesInRange(r.Context(), employeeID, from, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load summaries", err)
		return
	}

	report := engine.ScanProblems(engine.ScanInput{
		Config:            ac.emp.Config,
		DefaultDailyHours: ac.emp.DefaultDailyHours,
		Summaries:         summaries,
		Vacations:         ac.vacations,
		SickLeaves:        ac.sickLeaves,
		Holidays:          holidays,
		Options:           ac.options,
		JoinedAt:          ac.emp.JoinedAt,
		Today:             today,
	})
	observeScan(report)

	writeJSON(w, http.StatusOK, toProblemReportDTO(report))
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	canton := r.URL.Query().Get("canton")
	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := time.Parse("2006", y)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = parsed.Year()
	}

	holidays, err := h.Holidays.Holidays(canton, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hd := range holidays {
		dtos[i] = HolidayDTO{Date: hd.Date.String(), Canton: hd.Canton, Name: hd.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

var errEmployeeNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "employee not found" }

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
