/*
Package sqlite provides the SQLite-backed persistence layer.

PURPOSE:
  Persists everything the reconciliation engine consumes - employees with
  their employment config, the punch log, absence records, per-holiday
  handling options - plus the one value it produces durably: the tracking
  balance. The engine itself never touches the database; handlers load
  snapshots from here and pass plain values in.

PUNCH LOG:
  The punches table is append-only in spirit: punches are never deleted,
  and the only update is setting the corrected flag when a user confirms
  an auto-closed day. History stays auditable.

BALANCE:
  Tracking balances move through ApplyBalanceDelta (weekly close) or are
  replaced wholesale by SetBalance (full recompute), mirroring the engine's
  accumulator contract. Nothing else writes the column.

WAL MODE:
  SQLite is opened with WAL for better read concurrency; a mutex
  serializes writes, which is plenty for this workload.

USAGE:
  store, err := sqlite.New("./data/timecore.db")   // ":memory:" for tests
  defer store.Close()

SEE ALSO:
  - engine: The pure types stored here
  - factory: JSON codec for the config_json column
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/stechuhr/timecore/engine"
	"github.com/stechuhr/timecore/factory"
)

// Store implements persistence on SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (and migrates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		canton TEXT NOT NULL DEFAULT '',
		joined_at TEXT,
		default_daily_hours TEXT NOT NULL DEFAULT '8.5',
		config_json TEXT NOT NULL DEFAULT '{}',
		balance_minutes INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Punch log. Rows are never deleted; the corrected flag is the only
	-- mutable column.
	CREATE TABLE IF NOT EXISTS punches (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		day TEXT NOT NULL,
		kind TEXT NOT NULL,
		punched_at TEXT NOT NULL,
		source TEXT NOT NULL,
		corrected INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_punches_employee_day
		ON punches(employee_id, day);

	CREATE TABLE IF NOT EXISTS vacations (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		start_day TEXT NOT NULL,
		end_day TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT 'pending',
		half_day INTEGER NOT NULL DEFAULT 0,
		from_overtime INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_vacations_employee
		ON vacations(employee_id, start_day);

	CREATE TABLE IF NOT EXISTS sick_leaves (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		start_day TEXT NOT NULL,
		end_day TEXT NOT NULL,
		half_day INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sick_leaves_employee
		ON sick_leaves(employee_id, start_day);

	-- One handling decision per (employee, holiday date).
	CREATE TABLE IF NOT EXISTS holiday_options (
		employee_id TEXT NOT NULL,
		day TEXT NOT NULL,
		option TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, day)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// Employee is the stored employee record.
type Employee struct {
	ID                string
	Name              string
	Email             string
	Canton            string
	JoinedAt          engine.Day
	DefaultDailyHours decimal.Decimal
	Config            engine.EmploymentConfig
	Balance           engine.TrackingBalance
	CreatedAt         time.Time
}

func (s *Store) SaveEmployee(ctx context.Context, e Employee) error {
	configJSON, err := factory.EncodeConfig(e.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	joined := ""
	if !e.JoinedAt.IsZero() {
		joined = e.JoinedAt.String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, email, canton, joined_at, default_daily_hours, config_json, balance_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			canton = excluded.canton,
			joined_at = excluded.joined_at,
			default_daily_hours = excluded.default_daily_hours,
			config_json = excluded.config_json`,
		e.ID, e.Name, e.Email, e.Canton, joined, e.DefaultDailyHours.String(),
		configJSON, int(e.Balance), time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetEmployee returns nil when the employee does not exist.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, canton, joined_at, default_daily_hours, config_json, balance_minutes, created_at
		FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, canton, joined_at, default_daily_hours, config_json, balance_minutes, created_at
		FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(r rowScanner) (*Employee, error) {
	var e Employee
	var joined, hours, configJSON, createdAt string
	var balance int
	if err := r.Scan(&e.ID, &e.Name, &e.Email, &e.Canton, &joined, &hours, &configJSON, &balance, &createdAt); err != nil {
		return nil, err
	}

	if joined != "" {
		if d, err := engine.ParseDay(joined); err == nil {
			e.JoinedAt = d
		}
	}
	if dec, err := decimal.NewFromString(hours); err == nil {
		e.DefaultDailyHours = dec
	}
	cfg, err := factory.ParseConfig(configJSON)
	if err != nil {
		// A corrupt config must not make the employee unreadable; the
		// engine degrades an empty config to the flat default schedule.
		cfg = engine.EmploymentConfig{}
	}
	e.Config = cfg
	e.Balance = engine.TrackingBalance(balance)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		e.CreatedAt = t
	}
	return &e, nil
}

// ApplyBalanceDelta folds a reconciliation delta into the stored balance and
// returns the new value. This is the only writer of balance_minutes.
func (s *Store) ApplyBalanceDelta(ctx context.Context, employeeID string, delta int) (engine.TrackingBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE employees SET balance_minutes = balance_minutes + ? WHERE id = ?`,
		delta, employeeID)
	if err != nil {
		return 0, err
	}

	var balance int
	err = s.db.QueryRowContext(ctx,
		`SELECT balance_minutes FROM employees WHERE id = ?`, employeeID).Scan(&balance)
	return engine.TrackingBalance(balance), err
}

// SetBalance overwrites the stored balance. Used when a full recompute
// replaces the running value.
func (s *Store) SetBalance(ctx context.Context, employeeID string, balance engine.TrackingBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`UPDATE employees SET balance_minutes = ? WHERE id = ?`, int(balance), employeeID)
	return err
}

// =============================================================================
// PUNCHES
// =============================================================================

// PunchRecord is one stored punch with its row identity.
type PunchRecord struct {
	ID         string
	EmployeeID string
	Day        engine.Day
	Punch      engine.Punch
}

func (s *Store) AppendPunch(ctx context.Context, rec PunchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO punches (id, employee_id, day, kind, punched_at, source, corrected, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.EmployeeID, rec.Day.String(), string(rec.Punch.Kind),
		rec.Punch.At.UTC().Format(time.RFC3339), string(rec.Punch.Source),
		boolToInt(rec.Punch.CorrectedByUser), time.Now().UTC().Format(time.RFC3339))
	return err
}

// MarkPunchCorrected flags a punch as user-corrected. The only mutation the
// punch log allows.
func (s *Store) MarkPunchCorrected(ctx context.Context, punchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `UPDATE punches SET corrected = 1 WHERE id = ?`, punchID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// PunchesInRange returns the punches of [from, to] grouped by day.
func (s *Store) PunchesInRange(ctx context.Context, employeeID string, from, to engine.Day) (map[engine.Day][]engine.Punch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, kind, punched_at, source, corrected
		FROM punches
		WHERE employee_id = ? AND day >= ? AND day <= ?
		ORDER BY punched_at`,
		employeeID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[engine.Day][]engine.Punch)
	for rows.Next() {
		var dayStr, kind, at, source string
		var corrected int
		if err := rows.Scan(&dayStr, &kind, &at, &source, &corrected); err != nil {
			return nil, err
		}
		day, err := engine.ParseDay(dayStr)
		if err != nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339, at)
		if err != nil {
			continue
		}
		byDay[day] = append(byDay[day], engine.Punch{
			Kind:            engine.PunchKind(kind),
			At:              ts,
			Source:          engine.PunchSource(source),
			CorrectedByUser: corrected != 0,
		})
	}
	return byDay, rows.Err()
}

// SummariesInRange loads punches and derives one DailySummary per day that
// has any punch.
func (s *Store) SummariesInRange(ctx context.Context, employeeID string, from, to engine.Day) ([]engine.DailySummary, error) {
	byDay, err := s.PunchesInRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	summaries := make([]engine.DailySummary, 0, len(byDay))
	for day, punches := range byDay {
		summaries = append(summaries, engine.Summarize(day, punches))
	}
	return summaries, nil
}

// =============================================================================
// ABSENCES
// =============================================================================

func (s *Store) SaveVacation(ctx context.Context, id, employeeID string, v engine.Vacation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vacations (id, employee_id, start_day, end_day, state, half_day, from_overtime, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_day = excluded.start_day,
			end_day = excluded.end_day,
			state = excluded.state,
			half_day = excluded.half_day,
			from_overtime = excluded.from_overtime`,
		id, employeeID, v.Start.String(), v.End.String(), string(v.State),
		boolToInt(v.HalfDay), boolToInt(v.FromOvertime), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ListVacations(ctx context.Context, employeeID string) ([]engine.Vacation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT start_day, end_day, state, half_day, from_overtime
		FROM vacations WHERE employee_id = ? ORDER BY start_day`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vacations []engine.Vacation
	for rows.Next() {
		var start, end, state string
		var half, fromOvertime int
		if err := rows.Scan(&start, &end, &state, &half, &fromOvertime); err != nil {
			return nil, err
		}
		v := engine.Vacation{
			State:        engine.ApprovalState(state),
			HalfDay:      half != 0,
			FromOvertime: fromOvertime != 0,
		}
		v.Start, _ = engine.ParseDay(start)
		v.End, _ = engine.ParseDay(end)
		vacations = append(vacations, v)
	}
	return vacations, rows.Err()
}

func (s *Store) SaveSickLeave(ctx context.Context, id, employeeID string, sl engine.SickLeave) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sick_leaves (id, employee_id, start_day, end_day, half_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_day = excluded.start_day,
			end_day = excluded.end_day,
			half_day = excluded.half_day`,
		id, employeeID, sl.Start.String(), sl.End.String(),
		boolToInt(sl.HalfDay), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ListSickLeaves(ctx context.Context, employeeID string) ([]engine.SickLeave, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT start_day, end_day, half_day
		FROM sick_leaves WHERE employee_id = ? ORDER BY start_day`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []engine.SickLeave
	for rows.Next() {
		var start, end string
		var half int
		if err := rows.Scan(&start, &end, &half); err != nil {
			return nil, err
		}
		sl := engine.SickLeave{HalfDay: half != 0}
		sl.Start, _ = engine.ParseDay(start)
		sl.End, _ = engine.ParseDay(end)
		leaves = append(leaves, sl)
	}
	return leaves, rows.Err()
}

// =============================================================================
// HOLIDAY OPTIONS
// =============================================================================

func (s *Store) SetHolidayOption(ctx context.Context, employeeID string, day engine.Day, option engine.HolidayOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holiday_options (employee_id, day, option, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id, day) DO UPDATE SET
			option = excluded.option,
			updated_at = excluded.updated_at`,
		employeeID, day.String(), string(option), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) HolidayOptions(ctx context.Context, employeeID string) (engine.HolidayOptions, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, option FROM holiday_options WHERE employee_id = ?`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := make(engine.HolidayOptions)
	for rows.Next() {
		var dayStr, option string
		if err := rows.Scan(&dayStr, &option); err != nil {
			return nil, err
		}
		day, err := engine.ParseDay(dayStr)
		if err != nil {
			continue
		}
		options[day] = engine.HolidayOption(option)
	}
	return options, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
