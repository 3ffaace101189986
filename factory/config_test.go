package factory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stechuhr/timecore/engine"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParseConfig_Percentage(t *testing.T) {
	cfg, err := ParseConfig(`{"kind":"percentage","work_percentage":80,"expected_work_days":4}`)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.Kind != engine.KindPercentage {
		t.Errorf("kind = %s", cfg.Kind)
	}
	if !cfg.WorkPercentage.Equal(decimal.NewFromInt(80)) {
		t.Errorf("percentage = %s, want 80", cfg.WorkPercentage)
	}
	if cfg.ExpectedWorkDays != 4 {
		t.Errorf("work days = %d, want 4", cfg.ExpectedWorkDays)
	}
}

func TestParseConfig_FixedSchedule(t *testing.T) {
	raw := `{
		"kind": "fixed_schedule",
		"effective_from": "2025-01-06",
		"epoch_monday": "2025-01-08",
		"weeks": [[8.5, 8.5, 8.5, 8.5, 8.5, 0, 0], [9, 9, 9, 9, 0, 0, 0]]
	}`
	cfg, err := ParseConfig(raw)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.Cycle.Len() != 2 {
		t.Fatalf("cycle length = %d, want 2", cfg.Cycle.Len())
	}
	if !cfg.Cycle.Weeks[1].Hours[0].Equal(decimal.NewFromInt(9)) {
		t.Errorf("second week Monday = %s, want 9", cfg.Cycle.Weeks[1].Hours[0])
	}
	if !cfg.EffectiveFrom.Equal(engine.NewDay(2025, time.January, 6)) {
		t.Errorf("effective_from = %s", cfg.EffectiveFrom)
	}
	// A mid-week epoch normalizes to its Monday.
	if !cfg.EpochMonday.Equal(engine.NewDay(2025, time.January, 6)) {
		t.Errorf("epoch_monday = %s, want normalized 2025-01-06", cfg.EpochMonday)
	}
}

func TestParseConfig_Hourly(t *testing.T) {
	cfg, err := ParseConfig(`{"kind":"hourly"}`)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Kind != engine.KindHourly {
		t.Errorf("kind = %s", cfg.Kind)
	}
}

func TestParseConfig_MissingKindDefaultsToFixedSchedule(t *testing.T) {
	cfg, err := ParseConfig(`{}`)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Kind != engine.KindFixedSchedule {
		t.Errorf("kind = %s, want fixed_schedule", cfg.Kind)
	}
	if cfg.Cycle.Len() != 0 {
		t.Errorf("cycle length = %d, want 0 (engine resolves flat default)", cfg.Cycle.Len())
	}
}

func TestParseConfig_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed json": `{"kind":`,
		"unknown kind":   `{"kind":"contractor"}`,
		"short week":     `{"kind":"fixed_schedule","weeks":[[8,8,8]]}`,
		"bad date":       `{"kind":"fixed_schedule","effective_from":"06.01.2025"}`,
	}
	for name, raw := range cases {
		if _, err := ParseConfig(raw); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestEncodeConfig_RoundTrip(t *testing.T) {
	// GIVEN: A two-week fixed schedule
	// WHEN: It is encoded and parsed back
	// THEN: The engine config survives unchanged

	original := engine.EmploymentConfig{
		Kind:          engine.KindFixedSchedule,
		EffectiveFrom: engine.NewDay(2025, time.January, 6),
		EpochMonday:   engine.NewDay(2025, time.January, 6),
		Cycle: engine.ScheduleCycle{Weeks: []engine.WeekTemplate{
			engine.FlatWeekTemplate(decimal.NewFromFloat(8.5)),
			engine.FlatWeekTemplate(decimal.NewFromInt(9)),
		}},
	}

	raw, err := EncodeConfig(original)
	if err != nil {
		t.Fatalf("EncodeConfig: %v", err)
	}
	parsed, err := ParseConfig(raw)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if parsed.Kind != original.Kind || parsed.Cycle.Len() != 2 {
		t.Fatalf("round trip lost structure: %+v", parsed)
	}
	if !parsed.EffectiveFrom.Equal(original.EffectiveFrom) || !parsed.EpochMonday.Equal(original.EpochMonday) {
		t.Errorf("round trip lost dates: %s / %s", parsed.EffectiveFrom, parsed.EpochMonday)
	}
	if !parsed.Cycle.Weeks[0].Hours[0].Equal(decimal.NewFromFloat(8.5)) {
		t.Errorf("round trip lost hours: %s", parsed.Cycle.Weeks[0].Hours[0])
	}
}

func TestEncodeConfig_PercentageRoundTrip(t *testing.T) {
	original := engine.EmploymentConfig{
		Kind:             engine.KindPercentage,
		WorkPercentage:   decimal.NewFromInt(60),
		ExpectedWorkDays: 3,
	}

	raw, err := EncodeConfig(original)
	if err != nil {
		t.Fatalf("EncodeConfig: %v", err)
	}
	parsed, err := ParseConfig(raw)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if !parsed.WorkPercentage.Equal(original.WorkPercentage) || parsed.ExpectedWorkDays != 3 {
		t.Errorf("round trip: %+v", parsed)
	}
}
