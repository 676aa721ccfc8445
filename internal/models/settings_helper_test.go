package models

import (
	"testing"

	"github.com/julianstephens/recall/internal/constants"
)

func TestMapToSettings(t *testing.T) {
	data := map[string]string{
		constants.SettingDailyCapacityMin: "180",
		constants.SettingProfile:          "PENDULAR",
		constants.SettingCycleStartDate:   "2025-01-01",
		constants.SettingCycleState:       "DEFENSE",
		constants.SettingLastAttackDate:   "2025-01-05",
		constants.SettingTimezone:         "UTC",
	}

	s, err := MapToSettings(data)
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if s.DailyCapacityMin != 180 {
		t.Errorf("DailyCapacityMin = %d, want 180", s.DailyCapacityMin)
	}
	if s.Profile != ProfilePendular {
		t.Errorf("Profile = %q, want %q", s.Profile, ProfilePendular)
	}
	if s.CycleState != CycleDefense {
		t.Errorf("CycleState = %q, want %q", s.CycleState, CycleDefense)
	}
	if s.CycleStartDate != "2025-01-01" || s.LastAttackDate != "2025-01-05" || s.Timezone != "UTC" {
		t.Errorf("unexpected settings: %+v", s)
	}

	roundTrip, err := MapToSettings(SettingsToMap(s))
	if err != nil {
		t.Fatalf("MapToSettings(SettingsToMap()) error = %v", err)
	}
	if roundTrip != s {
		t.Errorf("settings changed across map conversion: got %+v, want %+v", roundTrip, s)
	}
}

func TestMapToSettings_InvalidCapacity(t *testing.T) {
	_, err := MapToSettings(map[string]string{constants.SettingDailyCapacityMin: "lots"})
	if err == nil {
		t.Error("expected error for non-numeric capacity")
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Settings) {}, wantErr: false},
		{name: "zero capacity", mutate: func(s *Settings) { s.DailyCapacityMin = 0 }, wantErr: true},
		{name: "unknown profile", mutate: func(s *Settings) { s.Profile = "CRAM" }, wantErr: true},
		{name: "unknown cycle state", mutate: func(s *Settings) { s.CycleState = "REST" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if err := ValidateSettings(s); (err != nil) != tt.wantErr {
				t.Errorf("ValidateSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
