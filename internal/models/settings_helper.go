package models

import (
	"fmt"

	"github.com/julianstephens/recall/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingDailyCapacityMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.DailyCapacityMin); err != nil {
				return Settings{}, fmt.Errorf("parsing daily_capacity_min: %w", err)
			}
		case constants.SettingProfile:
			settings.Profile = Profile(value)
		case constants.SettingCycleStartDate:
			settings.CycleStartDate = value
		case constants.SettingCycleState:
			settings.CycleState = CycleState(value)
		case constants.SettingLastAttackDate:
			settings.LastAttackDate = value
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingDailyCapacityMin: fmt.Sprintf("%d", settings.DailyCapacityMin),
		constants.SettingProfile:          string(settings.Profile),
		constants.SettingCycleStartDate:   settings.CycleStartDate,
		constants.SettingCycleState:       string(settings.CycleState),
		constants.SettingLastAttackDate:   settings.LastAttackDate,
		constants.SettingTimezone:         settings.Timezone,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DailyCapacityMin == 0 {
		settings.DailyCapacityMin = constants.DefaultDailyCapacityMin
	}
	if settings.Profile == "" {
		settings.Profile = Profile(constants.DefaultProfile)
	}
	if settings.CycleState == "" {
		settings.CycleState = CycleState(constants.DefaultCycleState)
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

// DefaultSettings returns a fully populated Settings value.
func DefaultSettings() Settings {
	s := Settings{}
	ApplyDefaultSettings(&s)
	return s
}

// ValidateSettings checks the user-editable settings.
func ValidateSettings(s Settings) error {
	if s.DailyCapacityMin <= 0 {
		return fmt.Errorf("daily capacity must be greater than zero")
	}
	switch s.Profile {
	case ProfileIntegrated, ProfilePendular:
	default:
		return fmt.Errorf("invalid profile: %q", s.Profile)
	}
	switch s.CycleState {
	case CycleAttack, CycleDefense:
	default:
		return fmt.Errorf("invalid cycle state: %q", s.CycleState)
	}
	return nil
}
