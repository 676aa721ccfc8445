package constants

const (
	// General Settings
	SettingDailyCapacityMin = "daily_capacity_min"
	SettingProfile          = "profile"
	SettingCycleStartDate   = "cycle_start_date"
	SettingCycleState       = "cycle_state"
	SettingLastAttackDate   = "last_attack_date"
	SettingTimezone         = "timezone"

	// Default Settings Values
	DefaultDailyCapacityMin = 240
	DefaultProfile          = "INTEGRATED"
	DefaultCycleState       = "ATTACK"
	DefaultTimezone         = "Local" // Use system local timezone by default

	// Export defaults
	DefaultExportDayStart   = "08:00"
	DefaultExportBreakMin   = 10
	DefaultReminderLeadMin  = 10
	DefaultOptimizerHorizon = 14
)
