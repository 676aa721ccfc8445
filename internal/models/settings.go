package models

type Profile string

const (
	ProfileIntegrated Profile = "INTEGRATED"
	ProfilePendular   Profile = "PENDULAR"
)

type CycleState string

const (
	CycleAttack  CycleState = "ATTACK"
	CycleDefense CycleState = "DEFENSE"
)

// Settings represents the global scheduling settings
type Settings struct {
	DailyCapacityMin int        `json:"daily_capacity_min"` // study minutes available per day
	Profile          Profile    `json:"profile"`            // review interval profile
	CycleStartDate   string     `json:"cycle_start_date"`   // YYYY-MM-DD, empty before the first cycle
	CycleState       CycleState `json:"cycle_state"`        // pendular phase
	LastAttackDate   string     `json:"last_attack_date"`   // YYYY-MM-DD of the last acquisition under the pendular profile
	Timezone         string     `json:"timezone"`           // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
}

// HasCycle reports whether a numbered cycle has been started.
func (s Settings) HasCycle() bool {
	return s.CycleStartDate != ""
}
