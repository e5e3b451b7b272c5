package model

// DefaultWarningThreshold is the usage ratio at which a spending limit
// starts warning. The boundary is inclusive: usage at exactly the
// threshold already warns.
const DefaultWarningThreshold = 0.85

// UserPreferences captures how a user wants recommendations shaped.
type UserPreferences struct {
	PreferredPointType   PointType `json:"preferred_point_type"`
	Language             string    `json:"language"`
	WarningThreshold     float64   `json:"warning_threshold"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	AutoUpdateEnabled    bool      `json:"auto_update_enabled"`
}

// DefaultPreferences returns the preferences used when a user has not
// configured any.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		PreferredPointType:   PointsCashback,
		Language:             "en",
		WarningThreshold:     DefaultWarningThreshold,
		NotificationsEnabled: true,
		AutoUpdateEnabled:    false,
	}
}

// EffectiveThreshold returns the configured warning threshold, falling back
// to the default when unset or out of range.
func (p UserPreferences) EffectiveThreshold() float64 {
	if p.WarningThreshold <= 0 || p.WarningThreshold > 1 {
		return DefaultWarningThreshold
	}
	return p.WarningThreshold
}
