package models

// BatteryStatus is the battery snapshot returned to clients
type BatteryStatus struct {
	Level      int  `json:"level"` // percent, 0..100
	IsCharging bool `json:"isCharging"`
}

// LaunchParams carries optional intent parameters for launching an app
type LaunchParams struct {
	Action   string            `json:"action,omitempty"`
	Data     string            `json:"data,omitempty"`
	Type     string            `json:"type,omitempty"`
	Category string            `json:"category,omitempty"`
	Extras   map[string]string `json:"extras,omitempty"`
}
