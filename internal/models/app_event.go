package models

import "time"

// Event channel names shared by the native side and the client facade
const (
	EventAppInstalled = "onAppInstalled"
	EventAppRemoved   = "onAppRemoved"
)

// AppEvent is one emission on an event channel, as kept in the journal
type AppEvent struct {
	ID          int64     `json:"id"`
	DeviceID    string    `json:"deviceId"`
	Event       string    `json:"event"`
	PackageName string    `json:"packageName"`
	Payload     string    `json:"payload"`
	CreatedAt   time.Time `json:"createdAt"`
}
