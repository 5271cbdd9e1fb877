package domain

import "time"

const (
	// ActionExplore opens the game.
	ActionExplore = "explore"
	// ActionClose dismisses the notification.
	ActionClose = "close"
)

// NotificationAction is a button shown on a notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// Notification is a system notification raised from a push event.
type Notification struct {
	Tag     string               `json:"tag,omitempty"`
	Title   string               `json:"title"`
	Body    string               `json:"body"`
	Icon    string               `json:"icon,omitempty"`
	Badge   string               `json:"badge,omitempty"`
	Vibrate []int                `json:"vibrate,omitempty"`
	Data    NotificationData     `json:"data"`
	Actions []NotificationAction `json:"actions,omitempty"`
}

// NotificationData is the payload attached to a notification.
type NotificationData struct {
	DateOfArrival time.Time `json:"dateOfArrival"`
	PrimaryKey    string    `json:"primaryKey"`
}

// NotificationClick is delivered when the user interacts with a notification.
type NotificationClick struct {
	Tag    string
	Action string
}
