package domain

import "time"

// GatewayStatus describes a running gateway.
type GatewayStatus struct {
	PID          int
	Listen       string
	Scope        string
	Storage      StorageDriver
	Uptime       time.Duration
	Registration RegistrationStatus
}
