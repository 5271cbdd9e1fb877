package domain

import "go.trai.ch/zerr"

// WorkerState is the host-governed lifecycle state of a worker.
type WorkerState uint8

const (
	// StateParsed is a worker that has not started installing.
	StateParsed WorkerState = iota
	// StateInstalling is a worker whose install handler is running.
	StateInstalling
	// StateInstalled is a worker waiting to activate.
	StateInstalled
	// StateActivating is a worker whose activate handler is running.
	StateActivating
	// StateActivated is the worker serving fetches.
	StateActivated
	// StateRedundant is a worker that failed to install or was replaced.
	StateRedundant
)

var stateNames = [...]string{
	StateParsed:     "parsed",
	StateInstalling: "installing",
	StateInstalled:  "installed",
	StateActivating: "activating",
	StateActivated:  "activated",
	StateRedundant:  "redundant",
}

// String returns the lowercase state name.
func (s WorkerState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// ParseWorkerState returns the state named s, or StateParsed when unknown.
func ParseWorkerState(s string) WorkerState {
	for i, name := range stateNames {
		if name == s {
			return WorkerState(i)
		}
	}
	return StateParsed
}

// InstallPolicy decides how asset failures during install are handled.
type InstallPolicy string

const (
	// InstallBestEffort logs and skips assets that fail.
	InstallBestEffort InstallPolicy = "best-effort"
	// InstallAtomic fails the whole install when any asset fails.
	InstallAtomic InstallPolicy = "atomic"
)

// ParseInstallPolicy validates a policy name. Empty means best-effort.
func ParseInstallPolicy(s string) (InstallPolicy, error) {
	switch InstallPolicy(s) {
	case "", InstallBestEffort:
		return InstallBestEffort, nil
	case InstallAtomic:
		return InstallAtomic, nil
	default:
		return "", zerr.With(ErrInvalidInstallPolicy, "policy", s)
	}
}

// WorkerStatus describes one worker known to the registration.
type WorkerStatus struct {
	Generation Generation
	State      WorkerState
}

// RegistrationStatus is a snapshot of the registration.
type RegistrationStatus struct {
	Active     *WorkerStatus
	Waiting    *WorkerStatus
	Installing *WorkerStatus
	Controlled bool
}
