package models

import "time"

// Session represents one meeting session in the user's history
type Session struct {
	ID           string     `json:"id"`
	Topic        string     `json:"topic,omitempty"`
	HostID       uint       `json:"host_id"`
	Participants []uint     `json:"participants,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

// SessionStatus is the poll target for a session's lifecycle
type SessionStatus struct {
	ID      string     `json:"id"`
	Ended   bool       `json:"ended"`
	EndedAt *time.Time `json:"ended_at,omitempty"`
}
