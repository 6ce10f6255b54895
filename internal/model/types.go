// Package model holds the shared types of the bookhub gateway.
package model

import "time"

// EventKind identifies a class of domain event published by the CRUD layer.
type EventKind string

const (
	KindBooking      EventKind = "booking"
	KindNotification EventKind = "notification"
	KindAnalytics    EventKind = "analytics"
	KindFavorite     EventKind = "favorite"
	KindSystem       EventKind = "system"
)

// Envelope is the unit of outbound data pushed to a client channel.
type Envelope struct {
	Type      string         `json:"type"`
	Action    string         `json:"action,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"userId,omitempty"`
}

// Account is the minimal account projection held by the store.
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

// Identity is what the verifier hands back on success. Never secrets.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}
