package models

import (
	"time"

	"gorm.io/datatypes"
)

// Room is the record of an open video room for one appointment.
// The row existing is the only signal that the room is open.
type Room struct {
	EventID   EventID           `json:"event_id" gorm:"primaryKey;size:64"`
	RoomName  string            `json:"room_name" gorm:"uniqueIndex;size:128;not null"`
	CreatedBy *string           `json:"created_by"`
	CreatedAt time.Time         `json:"created_at"`
	Options   datatypes.JSONMap `json:"options"`

	Credentials []Credential `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// RoomOptions are the optional arguments of a room creation.
type RoomOptions struct {
	CreatedBy string
	Metadata  map[string]any
}

type Role = string

const (
	RoleDoctor  = Role("doctor")
	RolePatient = Role("patient")
	RoleGuest   = Role("guest")
)

// NormalizeRole maps anything unrecognised to the guest tier.
func NormalizeRole(role string) Role {
	switch role {
	case RoleDoctor, RolePatient:
		return role
	default:
		return RoleGuest
	}
}

// Credential is the last join token issued to a user for a room.
type Credential struct {
	EventID   EventID   `json:"event_id" gorm:"primaryKey;size:64"`
	UserID    string    `json:"user_id" gorm:"primaryKey;size:64"`
	Token     string    `json:"token" gorm:"not null"`
	Role      Role      `json:"role" gorm:"size:16"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// JoinData is everything the page embedding a room needs.
type JoinData struct {
	RoomName  string    `json:"room_name"`
	Domain    string    `json:"domain"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
