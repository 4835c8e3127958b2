package models

import "time"

// UserRecord is the persisted shape of an application user. The Ulid is the
// system-internal user id that application audit events carry in their actor
// identity.
type UserRecord struct {
	Ulid      string    `json:"ulid" db:"ulid"`
	Username  string    `json:"username" db:"username"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
