package model

import "time"

// User holds the credits ledger of one account
type User struct {
	ID          string
	Credits     int
	ReportCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanAfford reports whether the user has enough credits for cost
func (u *User) CanAfford(cost int) bool {
	return u.Credits >= cost
}
