package domain

import "time"

// User is the domain model for a registered user. It deliberately carries
// no password field: the hash never leaves the repository layer and the
// raw password is never stored at all.
type User struct {
	ID        string
	Lastname  string
	Firstname string
	CreatedAt time.Time
}

// DisplayName returns the user's full name, family name first
func (u User) DisplayName() string {
	return u.Lastname + " " + u.Firstname
}
