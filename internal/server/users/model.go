package users

import "time"

// User is a registered account. PasswordHash holds the bcrypt hash; the raw
// password is never persisted or logged.
type User struct {
	ID           string
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Phone        string
	CreatedAt    time.Time
}
