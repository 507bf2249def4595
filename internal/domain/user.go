package domain

// User is an account that owns service requests.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}
