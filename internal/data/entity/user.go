package entity

// User is a business account. Each account owns exactly one tenant.
type User struct {
	Base
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	IsActive     bool   `db:"is_active"`
}
