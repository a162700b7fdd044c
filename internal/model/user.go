package model

import "time"

// Role values stored in users.role.
const (
	RoleDefault = "default"
	RoleAdmin   = "admin"
)

// User represents an application user record as stored in the `users`
// table.  PasswordHash never leaves the service layer; handlers render
// PublicUser instead.
//
// Fields:
//
//	ID           – primary key (uuid).
//	Name         – display name.
//	Email        – unique, lower-cased address.
//	PasswordHash – argon2id (or legacy bcrypt) hash.
//	Role         – "default" or "admin".
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// PublicUser is a User without its password hash.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips the password hash.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
