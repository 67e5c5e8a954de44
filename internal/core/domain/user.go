package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of access levels a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a payload string onto the closed enum. An empty string
// yields the default RoleUser; anything else unrecognised is an error.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return RoleUser, nil
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", ErrInvalidRole
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrInvalidRole = errors.New("invalid role")
var ErrMissingFields = errors.New("missing required fields")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrForbidden = errors.New("insufficient privilege")

// User models an account in the system. PasswordHash never leaves the
// process: it is excluded from JSON and stripped from every listing
// handed to the API layer.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sanitized returns a copy with the password hash blanked, safe to cache
// or serialize anywhere outside the auth core.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// UserStats aggregates the role distribution for the admin listing.
type UserStats struct {
	TotalUsers   int `json:"totalUsers"`
	AdminUsers   int `json:"adminUsers"`
	RegularUsers int `json:"regularUsers"`
}

// ComputeStats tallies the role distribution. Unrecognised roles count
// as regular so admin + regular == total always holds.
func ComputeStats(users []*User) UserStats {
	stats := UserStats{TotalUsers: len(users)}
	for _, u := range users {
		if u.Role == RoleAdmin {
			stats.AdminUsers++
		} else {
			stats.RegularUsers++
		}
	}
	return stats
}
