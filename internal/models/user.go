package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleAdvertiser = "advertiser"
	RoleInfluencer = "influencer"
	RoleAdmin      = "admin"
)

func IsValidRole(role string) bool {
	return role == RoleAdvertiser || role == RoleInfluencer || role == RoleAdmin
}

// UserProfile holds role-specific fields; advertisers use CompanyName,
// influencers use Platforms/FollowerCount.
type UserProfile struct {
	CompanyName   string   `json:"companyName,omitempty"`
	Bio           string   `json:"bio,omitempty"`
	Platforms     []string `json:"platforms,omitempty"`
	FollowerCount int      `json:"followerCount,omitempty"`
}

type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	DisplayName  string      `json:"displayName"`
	Role         string      `json:"role"`
	Profile      UserProfile `json:"profile"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
