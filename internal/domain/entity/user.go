package entity

import (
	"time"
)

// Platform is the console a player identifies with.
type Platform string

const (
	PlatformPSN  Platform = "psn"
	PlatformXbox Platform = "xboxlive"
)

// TokenOriginWeb is the only token origin issued today; mobile clients would
// add their own tag here.
const TokenOriginWeb = "web"

// SessionToken is one persisted session entry on a user record. The token
// string itself is an opaque signed value; revocation removes the entry.
type SessionToken struct {
	Origin   string
	Token    string
	IssuedAt time.Time
}

// TeamMembership associates a user with a team. Role is free-form
// ("owner", "member", ...). Entries are not deduplicated by the base
// operations.
type TeamMembership struct {
	TeamID string
	Role   string
}

// User is the aggregate root for the identity domain.
// Password always holds a bcrypt hash once persisted, never plaintext.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Bio       string
	Age       int
	Platform  Platform
	Region    string
	Tokens    []SessionToken
	Teams     []TeamMembership
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTeam reports whether the user holds at least one membership for teamID.
func (u *User) HasTeam(teamID string) bool {
	for _, m := range u.Teams {
		if m.TeamID == teamID {
			return true
		}
	}
	return false
}

// HasToken reports whether token is present in the user's session list.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t.Token == token {
			return true
		}
	}
	return false
}
