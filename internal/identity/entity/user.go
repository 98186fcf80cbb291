package entity

import (
	"strings"
	"time"

	"github.com/shandysiswandi/tadka/internal/pkg/valueobject"
)

// User is an identity. Email, PhoneNumber and PasswordHash are empty when
// absent; phone-only identities have no password.
type User struct {
	ID                 int64
	Email              string
	PhoneNumber        string
	PasswordHash       string
	Handle             string
	FirstName          string
	LastName           string
	LanguagePreference Language
	PhoneVerified      bool
	EmailVerified      bool
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Profile is nil when the extended profile row was not loaded or does not exist.
	Profile *Profile
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Profile is the extended, optional part of an identity.
type Profile struct {
	UserID            int64
	Bio               string
	AvatarURL         string
	DateOfBirth       *time.Time
	CookingExperience CookingExperience
	FavoriteCuisines  []string
	Preferences       valueobject.JSONMap
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UserNames is the patchable part of an identity.
type UserNames struct {
	UserID             int64
	FirstName          string
	LastName           string
	LanguagePreference Language
}

// PhoneHandle is the placeholder handle of an identity created from a phone number.
func PhoneHandle(phone string) string {
	if len(phone) > 4 {
		phone = phone[len(phone)-4:]
	}
	return "user_" + phone
}

// EmailHandle is the local part of an email address.
func EmailHandle(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
