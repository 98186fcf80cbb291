package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/identity/usecase"
)

type OTPSendRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type OTPSendResponse struct {
	PhoneNumber string `json:"phone_number"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (OTPSendResponse) Message() string { return "OTP sent successfully" }

type OTPVerifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	OTPCode     string `json:"otp_code"`
}

type RegisterRequest struct {
	Email              string `json:"email"`
	Password           string `json:"password"`
	PasswordConfirm    string `json:"password_confirm"`
	PhoneNumber        string `json:"phone_number"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	LanguagePreference string `json:"language_preference"`
}

type RegisterPhoneRequest struct {
	PhoneNumber        string `json:"phone_number"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	LanguagePreference string `json:"language_preference"`
}

type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	OTPCode     string `json:"otp_code"`
}

type TokensResponse struct {
	Access           string `json:"access"`
	Refresh          string `json:"refresh"`
	AccessExpiresIn  int64  `json:"access_expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}

// AuthResponse is the body of every endpoint that signs an identity in.
type AuthResponse struct {
	User    UserResponse   `json:"user"`
	Tokens  TokensResponse `json:"tokens"`
	Created bool           `json:"created"`

	message string
}

func (a AuthResponse) Message() string { return a.message }

func (a AuthResponse) StatusCode() int {
	if a.Created {
		return http.StatusCreated
	}
	return http.StatusOK
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh"`
}

type RefreshTokenResponse struct {
	Access          string `json:"access"`
	AccessExpiresIn int64  `json:"access_expires_in"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct{}

func (LogoutResponse) Message() string { return "Logout successful" }

type UserResponse struct {
	ID                 int64            `json:"id,string"`
	Email              string           `json:"email,omitempty"`
	PhoneNumber        string           `json:"phone_number,omitempty"`
	Handle             string           `json:"username"`
	FirstName          string           `json:"first_name"`
	LastName           string           `json:"last_name"`
	FullName           string           `json:"full_name"`
	LanguagePreference string           `json:"language_preference"`
	PhoneVerified      bool             `json:"is_phone_verified"`
	EmailVerified      bool             `json:"is_email_verified"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Profile            *ProfileResponse `json:"profile,omitempty"`
}

type ProfileUpdateRequest struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	LanguagePreference *string `json:"language_preference"`
}

type ProfileResponse struct {
	Bio               string         `json:"bio"`
	AvatarURL         string         `json:"avatar_url"`
	DateOfBirth       *string        `json:"date_of_birth"`
	CookingExperience string         `json:"cooking_experience"`
	FavoriteCuisines  []string       `json:"favorite_cuisines"`
	Preferences       map[string]any `json:"preferences"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type ProfileExtendedRequest struct {
	Bio               string         `json:"bio"`
	AvatarURL         string         `json:"avatar_url"`
	DateOfBirth       string         `json:"date_of_birth"`
	CookingExperience string         `json:"cooking_experience"`
	FavoriteCuisines  []string       `json:"favorite_cuisines"`
	Preferences       map[string]any `json:"preferences"`
}

type PasswordChangeRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

type PasswordChangeResponse struct{}

func (PasswordChangeResponse) Message() string { return "Password changed successfully" }

type StatsResponse struct {
	ProfileCompletion int    `json:"profile_completion"`
	MemberSince       string `json:"member_since"`
	PhoneVerified     bool   `json:"is_phone_verified"`
	EmailVerified     bool   `json:"is_email_verified"`
}

func newUserResponse(u *entity.User) UserResponse {
	resp := UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		PhoneNumber:        u.PhoneNumber,
		Handle:             u.Handle,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		FullName:           u.FullName(),
		LanguagePreference: u.LanguagePreference.String(),
		PhoneVerified:      u.PhoneVerified,
		EmailVerified:      u.EmailVerified,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
	if u.Profile != nil {
		p := newProfileResponse(u.Profile)
		resp.Profile = &p
	}
	return resp
}

func newProfileResponse(p *entity.Profile) ProfileResponse {
	resp := ProfileResponse{
		Bio:               p.Bio,
		AvatarURL:         p.AvatarURL,
		CookingExperience: p.CookingExperience.String(),
		FavoriteCuisines:  p.FavoriteCuisines,
		Preferences:       p.Preferences,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format(time.DateOnly)
		resp.DateOfBirth = &dob
	}
	if resp.FavoriteCuisines == nil {
		resp.FavoriteCuisines = []string{}
	}
	if resp.Preferences == nil {
		resp.Preferences = map[string]any{}
	}
	return resp
}

func newAuthResponse(out *usecase.AuthOutput, message string) AuthResponse {
	return AuthResponse{
		User: newUserResponse(out.User),
		Tokens: TokensResponse{
			Access:           out.Session.AccessToken,
			Refresh:          out.Session.RefreshToken,
			AccessExpiresIn:  out.Session.AccessExpiresIn,
			RefreshExpiresIn: out.Session.RefreshExpiresIn,
		},
		Created: out.Created,
		message: message,
	}
}
