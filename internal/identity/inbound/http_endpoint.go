package inbound

import (
	"github.com/shandysiswandi/tadka/internal/identity/usecase"
	"github.com/shandysiswandi/tadka/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for phone OTP, sessions and profiles.
type HTTPEndpoint struct {
	uc uc
}

// OTPSend issues a one-time code to a phone number.
// @Summary Send OTP
// @Description Creates or reissues the phone's challenge and delivers the code by SMS. A second request inside the validity window is throttled.
// @Tags Identity, OTP
// @Accept json
// @Produce json
// @Param request body OTPSendRequest true "Phone payload"
// @Success 200 {object} router.successResponse{data=OTPSendResponse} "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "OTP already sent"
// @Failure 502 {object} router.errorResponse "SMS delivery failed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/otp/send [post]
func (h *HTTPEndpoint) OTPSend(r *router.Request) (any, error) {
	var req OTPSendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OTPRequest(r.Context(), usecase.OTPRequestInput{PhoneNumber: req.PhoneNumber})
	if err != nil {
		return nil, err
	}

	return OTPSendResponse{PhoneNumber: resp.PhoneNumber, ExpiresIn: resp.ExpiresIn}, nil
}

// OTPVerify checks a code and signs the phone's identity in, creating it on
// first use.
// @Summary Verify OTP
// @Description Verifies the code for the phone, resolves or creates the identity and returns tokens.
// @Tags Identity, OTP
// @Accept json
// @Produce json
// @Param request body OTPVerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=AuthResponse} "Existing identity signed in"
// @Success 201 {object} router.successResponse{data=AuthResponse} "Identity created"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "OTP not found"
// @Failure 422 {object} router.errorResponse "Invalid or expired OTP"
// @Failure 429 {object} router.errorResponse "Too many invalid attempts"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/otp/verify [post]
func (h *HTTPEndpoint) OTPVerify(r *router.Request) (any, error) {
	var req OTPVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OTPVerify(r.Context(), usecase.OTPVerifyInput{
		PhoneNumber: req.PhoneNumber,
		OTPCode:     req.OTPCode,
	})
	if err != nil {
		return nil, err
	}

	return newAuthResponse(resp, "Phone number verified successfully"), nil
}

// Register creates an email and password identity.
// @Summary Register with email
// @Description Creates an identity with an empty extended profile and signs it in.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} router.successResponse{data=AuthResponse} "Identity created"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email or phone already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:              req.Email,
		Password:           req.Password,
		PasswordConfirm:    req.PasswordConfirm,
		PhoneNumber:        req.PhoneNumber,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		LanguagePreference: req.LanguagePreference,
	})
	if err != nil {
		return nil, err
	}

	return newAuthResponse(resp, "User registered successfully"), nil
}

// RegisterPhone starts a phone signup.
// @Summary Register with phone
// @Description Rejects a phone that already has an identity, otherwise sends an OTP exactly like otp/send.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RegisterPhoneRequest true "Phone signup payload"
// @Success 200 {object} router.successResponse{data=OTPSendResponse} "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Phone already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "OTP already sent"
// @Failure 502 {object} router.errorResponse "SMS delivery failed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/register/phone [post]
func (h *HTTPEndpoint) RegisterPhone(r *router.Request) (any, error) {
	var req RegisterPhoneRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RegisterPhone(r.Context(), usecase.RegisterPhoneInput{
		PhoneNumber:        req.PhoneNumber,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		LanguagePreference: req.LanguagePreference,
	})
	if err != nil {
		return nil, err
	}

	return OTPSendResponse{PhoneNumber: resp.PhoneNumber, ExpiresIn: resp.ExpiresIn}, nil
}

// Login signs an existing identity in.
// @Summary Login
// @Description Accepts either email and password or phone_number and otp_code. Phone login never creates an identity.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=AuthResponse} "Authentication result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		OTPCode:     req.OTPCode,
	})
	if err != nil {
		return nil, err
	}

	return newAuthResponse(resp, "Login successful"), nil
}

// RefreshToken issues a new access token using a refresh token.
// @Summary Refresh access token
// @Description Exchanges a refresh token for a new access token. Revoked refresh tokens are rejected.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token payload"
// @Success 200 {object} router.successResponse{data=RefreshTokenResponse} "Token refresh result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or revoked refresh token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/refresh [post]
func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, err
	}

	return RefreshTokenResponse{Access: resp.AccessToken, AccessExpiresIn: resp.AccessExpiresIn}, nil
}

// Logout revokes a refresh token.
// @Summary Logout
// @Description Adds the refresh token to the denylist for the rest of its lifetime.
// @Tags Identity, Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LogoutRequest true "Logout payload"
// @Success 200 {object} router.successResponse "Logged out"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Token belongs to another identity"
// @Failure 422 {object} router.errorResponse "Invalid token"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/logout [post]
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	var req LogoutRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return nil, err
	}

	return LogoutResponse{}, nil
}

// Profile returns the signed-in identity.
// @Summary Get profile
// @Tags Identity, Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=UserResponse} "Profile"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile [get]
func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context(), usecase.ProfileInput{})
	if err != nil {
		return nil, err
	}

	return newUserResponse(resp), nil
}

// ProfileUpdate patches names and language.
// @Summary Update profile
// @Description Only the fields present in the body are changed.
// @Tags Identity, Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileUpdateRequest true "Profile payload"
// @Success 200 {object} router.successResponse{data=UserResponse} "Updated profile"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile [patch]
func (h *HTTPEndpoint) ProfileUpdate(r *router.Request) (any, error) {
	var req ProfileUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ProfileUpdate(r.Context(), usecase.ProfileUpdateInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		LanguagePreference: req.LanguagePreference,
	})
	if err != nil {
		return nil, err
	}

	return newUserResponse(resp), nil
}

// ProfileExtended returns the extended profile, creating an empty one first.
// @Summary Get extended profile
// @Tags Identity, Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Extended profile"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile/extended [get]
func (h *HTTPEndpoint) ProfileExtended(r *router.Request) (any, error) {
	resp, err := h.uc.ProfileExtended(r.Context())
	if err != nil {
		return nil, err
	}

	return newProfileResponse(resp), nil
}

// ProfileExtendedUpdate replaces the extended profile.
// @Summary Update extended profile
// @Tags Identity, Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileExtendedRequest true "Extended profile payload"
// @Success 200 {object} router.successResponse{data=ProfileResponse} "Updated extended profile"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/profile/extended [put]
func (h *HTTPEndpoint) ProfileExtendedUpdate(r *router.Request) (any, error) {
	var req ProfileExtendedRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ProfileExtendedUpdate(r.Context(), usecase.ProfileExtendedUpdateInput{
		Bio:               req.Bio,
		AvatarURL:         req.AvatarURL,
		DateOfBirth:       req.DateOfBirth,
		CookingExperience: req.CookingExperience,
		FavoriteCuisines:  req.FavoriteCuisines,
		Preferences:       req.Preferences,
	})
	if err != nil {
		return nil, err
	}

	return newProfileResponse(resp), nil
}

// PasswordChange updates the password after checking the old one.
// @Summary Change password
// @Tags Identity, Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PasswordChangeRequest true "Password payload"
// @Success 200 {object} router.successResponse "Password changed"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/password/change [post]
func (h *HTTPEndpoint) PasswordChange(r *router.Request) (any, error) {
	var req PasswordChangeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordChange(r.Context(), usecase.PasswordChangeInput{
		CurrentPassword:    req.OldPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	}); err != nil {
		return nil, err
	}

	return PasswordChangeResponse{}, nil
}

// Stats reports profile completion and membership age.
// @Summary Profile stats
// @Tags Identity, Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=StatsResponse} "Stats"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/identity/stats [get]
func (h *HTTPEndpoint) Stats(r *router.Request) (any, error) {
	resp, err := h.uc.Stats(r.Context())
	if err != nil {
		return nil, err
	}

	return StatsResponse{
		ProfileCompletion: resp.ProfileCompletion,
		MemberSince:       resp.MemberSince,
		PhoneVerified:     resp.PhoneVerified,
		EmailVerified:     resp.EmailVerified,
	}, nil
}
