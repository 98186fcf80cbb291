package inbound

import (
	"context"

	"github.com/shandysiswandi/tadka/internal/identity/entity"
	"github.com/shandysiswandi/tadka/internal/identity/usecase"
	"github.com/shandysiswandi/tadka/internal/pkg/router"
)

type uc interface {
	OTPRequest(ctx context.Context, in usecase.OTPRequestInput) (*usecase.OTPRequestOutput, error)
	OTPVerify(ctx context.Context, in usecase.OTPVerifyInput) (*usecase.AuthOutput, error)

	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthOutput, error)
	RegisterPhone(ctx context.Context, in usecase.RegisterPhoneInput) (*usecase.OTPRequestOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.AuthOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error)
	Logout(ctx context.Context, in usecase.LogoutInput) error

	Profile(ctx context.Context, in usecase.ProfileInput) (*entity.User, error)
	ProfileUpdate(ctx context.Context, in usecase.ProfileUpdateInput) (*entity.User, error)
	ProfileExtended(ctx context.Context) (*entity.Profile, error)
	ProfileExtendedUpdate(ctx context.Context, in usecase.ProfileExtendedUpdateInput) (*entity.Profile, error)
	PasswordChange(ctx context.Context, in usecase.PasswordChangeInput) error
	Stats(ctx context.Context) (*usecase.StatsOutput, error)
}

// PublicEndpoints lists the routes reachable without a bearer token, in the
// "METHOD /path" form the router expects.
var PublicEndpoints = []string{
	"POST /api/v1/identity/otp/send",
	"POST /api/v1/identity/otp/verify",
	"POST /api/v1/identity/register",
	"POST /api/v1/identity/register/phone",
	"POST /api/v1/identity/login",
	"POST /api/v1/identity/refresh",
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Phone OTP
	r.POST("/api/v1/identity/otp/send", end.OTPSend)
	r.POST("/api/v1/identity/otp/verify", end.OTPVerify)

	// Auth
	r.POST("/api/v1/identity/register", end.Register)
	r.POST("/api/v1/identity/register/phone", end.RegisterPhone)
	r.POST("/api/v1/identity/login", end.Login)
	r.POST("/api/v1/identity/refresh", end.RefreshToken)
	r.POST("/api/v1/identity/logout", end.Logout) // need authenticated

	// Profile (need authenticated)
	r.GET("/api/v1/identity/profile", end.Profile)
	r.PATCH("/api/v1/identity/profile", end.ProfileUpdate)
	r.GET("/api/v1/identity/profile/extended", end.ProfileExtended)
	r.PUT("/api/v1/identity/profile/extended", end.ProfileExtendedUpdate)
	r.POST("/api/v1/identity/password/change", end.PasswordChange)
	r.GET("/api/v1/identity/stats", end.Stats)
}
