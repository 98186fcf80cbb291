package entity

import "strings"

// OTPState is the lifecycle position of a phone's challenge at a point in time.
type OTPState int8

const (
	// OTPStateNone mean no challenge exists for the phone number.
	OTPStateNone OTPState = 0

	// OTPStatePending mean a code was issued and its window is still open.
	OTPStatePending OTPState = 1

	// OTPStateExpired mean the window closed, verified or not.
	OTPStateExpired OTPState = 2

	// OTPStateVerified mean the code was confirmed and the window is still open.
	OTPStateVerified OTPState = 3
)

func (s OTPState) String() string {
	switch s {
	case OTPStatePending:
		return "Pending"
	case OTPStateExpired:
		return "Expired"
	case OTPStateVerified:
		return "Verified"
	default:
		return "None"
	}
}

// Language is the UI language an identity prefers.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

// LanguageFromString falls back to English for anything unknown.
func LanguageFromString(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageHindi:
		return LanguageHindi
	default:
		return LanguageEnglish
	}
}

func (l Language) String() string { return string(l) }

// CookingExperience is the self-declared skill level on the extended profile.
type CookingExperience string

const (
	CookingBeginner     CookingExperience = "beginner"
	CookingIntermediate CookingExperience = "intermediate"
	CookingAdvanced     CookingExperience = "advanced"
	CookingExpert       CookingExperience = "expert"
)

func (c CookingExperience) String() string { return string(c) }

// RegistrationChannel tells how an identity came to exist.
type RegistrationChannel string

const (
	ChannelEmail RegistrationChannel = "email"
	ChannelPhone RegistrationChannel = "phone"
)

func (c RegistrationChannel) String() string { return string(c) }
