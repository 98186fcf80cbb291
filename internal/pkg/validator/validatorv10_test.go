package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	PhoneNumber string `validate:"required,phone"`
	OTPCode     string `validate:"omitempty,otpcode"`
	Password    string `validate:"omitempty,password"`
	Language    string `validate:"omitempty,language"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name   string
		in     sample
		fields []string
	}{
		{name: "valid", in: sample{PhoneNumber: "+19995550001", OTPCode: "482913", Password: "longenough", Language: "hi"}},
		{name: "valid without plus", in: sample{PhoneNumber: "919995550001"}},
		{name: "short phone", in: sample{PhoneNumber: "+1234"}, fields: []string{"phone_number"}},
		{name: "letters in phone", in: sample{PhoneNumber: "+1999555000a"}, fields: []string{"phone_number"}},
		{name: "five digit code", in: sample{PhoneNumber: "+19995550001", OTPCode: "12345"}, fields: []string{"otp_code"}},
		{name: "code with spaces", in: sample{PhoneNumber: "+19995550001", OTPCode: " 48291"}, fields: []string{"otp_code"}},
		{name: "short password and bad language", in: sample{PhoneNumber: "+19995550001", Password: "short", Language: "fr"}, fields: []string{"password", "language"}},
		{name: "missing phone", in: sample{}, fields: []string{"phone_number"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)

			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr V10ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Values(), len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, verr.Values(), f)
			}
		})
	}
}

func TestV10ValidationError_Error(t *testing.T) {
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
	assert.JSONEq(t, `{"otp_code":"otp_code must be 6 digits"}`, V10ValidationError{"otp_code": "otp_code must be 6 digits"}.Error())
}
