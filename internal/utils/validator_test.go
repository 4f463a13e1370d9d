// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationForm struct {
	Username string `validate:"required,username"`
	Password string `validate:"required,strong_password"`
	Phone    string `validate:"omitempty,phone_vn"`
}

func TestValidateStructAcceptsValidForm(t *testing.T) {
	form := registrationForm{
		Username: "nguyen_van_a",
		Password: "Str0ng!Pass",
		Phone:    "0912345678",
	}
	assert.NoError(t, ValidateStruct(&form))
}

func TestStrongPasswordRules(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Str0ng!Pass", true},
		{"short1!A", true},
		{"alllowercase1!", false}, // no uppercase
		{"ALLUPPERCASE1!", false}, // no lowercase
		{"NoNumbers!!", false},
		{"NoSpecial123", false},
		{"Sh0rt!a", false}, // 7 chars
	}

	for _, tc := range cases {
		form := registrationForm{Username: "validuser", Password: tc.password}
		err := ValidateStruct(&form)
		if tc.valid {
			assert.NoError(t, err, "password %q should be accepted", tc.password)
		} else {
			assert.Error(t, err, "password %q should be rejected", tc.password)
		}
	}
}

func TestUsernameRules(t *testing.T) {
	cases := []struct {
		username string
		valid    bool
	}{
		{"abc", true},
		{"nguyen_van_a", true},
		{"User123", true},
		{"ab", false},            // too short
		{"has space", false},     // whitespace
		{"dash-name", false},     // dash not allowed
		{"tiếngviệt", false},     // non-ascii
	}

	for _, tc := range cases {
		form := registrationForm{Username: tc.username, Password: "Str0ng!Pass"}
		err := ValidateStruct(&form)
		if tc.valid {
			assert.NoError(t, err, "username %q should be accepted", tc.username)
		} else {
			assert.Error(t, err, "username %q should be rejected", tc.username)
		}
	}
}

func TestVietnamesePhoneRules(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"0912345678", true},
		{"+84912345678", true},
		{"", true}, // optional
		{"12345", false},
		{"0912-345-678", false},
		{"+1555123456", false},
	}

	for _, tc := range cases {
		form := registrationForm{Username: "validuser", Password: "Str0ng!Pass", Phone: tc.phone}
		err := ValidateStruct(&form)
		if tc.valid {
			assert.NoError(t, err, "phone %q should be accepted", tc.phone)
		} else {
			assert.Error(t, err, "phone %q should be rejected", tc.phone)
		}
	}
}

func TestGetValidationErrorsFieldDetails(t *testing.T) {
	form := registrationForm{Username: "x", Password: "weak"}
	err := ValidateStruct(&form)
	require.Error(t, err)

	errors := GetValidationErrors(err)
	require.Len(t, errors, 2)
	assert.Equal(t, "username", errors[0].Field)
	assert.Equal(t, "password", errors[1].Field)
	assert.NotEmpty(t, errors[0].Message)
}
