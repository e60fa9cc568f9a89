package auth

import (
	"fmt"
	"regexp"
	"time"

	appErrors "github.com/polosys/accounts-keeper/customErrors"
)

const (
	MAX_LENGTH_DISPLAY_NAME = 255
	MAX_LENGTH_EMAIL        = 255
	MAX_PASSWORD_LENGTH     = 72
	MIN_PASSWORD_LENGTH     = 6

	// literal word a user has to type before their account is removed
	DeleteConfirmationWord = "DELETE"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9](\.?[a-zA-Z0-9_%+-])*@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}$`)

type User struct {
	ID             string
	Email          string
	DisplayName    string
	PasswordHashed string
	CreatedAt      time.Time
}

type NewUser struct {
	Email         string
	DisplayName   string
	PasswordPlain string
}

// DeleteUser carries both gates for account removal: the typed confirmation
// word and the current password.
type DeleteUser struct {
	Confirmation string
	Password     string
}

func (newUser NewUser) ValidateUserFields() error {
	if newUser.Email == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Email cannot be empty!",
		}
	}
	if !emailRegex.MatchString(newUser.Email) {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Invalid email format, example valid email: john.doe@gmail.com",
		}
	}
	if len(newUser.Email) > MAX_LENGTH_EMAIL {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Email so long, maximum length is %d", MAX_LENGTH_EMAIL),
		}
	}
	if len(newUser.DisplayName) > MAX_LENGTH_DISPLAY_NAME {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Display name so long, maximum length is %d", MAX_LENGTH_DISPLAY_NAME),
		}
	}
	if newUser.PasswordPlain == "" {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: "Password cannot be empty!",
		}
	}
	if len(newUser.PasswordPlain) < MIN_PASSWORD_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Password must be at least %d characters", MIN_PASSWORD_LENGTH),
		}
	}
	if len(newUser.PasswordPlain) > MAX_PASSWORD_LENGTH {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrInvalidInput,
			Message: fmt.Sprintf("Password so long, maximum length is %d", MAX_PASSWORD_LENGTH),
		}
	}
	return nil
}

type Session struct {
	ID        string
	Token     string
	CreatedAt time.Time
	ExpireAt  time.Time
	UserID    string
}

type UserCredentialsPure struct {
	Email         string
	PasswordPlain string
}
