package service

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/0xHy0kR1/LF-backend/internal/model"
)

// Validation limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 6
	// bcrypt ignores input past 72 bytes.
	MaxPasswordLength = 72
	MaxFieldLength    = 2000
)

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks sign-up input.
func ValidateRegistration(username, email, password string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(username))
	if n < MinUsernameLength || n > MaxUsernameLength {
		return fmt.Errorf("%w: enter a valid name", ErrValidation)
	}
	if !validEmail(email) {
		return fmt.Errorf("%w: enter a valid email", ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, MaxPasswordLength)
	}
	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

// securityQuestionPayload is the wire shape of a securityQuestion form field.
type securityQuestionPayload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ParseSecurityQuestion decodes a securityQuestion form field.
// Empty input means no question. The stored answer is normalized.
func ParseSecurityQuestion(raw string) (*model.SecurityQuestion, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var p securityQuestionPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, ErrInvalidSecurityQuestion
	}

	question := strings.TrimSpace(p.Question)
	answer := model.NormalizeAnswer(p.Answer)
	if question == "" || answer == "" {
		return nil, ErrInvalidSecurityQuestion
	}
	if len(question) > MaxFieldLength || len(answer) > MaxFieldLength {
		return nil, ErrInvalidSecurityQuestion
	}

	return &model.SecurityQuestion{Question: question, Answer: answer}, nil
}

// validateItemField checks a required free-text item field.
func validateItemField(name, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, name)
	}
	if len(v) > MaxFieldLength {
		return fmt.Errorf("%w: %s is too long", ErrValidation, name)
	}
	return nil
}
