package model

import (
	"strings"
	"time"
)

// SecurityQuestion gates disclosure of an item's details.
// The answer is stored normalized and must never leave the service.
type SecurityQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"-"`
}

// NormalizeAnswer returns the canonical form used for storing and comparing answers.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// LostItem is a posted record of a lost item.
type LostItem struct {
	ID               string
	OwnerID          string
	Title            string
	Description      string
	Category         string
	Location         string
	SecurityQuestion *SecurityQuestion
	ImageKey         string
	IsLost           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasSecurityQuestion reports whether detail disclosure is gated.
func (i *LostItem) HasSecurityQuestion() bool {
	return i.SecurityQuestion != nil && i.SecurityQuestion.Question != ""
}

// IsOwnedBy compares owner ids by value.
func (i *LostItem) IsOwnedBy(userID string) bool {
	return userID != "" && i.OwnerID == userID
}

// Clone returns a deep copy so callers can stage changes without touching the original.
func (i *LostItem) Clone() *LostItem {
	c := *i
	if i.SecurityQuestion != nil {
		sq := *i.SecurityQuestion
		c.SecurityQuestion = &sq
	}
	return &c
}

// Notification is an append-only entry in an item's notification log.
type Notification struct {
	ID        int64     `json:"id"`
	ItemID    string    `json:"itemId"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnsweredNotificationMessage is appended to the log when a claimant answers correctly.
const AnsweredNotificationMessage = "Someone answered your question!"
