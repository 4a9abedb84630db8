package dto

import (
	"time"

	"github.com/0xHy0kR1/LF-backend/internal/model"
	"github.com/0xHy0kR1/LF-backend/internal/service"
)

// SecurityQuestionResponse exposes only the question text.
type SecurityQuestionResponse struct {
	Question string `json:"question"`
}

// ItemResponse represents a lost item in API responses.
// The security answer and notification log are never included.
type ItemResponse struct {
	ID               string                    `json:"id"`
	Title            string                    `json:"title"`
	Description      string                    `json:"description"`
	Category         string                    `json:"category"`
	Location         string                    `json:"location"`
	SecurityQuestion *SecurityQuestionResponse `json:"securityQuestion,omitempty"`
	UserID           string                    `json:"userId"`
	Image            string                    `json:"image"`
	ImageURL         string                    `json:"imageUrl,omitempty"`
	IsLost           bool                      `json:"isLost"`
	CreatedAt        time.Time                 `json:"createdAt"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
}

// ItemListResponse is the payload of both listing endpoints.
type ItemListResponse struct {
	LostItems []ItemResponse `json:"lostItems"`
}

// ToItemResponse converts a LostItem model to ItemResponse DTO.
func ToItemResponse(item *model.LostItem) ItemResponse {
	resp := ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Location:    item.Location,
		UserID:      item.OwnerID,
		Image:       item.ImageKey,
		IsLost:      item.IsLost,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.HasSecurityQuestion() {
		resp.SecurityQuestion = &SecurityQuestionResponse{Question: item.SecurityQuestion.Question}
	}
	return resp
}

// ToItemListResponse converts listed items, keeping their order.
func ToItemListResponse(items []service.ListedItem) ItemListResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, li := range items {
		r := ToItemResponse(li.Item)
		r.ImageURL = li.ImageURL
		out = append(out, r)
	}
	return ItemListResponse{LostItems: out}
}

// AnswerRequest is the body of POST /api/lost-items/answerSecurityQuestion/{itemId}.
type AnswerRequest struct {
	SecurityQuestion struct {
		Answer string `json:"answer"`
	} `json:"securityQuestion"`
}

// GatedViewResponse is returned by view when a security question must be answered first.
type GatedViewResponse struct {
	SecurityQuestion string `json:"securityQuestion"`
}

// ItemDetailResponse is the disclosed view of an item.
type ItemDetailResponse struct {
	Email       string `json:"email"`
	ItemName    string `json:"itemName"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl"`
	UserID      string `json:"userId,omitempty"`
}

// ToItemDetailResponse converts a disclosed ItemDetail.
func ToItemDetailResponse(d *service.ItemDetail) ItemDetailResponse {
	return ItemDetailResponse{
		Email:       d.Email,
		ItemName:    d.ItemName,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		ImageURL:    d.ImageURL,
		UserID:      d.OwnerID,
	}
}

// NotificationListResponse is an item's notification log in append order.
type NotificationListResponse struct {
	Notifications []*model.Notification `json:"notifications"`
}
