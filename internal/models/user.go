package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses as reported by the billing provider webhook
const (
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
	SubscriptionInactive = "inactive"
)

type User struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	AvatarURL          *string   `json:"avatar_url,omitempty"`
	Provider           string    `json:"provider"`
	ProviderID         string    `json:"-"`
	SubscriptionTier   string    `json:"subscription_tier"`
	SubscriptionStatus string    `json:"subscription_status"`
	IsWhitelisted      bool      `json:"-"`
	WorkspaceAddons    int       `json:"workspace_addons"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
