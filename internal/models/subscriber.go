package models

import (
	"time"
)

type Subscriber struct {
	ID                int64      `json:"id"`
	Email             string     `json:"email"`
	ConfirmationToken string     `json:"-"`
	Confirmed         bool       `json:"confirmed"`
	Source            string     `json:"source"`
	SubscribedAt      time.Time  `json:"subscribed_at"`
	UnsubscribedAt    *time.Time `json:"unsubscribed_at,omitempty"`
}

type UnsubscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
