package campaign

import (
	"context"
	"fmt"
	"time"
)

// Status is the lifecycle state of a scheduled send unit.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusSending   Status = "sending"
	StatusSent      Status = "sent"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transitions can happen.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}

// rank orders statuses so transitions can only move forward.
func (s Status) rank() int {
	switch s {
	case StatusScheduled:
		return 0
	case StatusSending:
		return 1
	case StatusSent, StatusFailed:
		return 2
	default:
		return -1
	}
}

// canMoveTo reports whether s -> next is a forward transition.
// Sent is reachable only from sending; failed may skip sending for misfires.
func (s Status) canMoveTo(next Status) bool {
	if s.Terminal() || next.rank() < 0 {
		return false
	}
	if next == StatusSent {
		return s == StatusSending
	}
	return next.rank() > s.rank()
}

// StatusOK is the delivery status code treated as success.
const StatusOK = 200

// Payload holds everything the delivery function needs for one email.
// It is captured when a batch is scheduled and never modified afterwards.
type Payload struct {
	Recipient     string `json:"recipient"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	ImageKey      string `json:"image_key,omitempty"`
	SenderName    string `json:"sender_name"`
	SenderTitle   string `json:"sender_title"`
	SenderContact string `json:"sender_contact"`
}

// DeliveryFunc sends one email and reports the provider status code and response body.
// A status of StatusOK means the email was accepted; anything else is a failure.
type DeliveryFunc func(ctx context.Context, p Payload) (status int, body []byte)

// Unit is one planned email dispatch.
type Unit struct {
	SendTime   time.Time `json:"send_time"`
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	Status     Status    `json:"status"`
	Recipient  string    `json:"recipient"`
	Payload    Payload   `json:"-"`
}

// UnitID builds the identifier for the index-th unit of a campaign.
// The index keeps ids unique when two units share a send time.
func UnitID(sendTime time.Time, campaignID string, index int) string {
	return fmt.Sprintf("email_%d_%s_%d", sendTime.UnixNano(), campaignID, index)
}
