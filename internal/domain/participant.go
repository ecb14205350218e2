package domain

import "time"

// PaymentStatus is the lifecycle state of a registration.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// SelectedEvent is one entry of the ordered event selection made at sign-up.
type SelectedEvent struct {
	Name  string   `json:"name" dynamodbav:"name"`
	Price *float64 `json:"price,omitempty" dynamodbav:"price,omitempty"`
}

// Participant is a registration record. It is created pending and flipped to
// paid exactly once per successful ticket issuance.
type Participant struct {
	ParticipantID  string          `json:"id" dynamodbav:"participant_id"`
	Name           string          `json:"name" dynamodbav:"name"`
	NameLower      string          `json:"-" dynamodbav:"name_lower"`
	Email          string          `json:"email" dynamodbav:"email"`
	Phone          string          `json:"phone" dynamodbav:"phone"`
	College        string          `json:"college" dynamodbav:"college"`
	SelectedEvents []SelectedEvent `json:"selected_events" dynamodbav:"selected_events"`
	TeamName       *string         `json:"team_name" dynamodbav:"team_name,omitempty"`
	TeamCode       *string         `json:"team_code" dynamodbav:"team_code,omitempty"`
	FoodPreference *string         `json:"food_preference" dynamodbav:"food_preference,omitempty"`
	Amount         float64         `json:"amount" dynamodbav:"amount"`
	PaymentStatus  PaymentStatus   `json:"payment_status" dynamodbav:"payment_status"`
	TicketURL      *string         `json:"ticket_url" dynamodbav:"ticket_url,omitempty"`
	CreatedAt      time.Time       `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time       `json:"updated" dynamodbav:"updated_at"`
}

// EventNames returns the selected event names in selection order.
func (p *Participant) EventNames() []string {
	names := make([]string, 0, len(p.SelectedEvents))
	for _, e := range p.SelectedEvents {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names
}
