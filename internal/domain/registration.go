package domain

// RegisterRequest is the sign-up payload. Only name and email are required;
// the remaining fields are stored as given.
type RegisterRequest struct {
	Name           string          `json:"name" validate:"required"`
	Email          string          `json:"email" validate:"required,email"`
	Phone          string          `json:"phone"`
	College        string          `json:"college"`
	SelectedEvents []SelectedEvent `json:"selected_events"`
	TeamName       *string         `json:"teamName"`
	TeamCode       *string         `json:"teamCode"`
	FoodPreference *string         `json:"foodPreference"`
	Total          float64         `json:"total"`
}

// Registration is what a successful sign-up returns to the caller.
type Registration struct {
	ParticipantID string  `json:"participant_id"`
	TeamCode      *string `json:"team_code,omitempty"`
}
