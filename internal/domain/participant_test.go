package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParticipant_EventNames_KeepsOrderSkipsBlank(t *testing.T) {
	p := &Participant{SelectedEvents: []SelectedEvent{{Name: "Hackathon"}, {Name: ""}, {Name: "Quiz"}}}
	assert.Equal(t, []string{"Hackathon", "Quiz"}, p.EventNames())
}

func TestOTPRecord_Expired_BoundaryIsStillValid(t *testing.T) {
	exp := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	r := &OTPRecord{ExpiresAt: exp}
	assert.False(t, r.Expired(exp))
	assert.True(t, r.Expired(exp.Add(time.Nanosecond)))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@x.com", NormalizeEmail("  Ada@X.com "))
}
