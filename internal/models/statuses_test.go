package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		want     bool
	}{
		{ApplicationStatusPending, ApplicationStatusReviewed, true},
		{ApplicationStatusPending, ApplicationStatusAccepted, true},
		{ApplicationStatusPending, ApplicationStatusRejected, true},
		{ApplicationStatusPending, ApplicationStatusWithdrawn, true},
		{ApplicationStatusPending, ApplicationStatusPending, true},
		{ApplicationStatusReviewed, ApplicationStatusAccepted, true},
		{ApplicationStatusReviewed, ApplicationStatusWithdrawn, true},
		{ApplicationStatusReviewed, ApplicationStatusPending, false},
		{ApplicationStatusRejected, ApplicationStatusPending, false},
		{ApplicationStatusRejected, ApplicationStatusAccepted, false},
		{ApplicationStatusAccepted, ApplicationStatusWithdrawn, false},
		{ApplicationStatusAccepted, ApplicationStatusAccepted, true},
		{ApplicationStatusWithdrawn, ApplicationStatusWithdrawn, true},
		{ApplicationStatusWithdrawn, ApplicationStatusReviewed, false},
		{ApplicationStatusPending, ApplicationStatus("HIRED"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestApplicationStatus_IsTerminal(t *testing.T) {
	assert.False(t, ApplicationStatusPending.IsTerminal())
	assert.False(t, ApplicationStatusReviewed.IsTerminal())
	assert.True(t, ApplicationStatusAccepted.IsTerminal())
	assert.True(t, ApplicationStatusRejected.IsTerminal())
	assert.True(t, ApplicationStatusWithdrawn.IsTerminal())
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, UserRoleApplier.IsValid())
	assert.False(t, UserRole("GUEST").IsValid())
	assert.True(t, JobTypeInternship.IsValid())
	assert.False(t, JobType("full-time").IsValid())
	assert.True(t, ExperienceLead.IsValid())
	assert.False(t, ExperienceLevel("PRINCIPAL").IsValid())
	assert.True(t, NotificationJobExpiring.IsValid())
	assert.False(t, ApplicationStatus("pending").IsValid())
}
