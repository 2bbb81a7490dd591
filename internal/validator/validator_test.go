package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title   string `json:"title" validate:"notblank,max=10"`
	Role    string `json:"role" validate:"required,is-signup-role"`
	JobType string `json:"jobType" validate:"omitempty,is-job-type"`
	Status  string `json:"status" validate:"required,is-application-status"`
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	err := v.Validate(&sampleRequest{
		Title:   "   ",
		Role:    "ADMIN",
		JobType: "full-time",
		Status:  "HIRED",
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "This field is required", vErr.Errors["title"])
	assert.Contains(t, vErr.Errors["role"], "RECRUITER")
	assert.Contains(t, vErr.Errors["jobType"], "FULL_TIME")
	assert.Contains(t, vErr.Errors["status"], "WITHDRAWN")
}

func TestValidate_OK(t *testing.T) {
	v := New()

	err := v.Validate(&sampleRequest{
		Title:   "Go dev",
		Role:    "APPLIER",
		JobType: "CONTRACT",
		Status:  "REVIEWED",
	})
	assert.NoError(t, err)
}
