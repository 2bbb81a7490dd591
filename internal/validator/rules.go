package validator

import (
	"strings"

	"shebeka_backend/internal/logger"
	"shebeka_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует правила для enum-ов из models/statuses.go
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			logger.Fatal("failed to register custom validation tag", "tag", tag, "error", err)
		}
	}

	mustRegister("notblank", validateNotBlank)
	mustRegister("is-signup-role", validateSignupRole)
	mustRegister("is-job-type", enumRule(func(s string) bool { return models.JobType(s).IsValid() }))
	mustRegister("is-experience-level", enumRule(func(s string) bool { return models.ExperienceLevel(s).IsValid() }))
	mustRegister("is-job-status", enumRule(func(s string) bool { return models.JobStatus(s).IsValid() }))
	mustRegister("is-application-status", enumRule(func(s string) bool { return models.ApplicationStatus(s).IsValid() }))
}

// enumRule - пустые значения пропускаем, для этого есть 'required'
func enumRule(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return valid(value)
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateSignupRole - ADMIN через регистрацию не создается
func validateSignupRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.UserRoleRecruiter, models.UserRoleApplier:
		return true
	default:
		return false
	}
}
