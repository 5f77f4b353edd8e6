package validator

import (
	"fmt"
	"strings"

	"jobboard_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// enumRule - тег, допускающий только значения из закрытого набора.
type enumRule struct {
	tag    string
	values []string
}

var enumRules = []enumRule{
	{"is-user-role", values(models.UserRoleEmployer, models.UserRoleJobseeker)},
	{"is-employment-type", values(models.EmploymentFullTime, models.EmploymentPartTime, models.EmploymentContract, models.EmploymentTemporary)},
	{"is-job-status", values(models.JobStatusActive, models.JobStatusClosed, models.JobStatusDraft)},
	{"is-application-status", values(models.ApplicationStatusPending, models.ApplicationStatusReviewed, models.ApplicationStatusAccepted, models.ApplicationStatusRejected)},
}

func values[T ~string](items ...T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = string(item)
	}
	return out
}

// registerCustomRules регистрирует enum-теги и возвращает сообщения для них.
func registerCustomRules(v *validator.Validate) (map[string]string, error) {
	messages := make(map[string]string, len(enumRules))
	for _, rule := range enumRules {
		allowed := make(map[string]struct{}, len(rule.values))
		for _, val := range rule.values {
			allowed[val] = struct{}{}
		}

		// Пустое значение пропускаем, для этого есть 'required'.
		fn := func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true
			}
			_, ok := allowed[value]
			return ok
		}
		if err := v.RegisterValidation(rule.tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register validation tag %q: %w", rule.tag, err)
		}
		messages[rule.tag] = "Must be one of: " + strings.Join(rule.values, ", ")
	}
	return messages, nil
}
