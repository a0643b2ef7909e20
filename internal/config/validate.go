package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/penwyp/go-focus-calendar/internal/core/calendar"
	"github.com/penwyp/go-focus-calendar/internal/core/rank"
)

// customTags are the validator tags this package adds on top of the built-ins
var customTags = map[string]validator.Func{
	"iana": func(fl validator.FieldLevel) bool {
		_, err := calendar.LoadZone(fl.Field().String())
		return err == nil
	},
	"cronspec": func(fl validator.FieldLevel) bool {
		_, err := cron.ParseStandard(fl.Field().String())
		return err == nil
	},
	"rrule": func(fl validator.FieldLevel) bool {
		_, err := rank.NewResetSchedule(fl.Field().String())
		return err == nil
	},
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()
	for tag, fn := range customTags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return v, nil
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	v, err := newValidator()
	if err != nil {
		return err
	}
	err = v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "iana":
		return fmt.Sprintf("%s: invalid timezone '%v'", field, fe.Value())
	case "cronspec":
		return fmt.Sprintf("%s: invalid cron spec '%v'", field, fe.Value())
	case "rrule":
		return fmt.Sprintf("%s: invalid reset rule '%v'", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got '%v'", field, fe.Param(), fe.Value())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color, got '%v'", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
