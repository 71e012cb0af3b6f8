package config

// event.go reads the optional YAML event description.
//
// An event file replaces the EVENT_* settings so a meeting's days can be
// kept next to its spreadsheet:
//
//	name: Cool Stars 20
//	timezone: America/Toronto
//	unassigned_day: Mon
//	days:
//	  - code: Mon
//	    date: 2018-07-30
//	  - code: Tue
//	    date: 2018-07-31

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// EventFile is the YAML form of an event.
type EventFile struct {
	Name          string     `yaml:"name" validate:"required"`
	Timezone      string     `yaml:"timezone" validate:"omitempty,timezone"`
	UnassignedDay string     `yaml:"unassigned_day" validate:"required,max=3"`
	Days          []EventDay `yaml:"days" validate:"required,min=1,unique=Code,dive"`
}

// EventDay maps one day code to its date.
type EventDay struct {
	Code string `yaml:"code" validate:"required,max=3"`
	Date string `yaml:"date" validate:"required,datetime=2006-01-02"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadEventFile reads and validates an event file. Unknown keys are rejected.
func LoadEventFile(path string) (*EventFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event file: %w", err)
	}
	return ParseEventFile(data)
}

// ParseEventFile decodes and validates YAML event data.
func ParseEventFile(data []byte) (*EventFile, error) {
	var ev EventFile
	if err := yaml.UnmarshalStrict(data, &ev); err != nil {
		return nil, fmt.Errorf("parse event file: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Validate checks the event against its struct tags and reports every
// failing field.
func (e *EventFile) Validate() error {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate event file: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("invalid event file:\n  - %s", strings.Join(msgs, "\n  - "))
}

// DaySpec renders the day list in the CODE=YYYY-MM-DD form of EVENT_DAYS.
func (e *EventFile) DaySpec() string {
	parts := make([]string, len(e.Days))
	for i, d := range e.Days {
		parts[i] = d.Code + "=" + d.Date
	}
	return strings.Join(parts, ",")
}

// apply overrides the env-configured event with the file's values.
func (e *EventFile) apply(c *EventConfig) {
	c.Name = e.Name
	c.Days = e.DaySpec()
	c.UnassignedDay = e.UnassignedDay
	if e.Timezone != "" {
		c.Timezone = e.Timezone
	}
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not repeat a %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date of the form YYYY-MM-DD", field)
	case "timezone":
		return fmt.Sprintf("%s must be an IANA time zone name", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
