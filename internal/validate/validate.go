// Package validate checks user input before it reaches the task manager.
package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"agendu/internal/tasks"
)

const MinTitleLength = 3

// TaskInput is the raw task form.
type TaskInput struct {
	Title        string      `validate:"required,min=3"`
	DueDate      *time.Time  `validate:"-"`
	PlannedDates []time.Time `validate:"-"`
	Priority     string      `validate:"required,oneof=low medium high"`
}

type ActivityInput struct {
	Title string `validate:"required"`
}

// Errors maps a form field to a user-facing message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, e[f])
	}
	return strings.Join(parts, "; ")
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(plannedBeforeDue, TaskInput{})
	return val
}

func plannedBeforeDue(sl validator.StructLevel) {
	in := sl.Current().Interface().(TaskInput)
	if in.DueDate == nil {
		return
	}
	for _, pd := range in.PlannedDates {
		if pd.After(*in.DueDate) {
			sl.ReportError(in.PlannedDates, "PlannedDates", "PlannedDates", "plannedbeforedue", "")
			return
		}
	}
}

// Task validates a task form and returns the data to hand to the manager.
func Task(in TaskInput) (tasks.TaskData, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Priority = strings.ToLower(strings.TrimSpace(in.Priority))
	if err := v.Struct(in); err != nil {
		return tasks.TaskData{}, translate(err)
	}
	planned := append([]time.Time{}, in.PlannedDates...)
	sort.Slice(planned, func(i, j int) bool { return planned[i].Before(planned[j]) })
	return tasks.TaskData{
		Title:        in.Title,
		DueDate:      in.DueDate,
		PlannedDates: planned,
		Priority:     tasks.Priority(in.Priority),
	}, nil
}

// Activity validates a personal activity title.
func Activity(title string) (string, error) {
	in := ActivityInput{Title: strings.TrimSpace(title)}
	if err := v.Struct(in); err != nil {
		return "", translate(err)
	}
	return in.Title, nil
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := Errors{}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "min":
		return fmt.Sprintf("title must be at least %d characters", MinTitleLength)
	case "oneof":
		return "priority must be low, medium or high"
	case "plannedbeforedue":
		return "planned dates cannot be after the due date"
	default:
		return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}
}
