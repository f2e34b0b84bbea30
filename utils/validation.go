package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var ErrInvalidTask = errors.New("invalid task")

// TaskInput is the admin's create-task form after trimming.
type TaskInput struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"max=2000"`
	AssigneeID  *int   `validate:"omitempty,gt=0"`
}

type LoginInput struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required,max=128"`
}

func ValidateTaskInput(in TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Title":
				return fmt.Errorf("%w: title must be between 1 and 255 characters", ErrInvalidTask)
			case "Description":
				return fmt.Errorf("%w: description must be at most 2000 characters", ErrInvalidTask)
			case "AssigneeID":
				return fmt.Errorf("%w: invalid assignee", ErrInvalidTask)
			}
		}
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	return nil
}

func ValidateLoginInput(in LoginInput) error {
	if err := validate.Struct(in); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
