package design

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidationError lists field-level problems in a configuration.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Fields, "; "))
}

// ValidateRoom checks struct-level constraints on a room.
func ValidateRoom(r RoomConfiguration) error {
	return wrapValidation(validatorInstance().Struct(r))
}

// ValidateProject checks struct-level constraints and room id uniqueness.
func ValidateProject(p ProjectConfiguration) error {
	if err := wrapValidation(validatorInstance().Struct(p)); err != nil {
		return err
	}
	seen := make(map[string]bool, len(p.Rooms))
	for _, r := range p.Rooms {
		if seen[r.ID] {
			return &ValidationError{Fields: []string{fmt.Sprintf("duplicate room id %q", r.ID)}}
		}
		seen[r.ID] = true
	}
	return nil
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return out
}

// ValidateDraft checks a generated room draft before it is applied.
func ValidateDraft(d RoomDraft) error {
	return wrapValidation(validatorInstance().Struct(d))
}
