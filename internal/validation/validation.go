package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	defaultOnce sync.Once
	defaultV    *validator.Validate
)

// Default returns the process-wide validator with all custom tags registered.
func Default() *validator.Validate {
	defaultOnce.Do(func() {
		defaultV = New()
	})
	return defaultV
}

// New creates a validator with the custom tags used across the SDK.
func New() *validator.Validate {
	v := validator.New()
	if err := Register(v, "roomname", ValidateRoomName); err != nil {
		panic(err)
	}
	RegisterAlias(v, "membername", "omitempty,alphanum|alphanumunicode,max=64")
	RegisterAlias(v, "topology", "oneof=p2p routed")
	return v
}

// Struct validates a struct using the default validator.
func Struct(s any) error {
	return Default().Struct(s)
}

func Register(v *validator.Validate, tag string, fn validator.Func) error {
	return v.RegisterValidation(tag, fn)
}

func RegisterAlias(v *validator.Validate, tag string, alias string) {
	v.RegisterAlias(tag, alias)
}

// Error represents a single field validation failure
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func FormatValidationError(err error) []Error {
	var errors []Error
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors = append(errors, Error{
				Field:   e.Field(),
				Message: e.Error(),
			})
		}
	}

	return errors
}
