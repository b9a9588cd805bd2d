package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var roomNameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,64}$`)

// ValidateRoomName validates room name format: 3-64 characters, alphanumeric with hyphens and underscores
func ValidateRoomName(fl validator.FieldLevel) bool {
	return roomNameRegex.MatchString(fl.Field().String())
}
