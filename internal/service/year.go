package service

import (
	"strconv"
	"strings"

	domainerrors "github.com/cropline/psdgate/internal/errors"
)

// ParseYear parses a year query value. Empty is zero, left to the
// required checks; anything non-numeric is a validation error.
func ParseYear(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return 0, domainerrors.ValidationWithDetails(
			"invalid parameters: "+field+" must be numeric",
			map[string]string{field: "must be numeric"},
		)
	}
	return year, nil
}
