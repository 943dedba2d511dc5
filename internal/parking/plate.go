package parking

import (
	"regexp"
	"strings"
)

var platePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{0,30}$`)

// NormalizePlate обрезает пробелы и переводит номер в верхний регистр.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// ValidatePlate нормализует номер и проверяет его формат.
func ValidatePlate(plate string) (string, error) {
	n := NormalizePlate(plate)
	if n == "" {
		return "", Validationf("license plate is required")
	}
	if !plateAllowed(n) {
		return "", Validationf("license plate %q has invalid characters", plate)
	}
	return n, nil
}

func plateAllowed(plate string) bool {
	return platePattern.MatchString(plate)
}
