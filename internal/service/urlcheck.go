package service

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Payphone-Digital/shortlink/internal/constants"
	apperrors "github.com/Payphone-Digital/shortlink/internal/errors"
)

var (
	destinationPattern = regexp.MustCompile(`(?i)` + constants.DestinationURLPattern)
	customCodePattern  = regexp.MustCompile(constants.CustomURLPattern)
)

// EnsureScheme prepends https:// unless raw already starts with http:// or https://.
func EnsureScheme(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// NormalizeDestination trims raw, ensures a scheme and checks the result is an
// absolute http(s) URL with a dotted host.
func NormalizeDestination(raw string) (string, error) {
	candidate := EnsureScheme(strings.TrimSpace(raw))
	if err := ValidateDestination(candidate); err != nil {
		return "", err
	}
	return candidate, nil
}

// ValidateDestination checks an already normalized URL.
func ValidateDestination(candidate string) error {
	if candidate == "" || len(candidate) > constants.MaxURLLength {
		return apperrors.ErrValidation
	}

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Host == "" || parsed.Hostname() == "" {
		return apperrors.ErrValidation
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return apperrors.ErrValidation
	}

	if !destinationPattern.MatchString(candidate) {
		return apperrors.ErrValidation
	}
	return nil
}

// ValidateCustomCode checks charset, length and reserved route names.
func ValidateCustomCode(code string) error {
	if len(code) < constants.MinCustomURL || len(code) > constants.MaxCustomURL || !customCodePattern.MatchString(code) {
		return apperrors.WithMessage(apperrors.ErrValidation, constants.MsgInvalidCustomURL)
	}
	for _, reserved := range constants.ReservedShortCodes {
		if strings.EqualFold(code, reserved) {
			return apperrors.WithMessage(apperrors.ErrValidation, constants.MsgReservedCustomURL)
		}
	}
	return nil
}
