package service

import (
	"regexp"
	"strings"

	"github.com/toorogadgets/toorogadgets-storefront-service/internal/errs"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

// ugandaMobilePattern accepts Ugandan mobile numbers: +256 or a leading 0,
// then 7 and eight more digits. Whitespace is stripped before matching.
var ugandaMobilePattern = regexp.MustCompile(`^(\+256|0)7\d{8}$`)

// ValidPhone reports whether the phone number is a valid Ugandan mobile
// number after whitespace stripping.
func ValidPhone(phone string) bool {
	return ugandaMobilePattern.MatchString(models.CleanPhone(phone))
}

// ValidateContact checks the checkout info fields. Returns nil when all
// pass, otherwise a FieldErrors with one inline message per failing field.
func ValidateContact(name, phone, location string) error {
	fieldErrors := make(errs.FieldErrors)

	if strings.TrimSpace(name) == "" {
		fieldErrors["name"] = "Please enter your name"
	}
	if !ValidPhone(phone) {
		fieldErrors["phone"] = "Please enter a valid phone number (e.g. 0701234567)"
	}
	if strings.TrimSpace(location) == "" {
		fieldErrors["location"] = "Please enter your location"
	}

	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// ValidateChatIdentity checks the chat bootstrap fields. Location is not
// collected for chat.
func ValidateChatIdentity(name, phone string) error {
	fieldErrors := make(errs.FieldErrors)

	if strings.TrimSpace(name) == "" {
		fieldErrors["name"] = "Please enter your name"
	}
	if !ValidPhone(phone) {
		fieldErrors["phone"] = "Please enter a valid phone number (e.g. 0701234567)"
	}

	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}
