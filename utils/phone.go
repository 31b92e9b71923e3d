package utils

import (
	"regexp"
	"strings"
)

var indianMobile = regexp.MustCompile(`^(?:\+?91)?([6-9][0-9]{9})$`)

// ValidatePhoneNumber accepts a 10-digit Indian mobile, optionally prefixed with 91 or +91.
func ValidatePhoneNumber(phone string) bool {
	return indianMobile.MatchString(strings.TrimSpace(phone))
}

// NormalizePhone returns phone in +91XXXXXXXXXX form, or "" when it is not an Indian mobile.
func NormalizePhone(phone string) string {
	m := indianMobile.FindStringSubmatch(strings.TrimSpace(phone))
	if m == nil {
		return ""
	}
	return "+91" + m[1]
}

// LocalMobile returns the 10-digit form used on bookings, or "".
func LocalMobile(phone string) string {
	m := indianMobile.FindStringSubmatch(strings.TrimSpace(phone))
	if m == nil {
		return ""
	}
	return m[1]
}
