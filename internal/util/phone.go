package util

import "strings"

// CanonicalPhoneLength is the length of a canonical phone number:
// a leading "+" followed by 11 digits.
const CanonicalPhoneLength = 12

// CanonicalizePhone normalizes a phone number to the 12-character
// canonical form used as the user lookup key. Transports deliver shared
// contacts with or without the leading "+"; an 11-digit bare number gets
// one prefixed so both spellings resolve to the same user record.
func CanonicalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return phone
	}
	if len(phone) == CanonicalPhoneLength {
		return phone
	}
	if !strings.HasPrefix(phone, "+") {
		return "+" + phone
	}
	return phone
}
