package checkout

import (
	"net/url"
	"strings"
	"unicode"
)

const handoffBase = "https://wa.me/"

// BuildHandoffLink returns the wa.me deep link that opens a chat with phone
// prefilled with message. Everything but digits is dropped from phone.
func BuildHandoffLink(phone, message string) string {
	return handoffBase + PhoneDigits(phone) + "?text=" + EncodeText(message)
}

// PhoneDigits keeps only the ASCII digits of phone.
func PhoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// EncodeText percent-encodes s for a query value, spaces as %20.
func EncodeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
