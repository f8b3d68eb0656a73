package service

import "unicode/utf16"

// Identifier bounds accepted from clients.
const (
	MinIDLength     = 8
	MaxIDLength     = 512
	MinUserIDLength = 16
	MaxUserIDLength = 128
)

// IsValidID reports whether s is usable as a vault or message id:
// 8 to 512 printable ASCII characters.
func IsValidID(s string) bool {
	if len(s) < MinIDLength || len(s) > MaxIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// IsValidUserID reports whether s is usable as a user token: 16 to 128
// characters drawn from the base64 and base64url alphabets.
func IsValidUserID(s string) bool {
	if len(s) < MinUserIDLength || len(s) > MaxUserIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '+', c == '/', c == '=', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

// blobLength returns the length of blob in UTF-16 code units, the unit
// browser clients measure string length in. Characters outside the BMP
// count twice.
func blobLength(blob string) int {
	n := 0
	for _, r := range blob {
		n += utf16.RuneLen(r)
	}
	return n
}
