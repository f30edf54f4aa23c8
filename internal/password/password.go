// Package password implements the account password strength policy.
package password

// MinLength is the minimum accepted password length.
const MinLength = 8

// specials is the fixed set of accepted special characters.
const specials = "@$!%*?&"

// IsStrong reports whether a candidate password satisfies the policy:
// at least MinLength characters, at least one lowercase letter, one uppercase
// letter, one digit, and one special character, with every character drawn
// from letters, digits, and the special set. Pure and deterministic.
func IsStrong(candidate string) bool {
	if len(candidate) < MinLength {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range candidate {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case isSpecial(r):
			special = true
		default:
			// Character outside the allowed alphabet.
			return false
		}
	}
	return lower && upper && digit && special
}

func isSpecial(r rune) bool {
	for _, s := range specials {
		if r == s {
			return true
		}
	}
	return false
}
