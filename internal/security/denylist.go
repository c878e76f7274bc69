package security

import "strings"

// Passwords that show up on every breached-credential list. Rejected outright
// at signup even when they satisfy the composition rules.
var commonPasswords = map[string]struct{}{
	"Password123!":  {},
	"Admin123!":     {},
	"Welcome@123":   {},
	"Qwerty2024!":   {},
	"StrongPass1!":  {},
	"SuperSecure2#": {},
	"TestUser3@":    {},
	"MyPass2025$":   {},
	"SecureMe4%":    {},
	"AlphaBeta5!":   {},
	"HelloWorld6*":  {},
	"LetMeIn7!":     {},
	"TrustNo18@":    {},
	"Freedom2023!":  {},
	"Football9#":    {},
	"DragonFire0!":  {},
	"MasterKey1#":   {},
	"MonkeyPass2@":  {},
	"StarWars3!":    {},
	"BaseBall4$":    {},
}

// Disposable-email providers blocked at signup.
var blockedEmailDomains = map[string]struct{}{
	"tempmail.com":      {},
	"throwaway.com":     {},
	"10minutemail.com":  {},
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"dispostable.com":   {},
	"maildrop.cc":       {},
	"fakeinbox.com":     {},
	"temp-mail.org":     {},
	"yopmail.com":       {},
	"getnada.com":       {},
	"trashmail.com":     {},
	"mintemail.com":     {},
	"emailondeck.com":   {},
	"temp-mail.io":      {},
	"mailcatch.com":     {},
	"spamgourmet.com":   {},
	"mailnesia.com":     {},
}

func IsCommonPassword(password string) bool {
	_, ok := commonPasswords[password]
	return ok
}

func IsBlockedEmailDomain(email string) bool {
	_, domain, found := strings.Cut(email, "@")

	if !found {
		return false
	}

	_, ok := blockedEmailDomains[strings.ToLower(domain)]
	return ok
}
