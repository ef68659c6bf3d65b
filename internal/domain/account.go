package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	maxIdentityLen    = 128
	maxDisplayNameLen = 64
	displayNamePrefix = "Player_"

	// identity characters kept in a default display name
	displayNameIDChars = 6
)

// Account is a wallet-backed ledger account. Balance is in whole FLIP tokens.
type Account struct {
	ID          string    `json:"id"`
	Identity    string    `json:"identity"`
	DisplayName string    `json:"displayName"`
	Balance     int64     `json:"balance"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BalanceChange describes one applied delta.
type BalanceChange struct {
	Identity string `json:"identity"`
	Previous int64  `json:"previousBalance"`
	New      int64  `json:"balance"`
	Delta    int64  `json:"change"`
}

// NormalizeIdentity trims and lower-cases a wallet address.
func NormalizeIdentity(raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", fmt.Errorf("%w: identity is not valid UTF-8", ErrInvalidArgument)
	}

	id := strings.ToLower(strings.TrimSpace(raw))
	if id == "" {
		return "", fmt.Errorf("%w: identity is required", ErrInvalidArgument)
	}

	if len(id) > maxIdentityLen {
		return "", fmt.Errorf("%w: identity longer than %d characters", ErrInvalidArgument, maxIdentityLen)
	}

	if strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: identity must not contain whitespace", ErrInvalidArgument)
	}

	return id, nil
}

// DefaultDisplayName derives "Player_xxxxxx" from the first six characters of
// a normalized identity.
func DefaultDisplayName(identity string) string {
	prefix := []rune(identity)
	if len(prefix) > displayNameIDChars {
		prefix = prefix[:displayNameIDChars]
	}

	return displayNamePrefix + string(prefix)
}

// NormalizeDisplayName trims a user supplied display name. Empty input is allowed
// and means "keep the current one".
func NormalizeDisplayName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len([]rune(name)) > maxDisplayNameLen {
		return "", fmt.Errorf("%w: display name longer than %d characters", ErrInvalidArgument, maxDisplayNameLen)
	}

	return name, nil
}
