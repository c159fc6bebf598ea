package scraper

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashPrefixLength bounds how much of the entry text feeds the fingerprint.
const hashPrefixLength = 200

// EntryHash returns the dedup fingerprint for an entry: hex SHA-256 over
// the first 200 characters of the combined text joined with the entry's
// canonical URL. Stable across runs for identical input.
func EntryHash(text, url string) string {
	runes := []rune(text)
	if len(runes) > hashPrefixLength {
		runes = runes[:hashPrefixLength]
	}

	sum := sha256.Sum256([]byte(string(runes) + "_" + url))
	return hex.EncodeToString(sum[:])
}
