package redis

import "fmt"

const (
	// KeyDedupLinks is a hash of normalized link -> title.
	KeyDedupLinks = "pnp:dedup:links"
	// KeyDedupPairs is a hash of normalized (title, category) -> title.
	KeyDedupPairs = "pnp:dedup:pairs"
	// KeyRecentSubmissions lists submission IDs, newest first.
	KeyRecentSubmissions = "pnp:submissions:recent"
	// KeyPrefixSubmission is the prefix for stored submission records.
	KeyPrefixSubmission = "pnp:submission:"
)

// SubmissionKey returns the Redis key for a submission record by ID.
func SubmissionKey(id string) string {
	return KeyPrefixSubmission + id
}

// ExtractSubmissionID extracts the submission ID from a Redis key.
func ExtractSubmissionID(key string) (string, error) {
	if len(key) <= len(KeyPrefixSubmission) || key[:len(KeyPrefixSubmission)] != KeyPrefixSubmission {
		return "", fmt.Errorf("invalid submission key: %s", key)
	}
	return key[len(KeyPrefixSubmission):], nil
}
