/*
Package randx generates identifiers: connection ids, volunteer badge ids and storage object keys.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const (
	// Base36Chars is the alphabet used for human-facing identifiers.
	Base36Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// VolunteerIDPrefix is the prefix that login uses to recognise a volunteer identifier.
	VolunteerIDPrefix = "VOL"

	// VolunteerIDRawLength is the length of the random part of a volunteer id.
	VolunteerIDRawLength = 6
)

// ConnectionID returns a fresh, never reused identifier for a live connection.
func ConnectionID() string {
	return uuid.NewString()
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// ObjectKey builds a storage key "<prefix>/<ulid><ext>". Keys under one prefix sort by
// creation time.
func ObjectKey(prefix, ext string) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyMu.Unlock()

	return fmt.Sprintf("%s/%s%s", prefix, strings.ToLower(id.String()), strings.ToLower(ext))
}

// VolunteerID generates a badge id such as "VOL7K2Q9Z" using crypto/rand.
func VolunteerID() (string, error) {
	result := make([]byte, VolunteerIDRawLength)
	alphabet := big.NewInt(int64(len(Base36Chars)))

	for i := range result {
		n, err := rand.Int(rand.Reader, alphabet)
		if err != nil {
			return "", fmt.Errorf("failed to generate volunteer id: %w", err)
		}
		result[i] = Base36Chars[n.Int64()]
	}

	return VolunteerIDPrefix + string(result), nil
}

// IsVolunteerID reports whether identifier looks like a volunteer badge id.
func IsVolunteerID(identifier string) bool {
	return strings.HasPrefix(identifier, VolunteerIDPrefix)
}
