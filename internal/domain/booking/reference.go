package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Alphabet without 0/O/1/I to keep references unambiguous when read aloud.
const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const referenceSuffixLen = 4

// GenerateReference creates a human-readable booking reference such as
// "FL250829143002-K7PQ": mode prefix, UTC timestamp, random suffix. The
// caller must still check the result against the store before accepting it;
// the suffix only makes same-second collisions unlikely, not impossible.
func GenerateReference(mode Mode) (string, error) {
	prefix, ok := referencePrefixes[mode]
	if !ok {
		return "", fmt.Errorf("invalid booking mode: %s", mode)
	}

	suffix := make([]byte, referenceSuffixLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		suffix[i] = referenceChars[n.Int64()]
	}

	stamp := time.Now().UTC().Format("060102150405")
	return fmt.Sprintf("%s%s-%s", prefix, stamp, suffix), nil
}
