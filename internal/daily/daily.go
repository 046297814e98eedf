// internal/daily/daily.go
//
// Daily Challenge secret.
// Responsibilities:
//   - Derive a deterministic seed from HMAC-SHA256(salt, YYYY-MM-DD).
//   - Turn that seed into the day's secret.
//
// Notes:
//   - Everyone playing on the same UTC date faces the same secret; it cannot be
//     predicted without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/joannatufkova/mindset/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns HMAC-SHA256(salt, DateKey(date)).
func Seed(date time.Time, salt string) [32]byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	var seed [32]byte
	copy(seed[:], h.Sum(nil))
	return seed
}

// Secret returns the daily secret for date.
func Secret(date time.Time, salt string) game.Secret {
	return game.NewSeededGenerator(Seed(date, salt)).Secret()
}
