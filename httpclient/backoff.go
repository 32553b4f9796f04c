package httpclient

import (
	"math"
	"math/rand/v2"
	"strconv"
	"time"
)

// computeBackoff returns min(max, base * 2^attempt), where attempt is the
// zero-based count of prior failed attempts for this logical request.
func computeBackoff(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	backoff := float64(base) * math.Pow(2, float64(attempt))
	if backoff >= float64(max) {
		return max
	}
	return time.Duration(backoff)
}

// fullJitter draws a uniformly random duration from [0, max]. Spreading
// retries over the whole window decorrelates callers that hit the same
// limit at the same time.
func fullJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max) + 1))
}

// parseRetryAfter interprets a Retry-After header value as an integer count
// of seconds. HTTP-dates and negative or malformed values are rejected, in
// which case the computed backoff applies instead.
func parseRetryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
