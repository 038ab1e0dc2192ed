package policy

import (
	"fmt"
	"regexp"
	"time"

	"github.com/chr1sbest/rerun/internal/result"
)

// timeoutSignature matches the failure message written by MaxTime. The two
// sides must change together or timeout retries stop being detected.
var timeoutSignature = regexp.MustCompile(`Elapsed time of [0-9.,]*ms exceeds maximum of [0-9]*ms`)

// TimeoutMessage formats an elapsed-time failure message.
func TimeoutMessage(elapsed, limit time.Duration) string {
	elapsedMS := float64(elapsed) / float64(time.Millisecond)
	return fmt.Sprintf("Elapsed time of %.1fms exceeds maximum of %dms", elapsedMS, limit.Milliseconds())
}

// IsTimeoutMessage reports whether msg carries the elapsed-time signature.
func IsTimeoutMessage(msg string) bool {
	return timeoutSignature.MatchString(msg)
}

// IsTimeoutFailure reports whether res is a Failure caused by exceeding an
// elapsed-time limit.
func IsTimeoutFailure(res result.Result) bool {
	return res.IsFailure() && IsTimeoutMessage(res.Message)
}
