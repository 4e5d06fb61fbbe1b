package fetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"go.trai.ch/jarl/internal/core/domain"
)

// verdict is the outcome of a single candidate attempt.
type verdict int

const (
	// verdictOK means the candidate produced usable bytes.
	verdictOK verdict = iota
	// verdictNext means the candidate is unusable; try the next one.
	verdictNext
	// verdictFatal means the whole fetch must be aborted.
	verdictFatal
)

// classifyTransport maps an error from the request/connect phase. Connect
// timeouts, unknown hosts and other transport failures are per-candidate
// conditions; a cancelled context aborts the fetch.
func classifyTransport(err error) (verdict, domain.LogLevel, string) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return verdictFatal, domain.LogLevelDebug, "cancelled"
	case isDNSError(err):
		return verdictNext, domain.LogLevelDebug, "unknown host"
	case isTimeout(err):
		return verdictNext, domain.LogLevelDebug, "connect timed out"
	default:
		return verdictNext, domain.LogLevelDebug, "unexpected transport error"
	}
}

// classifyStatus maps a non-200 response. A 404 is the common miss when
// probing repositories that simply do not carry the artifact.
func classifyStatus(code int) (verdict, domain.LogLevel, string) {
	if code == http.StatusNotFound {
		return verdictNext, domain.LogLevelDebug, "file not found"
	}
	return verdictNext, domain.LogLevelDebug, "unexpected status " + strconv.Itoa(code)
}

// classifyRead maps an error reading the response body. A stall after a
// successful connect is reported at warn level because bytes were already
// flowing; everything else demotes to debug like the connect phase.
func classifyRead(err error) (verdict, domain.LogLevel, string) {
	switch {
	case errors.Is(err, errStalled):
		return verdictNext, domain.LogLevelWarn, "download timed out"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return verdictFatal, domain.LogLevelDebug, "cancelled"
	case isTimeout(err):
		return verdictNext, domain.LogLevelWarn, "download timed out"
	default:
		return verdictNext, domain.LogLevelDebug, "unexpected read error"
	}
}

func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func isDNSError(err error) bool {
	var derr *net.DNSError
	return errors.As(err, &derr)
}
