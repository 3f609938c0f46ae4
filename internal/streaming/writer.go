package streaming

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"localcast/internal/logging"
)

// DefaultIdleTimeout is how long a client may stop reading before the
// connection is dropped.
const DefaultIdleTimeout = 60 * time.Second

// IdleWriter wraps an http.ResponseWriter and pushes the connection's write
// deadline forward before every write. A client that keeps reading can stream
// for as long as it likes; one that stalls for IdleTimeout gets its
// connection closed by the server.
//
// The server runs with WriteTimeout 0, so without this a stalled player would
// hold a file descriptor and a goroutine until it went away on its own.
type IdleWriter struct {
	http.ResponseWriter
	rc          *http.ResponseController
	idleTimeout time.Duration

	mu           sync.Mutex
	deadlines    bool
	startTime    time.Time
	bytesWritten int64
}

// NewIdleWriter wraps w. A non-positive idleTimeout uses DefaultIdleTimeout.
func NewIdleWriter(w http.ResponseWriter, idleTimeout time.Duration) *IdleWriter {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &IdleWriter{
		ResponseWriter: w,
		rc:             http.NewResponseController(w),
		idleTimeout:    idleTimeout,
		deadlines:      true,
		startTime:      time.Now(),
	}
}

// Write extends the write deadline and forwards p.
func (iw *IdleWriter) Write(p []byte) (int, error) {
	iw.extendDeadline()

	n, err := iw.ResponseWriter.Write(p)

	iw.mu.Lock()
	iw.bytesWritten += int64(n)
	iw.mu.Unlock()
	return n, err
}

func (iw *IdleWriter) extendDeadline() {
	iw.mu.Lock()
	enabled := iw.deadlines
	iw.mu.Unlock()
	if !enabled {
		return
	}

	err := iw.rc.SetWriteDeadline(time.Now().Add(iw.idleTimeout))
	if err == nil {
		return
	}
	// Recorders and wrappers without Unwrap cannot take deadlines.
	if errors.Is(err, http.ErrNotSupported) {
		iw.mu.Lock()
		iw.deadlines = false
		iw.mu.Unlock()
		return
	}
	logging.Debug("set write deadline: %v", err)
}

// Flush implements http.Flusher.
func (iw *IdleWriter) Flush() {
	_ = iw.rc.Flush()
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (iw *IdleWriter) Unwrap() http.ResponseWriter {
	return iw.ResponseWriter
}

// DeadlinesSupported reports whether write deadlines reach the connection.
func (iw *IdleWriter) DeadlinesSupported() bool {
	iw.mu.Lock()
	defer iw.mu.Unlock()
	return iw.deadlines
}

// Stats returns streaming statistics
func (iw *IdleWriter) Stats() (bytesWritten int64, duration time.Duration) {
	iw.mu.Lock()
	defer iw.mu.Unlock()
	return iw.bytesWritten, time.Since(iw.startTime)
}
