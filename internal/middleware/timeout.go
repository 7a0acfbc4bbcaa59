package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/guttosm/binpack-service/internal/domain/dto"
	"github.com/guttosm/binpack-service/internal/i18n"
)

// DefaultTimeout bounds a request when REQUEST_TIMEOUT is unset.
const DefaultTimeout = 30 * time.Second

// timeoutWriter serialises writes between the handler goroutine and the
// middleware. Once timedOut is set, handler writes are dropped.
type timeoutWriter struct {
	gin.ResponseWriter
	mu       sync.Mutex
	timedOut bool
}

func (w *timeoutWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.timedOut {
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *timeoutWriter) WriteHeaderNow() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.timedOut {
		w.ResponseWriter.WriteHeaderNow()
	}
}

func (w *timeoutWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	return w.ResponseWriter.Write(b)
}

func (w *timeoutWriter) WriteString(s string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	return w.ResponseWriter.WriteString(s)
}

// expire marks the writer timed out and reports whether the handler had not
// written anything yet.
func (w *timeoutWriter) expire() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ResponseWriter.Written() {
		return false
	}
	w.timedOut = true
	return true
}

// Timeout runs the rest of the chain with a deadline. When the deadline
// passes before the handler wrote anything, a 504 is sent at once and later
// handler writes are discarded. The middleware still waits for the handler
// goroutine before returning since it owns the gin context; handlers stop
// early by watching the request context.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		tw := &timeoutWriter{ResponseWriter: c.Writer}
		c.Writer = tw

		var panicked interface{}
		done := make(chan struct{})
		go func() {
			defer func() {
				panicked = recover()
				close(done)
			}()
			c.Next()
		}()

		respondTimeout := func() {
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) || !tw.expire() {
				return
			}
			message := i18n.GetTranslator().Translate(i18n.ErrKeyTimeout, i18n.GetLocale(c))
			r := render.JSON{Data: dto.NewError(dto.ErrCodeTimeout, message).WithRequestID(GetRequestID(c))}
			r.WriteContentType(tw.ResponseWriter)
			tw.ResponseWriter.WriteHeader(http.StatusGatewayTimeout)
			_ = r.Render(tw.ResponseWriter)
			tw.ResponseWriter.Flush()
		}

		select {
		case <-done:
		case <-ctx.Done():
			respondTimeout()
			<-done
		}
		// a handler that gave up on the deadline without writing
		respondTimeout()

		c.Writer = tw.ResponseWriter
		if panicked != nil {
			// rethrown so Recovery handles it on this goroutine
			panic(panicked)
		}
	}
}
