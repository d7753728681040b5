package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "calbook/pkg/errors"
	apphttp "calbook/pkg/http"
)

// timeoutWriter wraps http.ResponseWriter to prevent writes after timeout.
// Headers are staged in h and only copied to the real writer on the first
// write, so a late handler cannot touch the map the timeout response uses.
type timeoutWriter struct {
	w          http.ResponseWriter
	h          http.Header
	mu         sync.Mutex
	timedOut   bool
	written    bool
	statusCode int
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.h
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) writeHeaderLocked(code int) {
	if tw.timedOut || tw.written {
		return
	}

	dst := tw.w.Header()
	for k, v := range tw.h {
		dst[k] = v
	}
	tw.statusCode = code
	tw.written = true
	tw.w.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}

	if !tw.written {
		tw.writeHeaderLocked(http.StatusOK)
	}

	return tw.w.Write(b)
}

// RequestTimeout cancels the request context after timeout and answers 503
// unless the handler already started writing. A panic in the handler is
// re-raised on the serving goroutine so Recovery can handle it.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			tw := &timeoutWriter{
				w: w,
				h: make(http.Header),
			}

			done := make(chan struct{})
			panicChan := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicChan <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicChan:
				panic(p)
			case <-done:
				return
			case <-ctx.Done():
				tw.mu.Lock()
				if !tw.written {
					tw.timedOut = true
					tw.written = true
					_ = apphttp.WriteError(w, apperrors.Timeout("Request timeout"))
					tw.mu.Unlock()
					return
				}
				tw.mu.Unlock()

				// The handler already committed a response; let it finish
				// rather than abandon a half-written body.
				select {
				case p := <-panicChan:
					panic(p)
				case <-done:
				}
			}
		})
	}
}
