package alarm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// Status code colours used by the request logger.
var (
	informationalColor = color.New(color.FgBlue)
	successColor       = color.New(color.FgGreen)
	redirectColor      = color.New(color.FgCyan)
	clientErrorColor   = color.New(color.FgYellow)
	serverErrorColor   = color.New(color.FgRed)
)

// RequestLogger logs one line per request with a coloured status code.
// The request context carries a logger scoped with the request id.
func RequestLogger(base context.Context) func(next http.Handler) http.Handler {
	baseLogger := logger.FromContext(base)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.ToContext(r.Context(), baseLogger)
			ctx = logger.WithKV(ctx, "request_id", middleware.GetReqID(r.Context()))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			defer func() {
				logger.InfoKV(ctx, fmt.Sprintf("%s %s - %s", r.Method, r.RequestURI, colorStatus(ww.Status())),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(started))
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}

// colorStatus renders the status code in the colour of its class.
func colorStatus(code int) string {
	if code == 0 {
		code = http.StatusOK
	}

	switch {
	case code < http.StatusOK:
		return informationalColor.Sprintf("%03d", code)
	case code < http.StatusMultipleChoices:
		return successColor.Sprintf("%03d", code)
	case code < http.StatusBadRequest:
		return redirectColor.Sprintf("%03d", code)
	case code < http.StatusInternalServerError:
		return clientErrorColor.Sprintf("%03d", code)
	default:
		return serverErrorColor.Sprintf("%03d", code)
	}
}
