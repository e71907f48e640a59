package middlewares

import (
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/google/uuid"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

// RequestLogger tags every request with an id and writes one access log line
// per response.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(helpers.WithRequestID(r.Context(), id)))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		zap.S().Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.size,
			"duration", time.Since(start),
			"request_id", id,
		)
	})
}

// Recoverer turns a panic into a 500 response.
func Recoverer(rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					zap.S().Errorw("panic while serving request",
						"path", r.URL.Path,
						"panic", rec,
						"request_id", helpers.RequestIDFrom(r.Context()),
					)
					rnd.JSON(w, http.StatusInternalServerError, map[string]string{"detail": "A server error occurred."})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// MethodOverrideMiddleware lets urlencoded forms send PUT and DELETE through a
// _method field.
func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if r.Method == http.MethodPost && mediaType == "application/x-www-form-urlencoded" {
			_ = r.ParseForm()
			switch override := strings.ToUpper(r.PostForm.Get("_method")); override {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = override
			}
		}
		next.ServeHTTP(w, r)
	})
}
