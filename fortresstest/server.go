package fortresstest

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/fortressguard/fortress/config"
)

// Server is a Stub listening on a local httptest server.
type Server struct {
	*httptest.Server
	*Stub
}

// NewServer starts a Stub. Callers must Close it.
func NewServer(opts ...Option) *Server {
	stub := New(opts...)
	return &Server{
		Server: httptest.NewServer(stub),
		Stub:   stub,
	}
}

// APIConfig points an APIConfig at the server under version v1.
func (s *Server) APIConfig(timeout time.Duration) config.APIConfig {
	return config.NewAPIConfig(s.URL, "v1", timeout)
}

// RespondJSON answers every request with status and body encoded as JSON.
func RespondJSON(status int, body any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

// RespondRaw answers with status and a verbatim body.
func RespondRaw(status int, contentType, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

// Hang never answers: it blocks until the client goes away or release is
// closed.
func Hang(release <-chan struct{}) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
}

// Gate waits for a value on gate before delegating to next. It lets tests
// control the order in which concurrent responses complete.
func Gate(gate <-chan struct{}, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-gate:
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
		}
	})
}
