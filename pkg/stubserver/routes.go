// Package stubserver is a small stand-in for the CoreNLP HTTP server. It
// tokenizes naively and answers /ping, annotation and pattern requests in the
// server's response shapes, which is enough to exercise the client without
// a JVM.
package stubserver

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/getzep/corenlp/internal"
)

var log = internal.GetLogger()

const (
	RouterName        = "corenlp-stub"
	ReadHeaderTimeout = 5 * time.Second
)

type Options struct {
	// FailFirstPings makes the first N /ping requests answer 503, as a
	// server still loading models would.
	FailFirstPings int64
	// Username and Password enable basic auth on every route.
	Username string
	Password string
}

type Server struct {
	opts     Options
	router   *chi.Mux
	pings    atomic.Int64
	requests atomic.Int64
}

func New(opts Options) *Server {
	s := &Server{opts: opts}
	s.router = s.setupRouter()
	return s
}

// Create wraps the stub in an *http.Server listening on port.
func (s *Server) Create(host string, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           s.router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Pings is the number of /ping requests served, including failed ones.
func (s *Server) Pings() int64 {
	return s.pings.Load()
}

// Requests is the number of annotation and pattern requests served.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) setupRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		httpLogger.Logger("router", log),
		middleware.Recoverer,
		middleware.RequestID,
		middleware.RealIP,
		SendVersion,
		otelchi.Middleware(
			RouterName,
			otelchi.WithChiRoutes(router),
			otelchi.WithRequestMethodInSpanName(true),
		),
	)
	if s.opts.Username != "" {
		router.Use(middleware.BasicAuth(RouterName, map[string]string{s.opts.Username: s.opts.Password}))
	}

	router.Get("/ping", s.PingHandler())
	router.Post("/", s.AnnotateHandler())
	router.Post("/tokensregex", s.TokensRegexHandler())
	router.Post("/semgrex", s.EmptyMatchHandler())
	router.Post("/tregex", s.EmptyMatchHandler())

	return router
}
