// Package supervisor starts or attaches to a CoreNLP server and keeps track of
// whether it answers health probes.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/getzep/corenlp/internal"
	"github.com/getzep/corenlp/pkg/httputil"
	"github.com/getzep/corenlp/pkg/models"
)

var log = internal.GetLogger()

const (
	DefaultLivenessDeadline = 120 * time.Second
	DefaultPollInterval     = time.Second
	DefaultStopGracePeriod  = 5 * time.Second
)

type Options struct {
	Endpoint  models.ServerEndpoint
	StartMode models.StartMode
	// Command and Args launch the server. An empty Command means the
	// supervisor never spawns anything.
	Command string
	Args    []string
	// Quiet discards the server's stdout and stderr instead of logging them.
	Quiet bool

	LivenessDeadline time.Duration
	PollInterval     time.Duration
	StopGracePeriod  time.Duration
	ProbeTimeout     time.Duration

	Username string
	Password string

	HTTPClient *http.Client
}

func (o *Options) setDefaults() {
	if o.StartMode == "" {
		o.StartMode = models.DefaultStartMode
	}
	if o.LivenessDeadline <= 0 {
		o.LivenessDeadline = DefaultLivenessDeadline
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.StopGracePeriod <= 0 {
		o.StopGracePeriod = DefaultStopGracePeriod
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = httputil.DefaultProbeTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = httputil.NewRetryableHTTPClient(0, o.ProbeTimeout, httputil.NoRetryPolicy)
	}
}

// Supervisor owns at most one server process. It is meant for a single
// caller; the mutex only protects against overlapping EnsureAlive and Stop.
type Supervisor struct {
	opts Options

	mu      sync.Mutex
	state   atomic.Int32
	proc    *process
	failure *models.PermanentlyFailedError
}

// permanentFailure carries the state a permanent error should leave behind.
type permanentFailure struct {
	state State
	err   *models.PermanentlyFailedError
}

func (f *permanentFailure) Error() string { return f.err.Error() }

func (f *permanentFailure) Unwrap() error { return f.err }

func New(opts Options) *Supervisor {
	opts.setDefaults()
	s := &Supervisor{opts: opts}
	s.setState(NotStarted)
	return s
}

func (s *Supervisor) State() State {
	return State(s.state.Load())
}

func (s *Supervisor) setState(st State) {
	old := State(s.state.Swap(int32(st)))
	if old != st {
		log.Debugf("corenlp supervisor %s: %s -> %s", s.opts.Endpoint, old, st)
	}
}

// IsActive reports whether the server was healthy at the last check.
func (s *Supervisor) IsActive() bool {
	return s.State() == Alive
}

// Spawned reports whether the supervisor currently owns a server process.
func (s *Supervisor) Spawned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc != nil
}

// Endpoint returns the server the supervisor probes.
func (s *Supervisor) Endpoint() models.ServerEndpoint {
	return s.opts.Endpoint
}

// EnsureAlive blocks until the server answers /ping, starting it first when
// the start mode allows. It returns a *models.PermanentlyFailedError when the
// server cannot become healthy; after that every call returns the same error
// until Stop. Cancelling ctx abandons the wait without recording a failure.
func (s *Supervisor) EnsureAlive(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != nil {
		return s.failure
	}

	if s.State() == Alive {
		err := s.Probe(ctx)
		if err == nil {
			return nil
		}
		log.Warnf("corenlp server at %s stopped answering, restarting: %v", s.opts.Endpoint, err)
		s.stopLocked()
	}

	return s.bringUp(ctx)
}

func (s *Supervisor) bringUp(ctx context.Context) error {
	started := time.Now()
	deadline := started.Add(s.opts.LivenessDeadline)

	if s.proc == nil && s.canSpawn() {
		if err := s.Probe(ctx); err == nil {
			log.Infof("attached to running corenlp server at %s", s.opts.Endpoint)
			s.setState(Alive)
			return nil
		}

		s.setState(Starting)
		if err := checkPortFree(s.opts.Endpoint.Address()); err != nil {
			if !s.opts.StartMode.Tolerant() {
				return s.fail(BindingFailed, "port is already in use", started, err)
			}
			log.Warnf("%v; not starting a server, waiting for the one already there", err)
		} else if err := s.spawn(); err != nil {
			return s.fail(ProcessExited, "server process could not be started", started, err)
		}
	}

	s.setState(Probing)
	err := s.poll(ctx, deadline)
	if err == nil {
		log.Infof("corenlp server at %s is alive after %s", s.opts.Endpoint, time.Since(started).Round(time.Millisecond))
		s.setState(Alive)
		return nil
	}

	var f *permanentFailure
	if errors.As(err, &f) {
		s.setState(f.state)
		s.failure = f.err
		log.Error(f.err)
		return f.err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(err, ctxErr) {
			return err
		}
		return fmt.Errorf("waiting for corenlp server at %s: %w", s.opts.Endpoint, ctxErr)
	}
	return s.fail(TimedOut, "liveness deadline exceeded", started, err)
}

func (s *Supervisor) canSpawn() bool {
	return s.opts.StartMode.CanStart() && s.opts.Command != ""
}

func (s *Supervisor) spawn() error {
	log.Infof("starting corenlp server: %s %v", s.opts.Command, s.opts.Args)
	p, err := startProcess(s.opts.Command, s.opts.Args, s.opts.Quiet)
	if err != nil {
		return err
	}
	s.proc = p
	log.Debugf("corenlp server pid %d", p.pid())
	return nil
}

// poll probes the server every PollInterval until it answers, the deadline
// passes, ctx is done, or, in strict mode, the owned process dies.
func (s *Supervisor) poll(ctx context.Context, deadline time.Time) error {
	started := deadline.Add(-s.opts.LivenessDeadline)

	policy := retrypolicy.Builder[any]().
		HandleErrors(models.ErrShouldRetry).
		WithDelay(s.opts.PollInterval).
		WithMaxRetries(-1).
		Build()

	return failsafe.NewExecutor[any](policy).WithContext(ctx).Run(func() error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("waiting for corenlp server at %s: %w", s.opts.Endpoint, err)
		}
		if !time.Now().Before(deadline) {
			return &permanentFailure{TimedOut, s.permanent("liveness deadline exceeded", started, nil)}
		}
		if s.proc != nil && !s.opts.StartMode.Tolerant() && s.proc.exited() {
			return &permanentFailure{ProcessExited, s.permanent(
				"server process exited before becoming healthy", started, s.proc.exitErr(),
			)}
		}

		probeCtx, cancel := context.WithDeadline(ctx, deadline)
		defer cancel()
		return s.Probe(probeCtx)
	})
}

// Probe issues a single GET /ping. Any failure is a *models.RetryableError.
func (s *Supervisor) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ProbeTimeout)
	defer cancel()

	url := s.opts.Endpoint.URL() + "/ping"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.NewRetryableError(url, err)
	}
	if s.opts.Username != "" {
		req.SetBasicAuth(s.opts.Username, s.opts.Password)
	}

	resp, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		return models.NewRetryableError(url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return models.NewRetryableError(url, fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

// Stop terminates the owned process, if any, and resets the supervisor so
// the next EnsureAlive starts from scratch. It is safe to call repeatedly.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Supervisor) stopLocked() {
	if s.proc != nil {
		s.setState(Stopping)
		log.Infof("stopping corenlp server pid %d", s.proc.pid())
		s.proc.terminate(s.opts.StopGracePeriod)
		s.proc = nil
	}
	s.failure = nil
	s.setState(Stopped)
}

func (s *Supervisor) permanent(reason string, started time.Time, err error) *models.PermanentlyFailedError {
	return models.NewPermanentlyFailedError(s.opts.Endpoint.String(), reason, time.Since(started), s.proc != nil, err)
}

func (s *Supervisor) fail(st State, reason string, started time.Time, err error) error {
	pfe := s.permanent(reason, started, err)
	s.setState(st)
	s.failure = pfe
	log.Error(pfe)
	return pfe
}
