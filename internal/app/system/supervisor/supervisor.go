// internal/app/system/supervisor/supervisor.go
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/terragon/internal/app/system/metrics"
	"github.com/dalemusser/terragon/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is the connection supervisor's lifecycle state.
type State string

const (
	Disconnected   State = "DISCONNECTED"
	Provisioning   State = "PROVISIONING"
	Authenticating State = "AUTHENTICATING"
	Live           State = "LIVE"
)

var allStates = []string{string(Disconnected), string(Provisioning), string(Authenticating), string(Live)}

// Session is a provisioned datastore session with one probe per collection.
type Session interface {
	Probes() map[string]func(context.Context) error
	Ready(ctx context.Context) error
	Close(ctx context.Context) error
}

// Provisioner builds a new session. It is the only place store clients are created.
type Provisioner interface {
	Provision(ctx context.Context) (Session, error)
}

// ProvisionFunc adapts a function to Provisioner.
type ProvisionFunc func(ctx context.Context) (Session, error)

func (f ProvisionFunc) Provision(ctx context.Context) (Session, error) { return f(ctx) }

// Config controls the supervisor loop.
type Config struct {
	Addr              string        // listener bind address, e.g. ":3000"
	BootstrapInterval time.Duration // how often to provision when no session exists
	LivenessInterval  time.Duration // how often to probe the session
}

// Status is a snapshot of the supervisor.
type Status struct {
	State     State     `json:"state"`
	Addr      string    `json:"addr,omitempty"`
	Since     time.Time `json:"since"`
	LastError string    `json:"last_error,omitempty"`
}

// Supervisor owns the datastore session and the public listener. The listener
// is bound only while the session is LIVE.
type Supervisor struct {
	cfg   Config
	prov  Provisioner
	build func(Session) http.Handler
	log   *zap.Logger

	mu      sync.Mutex
	state   State
	since   time.Time
	lastErr error
	session Session
	srv     *http.Server
	addr    string

	evaluating atomic.Bool

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup // loop and liveness evaluations
	serving   sync.WaitGroup // listener goroutines
}

// New creates a Supervisor. build turns a live session into the HTTP handler
// served by the listener.
func New(cfg Config, prov Provisioner, build func(Session) http.Handler, logger *zap.Logger) *Supervisor {
	if cfg.BootstrapInterval <= 0 {
		cfg.BootstrapInterval = 5 * time.Second
	}
	if cfg.LivenessInterval <= 0 {
		cfg.LivenessInterval = 5 * time.Second
	}
	s := &Supervisor{
		cfg:    cfg,
		prov:   prov,
		build:  build,
		log:    logger,
		stopCh: make(chan struct{}),
	}
	s.setState(Disconnected, nil)
	return s
}

// Start launches the supervisor loop. It returns immediately.
func (s *Supervisor) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.run(ctx)
		s.log.Info("connection supervisor started",
			zap.String("addr", s.cfg.Addr),
			zap.Duration("bootstrap_interval", s.cfg.BootstrapInterval),
			zap.Duration("liveness_interval", s.cfg.LivenessInterval))
	})
}

// Stop ends the loop, stops the listener and closes the session.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()

	s.mu.Lock()
	srv, sess := s.srv, s.session
	s.srv, s.session, s.addr = nil, nil, ""
	s.mu.Unlock()

	var errs []error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("listener shutdown: %w", err))
		}
	}
	s.serving.Wait()
	if sess != nil {
		if err := sess.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("session close: %w", err))
		}
	}
	s.setState(Disconnected, nil)
	s.log.Info("connection supervisor stopped")
	return errors.Join(errs...)
}

// Status returns the current state snapshot.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{State: s.state, Addr: s.addr, Since: s.since}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Supervisor) run(ctx context.Context) {
	defer s.wg.Done()

	bootstrap := time.NewTicker(s.cfg.BootstrapInterval)
	defer bootstrap.Stop()
	liveness := time.NewTicker(s.cfg.LivenessInterval)
	defer liveness.Stop()

	s.bootstrap(ctx)

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-bootstrap.C:
			s.bootstrap(ctx)
		case <-liveness.C:
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.evaluate(ctx)
			}()
		}
	}
}

// bootstrap provisions a session if none exists.
func (s *Supervisor) bootstrap(ctx context.Context) {
	s.mu.Lock()
	if s.session != nil {
		s.mu.Unlock()
		return
	}
	s.setStateLocked(Provisioning, nil)
	s.mu.Unlock()

	start := time.Now()
	sess, err := s.prov.Provision(ctx)
	if err != nil {
		metrics.ObserveProvision("error", time.Since(start))
		s.log.Warn("datastore provisioning failed", zap.Error(err))
		s.setState(Disconnected, err)
		return
	}
	metrics.ObserveProvision("ok", time.Since(start))

	s.mu.Lock()
	s.session = sess
	s.setStateLocked(Authenticating, nil)
	s.mu.Unlock()
	s.log.Info("datastore session provisioned", zap.Duration("took", time.Since(start)))
}

// evaluate probes every collection at once. Only one evaluation runs at a
// time; a tick that arrives while one is in flight is dropped.
func (s *Supervisor) evaluate(ctx context.Context) {
	if !s.evaluating.CompareAndSwap(false, true) {
		s.log.Debug("liveness evaluation in flight; tick ignored")
		return
	}
	defer s.evaluating.Store(false)

	s.mu.Lock()
	sess, running := s.session, s.srv != nil
	s.mu.Unlock()
	if sess == nil {
		return
	}

	if err := probeAll(ctx, sess); err != nil {
		s.fail(sess, fmt.Errorf("liveness: %w", err))
		return
	}
	if running {
		return
	}

	rctx, cancel := context.WithTimeout(ctx, timeouts.Probe())
	err := sess.Ready(rctx)
	cancel()
	if err != nil {
		s.fail(sess, fmt.Errorf("readiness: %w", err))
		return
	}

	if err := s.listen(sess); err != nil {
		s.fail(sess, fmt.Errorf("listen: %w", err))
	}
}

func probeAll(ctx context.Context, sess Session) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Probe())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for name, probe := range sess.Probes() {
		g.Go(func() error {
			if err := probe(gctx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Supervisor) listen(sess Session) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.build(sess),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	if s.session != sess {
		s.mu.Unlock()
		_ = ln.Close()
		return errors.New("session replaced during listener start")
	}
	s.srv = srv
	s.addr = ln.Addr().String()
	s.setStateLocked(Live, nil)
	s.mu.Unlock()

	s.serving.Add(1)
	go func() {
		defer s.serving.Done()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("listener stopped unexpectedly", zap.Error(err))
		}
	}()

	s.log.Info("listener started", zap.String("addr", ln.Addr().String()))
	return nil
}

// fail stops the listener and drops the session so the next bootstrap tick
// provisions a fresh one.
func (s *Supervisor) fail(sess Session, cause error) {
	metrics.IncLivenessFailure()

	s.mu.Lock()
	srv := s.srv
	s.srv, s.addr = nil, ""
	if s.session == sess {
		s.session = nil
		s.setStateLocked(Disconnected, cause)
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown())
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.log.Warn("listener shutdown failed", zap.Error(err))
		}
		s.log.Info("listener stopped")
	}
	if err := sess.Close(ctx); err != nil {
		s.log.Warn("session close failed", zap.Error(err))
	}
	s.log.Warn("datastore session lost", zap.Error(cause))
}

func (s *Supervisor) setState(st State, err error) {
	s.mu.Lock()
	s.setStateLocked(st, err)
	s.mu.Unlock()
}

// setStateLocked requires s.mu.
func (s *Supervisor) setStateLocked(st State, err error) {
	if s.state != st {
		s.since = time.Now()
	}
	s.state = st
	if err != nil {
		s.lastErr = err
	} else if st == Live {
		s.lastErr = nil
	}
	metrics.SetSupervisorState(string(st), allStates)
}
