package hunter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/loykin/vmhuntr/internal/compute"
	"github.com/loykin/vmhuntr/internal/config"
	"github.com/loykin/vmhuntr/internal/metrics"
)

// logCapacity bounds the in-memory log; oldest entries are dropped first.
const logCapacity = 500

var (
	ErrAlreadyRunning = errors.New("already running")
	ErrNotRunning     = errors.New("not running")
)

// Launcher is the per-zone attempt operation the loop drives.
// *compute.Launcher satisfies it; tests script outcomes directly.
type Launcher interface {
	Attempt(ctx context.Context, domain string) compute.Outcome
}

// Options configures a Hunter. Zero values fall back to production defaults.
type Options struct {
	// ResultFile is where the success record is written. Defaults to
	// DefaultResultFile in the working directory.
	ResultFile string
	// Logger mirrors every ring entry. Defaults to slog.Default().
	Logger *slog.Logger
	// LoadConfig supplies the run's configuration snapshot. Defaults to
	// config.FromEnv; each Start reloads it.
	LoadConfig func() *config.Config
	// NewLauncher builds the provisioning adapter for a run. Defaults to
	// compute.NewLauncher.
	NewLauncher func(*config.Config) (Launcher, error)
	// WaitTick is the granularity of the inter-sweep wait. One second in
	// production; tests shrink it.
	WaitTick time.Duration
}

// Hunter owns all mutable state of a capacity hunt: the background loop, the
// attempt counter, the status string, the bounded log, and the result of a
// successful launch. One Hunter supports one active run at a time; HTTP
// handlers read snapshots under the same mutex the loop writes under.
type Hunter struct {
	mu            sync.Mutex
	running       bool
	stopRequested bool
	attempt       int
	lastStatus    string
	logs          *logRing
	created       bool
	details       *compute.InstanceDetails
	cancel        context.CancelFunc
	done          chan struct{}

	resultFile  string
	logger      *slog.Logger
	loadConfig  func() *config.Config
	newLauncher func(*config.Config) (Launcher, error)
	waitTick    time.Duration
}

// New constructs an idle Hunter.
func New(opts Options) *Hunter {
	h := &Hunter{
		lastStatus:  "Idle",
		logs:        newLogRing(logCapacity),
		resultFile:  opts.ResultFile,
		logger:      opts.Logger,
		loadConfig:  opts.LoadConfig,
		newLauncher: opts.NewLauncher,
		waitTick:    opts.WaitTick,
	}
	if h.resultFile == "" {
		h.resultFile = DefaultResultFile
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.loadConfig == nil {
		h.loadConfig = config.FromEnv
	}
	if h.newLauncher == nil {
		h.newLauncher = func(c *config.Config) (Launcher, error) {
			return compute.NewLauncher(c)
		}
	}
	if h.waitTick <= 0 {
		h.waitTick = time.Second
	}
	return h
}

// Start resets all run-scoped state and launches the hunt loop in a new
// goroutine. It fails with ErrAlreadyRunning if a run is active; the running
// run's counters and logs are left untouched in that case.
func (h *Hunter) Start() error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return ErrAlreadyRunning
	}
	h.running = true
	h.stopRequested = false
	h.created = false
	h.details = nil
	h.attempt = 0
	h.logs.Reset()
	h.lastStatus = "Starting..."
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	done := make(chan struct{})
	h.done = done
	h.mu.Unlock()

	go func() {
		defer close(done)
		h.run(ctx)
	}()
	return nil
}

// Stop requests cooperative termination. The loop observes the flag before
// each zone attempt and between wait ticks; an in-flight launch call is not
// interrupted. Fails with ErrNotRunning when idle, leaving the flag as-is.
func (h *Hunter) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return ErrNotRunning
	}
	h.stopRequested = true
	h.appendLocked("Stop requested...", LevelInfo)
	return nil
}

// Shutdown stops the loop for process exit: the stop flag is set, the run
// context is canceled, and we wait for the goroutine up to the context
// deadline. The loop may not reach a clean terminal log line.
func (h *Hunter) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return nil
	}
	h.stopRequested = true
	cancel := h.cancel
	done := h.done
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether a run is active.
func (h *Hunter) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Status returns the full snapshot for the status endpoint.
func (h *Hunter) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Status{
		IsRunning:      h.running,
		CurrentAttempt: h.attempt,
		LastStatus:     h.lastStatus,
		VMCreated:      h.created,
		VMDetails:      h.details,
		LogCount:       h.logs.Len(),
	}
}

// StreamStatus returns the comparable snapshot pushed over the event stream.
func (h *Hunter) StreamStatus() StreamStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return StreamStatus{
		IsRunning:      h.running,
		CurrentAttempt: h.attempt,
		LastStatus:     h.lastStatus,
		VMCreated:      h.created,
	}
}

// LogsSince returns a copy of the log suffix from index since onward plus the
// total count, for incremental polling clients.
func (h *Hunter) LogsSince(since int) ([]Entry, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.logs.Since(since)
}

// ResultFile returns the path the success record is written to.
func (h *Hunter) ResultFile() string { return h.resultFile }

// run is the hunt loop. It validates config, constructs the launcher, then
// sweeps the availability domains until success or stop.
func (h *Hunter) run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		metrics.SetHunting(false)
	}()
	metrics.SetHunting(true)

	cfg := h.loadConfig()
	if missing := cfg.Missing(); len(missing) > 0 {
		h.append(fmt.Sprintf("Missing config: %s", strings.Join(missing, ", ")), LevelError)
		h.setStatus("Config Error")
		return
	}
	launcher, err := h.newLauncher(cfg)
	if err != nil {
		h.append(fmt.Sprintf("Failed to create compute client: %v", err), LevelError)
		h.setStatus("Client Error")
		return
	}

	h.append(fmt.Sprintf("Starting VM creation loop (Shape: %s, %d OCPUs, %d GB RAM)",
		compute.Shape, cfg.OCPUs, cfg.MemoryGBs), LevelInfo)
	h.append(fmt.Sprintf("Retry interval: %d seconds", int(cfg.RetryInterval/time.Second)), LevelInfo)

	for !h.stopped() && !h.succeeded() {
		h.sweep(ctx, cfg, launcher)

		if h.succeeded() || h.stopped() {
			break
		}
		metrics.IncSweep()
		secs := int(cfg.RetryInterval / time.Second)
		h.append(fmt.Sprintf("All domains tried. Waiting %d seconds...", secs), LevelInfo)
		h.setStatus(fmt.Sprintf("Waiting %ds...", secs))
		h.wait(ctx, secs)
	}

	if h.stopped() && !h.succeeded() {
		h.append("Stopped by user", LevelInfo)
		h.setStatus("Stopped")
	}
}

// sweep probes every availability domain once, in fixed order. The attempt
// counter is global across the run, not per domain. A success breaks out
// immediately; no further domains are tried.
func (h *Hunter) sweep(ctx context.Context, cfg *config.Config, launcher Launcher) {
	for _, domain := range cfg.AvailabilityDomains {
		if h.stopped() {
			return
		}
		attempt := h.nextAttempt()
		short := shortDomain(domain)
		h.append(fmt.Sprintf("Attempt %d - Trying %s...", attempt, short), LevelInfo)
		h.setStatus(fmt.Sprintf("Trying %s...", short))
		metrics.IncAttempt(short)

		out := launcher.Attempt(ctx, domain)
		metrics.IncOutcome(short, out.Kind.String())

		switch out.Kind {
		case compute.KindSuccess:
			h.mu.Lock()
			h.created = true
			h.details = out.Details
			h.lastStatus = "VM Created!"
			h.appendLocked(fmt.Sprintf("SUCCESS! VM created in %s!", short), LevelSuccess)
			attempts := h.attempt
			h.mu.Unlock()

			res := Result{
				Success:            true,
				Timestamp:          time.Now().Format(time.RFC3339),
				AvailabilityDomain: domain,
				Attempts:           attempts,
				Details:            out.Details.String(),
			}
			if err := writeResultFile(h.resultFile, res); err != nil {
				h.append(fmt.Sprintf("Failed to save result: %v", err), LevelError)
			} else {
				h.append(fmt.Sprintf("Result saved to %s", h.resultFile), LevelInfo)
			}
			return
		case compute.KindNoCapacity:
			h.append(fmt.Sprintf("  -> Out of capacity in %s", short), LevelWarning)
		default:
			h.append(fmt.Sprintf("  -> %s", out.Message), LevelWarning)
		}
	}
}

// wait sleeps for secs seconds in waitTick increments, checking the stop flag
// after every tick so a stop request is honored within one tick.
func (h *Hunter) wait(ctx context.Context, secs int) {
	for i := 0; i < secs; i++ {
		if h.stopped() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(h.waitTick):
		}
	}
}

func (h *Hunter) stopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopRequested
}

func (h *Hunter) succeeded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.created
}

func (h *Hunter) nextAttempt() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attempt++
	return h.attempt
}

func (h *Hunter) setStatus(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastStatus = s
}

func (h *Hunter) append(message string, level Level) {
	h.mu.Lock()
	h.appendLocked(message, level)
	h.mu.Unlock()
}

// appendLocked adds a ring entry and mirrors it to the structured logger.
// Callers hold h.mu.
func (h *Hunter) appendLocked(message string, level Level) {
	h.logs.Append(newEntry(message, level))
	switch level {
	case LevelWarning:
		h.logger.Warn(message)
	case LevelError:
		h.logger.Error(message)
	default:
		h.logger.Info(message)
	}
}

// shortDomain reduces "FpAe:US-ASHBURN-AD-1" to "AD-1" for display.
func shortDomain(domain string) string {
	if i := strings.LastIndex(domain, "AD-"); i >= 0 {
		return domain[i:]
	}
	return domain
}
