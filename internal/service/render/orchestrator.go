package render

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"CoinGate/internal/domain/models"
	domrepo "CoinGate/internal/domain/repository"
	"CoinGate/internal/service/limiter"
	"CoinGate/pkg/config"
	applogger "CoinGate/pkg/logger"
	xutil "CoinGate/pkg/util"

	"github.com/google/uuid"
)

var (
	// ErrMalformedOutput means the renderer exited 0 but stdout was not one JSON document.
	ErrMalformedOutput = errors.New("render: output is not valid JSON")
	// ErrOutputTooLarge means stdout grew past Options.MaxOutputBytes; the process was killed.
	ErrOutputTooLarge = errors.New("render: output exceeds size limit")
	// ErrTimeout means the renderer ran past Options.Timeout and was killed.
	ErrTimeout = errors.New("render: timed out")
)

// ExitError reports a non-zero exit. Code is -1 when the process died from a signal.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("render: process exited with code %d", e.Code)
}

const (
	maxStderrLines = 200
	waitDelay      = 2 * time.Second
)

// Options describe how to launch the renderer.
type Options struct {
	Command        string
	Args           []string
	Dir            string
	Env            []string // appended to the gateway's own environment
	Timeout        time.Duration
	MaxOutputBytes int64
}

// OptionsFromConfig maps the render section of the config.
func OptionsFromConfig(cfg config.RenderConfig) Options {
	return Options{
		Command:        cfg.Command,
		Args:           cfg.Args,
		Dir:            cfg.Dir,
		Env:            cfg.Env,
		Timeout:        cfg.Timeout,
		MaxOutputBytes: cfg.MaxOutputBytes,
	}
}

// Orchestrator runs one renderer process per job. Nothing is pooled or
// reused between jobs.
type Orchestrator struct {
	opts    Options
	limit   *limiter.Limiter
	metrics domrepo.Metrics
	log     *applogger.Logger
}

func NewOrchestrator(opts Options, limit *limiter.Limiter, metrics domrepo.Metrics, log *applogger.Logger) *Orchestrator {
	return &Orchestrator{opts: opts, limit: limit, metrics: metrics, log: log}
}

// Render feeds job.Payload to a fresh renderer process and returns the
// JSON document it printed.
func (o *Orchestrator) Render(ctx context.Context, job models.RenderJob) (json.RawMessage, error) {
	log := o.log.With(
		applogger.String("job_id", uuid.NewString()),
		applogger.String("coin", job.Coin),
		applogger.String("timeframe", job.Timeframe),
	)

	if o.limit != nil {
		release, err := o.limit.Acquire(ctx)
		if err != nil {
			o.metrics.RecordRender(Outcome(err), 0)
			log.Warn("render job not admitted", applogger.Error(err))
			return nil, err
		}
		defer release()
	}

	start := time.Now()
	out, err := o.run(ctx, job.Payload, log)
	elapsed := time.Since(start)
	o.metrics.RecordRender(Outcome(err), elapsed.Seconds())

	if err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			log.Error("render process failed",
				applogger.String("command", o.opts.Command),
				applogger.Int("exit_code", ee.Code),
				applogger.Duration("elapsed_ms", elapsed),
			)
		} else {
			log.Error("render job failed",
				applogger.String("command", o.opts.Command),
				applogger.Error(err),
				applogger.Duration("elapsed_ms", elapsed),
			)
		}
		return nil, err
	}

	log.Info("render job done",
		applogger.Int("bytes", len(out)),
		applogger.Duration("elapsed_ms", elapsed),
	)
	return out, nil
}

func (o *Orchestrator) run(parent context.Context, payload []byte, log *applogger.Logger) (json.RawMessage, error) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if o.opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, o.opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	defer cancel()

	cmd := exec.CommandContext(ctx, o.opts.Command, o.opts.Args...)
	cmd.Dir = o.opts.Dir
	cmd.Env = append(os.Environ(), o.opts.Env...)
	cmd.WaitDelay = waitDelay

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", o.opts.Command, err)
	}

	// A killed renderer can leave grandchildren holding the pipes open;
	// closing our ends unblocks the readers below.
	stop := context.AfterFunc(ctx, func() {
		_ = stdout.Close()
		_ = stderr.Close()
	})
	defer stop()

	go func() {
		_, werr := stdin.Write(payload)
		cerr := stdin.Close()
		if werr == nil {
			werr = cerr
		}
		if werr != nil && ctx.Err() == nil {
			log.Warn("writing job to renderer failed", applogger.Error(werr))
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logStderr(stderr, log)
	}()

	out, overflow, readErr := readBounded(stdout, o.opts.MaxOutputBytes)
	if overflow {
		cancel()
	}
	wg.Wait()
	waitErr := cmd.Wait()

	switch {
	case overflow:
		return nil, ErrOutputTooLarge
	case parent.Err() != nil:
		return nil, parent.Err()
	case ctx.Err() != nil:
		return nil, ErrTimeout
	}

	if waitErr != nil {
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			return nil, &ExitError{Code: ee.ExitCode()}
		}
		return nil, fmt.Errorf("wait for renderer: %w", waitErr)
	}
	if readErr != nil {
		return nil, fmt.Errorf("read renderer output: %w", readErr)
	}

	out = bytes.TrimSpace(out)
	if !json.Valid(out) {
		log.Warn("renderer output is not JSON",
			applogger.String("output", xutil.Truncate(string(out), 256)),
		)
		return nil, ErrMalformedOutput
	}
	return json.RawMessage(out), nil
}

// readBounded accumulates r in order until EOF. If more than max bytes
// arrive it stops early and reports overflow.
func readBounded(r io.Reader, max int64) ([]byte, bool, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, max+1))
	if n > max {
		return nil, true, nil
	}
	return buf.Bytes(), false, err
}

func logStderr(r io.Reader, log *applogger.Logger) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 64*1024)

	lines := 0
	for sc.Scan() {
		lines++
		if lines > maxStderrLines {
			continue
		}
		log.Warn("renderer stderr", applogger.String("line", sc.Text()))
	}
	if lines > maxStderrLines {
		log.Warn("renderer stderr truncated", applogger.Int("dropped_lines", lines-maxStderrLines))
	}
	// keep the pipe drained if the scanner gave up on an oversized line
	_, _ = io.Copy(io.Discard, r)
}

// Outcome names an error for metrics.
func Outcome(err error) string {
	var ee *ExitError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ee):
		return "exit_error"
	case errors.Is(err, ErrMalformedOutput):
		return "malformed_output"
	case errors.Is(err, ErrOutputTooLarge):
		return "output_too_large"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, limiter.ErrBusy):
		return "busy"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

var _ domrepo.Renderer = (*Orchestrator)(nil)
