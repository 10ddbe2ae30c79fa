package sweep

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/qecworks/steanelab/internal/backend"
	"github.com/qecworks/steanelab/internal/decode"
	"github.com/qecworks/steanelab/internal/encode"
)

// Result is the outcome of one configuration's pipeline. A failed
// configuration carries its reason in Err; its siblings are unaffected.
type Result struct {
	Key         string
	Config      Config
	RunToken    string
	CircuitHash string
	Aggregate   decode.Aggregate
	Err         string
}

// Failed reports whether this configuration's pipeline failed.
func (r Result) Failed() bool { return r.Err != "" }

// RunTokenGenerator produces run tokens. The default is UUIDv7; tests
// substitute a fixed generator for deterministic output.
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered UUID run tokens.
type UUIDv7Generator struct{}

// Generate implements RunTokenGenerator.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Runner executes sweeps against a backend with a fixed worker pool.
// Configurations are embarrassingly parallel: no worker ever depends on
// another's output, so results land in a keyed collection as they finish.
type Runner struct {
	backend backend.Backend
	workers int
	tokens  RunTokenGenerator
	maxBits int
	logger  *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithTokenGenerator overrides the run token generator.
func WithTokenGenerator(g RunTokenGenerator) RunnerOption {
	return func(r *Runner) { r.tokens = g }
}

// WithRunnerLogger sets the runner's logger.
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithPhaseBits overrides the compiler's rotation resolution depth.
func WithPhaseBits(n int) RunnerOption {
	return func(r *Runner) { r.maxBits = n }
}

// NewRunner creates a runner over the given backend.
func NewRunner(b backend.Backend, opts ...RunnerOption) *Runner {
	r := &Runner{
		backend: b,
		workers: 4,
		tokens:  UUIDv7Generator{},
		maxBits: encode.DefaultMaxBits,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every configuration and returns one result per
// configuration, in input order. All results of a run share one token.
//
// Failures never cross configuration boundaries: a contract violation or
// backend failure is recorded on its own result and the sweep continues.
// Run itself errors only when the context is cancelled.
func (r *Runner) Run(ctx context.Context, configs []Config) ([]Result, error) {
	token := r.tokens.Generate()
	r.logger.Info("sweep starting",
		"run_token", token,
		"configs", len(configs),
		"workers", r.workers,
		"backend", r.backend.Name(),
	)

	jobs := make(chan int)
	results := make([]Result, len(configs))

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.runOne(ctx, token, configs[idx])
			}
		}()
	}

feed:
	for idx := range configs {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
		}
	}
	r.logger.Info("sweep finished", "run_token", token, "failed", failed)
	return results, nil
}

// runOne drives a single configuration through compile, submit and
// decode. Every error path resolves to a Result with a reason; nothing
// escapes to the sweep level.
func (r *Runner) runOne(ctx context.Context, token string, cfg Config) Result {
	res := Result{Key: cfg.Key(), Config: cfg, RunToken: token}

	if err := cfg.Validate(); err != nil {
		res.Err = err.Error()
		return res
	}

	compiler := encode.NewCompiler(cfg.Setup,
		encode.WithMaxBits(r.maxBits),
		encode.WithLogger(r.logger),
	)
	circ, err := compiler.Compile(cfg.Program())
	if err != nil {
		r.logger.Error("compile failed", "config", cfg.Name, "error", err)
		res.Err = err.Error()
		return res
	}
	res.CircuitHash = circ.Hash()

	shots, err := r.backend.Submit(ctx, circ, cfg.ShotCount())
	if err != nil {
		r.logger.Error("submit failed", "config", cfg.Name, "error", err)
		res.Err = err.Error()
		return res
	}

	dec, err := decode.New(circ)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	agg, err := dec.Aggregate(shots)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.Aggregate = agg

	r.logger.Debug("config finished",
		"config", cfg.Name,
		"key", res.Key,
		"accepted", agg.Accepted,
		"shots", agg.Shots,
	)
	return res
}
