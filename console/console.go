// Package console keeps the request state behind the FortressGuard
// console. Each operation has its own lane; triggers never return errors,
// failures land in the lane's state instead.
package console

import (
	"context"
	"log/slog"

	"github.com/fortressguard/fortress/client"
	"github.com/fortressguard/fortress/fortress"
)

// API is the set of remote operations the console drives.
// *fortress.Service implements it.
type API interface {
	GeneratePassword(ctx context.Context, p fortress.PasswordParams) (client.Envelope[fortress.GeneratePasswordResponse], error)
	ValidatePassword(ctx context.Context, p fortress.ValidationParams) (client.Envelope[fortress.ValidatePasswordResponse], error)
	EncryptText(ctx context.Context, p fortress.EncryptionParams) (client.Envelope[fortress.EncryptResponse], error)
	DecryptText(ctx context.Context, p fortress.DecryptionParams) (client.Envelope[fortress.DecryptResponse], error)
	GetStatistics(ctx context.Context) (client.Envelope[fortress.StatisticsResponse], error)
}

// Observer is told about every state change a lane applies.
type Observer func(lane LaneName, phase Phase)

// Console owns the five lanes and the API they call.
type Console struct {
	api      API
	logger   *slog.Logger
	observer Observer

	password   *Lane[fortress.GeneratePasswordResponse]
	validation *Lane[fortress.ValidatePasswordResponse]
	encryption *Lane[fortress.EncryptResponse]
	decryption *Lane[fortress.DecryptResponse]
	statistics *Lane[fortress.StatisticsResponse]
}

// Option customizes a Console.
type Option func(*Console)

// WithLogger sets the logger failed requests are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers fn for state-change notifications. fn runs on the
// triggering goroutine and must not call back into the Console's triggers.
func WithObserver(fn Observer) Option {
	return func(c *Console) {
		c.observer = fn
	}
}

// New creates a Console with every lane idle.
func New(api API, opts ...Option) *Console {
	c := &Console{
		api:        api,
		logger:     slog.New(slog.DiscardHandler),
		password:   newLane[fortress.GeneratePasswordResponse](LanePassword),
		validation: newLane[fortress.ValidatePasswordResponse](LaneValidation),
		encryption: newLane[fortress.EncryptResponse](LaneEncryption),
		decryption: newLane[fortress.DecryptResponse](LaneDecryption),
		statistics: newLane[fortress.StatisticsResponse](LaneStatistics),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run drives one request through a lane: loading, call, envelope checks,
// then success or failure. A response that is no longer the lane's newest
// request is dropped.
func run[T any](ctx context.Context, c *Console, lane *Lane[T], call func(context.Context) (client.Envelope[T], error)) RequestState[T] {
	seq, _ := lane.begin()
	c.notify(lane.name, PhaseLoading)

	var (
		data   *T
		errMsg string
	)
	env, err := call(ctx)
	if err == nil {
		data, err = env.Result()
	}
	if err != nil {
		errMsg = client.Message(err)
	}

	state, applied := lane.settle(seq, data, errMsg)
	if !applied {
		c.logger.Debug("discarded stale response", "lane", lane.name, "seq", seq)
		return state
	}
	if err != nil {
		attrs := []any{"lane", lane.name, "error", errMsg}
		if apiErr, ok := client.AsError(err); ok {
			attrs = append(attrs, "status", apiErr.Status, "kind", apiErr.Kind)
		}
		c.logger.Error("api request failed", attrs...)
	}
	c.notify(lane.name, state.Phase)
	return state
}

func (c *Console) notify(lane LaneName, phase Phase) {
	if c.observer != nil {
		c.observer(lane, phase)
	}
}

// PasswordOption sets an optional generate-password parameter.
type PasswordOption func(*fortress.PasswordParams)

// WithLength requests a specific password length.
func WithLength(n int) PasswordOption {
	return func(p *fortress.PasswordParams) { p.Length = &n }
}

// WithSpecial toggles special characters.
func WithSpecial(include bool) PasswordOption {
	return func(p *fortress.PasswordParams) { p.Special = &include }
}

// GeneratePassword triggers the password lane. Options left out are not
// sent, and the server's defaults apply.
func (c *Console) GeneratePassword(ctx context.Context, opts ...PasswordOption) RequestState[fortress.GeneratePasswordResponse] {
	var params fortress.PasswordParams
	for _, opt := range opts {
		opt(&params)
	}
	return run(ctx, c, c.password, func(ctx context.Context) (client.Envelope[fortress.GeneratePasswordResponse], error) {
		return c.api.GeneratePassword(ctx, params)
	})
}

func (c *Console) ValidatePassword(ctx context.Context, password string) RequestState[fortress.ValidatePasswordResponse] {
	return run(ctx, c, c.validation, func(ctx context.Context) (client.Envelope[fortress.ValidatePasswordResponse], error) {
		return c.api.ValidatePassword(ctx, fortress.ValidationParams{Password: password})
	})
}

func (c *Console) EncryptText(ctx context.Context, text string) RequestState[fortress.EncryptResponse] {
	return run(ctx, c, c.encryption, func(ctx context.Context) (client.Envelope[fortress.EncryptResponse], error) {
		return c.api.EncryptText(ctx, fortress.EncryptionParams{Text: text})
	})
}

func (c *Console) DecryptText(ctx context.Context, encryptedText string) RequestState[fortress.DecryptResponse] {
	return run(ctx, c, c.decryption, func(ctx context.Context) (client.Envelope[fortress.DecryptResponse], error) {
		return c.api.DecryptText(ctx, fortress.DecryptionParams{EncryptedText: encryptedText})
	})
}

func (c *Console) GetStatistics(ctx context.Context) RequestState[fortress.StatisticsResponse] {
	return run(ctx, c, c.statistics, c.api.GetStatistics)
}

func (c *Console) PasswordState() RequestState[fortress.GeneratePasswordResponse] {
	return c.password.State()
}

func (c *Console) ValidationState() RequestState[fortress.ValidatePasswordResponse] {
	return c.validation.State()
}

func (c *Console) EncryptionState() RequestState[fortress.EncryptResponse] {
	return c.encryption.State()
}

func (c *Console) DecryptionState() RequestState[fortress.DecryptResponse] {
	return c.decryption.State()
}

func (c *Console) StatisticsState() RequestState[fortress.StatisticsResponse] {
	return c.statistics.State()
}

// Snapshot is the state of every lane at one moment.
type Snapshot struct {
	Password   RequestState[fortress.GeneratePasswordResponse] `json:"password"`
	Validation RequestState[fortress.ValidatePasswordResponse] `json:"validation"`
	Encryption RequestState[fortress.EncryptResponse]          `json:"encryption"`
	Decryption RequestState[fortress.DecryptResponse]          `json:"decryption"`
	Statistics RequestState[fortress.StatisticsResponse]       `json:"statistics"`
}

// Snapshot reads every lane. Lanes are read one after another, not
// atomically as a group.
func (c *Console) Snapshot() Snapshot {
	return Snapshot{
		Password:   c.password.State(),
		Validation: c.validation.State(),
		Encryption: c.encryption.State(),
		Decryption: c.decryption.State(),
		Statistics: c.statistics.State(),
	}
}
