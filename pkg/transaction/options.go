package transaction

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/thanhnp/ledger-tx/pkg/keys"
)

// KeyProvider performs the raw signature operations. Keys are opaque to the
// transaction and passed through unchanged.
type KeyProvider interface {
	// Sign returns the signature of message under privateKey
	Sign(message, privateKey []byte) ([]byte, error)

	// Verify reports whether signature is valid for message under publicKey.
	// A bad signature is (false, nil); errors are reserved for unusable keys.
	Verify(signature, message, publicKey []byte) (bool, error)
}

type options struct {
	timestamp    float64
	hasTimestamp bool
	clock        func() time.Time
	provider     KeyProvider
	logger       zerolog.Logger
}

// Option configures a Transaction
type Option func(*options)

// WithTimestamp fixes the transaction timestamp, in seconds since the Unix epoch
func WithTimestamp(ts float64) Option {
	return func(o *options) {
		o.timestamp = ts
		o.hasTimestamp = true
	}
}

// WithClock sets the time source used when no timestamp is given. A nil
// clock keeps the wall clock.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithKeyProvider replaces the default RSA-PSS provider. A nil provider is
// ignored.
func WithKeyProvider(p KeyProvider) Option {
	return func(o *options) {
		if p != nil {
			o.provider = p
		}
	}
}

// WithLogger sets the logger for signing and record reconciliation events
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		clock:    time.Now,
		provider: keys.Provider{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}
