// File: internal/services/suggest/config.go
package suggest

import (
	"fmt"
	"time"
)

type Config struct {
	// VariantCount is the number of parallel suggestion requests per user
	// message.
	VariantCount int

	// StreamTimeout bounds one variant's stream from open to EOF.
	StreamTimeout time.Duration

	// PersistTimeout bounds the message save after a stream completes.
	PersistTimeout time.Duration

	// EventBuffer sizes the per-round event channel.
	EventBuffer int
}

func (c *Config) Validate() error {
	if c.VariantCount <= 0 {
		return fmt.Errorf("variant count must be positive")
	}
	if c.StreamTimeout <= 0 {
		return fmt.Errorf("stream timeout must be positive")
	}
	if c.PersistTimeout <= 0 {
		return fmt.Errorf("persist timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		VariantCount:   3,
		StreamTimeout:  60 * time.Second,
		PersistTimeout: 5 * time.Second,
		EventBuffer:    256,
	}
}
