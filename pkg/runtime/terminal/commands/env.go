package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/viper"

	awscollector "github.com/de-tools/dr-readiness/pkg/services/collector/aws"
	"github.com/de-tools/dr-readiness/pkg/services/config"
)

// ErrNotReady is returned when a run completes with a verdict other than PASS.
var ErrNotReady = errors.New("DR environment is not ready")

// ConnectFunc opens an AWS session with collectors for every check.
type ConnectFunc func(ctx context.Context, opts awscollector.Options) (*awscollector.Session, error)

// Env is the state shared by all commands. ConfigPath is filled in by the
// root command's flags.
type Env struct {
	Viper      *viper.Viper
	ConfigPath string
	Connect    ConnectFunc
	Profiles   config.Registry
	Now        func() time.Time
}

func (e *Env) Settings() (*config.Settings, error) {
	return config.Load(e.Viper, e.ConfigPath)
}

// PartialSettings skips validation.
func (e *Env) PartialSettings() (*config.Settings, error) {
	return config.Decode(e.Viper, e.ConfigPath)
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
