package config

import (
	"context"

	"github.com/propdash/propdash/pkg/configwatch"
)

// Watch reloads the config file at path whenever it changes and passes each
// valid result to onChange. Invalid files are logged and skipped. Watch
// blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	return configwatch.Watch(ctx, path, configwatch.DefaultDebounce, Load, onChange)
}
