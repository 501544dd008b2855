package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/spf13/cobra"
)

// ErrNotConnected is returned when a command runs without a wired application.
var ErrNotConnected = errors.New("no database connection")

// RequireApp returns the application or ErrNotConnected naming the feature.
func RequireApp(feature string) (*App, error) {
	app := GetApp()
	if app == nil {
		return nil, fmt.Errorf("%s requires a database connection: %w", feature, ErrNotConnected)
	}
	return app, nil
}

// Render writes v as indented JSON when --json is set and calls text otherwise.
func Render(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(out)
	return nil
}

// SetJSONOutput toggles JSON rendering, for tests.
func SetJSONOutput(enabled bool) {
	jsonOutput = enabled
}

// ParseID parses a UUID argument.
func ParseID(value, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s ID %q", sharedDomain.ErrInvalidArgument, what, value)
	}
	return id, nil
}

// ParseDay parses a YYYY-MM-DD flag. Empty means the zero day.
func ParseDay(value string) (sharedDomain.Day, error) {
	if value == "" {
		return sharedDomain.Day{}, nil
	}
	return sharedDomain.ParseDay(value)
}

// FormatFloat prints a value without trailing zeros.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTarget prints "target unit" or "-" when there is no target.
func FormatTarget(target *float64, unit string) string {
	if target == nil {
		return "-"
	}
	return FormatFloat(*target) + " " + unit
}
