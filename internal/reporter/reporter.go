package reporter

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"sessionprobe/internal/config"
	"sessionprobe/pkg/login"
)

// Reporter renders detection results for standard output
type Reporter struct {
	config *config.Config
}

// New creates a new reporter
func New(cfg *config.Config) *Reporter {
	return &Reporter{config: cfg}
}

// Format renders the result in the configured output format, without a
// trailing newline
func (r *Reporter) Format(result *login.Result) (string, error) {
	if r.config.Output.JSON {
		return r.FormatJSON(result)
	}
	return r.FormatText(result), nil
}

// FormatText formats the result as one human-readable line
func (r *Reporter) FormatText(result *login.Result) string {
	if result.Found {
		return fmt.Sprintf("User %s has an active graphical session.", result.User)
	}
	return fmt.Sprintf("User %s does not have an active graphical session.", result.User)
}

// FormatJSON formats the result as a single-line JSON object
func (r *Reporter) FormatJSON(result *login.Result) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal JSON")
	}
	return string(data), nil
}

// ExitCode maps an outcome to the process exit status. queryErr is any
// connection or query failure.
func (r *Reporter) ExitCode(result *login.Result, queryErr error) int {
	if !r.config.Output.StrictExit {
		if queryErr != nil {
			return 1
		}
		return 0
	}

	switch {
	case queryErr != nil:
		return 2
	case result != nil && result.Found:
		return 0
	default:
		return 1
	}
}
