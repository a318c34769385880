package common

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	simerrors "github.com/ducminhle1904/pair-montecarlo/internal/errors"
)

// CommonFlags contains flags that are shared across commands
type CommonFlags struct {
	// Environment and configuration
	EnvFile  *string
	DataRoot *string

	// Logging
	LogLevel  *string
	LogFormat *string
	LogDir    *string
	Verbose   *bool

	// Help and version
	Version *bool
	Help    *bool
}

// RegisterCommonFlags registers the shared flags on fs. Empty defaults mean
// "keep the value from the environment".
func RegisterCommonFlags(fs *flag.FlagSet) *CommonFlags {
	return &CommonFlags{
		EnvFile:  fs.String("env", "", "Environment file path (default .env when present)"),
		DataRoot: fs.String("data-root", "", "Data root directory"),

		LogLevel:  fs.String("log-level", "", "Log level: debug, info, warn, error"),
		LogFormat: fs.String("log-format", "", "Log format: console or json"),
		LogDir:    fs.String("log-dir", "", "Also write logs to <dir>/<app>_<date>.log"),
		Verbose:   fs.Bool("verbose", false, "Shorthand for -log-level debug"),

		Version: fs.Bool("version", false, "Show version information"),
		Help:    fs.Bool("help", false, "Show help information"),
	}
}

// FlagValidator collects flag validation errors
type FlagValidator struct {
	errors []string
}

// NewFlagValidator creates a new flag validator
func NewFlagValidator() *FlagValidator {
	return &FlagValidator{
		errors: make([]string, 0),
	}
}

// ValidateFloat validates a float flag value
func (v *FlagValidator) ValidateFloat(name string, value float64, min, max float64) *FlagValidator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Sprintf("%s must be between %.4f and %.4f, got: %.4f", name, min, max, value))
	}
	return v
}

// ValidateInt validates an int flag value
func (v *FlagValidator) ValidateInt(name string, value int, min, max int) *FlagValidator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Sprintf("%s must be between %d and %d, got: %d", name, min, max, value))
	}
	return v
}

// ValidateRequired checks that a string flag is set
func (v *FlagValidator) ValidateRequired(name, value string) *FlagValidator {
	if strings.TrimSpace(value) == "" {
		v.errors = append(v.errors, fmt.Sprintf("%s is required", name))
	}
	return v
}

// ValidateChoice validates that a string is one of the allowed choices
func (v *FlagValidator) ValidateChoice(name, value string, choices []string) *FlagValidator {
	for _, choice := range choices {
		if value == choice {
			return v
		}
	}
	v.errors = append(v.errors, fmt.Sprintf("%s must be one of [%s], got: %s", name, strings.Join(choices, ", "), value))
	return v
}

// ValidateFile validates that a file exists
func (v *FlagValidator) ValidateFile(name, path string, required bool) *FlagValidator {
	if path == "" {
		if required {
			v.errors = append(v.errors, fmt.Sprintf("%s is required", name))
		}
		return v
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		v.errors = append(v.errors, fmt.Sprintf("%s file does not exist: %s", name, path))
	}
	return v
}

// AddError adds a custom validation error
func (v *FlagValidator) AddError(message string) *FlagValidator {
	v.errors = append(v.errors, message)
	return v
}

// HasErrors returns true if there are validation errors
func (v *FlagValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// GetErrors returns all validation errors
func (v *FlagValidator) GetErrors() []string {
	return v.errors
}

// GetError returns a CONFIG error with all validation errors, or nil
func (v *FlagValidator) GetError() error {
	if len(v.errors) == 0 {
		return nil
	}
	return simerrors.NewConfigurationError("flags", "validate", strings.Join(v.errors, "; "))
}

// PrintErrors prints all validation errors
func (v *FlagValidator) PrintErrors(w io.Writer) {
	if len(v.errors) == 0 {
		return
	}

	fmt.Fprintf(w, "Flag validation errors:\n")
	for _, err := range v.errors {
		fmt.Fprintf(w, "   - %s\n", err)
	}
}

// IsFlagSet reports whether name was passed on the command line
func IsFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
