package errors

import (
	"fmt"
	"strings"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// SuggestionContext provides context for generating suggestions
type SuggestionContext struct {
	ConfigPath string
	SeedPath   string
}

// ServerStartError generates suggestions for server startup failures
func ServerStartError(err error, port int, ctx *SuggestionContext) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{}

	errStr := err.Error()

	if strings.Contains(errStr, "address already in use") || strings.Contains(errStr, "bind") {
		suggestions = append(suggestions,
			ErrorSuggestion{
				Title:       "Port already in use",
				Description: fmt.Sprintf("Port %d is already being used by another process", port),
				Command:     fmt.Sprintf("lsof -i :%d", port),
			},
			ErrorSuggestion{
				Title:       "Use a different port",
				Description: "Start the server on a different port",
				Command:     fmt.Sprintf("inkpot serve --port %d", port+1),
			},
		)
	}

	if strings.Contains(errStr, "permission denied") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Permission denied",
			Description: "You don't have permission to bind to this port",
		})

		if port < 1024 {
			suggestions = append(suggestions, ErrorSuggestion{
				Title:       "Use unprivileged port",
				Description: "Ports below 1024 require root privileges",
				Command:     "inkpot serve --port 8080",
			})
		}
	}

	return suggestions
}

// ConfigurationError generates suggestions for configuration issues
func ConfigurationError(configError string, ctx *SuggestionContext) []ErrorSuggestion {
	configPath := ".inkpot.yml"
	if ctx != nil && ctx.ConfigPath != "" {
		configPath = ctx.ConfigPath
	}

	suggestions := []ErrorSuggestion{
		{
			Title:       "Check configuration file",
			Description: "Verify your " + configPath + " file exists and has valid syntax",
			Command:     "cat " + configPath,
		},
		{
			Title:       "Validate configuration",
			Description: "Use the validate command to check for issues",
			Command:     "inkpot validate",
		},
	}

	if strings.Contains(configError, "yaml") || strings.Contains(configError, "decoding") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Fix YAML syntax",
			Description: "There's a syntax error in your YAML configuration",
			Example:     "Use proper indentation and avoid tabs",
		})
	}

	if strings.Contains(configError, "port") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:   "Use a valid port",
			Example: "server:\n  port: 8080",
		})
	}

	if strings.Contains(configError, "log level") || strings.Contains(configError, "log format") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:   "Use a supported logging setting",
			Example: "logging:\n  level: info   # debug, info, warn, error\n  format: text # text, json",
		})
	}

	return suggestions
}

// SeedFileError generates suggestions for seed files that cannot be loaded
func SeedFileError(err error, ctx *SuggestionContext) []ErrorSuggestion {
	seedPath := "seed.yml"
	if ctx != nil && ctx.SeedPath != "" {
		seedPath = ctx.SeedPath
	}

	suggestions := []ErrorSuggestion{}
	errStr := err.Error()

	if strings.Contains(errStr, "no such file") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Create a seed file",
			Description: "The seed file " + seedPath + " does not exist",
			Command:     "inkpot init",
		})
	}

	if strings.Contains(errStr, "yaml") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Fix YAML syntax",
			Description: "The seed file could not be parsed",
			Example:     "categories:\n  - Technology\nposts:\n  - title: Hello\n    content: First post\n    category: Technology",
		})
	}

	suggestions = append(suggestions, ErrorSuggestion{
		Title:       "Start without seed data",
		Description: "Leave seed.file empty to start with an empty blog",
		Command:     "inkpot serve --seed \"\"",
	})

	return suggestions
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", suggestion.Example))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	if e.OriginalError == nil {
		return FormatSuggestions(e.Title, e.Suggestions)
	}
	return FormatSuggestions(e.Title+": "+e.OriginalError.Error(), e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// NewEnhancedError creates a new enhanced error with suggestions
func NewEnhancedError(title string, originalError error, suggestions []ErrorSuggestion) *EnhancedError {
	return &EnhancedError{
		OriginalError: originalError,
		Title:         title,
		Suggestions:   suggestions,
	}
}
