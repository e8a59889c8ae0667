package cli

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is the standard JSON envelope for all CLI output.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Warning represents a non-fatal warning.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains metadata about the response.
type Meta struct {
	Count      int   `json:"count,omitempty"`
	DurationMs int64 `json:"duration_ms,omitempty"`
}

// outputJSON writes the response as indented JSON.
func outputJSON(w io.Writer, resp Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// outputSuccess writes a successful JSON response.
func outputSuccess(w io.Writer, data interface{}, warnings []Warning, meta *Meta) error {
	return outputJSON(w, Response{
		OK:       true,
		Data:     data,
		Warnings: warnings,
		Meta:     meta,
	})
}

// outputError writes an error JSON response.
func outputError(w io.Writer, ce *cliError) error {
	return outputJSON(w, Response{
		OK: false,
		Error: &ErrorInfo{
			Code:       ce.code,
			Message:    ce.err.Error(),
			Details:    ce.details,
			Suggestion: ce.suggestion,
		},
	})
}

func warningsFrom(messages []string) []Warning {
	if len(messages) == 0 {
		return nil
	}
	out := make([]Warning, len(messages))
	for i, m := range messages {
		out[i] = Warning{Code: WarnPrecheck, Message: m}
	}
	return out
}
