// Package redact scrubs credentials, password hashes, tokens and other
// sensitive fragments from strings before they are logged or returned in
// error responses.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedHashPlaceholder       = "[REDACTED_HASH]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules run in order; earlier rules may consume text later ones would match.
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database|connection)://[^@\s]+@`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{20,}`), RedactedHashPlaceholder},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},
	{regexp.MustCompile(`(?i)(password[12]?|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)(api[_-]?key|secret|token)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), "[STACK_TRACE_REDACTED]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	{regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[\s\w,*().$=']+\b(FROM|INTO|SET)\b[\s\w,*().$=']*`), RedactedSQLPlaceholder},
	{regexp.MustCompile(`(/[\w.-]+){3,}`), RedactedPathPlaceholder},
}

// String redacts sensitive information from input.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
