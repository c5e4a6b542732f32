// Package redact scrubs credentials, tokens, personal data and query text
// from strings before they are logged. Store and provider errors often embed
// connection strings, request URLs with API keys, or the email a user signed
// up with; none of that belongs in logs.
package redact

import (
	"log/slog"
	"regexp"
)

// Placeholders substituted for redacted fragments.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	HashPlaceholder       = "[REDACTED_HASH]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	PathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// Rules run in order; later rules see the output of earlier ones.
var rules = []rule{
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mysql|mongodb)://[^@\s/]+@`),
		"${1}://" + CredentialPlaceholder + "@",
	},
	{
		regexp.MustCompile(`(?i)([?&](?:key|api_key|apikey|token|access_token)=)[^&\s"']+`),
		"${1}" + KeyPlaceholder,
	},
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		JWTPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`),
		"${1}" + TokenPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(password|passwd|pwd|secret)(\s*[=:]\s*)['"]?[^'"&\s,]+['"]?`),
		"${1}${2}" + CredentialPlaceholder,
	},
	{
		regexp.MustCompile(`\$2[aby]?\$\d{2}\$[./A-Za-z0-9]{53}`),
		HashPlaceholder,
	},
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		EmailPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(?:SELECT\s.+?\sFROM|INSERT\s+INTO|UPDATE\s+\w+\s+SET|DELETE\s+FROM)\b[^;]*`),
		SQLPlaceholder,
	},
	{
		regexp.MustCompile(`(^|[\s"'=(])(/[\w.-]+){2,}`),
		"${1}" + PathPlaceholder,
	},
}

// String returns s with every sensitive fragment replaced by a placeholder.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error redacts err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// ErrorAttr is slog.String("error", Error(err)).
func ErrorAttr(err error) slog.Attr {
	return slog.String("error", Error(err))
}
