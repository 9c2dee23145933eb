package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// TokenDelimiter separates token fields. It is a Sinhala letter that never
	// appears in command names, entity keys or integers.
	TokenDelimiter = "ඞ"
	// TokenSelect marks a field whose value comes from the select menu
	// selection at activation time.
	TokenSelect = "select"
	// MaxTokenLength is Discord's custom_id limit in characters.
	MaxTokenLength = 100
)

var (
	ErrTokenEmpty     = errors.New("continuation token is empty")
	ErrTokenDelimiter = errors.New("continuation token field contains the delimiter")
	ErrTokenTooLong   = errors.New("continuation token exceeds the custom_id limit")
	ErrTokenField     = errors.New("continuation token field missing")
)

// Token is a decoded continuation: field 0 is the owning command name, the
// rest is positional state private to that command.
type Token struct {
	fields []string
	values []string
}

// EncodeToken joins the command name and fields into a custom_id. Fields are
// formatted with fmt, so ints and strings can be mixed.
func EncodeToken(name string, fields ...any) (string, error) {
	parts := make([]string, 0, len(fields)+1)
	parts = append(parts, name)
	for _, f := range fields {
		parts = append(parts, fmt.Sprint(f))
	}
	for _, p := range parts {
		if strings.Contains(p, TokenDelimiter) {
			return "", fmt.Errorf("%w: %q", ErrTokenDelimiter, p)
		}
	}
	if name == "" {
		return "", ErrTokenEmpty
	}

	id := strings.Join(parts, TokenDelimiter)
	if n := utf8.RuneCountInString(id); n > MaxTokenLength {
		return "", fmt.Errorf("%w: %d characters", ErrTokenTooLong, n)
	}
	return id, nil
}

// ParseToken splits a custom_id into its fields, preserving order.
func ParseToken(customID string) (Token, error) {
	if customID == "" {
		return Token{}, ErrTokenEmpty
	}
	fields := strings.Split(customID, TokenDelimiter)
	if fields[0] == "" {
		return Token{}, ErrTokenEmpty
	}
	return Token{fields: fields}, nil
}

// WithValues attaches the live select menu values used to resolve
// TokenSelect fields.
func (t Token) WithValues(values []string) Token {
	t.values = append([]string(nil), values...)
	return t
}

// Command returns field 0, the routing key.
func (t Token) Command() string {
	if len(t.fields) == 0 {
		return ""
	}
	return t.fields[0]
}

// Len returns the number of fields, including the command name.
func (t Token) Len() int { return len(t.fields) }

// Raw returns field i exactly as encoded.
func (t Token) Raw(i int) string {
	if i < 0 || i >= len(t.fields) {
		return ""
	}
	return t.fields[i]
}

// Fields returns the raw fields after the command name.
func (t Token) Fields() []string {
	if len(t.fields) < 2 {
		return nil
	}
	return append([]string(nil), t.fields[1:]...)
}

// Values returns the attached select menu values.
func (t Token) Values() []string { return append([]string(nil), t.values...) }

// Field returns field i with TokenSelect resolved to the first selected
// value. A sentinel without a selection resolves to "".
func (t Token) Field(i int) string {
	f := t.Raw(i)
	if f != TokenSelect {
		return f
	}
	if len(t.values) == 0 {
		return ""
	}
	return t.values[0]
}

// Int parses resolved field i.
func (t Token) Int(i int) (int, error) {
	if i <= 0 || i >= len(t.fields) {
		return 0, fmt.Errorf("%w: %d", ErrTokenField, i)
	}
	n, err := strconv.Atoi(t.Field(i))
	if err != nil {
		return 0, fmt.Errorf("token field %d: %w", i, err)
	}
	return n, nil
}

// IntOr parses resolved field i, returning def when it is absent or invalid.
func (t Token) IntOr(i, def int) int {
	n, err := t.Int(i)
	if err != nil {
		return def
	}
	return n
}

// Ints parses every resolved field from index from onwards, skipping
// fields that are not integers.
func (t Token) Ints(from int) []int {
	var out []int
	for i := max(from, 1); i < len(t.fields); i++ {
		if n, err := t.Int(i); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// String re-encodes the raw fields.
func (t Token) String() string {
	return strings.Join(t.fields, TokenDelimiter)
}
