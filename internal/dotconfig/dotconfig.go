// SPDX-License-Identifier: MPL-2.0

package dotconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrConfigNotFound is the sentinel error wrapped by NotFoundError.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrConfigParse is the sentinel error wrapped by ParseError and DuplicateKeyError.
	ErrConfigParse = errors.New("config parse error")
)

type (
	// Kind discriminates the typed value forms an option can take.
	Kind int

	// Tristate is the three-state boolean form of a y/n/m option.
	Tristate int

	// Value is the typed value of one option entry. Exactly one of the
	// Tristate/Int/Str fields is meaningful, selected by Kind.
	Value struct {
		Kind     Kind
		Tristate Tristate
		Int      int64
		Str      string
	}

	// Entry is one KEY=VALUE line of the option file.
	Entry struct {
		// Key is the option name.
		Key string
		// Value is the parsed typed value.
		Value Value
		// Line is the 1-based line number the entry was parsed from.
		Line int
	}

	// Config is the parsed option file: an insertion-ordered mapping from
	// option name to typed value. It is built once per run and read-only
	// afterward.
	Config struct {
		entries []Entry
		index   map[string]int
	}

	// NotFoundError is returned when the option file does not exist.
	// It wraps ErrConfigNotFound for errors.Is() compatibility.
	NotFoundError struct {
		Path string
	}

	// ParseError is returned for a malformed option-file line.
	// It wraps ErrConfigParse for errors.Is() compatibility.
	ParseError struct {
		Path   string
		Line   int
		Text   string
		Reason string
	}

	// DuplicateKeyError is returned when a key appears more than once,
	// regardless of whether the values match. It wraps ErrConfigParse.
	DuplicateKeyError struct {
		Path      string
		Key       string
		FirstLine int
		Line      int
	}
)

const (
	// KindTristate marks a y/n/m value.
	KindTristate Kind = iota
	// KindInt marks a decimal integer value.
	KindInt
	// KindString marks a double-quoted string value.
	KindString
)

const (
	// TristateDisabled is the 'n' state.
	TristateDisabled Tristate = iota
	// TristateEnabled is the 'y' state.
	TristateEnabled
	// TristateModule is the 'm' state: enabled for flag purposes, but
	// tracked distinctly from a plain 'y'.
	TristateModule
)

// Enabled reports whether a tristate value counts as switched on.
// Module ('m') counts as enabled.
func (v Value) Enabled() bool {
	return v.Kind == KindTristate &&
		(v.Tristate == TristateEnabled || v.Tristate == TristateModule)
}

// String renders the value in option-file syntax.
func (v Value) String() string {
	switch v.Kind {
	case KindTristate:
		switch v.Tristate {
		case TristateEnabled:
			return "y"
		case TristateModule:
			return "m"
		default:
			return "n"
		}
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	default:
		return strconv.Quote(v.Str)
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// Unwrap returns ErrConfigNotFound so callers can use errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.Path, e.Line, e.Reason, e.Text)
}

// Unwrap returns ErrConfigParse so callers can use errors.Is.
func (e *ParseError) Unwrap() error { return ErrConfigParse }

// Error implements the error interface. Both occurrences are named.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s:%d: duplicate key %q (first defined on line %d)",
		e.Path, e.Line, e.Key, e.FirstLine)
}

// Unwrap returns ErrConfigParse so callers can use errors.Is.
func (e *DuplicateKeyError) Unwrap() error { return ErrConfigParse }

// ParseFile reads and parses the option file at path.
// A missing file yields a NotFoundError; any malformed line aborts parsing.
func ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return Parse(content, path)
}

// Parse parses option-file content. The path parameter is used in error
// messages only.
//
// Grammar, line-oriented:
//   - Blank lines and lines whose first non-whitespace character is '#'
//     are ignored.
//   - KEY=VALUE. KEY is a non-empty token without whitespace or '='.
//   - VALUE is classified in priority order: y/n/m tristate, double-quoted
//     string (no escape processing), signed decimal integer. Anything else
//     is a ParseError naming the line.
//   - A key may appear at most once; duplicates are a DuplicateKeyError.
func Parse(content []byte, path string) (*Config, error) {
	cfg := &Config{index: make(map[string]int)}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lineNum := i + 1
		raw := strings.TrimSuffix(line, "\r")

		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, rawValue, found := strings.Cut(trimmed, "=")
		if !found {
			return nil, &ParseError{Path: path, Line: lineNum, Text: trimmed, Reason: "missing '='"}
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &ParseError{Path: path, Line: lineNum, Text: trimmed, Reason: "empty key"}
		}
		if strings.ContainsAny(key, " \t") {
			return nil, &ParseError{Path: path, Line: lineNum, Text: trimmed, Reason: "key contains whitespace"}
		}

		value, err := parseValue(strings.TrimSpace(rawValue))
		if err != nil {
			return nil, &ParseError{Path: path, Line: lineNum, Text: trimmed, Reason: err.Error()}
		}

		if first, exists := cfg.index[key]; exists {
			return nil, &DuplicateKeyError{
				Path:      path,
				Key:       key,
				FirstLine: cfg.entries[first].Line,
				Line:      lineNum,
			}
		}

		cfg.index[key] = len(cfg.entries)
		cfg.entries = append(cfg.entries, Entry{Key: key, Value: value, Line: lineNum})
	}

	return cfg, nil
}

// parseValue classifies a raw value by shape, in priority order.
func parseValue(raw string) (Value, error) {
	switch raw {
	case "y":
		return Value{Kind: KindTristate, Tristate: TristateEnabled}, nil
	case "n":
		return Value{Kind: KindTristate, Tristate: TristateDisabled}, nil
	case "m":
		return Value{Kind: KindTristate, Tristate: TristateModule}, nil
	}

	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		// Quotes stripped, no escape processing.
		return Value{Kind: KindString, Str: raw[1 : len(raw)-1]}, nil
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Value{Kind: KindInt, Int: n}, nil
	}

	return Value{}, fmt.Errorf("value %q is not y/n/m, a quoted string, or a decimal integer", raw)
}

// Len returns the number of entries.
func (c *Config) Len() int { return len(c.entries) }

// Entries returns the entries in insertion order.
func (c *Config) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Get returns the value for key and whether the key is present.
func (c *Config) Get(key string) (Value, bool) {
	i, ok := c.index[key]
	if !ok {
		return Value{}, false
	}
	return c.entries[i].Value, true
}

// Has reports whether key is present.
func (c *Config) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Keys returns the keys in insertion order.
func (c *Config) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// EnabledKeys returns, in insertion order, every key whose value is the
// tristate 'y' or 'm'.
func (c *Config) EnabledKeys() []string {
	var keys []string
	for _, e := range c.entries {
		if e.Value.Enabled() {
			keys = append(keys, e.Key)
		}
	}
	return keys
}
