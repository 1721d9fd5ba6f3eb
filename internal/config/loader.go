package config

import (
	"fmt"
	"net"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFiles reads .env style files into the process environment, without
// overriding variables that are already set, and then calls Load. Missing
// files are skipped.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("config load %s: %w", f, err)
		}
	}
	return Load()
}

// LoadFrom reads configuration through lookup, applies defaults and
// validates the result.
func LoadFrom(lookup LookupFunc) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from env, envAlt, default
// and required tags.
func loadStruct(v reflect.Value, lookup LookupFunc) error {
	for _, field := range reflect.VisibleFields(v.Type()) {
		if len(field.Index) != 1 || !field.IsExported() {
			continue
		}
		target := v.FieldByIndex(field.Index)
		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(target, lookup); err != nil {
				return err
			}
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := resolve(field.Tag, lookup)
		if !ok {
			return fmt.Errorf("%s is required", name)
		}
		if raw == "" {
			continue
		}
		if err := setField(target, raw); err != nil {
			return fmt.Errorf("%s=%q: %w", name, raw, err)
		}
	}
	return nil
}

// resolve returns the raw value for a field: env, then envAlt, then
// default. ok is false when a required field has no value.
func resolve(tag reflect.StructTag, lookup LookupFunc) (raw string, ok bool) {
	for _, key := range []string{tag.Get("env"), tag.Get("envAlt")} {
		if key == "" {
			continue
		}
		if v, found := lookup(key); found && v != "" {
			return v, true
		}
	}
	if tag.Get("required") == "true" {
		return "", false
	}
	return tag.Get("default"), true
}

var durationType = reflect.TypeOf(time.Duration(0))

// setField parses value into field according to the field's type.
func setField(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type())
		}
		var items []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}
	return nil
}

// problems collects validation failures.
type problems []string

func (p *problems) check(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Sprintf(format, args...))
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var p problems

	if c.Database.URL != "" {
		p.check(c.Database.MaxConns > 0, "DB_MAX_CONNS must be positive")
		p.check(c.Database.MaxConns >= c.Database.MinConns,
			"DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", c.Database.MaxConns, c.Database.MinConns)
	}

	p.check(c.Server.Port > 0 && c.Server.Port <= 65535, "SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	p.check(c.Server.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")

	p.check(c.Preview.MaxSize > 0, "PREVIEW_MAX_SIZE must be positive")
	p.check(len(c.Preview.AllowedTypes) > 0, "PREVIEW_ALLOWED_TYPES must list at least one media type")
	for _, mt := range c.Preview.AllowedTypes {
		major, minor, found := strings.Cut(mt, "/")
		p.check(found && major != "" && minor != "", "PREVIEW_ALLOWED_TYPES entry %q is not a media type", mt)
	}
	p.check(c.Preview.MaxConcurrent > 0, "PREVIEW_MAX_CONCURRENT must be positive")

	p.check(c.Table.PageSize > 0, "TABLE_PAGE_SIZE must be positive")
	_, err := language.Parse(c.Table.Locale)
	p.check(err == nil, "TABLE_LOCALE (%q) is not a valid language tag", c.Table.Locale)

	p.check(!c.Rate.Enabled || c.Rate.RequestsPerMinute > 0,
		"RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")

	for _, entry := range c.Security.TrustedProxies {
		_, _, cidrErr := net.ParseCIDR(entry)
		p.check(cidrErr == nil || net.ParseIP(entry) != nil,
			"TRUSTED_PROXIES entry %q is not a CIDR or IP address", entry)
	}
	p.check(!c.Security.RequireAPIKey || len(c.Security.APIKeys) > 0, "REQUIRE_API_KEY is true but API_KEYS is empty")

	level := strings.ToLower(c.Logging.Level)
	p.check(slices.Contains([]string{"debug", "info", "warn", "error"}, level),
		"LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	format := strings.ToLower(c.Logging.Format)
	p.check(format == "text" || format == "json", "LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)

	if len(p) > 0 {
		return fmt.Errorf("%d invalid settings:\n  - %s", len(p), strings.Join(p, "\n  - "))
	}
	return nil
}

// LocaleTag returns the parsed table locale, English when invalid.
func (c *TableConfig) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// String returns a representation of the config safe for logging.
func (c *Config) String() string {
	db := "memory"
	if c.Database.URL != "" {
		db = "[MASKED]"
	}
	return fmt.Sprintf("Config{Server: {Addr: %q}, Database: {URL: %s, MaxConns: %d}, "+
		"Preview: {MaxSize: %d, AllowedTypes: %v, MaxConcurrent: %d}, Table: {PageSize: %d, Locale: %q}, "+
		"Rate: {Enabled: %v, RequestsPerMinute: %d}, Logging: {Level: %q, Format: %q}}",
		c.Server.Addr(), db, c.Database.MaxConns,
		c.Preview.MaxSize, c.Preview.AllowedTypes, c.Preview.MaxConcurrent,
		c.Table.PageSize, c.Table.Locale,
		c.Rate.Enabled, c.Rate.RequestsPerMinute,
		c.Logging.Level, c.Logging.Format)
}
