package config

import (
	"fmt"
	"strings"
	"time"
)

// StoreMode selects the credential store backing.
type StoreMode string

const (
	// StoreModePostgres persists credentials in Postgres.
	StoreModePostgres StoreMode = "postgres"
	// StoreModeMemory keeps credentials in process memory (development only).
	StoreModeMemory StoreMode = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreMode.
func (m *StoreMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "postgres", "memory":
		*m = StoreMode(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreMode: %q (valid options: postgres, memory)", v)
	}
}

// SessionBackend selects where sessions live.
type SessionBackend string

const (
	// SessionBackendMemory keeps sessions in process memory; a restart logs
	// everyone out.
	SessionBackendMemory SessionBackend = "memory"
	// SessionBackendRedis shares sessions across processes via Redis.
	SessionBackendRedis SessionBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "memory", "redis":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: memory, redis)", v)
	}
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// StoreMode determines which credential store backing to use.
	StoreMode StoreMode `env:"AUTH_STORE_MODE" envDefault:"postgres"`

	// SessionBackend determines where sessions live.
	SessionBackend SessionBackend `env:"AUTH_SESSION_BACKEND" envDefault:"memory"`

	// SessionIdleTimeout is the sliding inactivity window for sessions.
	SessionIdleTimeout time.Duration `env:"AUTH_SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	// MaxLoginFailures is the number of consecutive failed attempts that
	// locks a credential record.
	MaxLoginFailures int `env:"AUTH_MAX_LOGIN_FAILURES" envDefault:"5"`

	// RootBootstrapPassword seeds the root super-administrator credential on
	// first start. Its digest is stored; an existing root record is never
	// overwritten. Change the default outside development.
	RootBootstrapPassword string `env:"AUTH_ROOT_BOOTSTRAP_PASSWORD" envDefault:"root"`

	// RootDisplayName is the display name for the seeded root record.
	RootDisplayName string `env:"AUTH_ROOT_DISPLAY_NAME" envDefault:"系统管理员"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionIdleTimeout < time.Minute {
		a.SessionIdleTimeout = time.Minute
	}
	if a.MaxLoginFailures < 1 {
		a.MaxLoginFailures = 1
	}
}
