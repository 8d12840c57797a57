package config

import (
	"strings"
	"testing"
)

func TestNewConfigFile(t *testing.T) {
	for _, cfg := range []*Config{
		nil,
		DefaultConfig(),
		{},
	} {
		s := newConfigFile(cfg)
		if s == "" {
			t.Errorf("newConfigFile(%v) => %q, want non-empty string", cfg, s)
		}
		if strings.Contains(s, "session: \"") {
			t.Errorf("newConfigFile(%v) must not write the session", cfg)
		}
	}
}
