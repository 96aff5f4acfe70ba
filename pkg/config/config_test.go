package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "3000", cfg.App.Port)
	require.True(t, cfg.App.IsDev())
	require.Equal(t, "http://localhost:8000", cfg.Backend.PublicURL)
	require.Equal(t, StorageSQLite, cfg.Storage.Backend)
	require.Equal(t, float64(10), cfg.Poll.HealthInterval.Seconds())
	require.Equal(t, float64(30), cfg.Poll.AdminStatsInterval.Seconds())
}

func TestLoadRejectsUnknownStorageBackend(t *testing.T) {
	t.Setenv("POWERCORE_STORAGE_BACKEND", "etcd")
	_, err := Load()
	require.Error(t, err)
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		public   string
		internal string
		want     string
	}{
		{name: "loopback public wins", public: "http://localhost:8000", internal: "http://backend:8000", want: "http://localhost:8000"},
		{name: "non-loopback prefers internal", public: "https://api.powercore.shop", internal: "http://backend:8000", want: "http://backend:8000"},
		{name: "missing internal falls back", public: "https://api.powercore.shop/", internal: "", want: "https://api.powercore.shop"},
	}

	for _, tt := range tests {
		b := BackendConfig{PublicURL: tt.public, InternalURL: tt.internal}
		require.Equal(t, tt.want, b.ResolveBaseURL(), tt.name)
	}
}
