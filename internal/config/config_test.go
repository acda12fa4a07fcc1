package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ZUP_GATEWAY_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, BackendMongo, cfg.LedgerBackend)
	assert.Equal(t, int64(500), cfg.CommissionBps)
	assert.Equal(t, "INR", cfg.Currency)
	assert.False(t, cfg.InsecureDemoMode)
}

func TestLoad_RefusesMissingSecret(t *testing.T) {
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_DemoModeWithoutSecret(t *testing.T) {
	t.Setenv("ZUP_INSECURE_DEMO_MODE", "true")
	t.Setenv("ZUP_LEDGER_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.InsecureDemoMode)
	assert.Equal(t, BackendMemory, cfg.LedgerBackend)
}

func TestLoad_ProductionRefusesDemoMode(t *testing.T) {
	t.Setenv("ZUP_ENVIRONMENT", EnvProduction)
	t.Setenv("ZUP_INSECURE_DEMO_MODE", "true")
	t.Setenv("ZUP_GATEWAY_SECRET", "test-secret")

	_, err := Load()
	assert.ErrorIs(t, err, ErrDemoModeInProduction)
}

func TestLoad_ProductionRefusesMissingSecret(t *testing.T) {
	t.Setenv("ZUP_ENVIRONMENT", EnvProduction)

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("ZUP_GATEWAY_SECRET", "test-secret")
	t.Setenv("ZUP_LEDGER_BACKEND", "dynamo")

	_, err := Load()
	assert.Error(t, err)
}
