package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 30, cfg.DiasFacturaVencida)
	assert.Equal(t, 10, cfg.IVADefault)
	assert.Equal(t, 10, cfg.StockMinimoDefault)
	assert.True(t, cfg.RunMigrations)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("DIAS_FACTURA_VENCIDA", "45")
	t.Setenv("APP_ENV", "production")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.DiasFacturaVencida)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.RunMigrations)
}

func TestLoad_ClavesSinDefault(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("JWT_SECRET", "secreto-de-prueba")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secreto-de-prueba", cfg.JWTSecret)
}

func TestListas(t *testing.T) {
	cfg := &Config{AlertasEmailTo: " a@x.py, ,b@x.py ", CORSOrigins: ""}
	assert.Equal(t, []string{"a@x.py", "b@x.py"}, cfg.DestinatariosAlertas())
	assert.Empty(t, cfg.OrigenesCORS())
}
