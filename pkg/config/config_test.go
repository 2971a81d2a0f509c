package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 30, cfg.Sales.CreditDueDays)
	assert.Equal(t, "0", cfg.Sales.TaxRate)
	assert.Equal(t, 30, cfg.Inventory.ExpiryHorizonDays)
	assert.Equal(t, 300*time.Second, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled(), "sin REDIS_ADDR no hay caché")
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Sobrescritos(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "MEMORY")
	v.Set("SALES_CREDIT_DUE_DAYS", "45")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("HTTP_PORT", 9090)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 45, cfg.Sales.CreditDueDays)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "mysql")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss:word", DBName: "suplementos", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%3Aword@db:5432/suplementos?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

func TestFromViper_TasaDeImpuesto(t *testing.T) {
	for _, bad := range []string{"NaN", "Inf", "0x1p-2", "-1", "diecinueve"} {
		t.Run(bad, func(t *testing.T) {
			v := viper.New()
			v.Set("SALES_TAX_RATE", bad)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}

	v := viper.New()
	v.Set("SALES_TAX_RATE", "19.5")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "19.5", cfg.Sales.TaxRate)
}
