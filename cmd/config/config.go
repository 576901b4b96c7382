package config

import (
	fxnum "github.com/beatoz/fxnum-go"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultDecimals = int32(18)

	keyDecimals = "decimals"
	keyJSON     = "json"
)

// Config carries the CLI-wide settings, resolved from flags and the
// FXNUM_* environment via viper.
type Config struct {
	Decimals int32
	JSON     bool
}

func DefaultConfig() *Config {
	return &Config{
		Decimals: DefaultDecimals,
	}
}

// BindFlags registers the persistent flags and binds them into viper.
func (c *Config) BindFlags(fs *pflag.FlagSet) error {
	fs.Int32(keyDecimals, c.Decimals, "decimal places carried by every value (0..38)")
	fs.Bool(keyJSON, c.JSON, "render results as JSON")

	if err := viper.BindPFlag(keyDecimals, fs.Lookup(keyDecimals)); err != nil {
		return err
	}
	return viper.BindPFlag(keyJSON, fs.Lookup(keyJSON))
}

// Load resolves the effective settings; flag values win over environment.
func (c *Config) Load() error {
	viper.SetEnvPrefix("FXNUM")
	viper.AutomaticEnv()

	c.Decimals = viper.GetInt32(keyDecimals)
	c.JSON = viper.GetBool(keyJSON)

	// surface a bad decimal count before any command runs
	if _, xerr := fxnum.Zero(c.Decimals); xerr != nil {
		return xerr
	}
	return nil
}
