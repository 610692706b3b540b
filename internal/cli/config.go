package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vk/metareg/internal/app"
	"github.com/vk/metareg/internal/protocol"
	"github.com/vk/metareg/internal/sanity"
	"github.com/vk/metareg/internal/tracing"
)

const (
	configName = "metareg"
	envPrefix  = "METAREG"
)

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"manifest":       "manifests",
	"protocol":       "protocol",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"dump-path":      "dump_path",
	"disable-checks": "disable_checks",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("protocol", protocol.Current().String())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("dump_path", sanity.DefaultDumpPath)

	defaults := tracing.DefaultConfig()
	v.SetDefault("tracing.enabled", defaults.Enabled)
	v.SetDefault("tracing.exporter", defaults.Exporter)
	v.SetDefault("tracing.file_path", defaults.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.SampleRate)
	v.SetDefault("tracing.service_name", defaults.ServiceName)
}

// loadConfig merges, from lowest to highest precedence, the defaults, the
// config file, METAREG_* environment variables and the flags of cmd.
//
// Without --config the file is metareg.yaml in the working directory and
// may be absent.
func loadConfig(cmd *cobra.Command, cfgFile string) (*app.Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	for flag, key := range flagKeys {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	var raw app.Config
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg, err := app.NewConfig(raw)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
