package config

import (
	"github.com/spf13/viper"
)

// Load reads the config file at path on top of the defaults. A missing
// or unreadable file is not an error; the defaults apply. Used for the
// initial load and for live reload when the watcher reports a change.
func Load(path string) Config {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		return cfg
	}
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("floating.placement", defaults.Floating.Placement)
	v.SetDefault("floating.offset", defaults.Floating.Offset)
	v.SetDefault("floating.padding", defaults.Floating.Padding)
	v.SetDefault("floating.flip", defaults.Floating.Flip)
	v.SetDefault("floating.shift", defaults.Floating.Shift)
	v.SetDefault("theme.mode", defaults.Theme.Mode)
	v.SetDefault("theme.highlight", defaults.Theme.Highlight)
	v.SetDefault("theme.subtle", defaults.Theme.Subtle)
	v.SetDefault("theme.backdrop", defaults.Theme.Backdrop)
	v.SetDefault("theme.error", defaults.Theme.Error)
	v.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	v.SetDefault("ui.mouse_enabled", defaults.UI.MouseEnabled)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}
