// Package config resolves driver and daemon settings from compiled-in
// defaults, an optional config file, and environment variables, using
// viper. None of these settings affect the container format; they only
// steer thread count, the default variant label, socket path, the
// accelerator kernel directory, and the legacy accelerator toggles.
package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"

	lzo "github.com/lzoblock/lzo1x"
)

// Config is the fully resolved, immutable settings record threaded
// explicitly through driver and daemon constructors. It is never read from
// a package-level global at call time.
type Config struct {
	Workers      int    `mapstructure:"workers"`
	Label        string `mapstructure:"label"`
	DaemonSocket string `mapstructure:"daemon_socket"`
	KernelDir    string `mapstructure:"kernel_dir"`

	// Legacy accelerator toggles (spec.md §6 "Environment variables").
	ForceNBlk    int    `mapstructure:"force_nblk"`
	DecompVec    bool   `mapstructure:"decomp_vec"`
	ForceMap     bool   `mapstructure:"force_map"`
	OpenCLDevice string `mapstructure:"opencl_device"`
}

// defaults returns the compiled-in defaults before any file or environment
// override is applied.
func defaults() *Config {
	return &Config{
		Workers:      runtime.NumCPU(),
		Label:        "X",
		DaemonSocket: "/tmp/lzo1xd.sock",
		KernelDir:    "./kernels",
		ForceNBlk:    0,
		DecompVec:    false,
		ForceMap:     false,
		OpenCLDevice: "",
	}
}

// Load resolves a Config from, in increasing priority: compiled-in
// defaults, a config file (if configFile is non-empty, or if
// LZO1X_CONFIG is set in the environment and configFile is empty), and
// environment variables. Environment variables use the LZO1X_ prefix
// (e.g. LZO1X_WORKERS) plus four legacy names bound explicitly for
// backward compatibility with the original accelerator path:
// LZO_FORCE_NBLK, LZO_DECOMP_VEC, LZO_FORCE_MAP, LZO_OPENCL_DEVICE.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	d := defaults()

	v.SetDefault("workers", d.Workers)
	v.SetDefault("label", d.Label)
	v.SetDefault("daemon_socket", d.DaemonSocket)
	v.SetDefault("kernel_dir", d.KernelDir)
	v.SetDefault("force_nblk", d.ForceNBlk)
	v.SetDefault("decomp_vec", d.DecompVec)
	v.SetDefault("force_map", d.ForceMap)
	v.SetDefault("opencl_device", d.OpenCLDevice)

	v.SetEnvPrefix("LZO1X")
	v.AutomaticEnv()

	if err := v.BindEnv("force_nblk", "LZO_FORCE_NBLK"); err != nil {
		return nil, fmt.Errorf("config: bind LZO_FORCE_NBLK: %w", err)
	}
	if err := v.BindEnv("decomp_vec", "LZO_DECOMP_VEC"); err != nil {
		return nil, fmt.Errorf("config: bind LZO_DECOMP_VEC: %w", err)
	}
	if err := v.BindEnv("force_map", "LZO_FORCE_MAP"); err != nil {
		return nil, fmt.Errorf("config: bind LZO_FORCE_MAP: %w", err)
	}
	if err := v.BindEnv("opencl_device", "LZO_OPENCL_DEVICE"); err != nil {
		return nil, fmt.Errorf("config: bind LZO_OPENCL_DEVICE: %w", err)
	}

	if configFile == "" {
		// AutomaticEnv + SetEnvPrefix("LZO1X") makes this key resolve the
		// LZO1X_CONFIG environment variable.
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return cfg, nil
}

// ParseLabel resolves the configured default variant label, falling back to
// lzo.LabelX if Label is empty or unrecognised.
func (c *Config) ParseLabel() lzo.Label {
	label, ok := lzo.ParseLabel(c.Label)
	if !ok {
		return lzo.LabelX
	}
	return label
}
