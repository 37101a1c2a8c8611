package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/geojson/geometry"
	"github.com/tidwall/gjson"
	"github.com/tidwall/linesplit/core"
	"github.com/tidwall/linesplit/internal/engine"
)

// Config keys
const (
	Input         = "input"
	Split         = "split"
	Output        = "output"
	MaxIterations = "max_iterations"
	IndexGeometry = "index_geometry"
	IndexKind     = "index_kind"
	CacheSize     = "cache_size"
	Pretty        = "pretty"
	LogConfig     = "logconfig"
	MetricsPath   = "metrics"
	Timeout       = "timeout"
)

var (
	errInvalidConfig  = errors.New("invalid config")
	errMissingInput   = errors.New("missing input layer")
	errMissingSplit   = errors.New("missing split layer")
	errMissingOutput  = errors.New("missing output")
	errInvalidTimeout = errors.New("invalid timeout")
)

// Config of a linesplit run.
type Config struct {
	Input         string
	Split         string
	Output        string
	MaxIterations int
	IndexGeometry int
	IndexKind     string
	CacheSize     int
	Pretty        bool
	LogConfig     string
	MetricsPath   string
	Timeout       time.Duration
}

// Default returns the config used when nothing is set.
func Default() *Config {
	return &Config{
		MaxIterations: core.MaxIterations,
		IndexGeometry: core.IndexGeometry,
		IndexKind:     core.IndexKind,
	}
}

// Load reads a JSON config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Parse reads a JSON config over the defaults.
func Parse(json string) (*Config, error) {
	if !gjson.Valid(json) || !gjson.Parse(json).IsObject() {
		return nil, errInvalidConfig
	}
	config := Default()
	config.Input = gjson.Get(json, Input).String()
	config.Split = gjson.Get(json, Split).String()
	config.Output = gjson.Get(json, Output).String()
	config.Pretty = gjson.Get(json, Pretty).Bool()
	config.MetricsPath = gjson.Get(json, MetricsPath).String()
	// zero is an intentional setting, look for existence
	if v := gjson.Get(json, MaxIterations); v.Exists() {
		config.MaxIterations = int(v.Int())
	}
	if v := gjson.Get(json, IndexGeometry); v.Exists() {
		config.IndexGeometry = int(v.Int())
	}
	if v := gjson.Get(json, IndexKind); v.Exists() {
		config.IndexKind = v.String()
	}
	if v := gjson.Get(json, CacheSize); v.Exists() {
		config.CacheSize = int(v.Int())
	}
	// timeout is a duration string "90s", or a number of seconds
	if v := gjson.Get(json, Timeout); v.Type == gjson.String {
		d, err := time.ParseDuration(v.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidTimeout, err)
		}
		config.Timeout = d
	} else if v.Exists() {
		config.Timeout = time.Duration(v.Float() * float64(time.Second))
	}
	if v := gjson.Get(json, LogConfig); v.IsObject() {
		config.LogConfig = v.Raw
	} else {
		config.LogConfig = v.String()
	}
	return config, nil
}

// Validate checks that a run can start with the config.
func (config *Config) Validate() error {
	switch {
	case config.Input == "":
		return errMissingInput
	case config.Split == "":
		return errMissingSplit
	case config.Output == "":
		return errMissingOutput
	}
	_, err := config.IndexOptions()
	return err
}

// IndexOptions returns the geometry index options.
func (config *Config) IndexOptions() (*geometry.IndexOptions, error) {
	return engine.Options(config.IndexKind, config.IndexGeometry)
}

// SameLayer returns true when the input layer is also the split layer.
func (config *Config) SameLayer() bool {
	return config.Input == config.Split
}
