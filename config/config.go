// Package config loads settings for the borsh command from a YAML file and
// BORSH_* environment variables.
//
// Keys are lower case without separators, mirroring the environment form:
//
//	log:
//	  level: debug        # BORSH_LOG_LEVEL
//	  formatter: json     # BORSH_LOG_FORMATTER
//	decode:
//	  allowtrailingbytes: true
//	  indent: "  "
//	  format: yaml
//	encode:
//	  allowunknownfields: false
//	  format: json
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BORSH"

// Config is the full command configuration.
type Config struct {
	Log    Log    `yaml:"log" mapstructure:"log"`
	Decode Decode `yaml:"decode" mapstructure:"decode"`
	Encode Encode `yaml:"encode" mapstructure:"encode"`
}

// Log configures the process logger.
type Log struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Formatter string `yaml:"formatter" mapstructure:"formatter"`
}

// Decode holds defaults for decode and unpack.
type Decode struct {
	AllowTrailingBytes bool   `yaml:"allowtrailingbytes" mapstructure:"allowtrailingbytes"`
	Indent             string `yaml:"indent" mapstructure:"indent"`
	Format             string `yaml:"format" mapstructure:"format"`
}

// Encode holds defaults for encode.
type Encode struct {
	AllowUnknownFields bool   `yaml:"allowunknownfields" mapstructure:"allowunknownfields"`
	Format             string `yaml:"format" mapstructure:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Log:    Log{Level: "warn", Formatter: "text"},
		Decode: Decode{Format: "json"},
		Encode: Encode{Format: "json"},
	}
}

// Load reads the file at path, if any, and applies the process environment.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return Parse(data, os.Environ())
}

// Parse builds a Config from YAML bytes and KEY=VALUE environment entries.
// Environment entries win over the file; unset keys keep their defaults.
func Parse(data []byte, env []string) (*Config, error) {
	tree := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if tree == nil {
		tree = make(map[string]interface{})
	}
	if err := overlayEnv(tree, env); err != nil {
		return nil, err
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(tree); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlayEnv writes BORSH_A_B=v into tree["a"]["b"]. Only variables naming a
// Config field are read; other BORSH_ variables are ignored.
func overlayEnv(tree map[string]interface{}, env []string) error {
	fields := make(map[string][]string)
	envFields(reflect.TypeOf(Config{}), nil, fields)

	for _, kv := range env {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		path, ok := fields[parts[0]]
		if !ok {
			continue
		}
		node := tree
		for _, key := range path[:len(path)-1] {
			child, ok := node[key]
			if !ok || child == nil {
				child = make(map[string]interface{})
				node[key] = child
			}
			m, ok := child.(map[string]interface{})
			if !ok {
				return fmt.Errorf("config: %s: %q is not a section", parts[0], key)
			}
			node = m
		}
		node[path[len(path)-1]] = parts[1]
	}
	return nil
}

// envFields maps each environment variable name to its key path, walking
// nested sections of t.
func envFields(t reflect.Type, prefix []string, out map[string][]string) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		path := append(append([]string(nil), prefix...), sf.Tag.Get("mapstructure"))
		if sf.Type.Kind() == reflect.Struct {
			envFields(sf.Type, path, out)
			continue
		}
		out[EnvPrefix+"_"+strings.ToUpper(strings.Join(path, "_"))] = path
	}
}

// Validate rejects values the command cannot act on.
func (c *Config) Validate() error {
	switch c.Log.Formatter {
	case "text", "json":
	default:
		return fmt.Errorf("config: unsupported log formatter %q", c.Log.Formatter)
	}
	for name, f := range map[string]string{"decode": c.Decode.Format, "encode": c.Encode.Format} {
		if err := CheckFormat(f); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	return nil
}

// CheckFormat accepts the text formats values can be read and written in.
func CheckFormat(f string) error {
	switch f {
	case "json", "yaml":
		return nil
	}
	return fmt.Errorf("unsupported format %q (want json or yaml)", f)
}
