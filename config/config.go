package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LumeraProtocol/validator-registry/pkg/logtrace"
)

// Network is one validator directory and the two lookup tables built from it.
type Network struct {
	Name       string `yaml:"name"`
	Dir        string `yaml:"dir"`
	JSONOutput string `yaml:"json_output"`
	CSVOutput  string `yaml:"csv_output"`
}

// JSONPath is where the JSON table is written. Outputs live next to the
// validator files they are built from.
func (n Network) JSONPath() string {
	return filepath.Join(n.Dir, n.JSONOutput)
}

// CSVPath is where the key/name CSV map is written.
func (n Network) CSVPath() string {
	return filepath.Join(n.Dir, n.CSVOutput)
}

// Config represents the YAML configuration structure
type Config struct {
	Root     string    `yaml:"root"`
	Networks []Network `yaml:"networks"`
}

// Default returns the mainnet and testnet layout under root.
func Default(root string) *Config {
	cfg := &Config{
		Root: root,
		Networks: []Network{
			{Name: DefaultMainnet},
			{Name: DefaultTestnet},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// DefaultRoot is the directory one level above the one holding the running
// executable.
func DefaultRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}

// LoadConfig loads the configuration from a file. A non-empty root overrides
// the root set in the file; a relative root in the file is taken relative to
// the file itself.
func LoadConfig(ctx context.Context, filename, root string) (*Config, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("error getting absolute path for config file: %w", err)
	}

	logtrace.Info(ctx, "Loading configuration", logtrace.Fields{
		logtrace.FieldPath: absPath,
	})

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", absPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	switch {
	case root != "":
		cfg.Root = root
	case cfg.Root != "" && !filepath.IsAbs(cfg.Root):
		cfg.Root = filepath.Join(filepath.Dir(absPath), cfg.Root)
	}

	if len(cfg.Networks) == 0 {
		logtrace.Info(ctx, "No networks configured, using mainnet and testnet", nil)
		cfg.Networks = []Network{{Name: DefaultMainnet}, {Name: DefaultTestnet}}
	}

	if cfg.Root == "" {
		if cfg.Root, err = DefaultRoot(); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults derives missing directories and output names from the
// network name and resolves relative directories against Root.
func (c *Config) applyDefaults() {
	for i := range c.Networks {
		n := &c.Networks[i]
		n.Name = strings.TrimSpace(n.Name)
		if n.Dir == "" {
			n.Dir = n.Name
		}
		if !filepath.IsAbs(n.Dir) && c.Root != "" {
			n.Dir = filepath.Join(c.Root, n.Dir)
		}
		if n.JSONOutput == "" {
			n.JSONOutput = n.Name + DefaultJSONSuffix
		}
		if n.CSVOutput == "" {
			n.CSVOutput = n.Name + DefaultCSVSuffix
		}
	}
}

// Validate checks network names and output file names.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Networks))
	for _, n := range c.Networks {
		if n.Name == "" {
			return errors.New("network name is required")
		}
		if _, dup := seen[n.Name]; dup {
			return fmt.Errorf("network %q is configured more than once", n.Name)
		}
		seen[n.Name] = struct{}{}

		if filepath.Base(n.JSONOutput) != n.JSONOutput || !strings.HasSuffix(n.JSONOutput, ".json") {
			return fmt.Errorf("network %q: json_output must be a .json file name, got %q", n.Name, n.JSONOutput)
		}
		if filepath.Base(n.CSVOutput) != n.CSVOutput || !strings.HasSuffix(n.CSVOutput, ".csv") {
			return fmt.Errorf("network %q: csv_output must be a .csv file name, got %q", n.Name, n.CSVOutput)
		}
	}
	return nil
}

// Select returns the named networks in the order given, or every network
// when names is empty.
func (c *Config) Select(names []string) ([]Network, error) {
	if len(names) == 0 {
		return c.Networks, nil
	}
	out := make([]Network, 0, len(names))
	for _, name := range names {
		n, ok := c.Network(name)
		if !ok {
			return nil, fmt.Errorf("unknown network %q", name)
		}
		out = append(out, n)
	}
	return out, nil
}

// Network looks up a network by name.
func (c *Config) Network(name string) (Network, bool) {
	for _, n := range c.Networks {
		if n.Name == name {
			return n, true
		}
	}
	return Network{}, false
}
