package planner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a Config from a YAML file. It returns an error both when
// the file cannot be read (including a missing file; the cause is wrapped,
// so errors.Is(err, fs.ErrNotExist) works) and when the YAML is malformed.
// Whether an absent tuning file means "use detected host capacity" is left
// to the caller.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("planner: read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("planner: parse config %s: %w", path, err)
	}
	return &cfg, nil
}
