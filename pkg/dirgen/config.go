// Copyright 2026 Chainguard, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dirgen

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config selects what the generator may produce.
type Config struct {
	// PrintableNames restricts names to 1-10 lowercase ASCII letters.
	PrintableNames bool `yaml:"printable-names"`
	// FileTypes is the set of kinds to choose from. Order and duplicates do
	// not matter.
	FileTypes []FileType `yaml:"file-types"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		PrintableNames: defaultPrintableNames,
		FileTypes:      DefaultFileTypes(),
	}
}

// LoadConfig reads a YAML configuration on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read generator configuration file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse generator configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a generation.
func (c Config) Validate() error {
	if len(c.FileTypes) == 0 {
		return errors.New("no file types configured")
	}
	for _, t := range c.FileTypes {
		if _, ok := fileTypeNames[t]; !ok {
			return fmt.Errorf("unknown file type %d", int(t))
		}
	}
	return nil
}

// normalized returns a copy with the type set sorted and deduplicated, so
// that equal sets drive identical choices.
func (c Config) normalized() Config {
	types := slices.Clone(c.FileTypes)
	slices.Sort(types)
	c.FileTypes = slices.Compact(types)
	return c
}
