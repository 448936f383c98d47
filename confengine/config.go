// Copyright 2025 The kbroker Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package confengine

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config wraps a parsed TOML document and provides dot-path lookups
// (Child/Has/Unpack) on top of it, the same shape the project's
// previous ucfg-backed wrapper exposed.
type Config struct {
	tree map[string]any
}

func New(tree map[string]any) *Config {
	if tree == nil {
		tree = map[string]any{}
	}
	return &Config{tree: tree}
}

func (c *Config) Has(path string) bool {
	_, ok := lookup(c.tree, path)
	return ok
}

func (c *Config) Child(path string) (*Config, error) {
	v, ok := lookup(c.tree, path)
	if !ok {
		return nil, fmt.Errorf("confengine: no such path %q", path)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("confengine: %q is not a table", path)
	}
	return New(m), nil
}

func (c *Config) MustChild(path string) *Config {
	child, err := c.Child(path)
	if err != nil {
		panic(err)
	}
	return child
}

func (c *Config) Unpack(to any) error {
	return remarshal(c.tree, to)
}

func (c *Config) Disabled(path string) bool {
	return boolAt(c.tree, path, "disabled", false)
}

func (c *Config) Enabled(path string) bool {
	return boolAt(c.tree, path, "enabled", false)
}

func (c *Config) UnpackChild(path string, to any) error {
	child, err := c.Child(path)
	if err != nil {
		return err
	}
	return child.Unpack(to)
}

// LoadConfigPath reads and parses a TOML file. Absence or malformation
// is reported to the caller rather than silently swallowed here — the
// caller (cmd/serve.go) decides to fall back to an empty Config so that
// defaults apply throughout, per the configuration contract.
func LoadConfigPath(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadContent(b)
}

func LoadContent(b []byte) (*Config, error) {
	var tree map[string]any
	if _, err := toml.Decode(string(b), &tree); err != nil {
		return nil, err
	}
	return New(tree), nil
}

func lookup(tree map[string]any, path string) (any, bool) {
	cur := any(tree)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[part]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func boolAt(tree map[string]any, path, key string, def bool) bool {
	v, ok := lookup(tree, path+"."+key)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// remarshal round-trips tree back through the TOML encoder so it can be
// decoded into a concrete struct. BurntSushi/toml only decodes directly
// from text, not from an already-parsed map[string]any, so a child
// Config's Unpack has to re-serialize its own subtree first.
func remarshal(tree map[string]any, to any) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tree); err != nil {
		return err
	}
	_, err := toml.Decode(buf.String(), to)
	return err
}
