package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/filex"
	"gopkg.in/yaml.v3"
)

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// parseFile overlays values from the file at path onto cfg. A missing file
// leaves cfg untouched. Unknown keys are rejected so typos surface early.
func parseFile(cfg *Config, path string) error {
	data, err := filex.ReadFile(path, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: read config: %w", common.ErrIO, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if isJSON(path) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: config %s: %v", common.ErrParse, path, err)
	}
	return nil
}

// Marshal encodes c as YAML, or as indented JSON when asJSON is set.
func (c *Config) Marshal(asJSON bool) ([]byte, error) {
	if asJSON {
		b, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrSerialization, err)
		}
		return append(b, '\n'), nil
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSerialization, err)
	}
	return b, nil
}

// Save writes c to path atomically, creating the parent directory. The
// encoding follows the file extension.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := c.Marshal(isJSON(path))
	if err != nil {
		return err
	}
	if err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	if err := filex.WriteFileAtomic(path, data, 0o600, c.Params().ChunkBytes()); err != nil {
		return fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	return nil
}
