package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

type field struct {
	key string
	u32 func(*Config) *uint32
	str func(*Config) *string
}

var fields = []field{
	{key: "kdf.iterations", u32: func(c *Config) *uint32 { return &c.KDF.Iterations }},
	{key: "kdf.memory", u32: func(c *Config) *uint32 { return &c.KDF.Memory }},
	{key: "kdf.parallelism", u32: func(c *Config) *uint32 { return &c.KDF.Parallelism }},
	{key: "kdf.chunk_size", u32: func(c *Config) *uint32 { return &c.KDF.ChunkSize }},
	{key: "log.level", str: func(c *Config) *string { return &c.Log.Level }},
	{key: "log.format", str: func(c *Config) *string { return &c.Log.Format }},
}

// Keys lists every settable key in display order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}
	return keys
}

func lookupField(key string) (field, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range fields {
		if f.key == key {
			return f, nil
		}
	}
	return field{}, fmt.Errorf("%w: unknown config key %q", common.ErrInvalidInput, key)
}

// Set assigns value to key. Numbers are parsed as unsigned 32-bit integers
// and strings are lowercased. Set does not validate the result; call
// Validate afterwards.
func (c *Config) Set(key, value string) error {
	f, err := lookupField(key)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	if f.u32 != nil {
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", common.ErrInvalidInput, f.key, err)
		}
		*f.u32(c) = uint32(n)
		return nil
	}
	*f.str(c) = strings.ToLower(value)
	return nil
}

// Get returns the current value of key as text.
func (c *Config) Get(key string) (string, error) {
	f, err := lookupField(key)
	if err != nil {
		return "", err
	}
	if f.u32 != nil {
		return strconv.FormatUint(uint64(*f.u32(c)), 10), nil
	}
	return *f.str(c), nil
}
