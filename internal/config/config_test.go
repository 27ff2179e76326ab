package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

// isolateEnv points the environment seams at an empty environment and a
// .env file inside a temp dir.
func isolateEnv(t *testing.T, env map[string]string) string {
	t.Helper()
	origLookup, origDotenv := lookupEnv, dotenvPath
	t.Cleanup(func() { lookupEnv, dotenvPath = origLookup, origDotenv })

	lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	dotenvPath = filepath.Join(t.TempDir(), ".env")
	return dotenvPath
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, uint32(2), c.KDF.Iterations)
	assert.Equal(t, uint32(19*1024), c.KDF.Memory)
	assert.Equal(t, uint32(1), c.KDF.Parallelism)
	assert.Equal(t, uint32(16), c.KDF.ChunkSize)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, cryptox.DefaultParams(), c.Params())
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zero iterations", mutate: func(c *Config) { c.KDF.Iterations = 0 }, wantErr: true},
		{name: "zero memory", mutate: func(c *Config) { c.KDF.Memory = 0 }, wantErr: true},
		{name: "zero parallelism", mutate: func(c *Config) { c.KDF.Parallelism = 0 }, wantErr: true},
		{name: "zero chunk", mutate: func(c *Config) { c.KDF.ChunkSize = 0 }, wantErr: true},
		{name: "too many iterations", mutate: func(c *Config) { c.KDF.Iterations = cryptox.MaxIterations + 1 }, wantErr: true},
		{name: "too much memory", mutate: func(c *Config) { c.KDF.Memory = cryptox.MaxMemory + 1 }, wantErr: true},
		{name: "too many lanes", mutate: func(c *Config) { c.KDF.Parallelism = cryptox.MaxParallelism + 1 }, wantErr: true},
		{name: "chunk over ceiling", mutate: func(c *Config) { c.KDF.ChunkSize = cryptox.MaxChunkSize + 1 }, wantErr: true},
		{name: "max values", mutate: func(c *Config) {
			c.KDF.Iterations = cryptox.MaxIterations
			c.KDF.Parallelism = cryptox.MaxParallelism
			c.KDF.ChunkSize = cryptox.MaxChunkSize
		}},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
		{name: "json format", mutate: func(c *Config) { c.Log.Format = "json" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolateEnv(t, nil)

	path := filepath.Join(t.TempDir(), "nope.yaml")
	c, got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Empty(t, cmp.Diff(defaults(), c))
}

func TestLoad_YAML(t *testing.T) {
	isolateEnv(t, nil)

	path := writeFile(t, "config.yaml", "kdf:\n  iterations: 3\n  memory: 4096\nlog:\n  level: debug\n")
	c, _, err := Load(path)
	require.NoError(t, err)

	want := defaults()
	want.KDF.Iterations = 3
	want.KDF.Memory = 4096
	want.Log.Level = "debug"
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoad_JSON(t *testing.T) {
	isolateEnv(t, nil)

	path := writeFile(t, "config.json", `{"kdf":{"parallelism":4},"log":{"format":"json"}}`)
	c, _, err := Load(path)
	require.NoError(t, err)

	want := defaults()
	want.KDF.Parallelism = 4
	want.Log.Format = "json"
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoad_EmptyFile(t *testing.T) {
	isolateEnv(t, nil)

	c, _, err := Load(writeFile(t, "config.yaml", "\n"))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), c))
}

func TestLoad_Errors(t *testing.T) {
	isolateEnv(t, nil)

	tests := []struct {
		name string
		file string
		body string
		want error
	}{
		{name: "invalid yaml", file: "c.yaml", body: "kdf: [1, 2", want: common.ErrParse},
		{name: "unknown yaml key", file: "c.yaml", body: "kdf:\n  rounds: 3\n", want: common.ErrParse},
		{name: "invalid json", file: "c.json", body: "{ not json", want: common.ErrParse},
		{name: "unknown json key", file: "c.json", body: `{"server":"x"}`, want: common.ErrParse},
		{name: "fails validation", file: "c.yaml", body: "kdf:\n  iterations: 0\n", want: common.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeFile(t, tt.file, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_EnvPrecedence(t *testing.T) {
	dotenv := isolateEnv(t, map[string]string{
		"GOPHVAULT_KDF_ITERATIONS": "5",
		"GOPHVAULT_LOG_FORMAT":     "JSON",
		"UNRELATED":                "x",
	})
	require.NoError(t, os.WriteFile(dotenv, []byte("GOPHVAULT_KDF_ITERATIONS=4\nGOPHVAULT_KDF_MEMORY=2048\n"), 0o600))

	path := writeFile(t, "config.yaml", "kdf:\n  iterations: 3\n  memory: 1024\n  chunk_size: 8\n")
	c, _, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(5), c.KDF.Iterations, "process env beats .env and file")
	assert.Equal(t, uint32(2048), c.KDF.Memory, ".env beats file")
	assert.Equal(t, uint32(8), c.KDF.ChunkSize, "file beats defaults")
	assert.Equal(t, "json", c.Log.Format)
}

func TestLoad_BadEnvValue(t *testing.T) {
	isolateEnv(t, map[string]string{"GOPHVAULT_KDF_MEMORY": "lots"})

	_, _, err := Load(filepath.Join(t.TempDir(), "c.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Contains(t, err.Error(), "GOPHVAULT_KDF_MEMORY")
}

func TestSaveAndLoad(t *testing.T) {
	isolateEnv(t, nil)

	for _, name := range []string{"config.yaml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "gophvault", name)

			c := defaults()
			c.KDF.Iterations = 7
			c.Log.Level = "warn"
			require.NoError(t, c.Save(path))

			fi, err := os.Stat(path)
			require.NoError(t, err)
			assert.Zero(t, fi.Mode().Perm()&0o077)

			got, _, err := Load(path)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(c, got))
		})
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	c := defaults()
	c.KDF.Memory = 0
	path := filepath.Join(t.TempDir(), "config.yaml")

	assert.ErrorIs(t, c.Save(path), common.ErrInvalidInput)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestMarshal(t *testing.T) {
	c := defaults()

	y, err := c.Marshal(false)
	require.NoError(t, err)
	assert.Contains(t, string(y), "chunk_size: 16")
	assert.Contains(t, string(y), "level: info")

	j, err := c.Marshal(true)
	require.NoError(t, err)
	assert.Contains(t, string(j), `"iterations": 2`)
	assert.Contains(t, string(j), `"format": "text"`)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(p))
	assert.Equal(t, "gophvault", filepath.Base(filepath.Dir(p)))
}
