package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/joho/godotenv"
)

const envPrefix = "GOPHVAULT_"

// dotenvPath is the .env file consulted by parseEnv. Tests point it
// elsewhere.
var dotenvPath = ".env"

// lookupEnv reads the process environment. Tests may replace it.
var lookupEnv = os.LookupEnv

// envName maps a key such as "kdf.chunk_size" to GOPHVAULT_KDF_CHUNK_SIZE.
func envName(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// parseEnv overlays GOPHVAULT_* values from the .env file and then from the
// process environment onto cfg.
func parseEnv(cfg *Config) error {
	dotenv, err := godotenv.Read(dotenvPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", common.ErrParse, dotenvPath, err)
	}

	for _, key := range Keys() {
		name := envName(key)
		v, ok := lookupEnv(name)
		if !ok {
			v, ok = dotenv[name]
		}
		if !ok {
			continue
		}
		if err := cfg.Set(key, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
