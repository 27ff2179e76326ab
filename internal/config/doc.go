// Package config loads runtime configuration for the gophvault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file: YAML, or JSON when the name ends in ".json".
//  3. A .env file in the working directory and GOPHVAULT_* environment
//     variables; real environment variables win over .env entries.
//  4. Command-line flags, applied by the cli package through (*Config).Set.
//
// # Keys
//
//	kdf.iterations    GOPHVAULT_KDF_ITERATIONS    Argon2id passes
//	kdf.memory        GOPHVAULT_KDF_MEMORY        Argon2id memory, KiB
//	kdf.parallelism   GOPHVAULT_KDF_PARALLELISM   Argon2id lanes
//	kdf.chunk_size    GOPHVAULT_KDF_CHUNK_SIZE    file I/O buffer, KiB (max 1024)
//	log.level         GOPHVAULT_LOG_LEVEL         debug, info, warn, error
//	log.format        GOPHVAULT_LOG_FORMAT        text, json
//
// # YAML schema
//
//	kdf:
//	  iterations: 2
//	  memory: 19456
//	  parallelism: 1
//	  chunk_size: 16
//	log:
//	  level: info
//	  format: text
//
// The KDF values only affect newly created vaults. Existing vaults carry
// their own cost parameters in the file header.
package config
