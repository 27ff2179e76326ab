// Package cryptox is the key-derivation unit of the vault.
//
// A password is stretched with Argon2id into a 32-byte master hash. Cipher
// keys are never the master hash itself: DeriveCipherKey expands the master
// hash with HKDF-SHA256 under a 32-byte salt into an AES-256-GCM key. Nonces
// are either random (one per whole-vault seal) or derived deterministically
// from a directory salt and a record index.
//
// Wiping of password and key buffers is best-effort. Go gives no control over
// copies made by string conversions, the garbage collector or the OS pager,
// and this package does not lock memory.
package cryptox
