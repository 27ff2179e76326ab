// Package common defines the sentinel errors shared by every layer of
// gophvault, plus small helpers for random bytes and wiping buffers.
// Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Input validation errors.
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidSaltLength = fmt.Errorf("%w: invalid salt length", ErrInvalidInput)
	ErrInvalidName       = fmt.Errorf("%w: invalid name", ErrInvalidInput)

	// Key derivation errors.
	ErrKeyDerivation = errors.New("key derivation failed")
	ErrInvalidParams = fmt.Errorf("%w: invalid parameters", ErrKeyDerivation)

	// Cipher errors. ErrAuthentication is returned both for a wrong password
	// and for a tampered file; the two are never distinguished.
	ErrSeal           = errors.New("seal failed")
	ErrAuthentication = errors.New("authentication failed")

	// Lookup errors.
	ErrNotFound          = errors.New("not found")
	ErrDirectoryNotFound = fmt.Errorf("directory %w", ErrNotFound)
	ErrRecordNotFound    = fmt.Errorf("record %w", ErrNotFound)
	ErrParentDirNotFound = fmt.Errorf("parent %w", ErrDirectoryNotFound)
	ErrAlreadyExists     = errors.New("already exists")

	// Storage and format errors.
	ErrIO                 = errors.New("i/o error")
	ErrSerialization      = errors.New("serialization failed")
	ErrParse              = errors.New("parse error")
	ErrMissingHeader      = fmt.Errorf("%w: missing header", ErrParse)
	ErrBadSignature       = fmt.Errorf("%w: bad signature", ErrParse)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrParse)
	ErrEmptyFile          = errors.New("empty file")
	ErrEncoding           = errors.New("value is not valid utf-8")

	// Vault state errors.
	ErrNotInitialized = errors.New("vault not initialized")
)
