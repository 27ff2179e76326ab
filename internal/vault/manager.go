package vault

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/envelope"
	"github.com/dmitrijs2005/gophvault/internal/filex"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// Manager owns the in-memory state of one vault.
type Manager struct {
	header    *envelope.Header
	body      *envelope.Body
	masterKey []byte
	params    cryptox.Params

	log logging.Logger
	now func() time.Time
}

// Info is a read-only summary of a loaded vault.
type Info struct {
	CreatedAt    time.Time
	LastModified time.Time
	Directories  int
	Records      int
	Params       cryptox.Params
}

// NewManager returns an empty Manager. Call Regenerate or
// InitializeFromFile before anything else.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		params: cryptox.DefaultParams(),
		log:    logging.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Loaded reports whether the manager holds a vault.
func (m *Manager) Loaded() bool {
	return m.header != nil && m.body != nil && m.masterKey != nil
}

// Regenerate discards any current state and builds a brand-new, empty vault
// protected by password. Nothing is written to disk. The password buffer is
// wiped.
func (m *Manager) Regenerate(ctx context.Context, password []byte) error {
	defer common.WipeByteArray(password)

	if err := ctx.Err(); err != nil {
		return err
	}

	salts := make([][]byte, 3)
	for i := range salts {
		s, err := common.RandomBytes(cryptox.SaltSize)
		if err != nil {
			return fmt.Errorf("%w: salt: %v", common.ErrKeyDerivation, err)
		}
		salts[i] = s
	}
	argonSalt, masterSalt, bodySalt := salts[0], salts[1], salts[2]

	masterNonce, err := cryptox.RandomNonce()
	if err != nil {
		return err
	}

	master, err := cryptox.StretchPassword(m.params, password, argonSalt)
	if err != nil {
		return err
	}

	now := m.now().UTC()
	header := &envelope.Header{
		Signature:   envelope.Signature,
		Version:     envelope.Version,
		MasterSalt:  masterSalt,
		MasterNonce: masterNonce,
		ArgonSalt:   argonSalt,
		Iterations:  m.params.Iterations,
		Memory:      m.params.Memory,
		Parallelism: m.params.Parallelism,
	}
	body := &envelope.Body{
		Salt:         bodySalt,
		CreatedAt:    now,
		LastModified: now,
	}

	m.replace(header, body, master, m.params)
	m.log.Info(ctx, "vault regenerated", "iterations", m.params.Iterations, "memory_kib", m.params.Memory)
	return nil
}

// Save seals the body and writes the envelope to path. The parent directory
// must already exist. Every save draws a fresh master nonce, so no two
// sealed bodies ever share one under the same key.
func (m *Manager) Save(ctx context.Context, path string) error {
	if !m.Loaded() {
		return common.ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.params.Validate(); err != nil {
		return err
	}
	if err := filex.CheckParentDir(path); err != nil {
		return err
	}

	nonce, err := cryptox.RandomNonce()
	if err != nil {
		return err
	}
	header := *m.header
	header.MasterNonce = nonce

	aead, err := cryptox.DeriveCipherKey(m.masterKey, header.MasterSalt)
	if err != nil {
		return err
	}

	aad := envelope.MarshalHeader(&header)
	plaintext, err := envelope.MarshalBody(m.body)
	if err != nil {
		return err
	}
	sealed, err := cryptox.Seal(aead, header.MasterNonce, plaintext, aad)
	if err != nil {
		common.WipeByteArray(plaintext)
		return fmt.Errorf("%w: body: %v", common.ErrSeal, err)
	}

	data := envelope.MarshalFile(aad, sealed)
	if err := filex.WriteFileAtomic(path, data, 0o600, m.params.ChunkBytes()); err != nil {
		return fmt.Errorf("%w: %w", common.ErrIO, err)
	}

	m.header = &header
	m.log.Info(ctx, "vault saved", "path", path, "bytes", len(data), "directories", len(m.body.Directories))
	return nil
}

// InitializeFromFile reads and opens the vault at path. A wrong password and
// a tampered file both yield common.ErrAuthentication. On any error the
// current state is left as it was. The password buffer is wiped.
func (m *Manager) InitializeFromFile(ctx context.Context, path string, password []byte) error {
	defer common.WipeByteArray(password)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.params.Validate(); err != nil {
		return err
	}

	data, err := filex.ReadFile(path, m.params.ChunkBytes())
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrIO, err)
	}

	rawHeader, sealed, err := envelope.UnmarshalFile(data)
	if err != nil {
		return err
	}
	header, err := envelope.UnmarshalHeader(rawHeader)
	if err != nil {
		return err
	}

	params := header.Params(m.params.ChunkSize)
	master, err := cryptox.StretchPassword(params, password, header.ArgonSalt)
	if err != nil {
		return err
	}

	body, err := openBody(master, header, rawHeader, sealed)
	if err != nil {
		common.WipeByteArray(master)
		m.log.Warn(ctx, "vault open failed", "path", path, "error", err)
		return err
	}

	m.replace(header, body, master, params)
	m.log.Info(ctx, "vault opened", "path", path, "directories", len(body.Directories))
	return nil
}

func openBody(master []byte, header *envelope.Header, aad, sealed []byte) (*envelope.Body, error) {
	aead, err := cryptox.DeriveCipherKey(master, header.MasterSalt)
	if err != nil {
		return nil, err
	}
	plaintext, err := cryptox.Open(aead, header.MasterNonce, sealed, aad)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(plaintext)

	body, err := envelope.UnmarshalBody(plaintext)
	if err != nil {
		return nil, err
	}
	if len(body.Salt) != cryptox.SaltSize {
		return nil, fmt.Errorf("%w: body salt is %d bytes", common.ErrParse, len(body.Salt))
	}
	for _, d := range body.Directories {
		if len(d.Salt) != envelope.DirectorySaltSize {
			return nil, fmt.Errorf("%w: directory %q salt is %d bytes", common.ErrParse, d.Name, len(d.Salt))
		}
	}
	return body, nil
}

// replace swaps in a complete new state and wipes the old master key.
func (m *Manager) replace(header *envelope.Header, body *envelope.Body, master []byte, params cryptox.Params) {
	common.WipeByteArray(m.masterKey)
	m.header = header
	m.body = body
	m.masterKey = master
	m.params = params
}

// Close wipes the master key and drops the vault.
func (m *Manager) Close() {
	common.WipeByteArray(m.masterKey)
	m.masterKey = nil
	m.header = nil
	m.body = nil
}

// Info summarises the loaded vault.
func (m *Manager) Info() (Info, error) {
	if !m.Loaded() {
		return Info{}, common.ErrNotInitialized
	}
	info := Info{
		CreatedAt:    m.body.CreatedAt,
		LastModified: m.body.LastModified,
		Directories:  len(m.body.Directories),
		Params:       m.params,
	}
	for _, d := range m.body.Directories {
		info.Records += len(d.Records)
	}
	return info, nil
}

// AddDirectory appends a new, empty directory. Names must be alphanumeric,
// must not start with a digit and must be unique within the vault.
func (m *Manager) AddDirectory(name string) error {
	if !m.Loaded() {
		return common.ErrNotInitialized
	}
	if err := validateDirectoryName(name); err != nil {
		return err
	}
	if m.directoryIndex(name) >= 0 {
		return fmt.Errorf("directory %q %w", name, common.ErrAlreadyExists)
	}

	salt, err := common.RandomBytes(envelope.DirectorySaltSize)
	if err != nil {
		return fmt.Errorf("%w: directory salt: %v", common.ErrKeyDerivation, err)
	}

	m.body.Directories = append(m.body.Directories, envelope.Directory{Name: name, Salt: salt})
	m.touch()
	return nil
}

// RemoveDirectory removes the first directory called name.
func (m *Manager) RemoveDirectory(name string) error {
	if !m.Loaded() {
		return common.ErrNotInitialized
	}
	i := m.directoryIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", common.ErrDirectoryNotFound, name)
	}

	m.body.Directories = append(m.body.Directories[:i], m.body.Directories[i+1:]...)
	m.touch()
	return nil
}

// OpenDirectory returns a handle for record operations in directory name.
func (m *Manager) OpenDirectory(name string) (*DirectoryManager, error) {
	if !m.Loaded() {
		return nil, common.ErrNotInitialized
	}
	i := m.directoryIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", common.ErrDirectoryNotFound, name)
	}
	salt := append([]byte{}, m.body.Directories[i].Salt...)
	return &DirectoryManager{vm: m, salt: salt}, nil
}

// ListDirectories returns directory names in insertion order.
func (m *Manager) ListDirectories() []string {
	if !m.Loaded() {
		return nil
	}
	names := make([]string, 0, len(m.body.Directories))
	for _, d := range m.body.Directories {
		names = append(names, d.Name)
	}
	return names
}

func (m *Manager) directoryIndex(name string) int {
	for i := range m.body.Directories {
		if m.body.Directories[i].Name == name {
			return i
		}
	}
	return -1
}

func (m *Manager) directoryBySalt(salt []byte) *envelope.Directory {
	for i := range m.body.Directories {
		if bytes.Equal(m.body.Directories[i].Salt, salt) {
			return &m.body.Directories[i]
		}
	}
	return nil
}

func (m *Manager) touch() {
	m.body.LastModified = m.now().UTC()
}
