// Package vault implements the vault lifecycle and record encryption.
//
// A Manager owns the whole in-memory vault: the cleartext header, the body
// and the master key stretched from the user's password. It creates new
// vaults (Regenerate), opens existing ones (InitializeFromFile) and writes
// them back (Save). Save and InitializeFromFile are all-or-nothing; a
// failure leaves the previous in-memory state untouched.
//
// Record-level work goes through a DirectoryManager obtained from
// OpenDirectory. A DirectoryManager is only a handle: it re-resolves its
// directory on every call and borrows the manager's master key for the
// length of that call.
//
// Record nonces are derived from the body salt, the directory's persisted
// salt and a per-directory counter that never decreases, so removing a
// record never makes its nonce available again.
//
// A Manager is not safe for concurrent use.
package vault
