package vault

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory(t *testing.T, m *Manager, name string) *DirectoryManager {
	t.Helper()
	require.NoError(t, m.AddDirectory(name))
	dm, err := m.OpenDirectory(name)
	require.NoError(t, err)
	return dm
}

func recordByName(t *testing.T, dm *DirectoryManager, name string) envelope.Record {
	t.Helper()
	dir, err := dm.dir()
	require.NoError(t, err)
	i := recordIndex(dir, name)
	require.GreaterOrEqual(t, i, 0, "record %q", name)
	return dir.Records[i]
}

func TestDirectoryManager_Records(t *testing.T) {
	m := newTestManager(t, "pw")
	dm := newTestDirectory(t, m, "work")
	assert.Equal(t, "work", dm.Name())

	value := []byte("s3cr3t")
	require.NoError(t, dm.AddRecord("login", value))
	assert.Equal(t, []byte("s3cr3t"), value, "caller's buffer must not be touched")

	got, err := dm.GetRecord("login")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", got)

	rec := recordByName(t, dm, "login")
	assert.NotContains(t, string(rec.Data), "s3cr3t")
	assert.Len(t, rec.Nonce, 12)

	assert.ErrorIs(t, dm.AddRecord("login", []byte("again")), common.ErrAlreadyExists)

	_, err = dm.GetRecord("missing")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, dm.RemoveRecord("missing"), common.ErrRecordNotFound)

	require.NoError(t, dm.RemoveRecord("login"))
	names, err := dm.ListRecordNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDirectoryManager_RecordNames(t *testing.T) {
	m := newTestManager(t, "pw")
	dm := newTestDirectory(t, m, "work")

	tests := []struct {
		name    string
		wantErr error
	}{
		{name: "email"},
		{name: "api.key-2"},
		{name: "ключ"},
		{name: "", wantErr: common.ErrInvalidName},
		{name: "two words", wantErr: common.ErrInvalidName},
		{name: "tab\there", wantErr: common.ErrInvalidName},
		{name: string([]byte{0xff, 0xfe}), wantErr: common.ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dm.AddRecord(tt.name, []byte("v"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDirectoryManager_EmptyValue(t *testing.T) {
	m := newTestManager(t, "pw")
	dm := newTestDirectory(t, m, "work")

	require.NoError(t, dm.AddRecord("blank", nil))
	got, err := dm.GetRecord("blank")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestDirectoryManager_DistinctNonces(t *testing.T) {
	m := newTestManager(t, "pw")
	dm := newTestDirectory(t, m, "work")

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	seen := map[string]string{}
	for _, n := range names {
		require.NoError(t, dm.AddRecord(n, []byte("same value")))
		nonce := string(recordByName(t, dm, n).Nonce)
		if prev, ok := seen[nonce]; ok {
			t.Fatalf("records %q and %q share a nonce", prev, n)
		}
		seen[nonce] = n
	}
}

func TestDirectoryManager_RemoveThenAddDoesNotReuseNonce(t *testing.T) {
	m := newTestManager(t, "pw")
	dm := newTestDirectory(t, m, "work")

	require.NoError(t, dm.AddRecord("k", []byte("one")))
	first := recordByName(t, dm, "k").Nonce
	require.NoError(t, dm.RemoveRecord("k"))

	require.NoError(t, dm.AddRecord("k2", []byte("two")))
	second := recordByName(t, dm, "k2").Nonce
	assert.NotEqual(t, first, second)

	require.NoError(t, dm.AddRecord("k", []byte("three")))
	third := recordByName(t, dm, "k").Nonce
	assert.NotEqual(t, first, third)
	assert.NotEqual(t, second, third)

	got, err := dm.GetRecord("k")
	require.NoError(t, err)
	assert.Equal(t, "three", got)
}

func TestDirectoryManager_NextIndexSurvivesSave(t *testing.T) {
	ctx := context.Background()
	path := vaultPath(t)

	m := newTestManager(t, "pw")
	dm := newTestDirectory(t, m, "work")
	require.NoError(t, dm.AddRecord("k", []byte("one")))
	first := recordByName(t, dm, "k").Nonce
	require.NoError(t, dm.RemoveRecord("k"))
	require.NoError(t, m.Save(ctx, path))

	m2 := reopen(t, path, "pw")
	dm2, err := m2.OpenDirectory("work")
	require.NoError(t, err)
	require.NoError(t, dm2.AddRecord("k", []byte("two")))
	assert.NotEqual(t, first, recordByName(t, dm2, "k").Nonce)
}

func TestDirectoryManager_NoncesDifferAcrossDirectories(t *testing.T) {
	m := newTestManager(t, "pw")
	a := newTestDirectory(t, m, "alpha")
	b := newTestDirectory(t, m, "beta")

	require.NoError(t, a.AddRecord("k", []byte("v")))
	require.NoError(t, b.AddRecord("k", []byte("v")))
	assert.NotEqual(t, recordByName(t, a, "k").Nonce, recordByName(t, b, "k").Nonce)
}

func TestDirectoryManager_RecreatedDirectoryGetsFreshNonces(t *testing.T) {
	m := newTestManager(t, "pw")

	dm := newTestDirectory(t, m, "work")
	require.NoError(t, dm.AddRecord("k", []byte("v")))
	first := recordByName(t, dm, "k").Nonce

	require.NoError(t, dm.Rename("old"))
	again := newTestDirectory(t, m, "work")
	require.NoError(t, again.AddRecord("k", []byte("v")))
	assert.NotEqual(t, first, recordByName(t, again, "k").Nonce)

	require.NoError(t, m.RemoveDirectory("work"))
	third := newTestDirectory(t, m, "work")
	require.NoError(t, third.AddRecord("k", []byte("v")))
	assert.NotEqual(t, first, recordByName(t, third, "k").Nonce)
}

func TestDirectoryManager_RecordsAreBoundToTheirNames(t *testing.T) {
	m := newTestManager(t, "pw")
	dm := newTestDirectory(t, m, "work")
	require.NoError(t, dm.AddRecord("a", []byte("value a")))
	require.NoError(t, dm.AddRecord("b", []byte("value b")))

	dir, err := dm.dir()
	require.NoError(t, err)
	dir.Records[0].Data, dir.Records[1].Data = dir.Records[1].Data, dir.Records[0].Data
	dir.Records[0].Nonce, dir.Records[1].Nonce = dir.Records[1].Nonce, dir.Records[0].Nonce

	_, err = dm.GetRecord("a")
	assert.ErrorIs(t, err, common.ErrAuthentication)
	_, err = dm.GetRecord("b")
	assert.ErrorIs(t, err, common.ErrAuthentication)
}

func TestDirectoryManager_RecordsAreBoundToTheVault(t *testing.T) {
	m1 := newTestManager(t, "pw")
	m2 := newTestManager(t, "pw")
	d1 := newTestDirectory(t, m1, "work")
	d2 := newTestDirectory(t, m2, "work")
	require.NoError(t, d1.AddRecord("k", []byte("from one")))

	dir2, err := d2.dir()
	require.NoError(t, err)
	dir2.Records = append(dir2.Records, recordByName(t, d1, "k"))

	_, err = d2.GetRecord("k")
	assert.ErrorIs(t, err, common.ErrAuthentication)
}

func TestDirectoryManager_InvalidUTF8Value(t *testing.T) {
	m := newTestManager(t, "pw")
	dm := newTestDirectory(t, m, "work")

	require.NoError(t, dm.AddRecord("bin", []byte{0xff, 0x00, 0xfe}))
	_, err := dm.GetRecord("bin")
	assert.ErrorIs(t, err, common.ErrEncoding)
}

func TestDirectoryManager_Rename(t *testing.T) {
	m := newTestManager(t, "pw")
	dm := newTestDirectory(t, m, "work")
	newTestDirectory(t, m, "home")
	require.NoError(t, dm.AddRecord("email", []byte("a@b.com")))

	assert.ErrorIs(t, dm.Rename("home"), common.ErrAlreadyExists)
	assert.ErrorIs(t, dm.Rename("9lives"), common.ErrInvalidName)
	assert.NoError(t, dm.Rename("work"))

	require.NoError(t, dm.Rename("office"))
	assert.Equal(t, "office", dm.Name())
	assert.Equal(t, []string{"office", "home"}, m.ListDirectories())

	got, err := dm.GetRecord("email")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got)

	reopened, err := m.OpenDirectory("office")
	require.NoError(t, err)
	got, err = reopened.GetRecord("email")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got)

	_, err = m.OpenDirectory("work")
	assert.ErrorIs(t, err, common.ErrDirectoryNotFound)
}

func TestDirectoryManager_StaleHandle(t *testing.T) {
	m := newTestManager(t, "pw")
	dm := newTestDirectory(t, m, "work")
	require.NoError(t, m.RemoveDirectory("work"))

	assert.Equal(t, "", dm.Name())
	assert.ErrorIs(t, dm.AddRecord("k", []byte("v")), common.ErrDirectoryNotFound)
	_, err := dm.GetRecord("k")
	assert.ErrorIs(t, err, common.ErrDirectoryNotFound)
	assert.ErrorIs(t, dm.RemoveRecord("k"), common.ErrDirectoryNotFound)
	assert.ErrorIs(t, dm.Rename("other"), common.ErrDirectoryNotFound)
	_, err = dm.ListRecordNames()
	assert.ErrorIs(t, err, common.ErrDirectoryNotFound)

	// A new directory with the same name is a different directory.
	newTestDirectory(t, m, "work")
	_, err = dm.ListRecordNames()
	assert.ErrorIs(t, err, common.ErrDirectoryNotFound)

	m.Close()
	_, err = dm.ListRecordNames()
	assert.ErrorIs(t, err, common.ErrNotInitialized)
}

func TestDirectoryManager_HandleSurvivesOtherMutations(t *testing.T) {
	m := newTestManager(t, "pw")
	newTestDirectory(t, m, "first")
	dm := newTestDirectory(t, m, "second")
	require.NoError(t, dm.AddRecord("k", []byte("v")))

	// Removing an earlier directory shifts the slice under the handle.
	require.NoError(t, m.RemoveDirectory("first"))
	for i := 0; i < 8; i++ {
		newTestDirectory(t, m, "extra"+string(rune('a'+i)))
	}

	got, err := dm.GetRecord("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
