package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengadev/magicjson"
	"github.com/hengadev/magicjson/examples/db"
)

func openMemory(t *testing.T, codec *magicjson.Codec) *Store {
	t.Helper()
	s, err := Open(MemoryPath, codec)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t, nil)

	e := db.Employee{ID: 47, Age: 48, GroupID: 13, Salary: 200, Name: "Agent"}
	key, err := s.Put(ctx, "", "", &e)
	require.NoError(t, err)
	_, err = uuid.Parse(key)
	assert.NoError(t, err)

	var got db.Employee
	require.NoError(t, s.Get(ctx, "Employee", key, &got))
	assert.Equal(t, e, got)

	doc, err := s.Raw(ctx, "Employee", key)
	require.NoError(t, err)
	assert.Equal(t, magicjson.Encode(e), doc.Body)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t, nil)

	_, err := s.Put(ctx, "group", "g1", db.CompanyGroup{ID: 1, Name: "Agents"})
	require.NoError(t, err)
	_, err = s.Put(ctx, "group", "g1", db.CompanyGroup{ID: 1, Name: "Managers"})
	require.NoError(t, err)

	docs, err := s.List(ctx, "group")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, `{"id":1,"name":"Managers"}`, docs[0].Body)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t, nil)

	for _, key := range []string{"c", "a", "b"} {
		require.NoError(t, s.PutText(ctx, "note", key, `"`+key+`"`))
	}
	require.NoError(t, s.PutText(ctx, "other", "x", "1"))

	docs, err := s.List(ctx, "note")
	require.NoError(t, err)
	var keys []string
	for _, d := range docs {
		keys = append(keys, d.Key)
	}
	assert.Equal(t, []string{"c", "a", "b"}, keys)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := s.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t, nil)

	var e db.Employee
	err := s.Get(ctx, "Employee", "nope", &e)
	assert.True(t, magicjson.IsNotFound(err))

	err = s.Delete(ctx, "Employee", "nope")
	assert.True(t, magicjson.IsNotFound(err))
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t, nil)

	key, err := s.Put(ctx, "", "k", db.CompanyGroup{ID: 2})
	require.NoError(t, err)
	assert.Equal(t, "k", key)

	require.NoError(t, s.Delete(ctx, "CompanyGroup", "k"))
	_, err = s.Raw(ctx, "CompanyGroup", "k")
	assert.True(t, magicjson.IsNotFound(err))
}

func TestStore_InvalidInput(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t, nil)

	_, err := s.Put(ctx, "x", "y", nil)
	assert.True(t, magicjson.IsInvalidTarget(err))

	err = s.PutText(ctx, "", "y", "1")
	assert.True(t, magicjson.IsInvalidTarget(err))
}

func TestStore_StrictCodec(t *testing.T) {
	ctx := context.Background()
	codec, err := magicjson.New(magicjson.WithStrict(true))
	require.NoError(t, err)
	s := openMemory(t, codec)

	_, err = s.Put(ctx, "row", "1", db.Employee{ID: 1, Name: "Agent"})
	require.NoError(t, err)

	var list db.EmployeeList
	err = s.Get(ctx, "row", "1", &list)
	require.Error(t, err)
	assert.True(t, magicjson.IsMissingField(err))
	assert.Equal(t, "Agent", list.Name)
}

func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, filepath.Join(dir, DefaultFileName), s.Path())
	_, err = os.Stat(s.Path())
	assert.NoError(t, err)
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.db")
	s, err := Open(path, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.PutText(ctx, "k", "v", "1"))
	require.NoError(t, s.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	docs, err := reopened.List(ctx, "k")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "Employee", KindOf(db.Employee{}))
	assert.Equal(t, "Employee", KindOf(&db.Employee{}))
	assert.Equal(t, "", KindOf(nil))
	assert.Equal(t, "", KindOf([]int{}))
}

func TestWithRetry(t *testing.T) {
	s, err := Open(MemoryPath, nil, WithRetry(2, time.Millisecond))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.PutText(context.Background(), "k", "v", "1"))

	_, err = Open(MemoryPath, nil, WithRetry(0, time.Millisecond))
	assert.True(t, magicjson.IsInvalidConfiguration(err))

	for _, delay := range []time.Duration{-time.Second, 0} {
		_, err = Open(MemoryPath, nil, WithRetry(1, delay))
		assert.True(t, magicjson.IsInvalidConfiguration(err), "delay %s", delay)
	}
}

func TestIsBusy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{"locked and wrapped", errors.Wrap(sqlite3.Error{Code: sqlite3.ErrLocked}, "store/put"), true},
		{"constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{"other error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isBusy(tt.err))
		})
	}
}
