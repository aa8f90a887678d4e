package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/project"
	"github.com/woupiestek/rlox/internal/token"
)

func writeLox(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func testCache(t *testing.T) *DiskCache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("rlox-test")
	require.NoError(t, err)
	return cache
}

func TestCheckDirReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeLox(t, dir, "good.lox", "print 1;\n")
	writeLox(t, dir, "bad.lox", "print 1\n")
	writeLox(t, dir, "nested/also_good.lox", "var a = 2; print a;\n")
	writeLox(t, dir, "ignored.txt", "not lox")

	result, err := CheckDir(dir, CheckOptions{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, result.Reports, 3)
	assert.Equal(t, 1, result.Failed)

	// Reports come back in path order.
	assert.Contains(t, result.Reports[0].Path, "bad.lox")
	assert.False(t, result.Reports[0].Ok)
	assert.True(t, result.Reports[0].Bag.HasErrors())
	assert.True(t, result.Reports[1].Ok)
	assert.True(t, result.Reports[2].Ok)
}

func TestCheckDirUsesCacheOnSecondRun(t *testing.T) {
	dir := t.TempDir()
	writeLox(t, dir, "a.lox", "print 1;\n")
	writeLox(t, dir, "b.lox", "print missing_semicolon\n")
	cache := testCache(t)
	opts := CheckOptions{Cache: cache}

	first, err := CheckDir(dir, opts)
	require.NoError(t, err)
	for _, r := range first.Reports {
		assert.False(t, r.FromCache, "%s should compile fresh", r.Path)
	}

	second, err := CheckDir(dir, opts)
	require.NoError(t, err)
	assert.Equal(t, first.Failed, second.Failed)
	for _, r := range second.Reports {
		assert.True(t, r.FromCache, "%s should hit the cache", r.Path)
	}

	// Cached failures keep their diagnostics.
	require.False(t, second.Reports[1].Ok)
	assert.True(t, second.Reports[1].Bag.HasErrors())
}

func TestCheckDirEditedFileMissesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeLox(t, dir, "a.lox", "print 1;\n")
	cache := testCache(t)
	opts := CheckOptions{Cache: cache}

	_, err := CheckDir(dir, opts)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("print 2;\n"), 0o600))
	result, err := CheckDir(dir, opts)
	require.NoError(t, err)
	assert.False(t, result.Reports[0].FromCache, "edited content must recompile")
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache := testCache(t)
	var key project.Digest
	key[0] = 0xab

	in := &CheckPayload{
		Schema: diskCacheSchemaVersion,
		Path:   "x.lox",
		Ok:     false,
		Diags: []CachedDiag{{
			Code:     uint16(diag.SynExpectSemicolon),
			Severity: uint8(diag.SevError),
			Start:    5,
			End:      6,
			Message:  "Expect ';' after value.",
		}},
	}
	require.NoError(t, cache.Put(key, in))

	var out CheckPayload
	hit, err := cache.Get(key, &out)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, in.Path, out.Path)
	require.Len(t, out.Diags, 1)
	assert.Equal(t, in.Diags[0], out.Diags[0])

	var missing CheckPayload
	hit, err = cache.Get(project.Digest{}, &missing)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDiskCacheSchemaMismatchIsMiss(t *testing.T) {
	cache := testCache(t)
	var key project.Digest
	key[0] = 0xcd

	require.NoError(t, cache.Put(key, &CheckPayload{Schema: diskCacheSchemaVersion + 1, Ok: true}))
	var out CheckPayload
	hit, err := cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDiskCacheDropAll(t *testing.T) {
	cache := testCache(t)
	var key project.Digest
	key[0] = 0xef
	require.NoError(t, cache.Put(key, &CheckPayload{Schema: diskCacheSchemaVersion, Ok: true}))

	require.NoError(t, cache.DropAll())
	var out CheckPayload
	hit, err := cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestTokenizeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeLox(t, dir, "a.lox", "var answer = 42;\n")

	result, err := Tokenize(path, 0)
	require.NoError(t, err)
	assert.False(t, result.Bag.HasErrors())

	kinds := make([]token.Kind, 0, len(result.Tokens))
	for _, tok := range result.Tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.KwVar, token.Ident, token.Assign, token.NumberLit, token.Semicolon, token.EOF,
	}, kinds)
}

func TestTokenizeReportsLexErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeLox(t, dir, "bad.lox", "var a = @;\n")

	result, err := Tokenize(path, 0)
	require.NoError(t, err)
	assert.True(t, result.Bag.HasErrors())
}
