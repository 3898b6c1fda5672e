package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJar(t *testing.T) *JarTier {
	t.Helper()
	jar, err := OpenJar(filepath.Join(t.TempDir(), "jar.json"))
	require.NoError(t, err)
	return jar
}

func TestJarRoundTrip(t *testing.T) {
	jar := openTestJar(t)
	require.True(t, jar.Probe())

	require.NoError(t, jar.Set("lid.dark", `{"v":true}`))
	v, ok := jar.Get("lid.dark")
	require.True(t, ok)
	assert.Equal(t, `{"v":true}`, v, "values must decode back to what was stored")
}

func TestJarPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jar.json")

	jar, err := OpenJar(path)
	require.NoError(t, err)
	require.NoError(t, jar.Set("k", "v"))

	reopened, err := OpenJar(path)
	require.NoError(t, err)
	v, ok := reopened.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestJarExpiry(t *testing.T) {
	jar := openTestJar(t)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jar.now = func() time.Time { return clock }

	require.NoError(t, jar.SetWithExpiry("k", "v", clock.Add(time.Hour)))

	_, ok := jar.Get("k")
	require.True(t, ok)

	clock = clock.Add(2 * time.Hour)
	_, ok = jar.Get("k")
	assert.False(t, ok, "expired entry must read as absent")

	// The expired entry is gone for good, not just hidden.
	clock = clock.Add(-2 * time.Hour)
	_, ok = jar.Get("k")
	assert.False(t, ok)
}

func TestJarSizeCap(t *testing.T) {
	jar := openTestJar(t)
	err := jar.Set("k", strings.Repeat("x", maxJarValueSize+1))
	assert.Error(t, err)
}

func TestJarCorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jar.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	jar, err := OpenJar(path)
	require.NoError(t, err)
	_, ok := jar.Get("anything")
	assert.False(t, ok)

	// A corrupt jar still accepts new writes.
	require.NoError(t, jar.Set("k", "v"))
}

func TestJarRemoveMissingKey(t *testing.T) {
	jar := openTestJar(t)
	assert.NoError(t, jar.Remove("nope"))
}
