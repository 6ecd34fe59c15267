package security

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilePath(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := ValidateFilePath("")
		assert.ErrorIs(t, err, ErrEmptyPath)
	})

	t.Run("rejects dangerous shell characters", func(t *testing.T) {
		for _, char := range dangerousChars {
			_, err := ValidateFilePath("/tmp/roster" + char + ".ics")
			assert.ErrorIs(t, err, ErrForbiddenChar, "expected error for character %q", char)
		}
	})

	t.Run("converts relative path to absolute", func(t *testing.T) {
		result, err := ValidateFilePath("roster.ics")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(result))
	})

	t.Run("resolves symlinks", func(t *testing.T) {
		tmpDir := t.TempDir()
		realFile := filepath.Join(tmpDir, "real.vcf")
		require.NoError(t, os.WriteFile(realFile, []byte("BEGIN:VCARD"), 0o600))
		linkFile := filepath.Join(tmpDir, "link.vcf")
		require.NoError(t, os.Symlink(realFile, linkFile))

		result, err := ValidateFilePath(linkFile)
		require.NoError(t, err)

		expected, _ := filepath.EvalSymlinks(realFile)
		assert.Equal(t, expected, result)
	})

	t.Run("cleans traversal components", func(t *testing.T) {
		tmpDir := t.TempDir()
		result, err := ValidateFilePath(filepath.Join(tmpDir, "sub", "..", "out.xlsx"))
		require.NoError(t, err)
		assert.NotContains(t, result, "..")
	})
}

func TestSafeCreateAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "clients.ics")

	f, err := SafeCreate(path)
	require.NoError(t, err)
	_, err = f.WriteString("BEGIN:VCALENDAR")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	r, err := SafeOpen(path)
	require.NoError(t, err)
	defer r.Close()

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR", string(body))
}

func TestSafeOpen_Rejects(t *testing.T) {
	_, err := SafeOpen("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = SafeOpen(filepath.Join(t.TempDir(), "missing.vcf"))
	assert.True(t, os.IsNotExist(err))
}
