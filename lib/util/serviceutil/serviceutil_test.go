package serviceutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	err := CreateFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	require.NoError(t, err)
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))

	failure := errors.New("write failed")
	err = CreateFile(path, func(w io.Writer) error {
		return failure
	})
	require.ErrorIs(t, err, failure)

	err = CreateFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(w io.Writer) error {
		return nil
	})
	require.Error(t, err)
}
