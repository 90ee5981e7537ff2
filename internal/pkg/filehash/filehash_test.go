package filehash

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firmware.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	sum, err := Sum(path)
	require.NoError(t, err)
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(sum))

	_, err = Sum(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}
