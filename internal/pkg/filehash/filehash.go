package filehash

import (
	"io"
	"os"

	"github.com/minio/sha256-simd"
)

// Sum returns the sha256 of the file at filePath.
func Sum(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return nil, err
	}
	return hasher.Sum(nil), nil
}
