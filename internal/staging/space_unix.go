//go:build linux || darwin || freebsd

package staging

import (
	"errors"

	"golang.org/x/sys/unix"
)

var errUnsupported = errors.New("free space query unsupported")

func availableBytes(dir string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
