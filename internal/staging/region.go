package staging

import (
	"bytes"
	"crypto"
	_ "crypto/sha256"
	"encoding/hex"
	"hash"
	"os"
	"path/filepath"
	"sync"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/pkg/filehash"
	"github.com/inconshreveable/go-update"
	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Region is a storage area that receives a new image and commits it atomically.
type Region interface {
	// Begin reserves room for an image of exactly size bytes.
	Begin(size int64) error
	Write(p []byte) (int, error)
	// Abort discards whatever was staged. It is safe to call at any point.
	Abort() error
	// End commits the staged image. With verify set, a short or corrupted image is rejected.
	End(verify bool) error
	IsFinished() bool
}

var (
	ErrNotOpen     = errors.New("staging region not open")
	ErrAlreadyOpen = errors.New("staging region already open")
	ErrOverflow    = errors.New("write exceeds declared image size")
)

// FileRegion stages the image next to the target file and swaps it in on End.
type FileRegion struct {
	logger    *zap.Logger
	target    string
	dir       string
	freeSpace func(dir string) (uint64, error)

	mu       sync.Mutex
	file     *os.File
	path     string
	size     int64
	written  int64
	digest   hash.Hash
	finished bool
}

func NewFileRegion(conf *config.Config, logger *zap.Logger) (*FileRegion, error) {
	target := conf.Firmware.TargetPath
	if target == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, errors.WithMessage(err, "failed to locate running executable")
		}
		if target, err = filepath.EvalSymlinks(exe); err != nil {
			return nil, errors.WithMessage(err, "failed to resolve running executable")
		}
	}
	dir := conf.Firmware.StagingDir
	if dir == "" {
		dir = filepath.Dir(target)
	}
	return NewFileRegionAt(logger, target, dir), nil
}

func NewFileRegionAt(logger *zap.Logger, target, dir string) *FileRegion {
	return &FileRegion{
		logger:    logger,
		target:    target,
		dir:       dir,
		freeSpace: availableBytes,
	}
}

func (r *FileRegion) Target() string {
	return r.target
}

func (r *FileRegion) Begin(size int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file != nil {
		return ErrAlreadyOpen
	}
	if size <= 0 {
		return errors.Errorf("invalid image size %d", size)
	}
	r.finished = false

	free, err := r.freeSpace(r.dir)
	switch {
	case errors.Is(err, errUnsupported):
	case err != nil:
		return errors.WithMessage(err, "failed to query free space")
	case free < uint64(size):
		return errors.Errorf("image needs %d bytes, %d available", size, free)
	}

	f, err := os.CreateTemp(r.dir, ".ota-staging-*")
	if err != nil {
		return errors.WithMessage(err, "failed to create staging file")
	}

	r.file = f
	r.path = f.Name()
	r.size = size
	r.written = 0
	r.digest = sha256.New()

	r.logger.Debug("Staging region opened",
		zap.String("path", r.path),
		zap.Int64("size", size),
	)
	return nil
}

func (r *FileRegion) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, ErrNotOpen
	}

	var overflow bool
	if remaining := r.size - r.written; int64(len(p)) > remaining {
		p = p[:remaining]
		overflow = true
	}

	n, err := r.file.Write(p)
	r.digest.Write(p[:n])
	r.written += int64(n)

	if err == nil && overflow {
		err = ErrOverflow
	}
	return n, err
}

func (r *FileRegion) Abort() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finished = false
	return r.discard()
}

func (r *FileRegion) discard() error {
	if r.file != nil {
		_ = r.file.Close()
		r.file = nil
	}
	if r.path == "" {
		return nil
	}
	err := os.Remove(r.path)
	r.path = ""
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (r *FileRegion) End(verify bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return ErrNotOpen
	}
	if verify && r.written != r.size {
		return errors.Errorf("image incomplete, %d of %d bytes", r.written, r.size)
	}

	if err := r.file.Sync(); err != nil {
		return errors.WithMessage(err, "failed to sync staging file")
	}
	if err := r.file.Close(); err != nil {
		r.file = nil
		return errors.WithMessage(err, "failed to close staging file")
	}
	r.file = nil

	expected := r.digest.Sum(nil)
	if verify {
		actual, err := filehash.Sum(r.path)
		if err != nil {
			return errors.WithMessage(err, "failed to read back staged image")
		}
		if !bytes.Equal(expected, actual) {
			return errors.New("staged image digest mismatch")
		}
	}

	if err := r.apply(expected); err != nil {
		return err
	}

	if err := os.Remove(r.path); err != nil {
		r.logger.Warn("Failed to remove staging file",
			zap.String("path", r.path),
			zap.Error(err),
		)
	}
	r.path = ""
	r.finished = true

	r.logger.Info("Image committed",
		zap.String("target", r.target),
		zap.Int64("size", r.size),
		zap.String("sha256", hex.EncodeToString(expected)),
	)
	return nil
}

func (r *FileRegion) apply(checksum []byte) error {
	f, err := os.Open(r.path)
	if err != nil {
		return errors.WithMessage(err, "failed to reopen staged image")
	}
	defer f.Close()

	err = update.Apply(f, update.Options{
		TargetPath: r.target,
		TargetMode: 0o755,
		Checksum:   checksum,
		Hash:       crypto.SHA256,
	})
	if err == nil {
		return nil
	}
	if rerr := update.RollbackError(err); rerr != nil {
		r.logger.Error("Failed to roll back image after failed commit",
			zap.String("target", r.target),
			zap.Error(rerr),
		)
	}
	return errors.WithMessage(err, "failed to commit image")
}

func (r *FileRegion) IsFinished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}
