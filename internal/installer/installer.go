package installer

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/pkg/bufpool"
	"github.com/MirrorChyan/ota-agent/internal/pkg/errs"
	"github.com/MirrorChyan/ota-agent/internal/release"
	"github.com/MirrorChyan/ota-agent/internal/staging"
	"github.com/MirrorChyan/ota-agent/internal/watchdog"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Observer receives download progress. Calls come from the installing goroutine.
type Observer interface {
	// Begin is called once the staging region accepted the declared size.
	Begin(total int64)
	Progress(downloaded, total int64)
}

type nopObserver struct{}

func (nopObserver) Begin(int64)           {}
func (nopObserver) Progress(int64, int64) {}

type Installer struct {
	logger    *zap.Logger
	heartbeat watchdog.Heartbeat
	hosts     []string
	userAgent string
	timeout   time.Duration
	base      http.RoundTripper
}

// newBaseTransport never negotiates compression, the staged bytes must be the ones the
// declared length describes. Only the wait for response headers is bounded here.
func newBaseTransport(headerTimeout time.Duration) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DisableCompression = true
	t.ResponseHeaderTimeout = headerTimeout
	return t
}

func New(conf *config.Config, logger *zap.Logger, heartbeat watchdog.Heartbeat) *Installer {
	var hosts []string
	for _, raw := range []string{conf.Release.APIURL, conf.Release.RawURL} {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return &Installer{
		logger:    logger,
		heartbeat: heartbeat,
		hosts:     hosts,
		userAgent: conf.Release.UserAgent,
		timeout:   conf.Release.DownloadTimeout,
		base:      newBaseTransport(conf.Release.RequestTimeout),
	}
}

// Install streams target into region and commits it. Any failure after the region
// was opened leaves it aborted.
func (i *Installer) Install(ctx context.Context, target release.DownloadTarget, token string, region staging.Region, obs Observer) error {
	if obs == nil {
		obs = nopObserver{}
	}
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return errs.ErrDownloadFailed.Wrap(err)
	}
	if i.userAgent != "" {
		req.Header.Set("User-Agent", i.userAgent)
	}
	if target.Accept != "" {
		req.Header.Set("Accept", target.Accept)
	}
	req.Header.Set("Accept-Encoding", "identity")

	client := &http.Client{
		Transport: newScopedTransport(token, i.hosts, i.base),
	}

	i.heartbeat.Beat()
	resp, err := client.Do(req)
	i.heartbeat.Beat()
	if err != nil {
		return errs.ErrDownloadFailed.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errs.ErrDownloadFailed.Wrapf("HTTP %d", resp.StatusCode)
	}

	total := resp.ContentLength
	if total <= 0 {
		return errs.ErrInvalidSize.Wrapf("content length %d", total)
	}

	if err := region.Begin(total); err != nil {
		return errs.ErrOpenStagingFailed.Wrap(err)
	}
	obs.Begin(total)

	i.logger.Info("Streaming image",
		zap.String("url", target.URL),
		zap.Int64("total", total),
	)

	downloaded, err := i.stream(resp.Body, region, total, obs)
	if err != nil {
		_ = region.Abort()
		return err
	}

	i.heartbeat.Beat()
	err = region.End(true)
	i.heartbeat.Beat()
	if err != nil {
		_ = region.Abort()
		return errs.ErrIncompleteImage.Wrap(err)
	}
	if !region.IsFinished() {
		_ = region.Abort()
		return errs.ErrIncompleteImage.Wrapf("%d of %d bytes staged", downloaded, total)
	}
	return nil
}

func (i *Installer) stream(body io.Reader, region staging.Region, total int64, obs Observer) (int64, error) {
	var (
		bufp       = bufpool.GetBuffer()
		buf        = *bufp
		downloaded int64
	)
	defer bufpool.PutBuffer(bufp)

	for downloaded < total {
		n, rerr := body.Read(buf[:min(int64(len(buf)), total-downloaded)])
		if n > 0 {
			i.heartbeat.Beat()
			w, werr := region.Write(buf[:n])
			i.heartbeat.Beat()
			if werr != nil {
				return downloaded, errs.ErrWrite.Wrap(errors.WithMessagef(werr, "offset %d", downloaded))
			}
			if w != n {
				return downloaded, errs.ErrWrite.Wrapf("wrote %d of %d bytes at offset %d", w, n, downloaded)
			}
			downloaded += int64(n)
			obs.Progress(downloaded, total)
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			i.logger.Warn("Connection closed during download",
				zap.Int64("downloaded", downloaded),
				zap.Int64("total", total),
				zap.Error(rerr),
			)
			return downloaded, errs.ErrIncompleteImage.Wrap(
				errors.WithMessagef(rerr, "read failed after %d of %d bytes", downloaded, total),
			)
		}
	}
	return downloaded, nil
}

// Percent is floor(downloaded*100/total).
func Percent(downloaded, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(downloaded * 100 / total)
}
