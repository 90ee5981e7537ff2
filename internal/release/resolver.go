package release

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MirrorChyan/ota-agent/internal/cache"
	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/pkg/errs"
	"github.com/MirrorChyan/ota-agent/internal/vercomp"
	"github.com/google/go-github/v39/github"
	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type Resolver struct {
	logger *zap.Logger

	owner        string
	repo         string
	branch       string
	firmwarePath string
	suffixes     []string
	userAgent    string

	apiURL  *url.URL
	rawURL  *url.URL
	timeout time.Duration
	base    http.RoundTripper

	cache    *cache.Cache[string, *Descriptor]
	cacheTTL time.Duration
}

func NewResolver(conf *config.Config, logger *zap.Logger) (*Resolver, error) {
	rc := conf.Release

	apiURL, err := parseBaseURL(rc.APIURL)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid release api url")
	}
	rawURL, err := parseBaseURL(rc.RawURL)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid release raw url")
	}

	suffixes := make([]string, 0, len(rc.AssetSuffixes))
	for _, s := range rc.AssetSuffixes {
		suffixes = append(suffixes, strings.ToLower(s))
	}

	return &Resolver{
		logger:       logger,
		owner:        rc.Owner,
		repo:         rc.Repo,
		branch:       rc.Branch,
		firmwarePath: strings.TrimPrefix(rc.FirmwarePath, "/"),
		suffixes:     suffixes,
		userAgent:    rc.UserAgent,
		apiURL:       apiURL,
		rawURL:       rawURL,
		timeout:      rc.RequestTimeout,
		base:         http.DefaultTransport,
		cache:        cache.NewCache[string, *Descriptor](rc.CacheTTL),
		cacheTTL:     rc.CacheTTL,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("url %q must be absolute", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

func (r *Resolver) client(token string) *github.Client {
	var rt = r.base
	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   r.base,
		}
	}
	c := github.NewClient(&http.Client{
		Transport: rt,
		Timeout:   r.timeout,
	})
	c.BaseURL = r.apiURL
	if r.userAgent != "" {
		c.UserAgent = r.userAgent
	}
	return c
}

// FetchLatestRelease always asks the release source and refreshes the cached descriptor.
func (r *Resolver) FetchLatestRelease(ctx context.Context, token string) (*Descriptor, error) {
	d, err := r.fetch(ctx, token)
	if err != nil {
		return nil, err
	}
	if r.cacheTTL > 0 {
		r.cache.Set(fingerprint(token), d)
	}
	return d, nil
}

// CachedLatestRelease returns the descriptor from the last successful fetch with the same token,
// fetching when it is missing or expired.
func (r *Resolver) CachedLatestRelease(ctx context.Context, token string) (*Descriptor, error) {
	if r.cacheTTL <= 0 {
		return r.fetch(ctx, token)
	}
	return r.cache.ComputeIfAbsent(fingerprint(token), func() (*Descriptor, error) {
		return r.fetch(ctx, token)
	})
}

func (r *Resolver) fetch(ctx context.Context, token string) (*Descriptor, error) {
	c := r.client(token)

	rel, _, err := c.Repositories.GetLatestRelease(ctx, r.owner, r.repo)
	if err == nil {
		return toDescriptor(rel), nil
	}
	if isParseError(err) {
		return nil, errs.ErrParse.Wrap(err)
	}

	r.logger.Warn("Latest release unavailable, falling back to release list",
		zap.String("repo", r.owner+"/"+r.repo),
		zap.Error(err),
	)

	list, _, err := c.Repositories.ListReleases(ctx, r.owner, r.repo, &github.ListOptions{PerPage: 10})
	if err != nil {
		return nil, classify(err)
	}
	if len(list) == 0 {
		return nil, errs.ErrReleaseNotFound
	}
	return toDescriptor(list[0]), nil
}

func toDescriptor(rel *github.RepositoryRelease) *Descriptor {
	tag := rel.GetTagName()
	if tag == "" {
		tag = UnknownTag
	}
	d := &Descriptor{
		Tag:    tag,
		Name:   rel.GetName(),
		Assets: make([]Asset, 0, len(rel.Assets)),
	}
	for _, a := range rel.Assets {
		d.Assets = append(d.Assets, Asset{
			Name: a.GetName(),
			ID:   a.GetID(),
			Size: a.GetSize(),
		})
	}
	return d
}

func isParseError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

func classify(err error) error {
	if isParseError(err) {
		return errs.ErrParse.Wrap(err)
	}
	var (
		respErr *github.ErrorResponse
		rateErr *github.RateLimitError
	)
	if errors.As(err, &respErr) || errors.As(err, &rateErr) {
		return errs.ErrServerRejected.Wrap(err)
	}
	return errs.ErrNetwork.Wrap(err)
}

// Compare reports how remoteTag relates to the running version.
func (r *Resolver) Compare(remoteTag string, local vercomp.Version) vercomp.Result {
	return vercomp.Compare(remoteTag, local)
}

// LocateInstallableAsset picks the first asset with a known binary suffix, addressed through the
// authenticated asset endpoint. Releases without one fall back to the firmware file on the default branch.
func (r *Resolver) LocateInstallableAsset(d *Descriptor) DownloadTarget {
	if d != nil {
		for _, a := range d.Assets {
			if !r.installable(a.Name) {
				continue
			}
			return DownloadTarget{
				URL:    r.apiURL.JoinPath("repos", r.owner, r.repo, "releases", "assets", strconv.FormatInt(a.ID, 10)).String(),
				Accept: AcceptOctetStream,
				Asset:  a.Name,
			}
		}
	}

	r.logger.Info("No binary asset in release, using repository file",
		zap.String("branch", r.branch),
		zap.String("path", r.firmwarePath),
	)
	return DownloadTarget{
		URL: r.rawURL.JoinPath(r.owner, r.repo, r.branch, r.firmwarePath).String(),
	}
}

func (r *Resolver) installable(name string) bool {
	name = strings.ToLower(name)
	for _, s := range r.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "latest:" + hex.EncodeToString(sum[:8])
}
