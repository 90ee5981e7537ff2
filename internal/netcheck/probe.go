package netcheck

import (
	"context"
	"net"
	"time"

	"github.com/MirrorChyan/ota-agent/internal/config"
	"github.com/MirrorChyan/ota-agent/internal/pkg/errs"
)

const defaultTimeout = 5 * time.Second

// DNSProbe checks that the release source host resolves before any request is made.
type DNSProbe struct {
	host     string
	timeout  time.Duration
	resolver *net.Resolver
}

func NewDNSProbe(conf *config.Config) *DNSProbe {
	return &DNSProbe{
		host:     conf.Release.ProbeHost,
		timeout:  defaultTimeout,
		resolver: net.DefaultResolver,
	}
}

func (p *DNSProbe) Probe(ctx context.Context) error {
	if p.host == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	addrs, err := p.resolver.LookupHost(ctx, p.host)
	if err != nil {
		return errs.ErrOffline.Wrap(err)
	}
	if len(addrs) == 0 {
		return errs.ErrOffline.Wrapf("no addresses for %s", p.host)
	}
	return nil
}
