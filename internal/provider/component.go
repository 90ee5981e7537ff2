package provider

import (
	"github.com/MirrorChyan/ota-agent/internal/credential"
	"github.com/MirrorChyan/ota-agent/internal/installer"
	"github.com/MirrorChyan/ota-agent/internal/logic"
	"github.com/MirrorChyan/ota-agent/internal/metrics"
	"github.com/MirrorChyan/ota-agent/internal/netcheck"
	"github.com/MirrorChyan/ota-agent/internal/release"
	"github.com/MirrorChyan/ota-agent/internal/staging"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
)

var ComponentSet = wire.NewSet(
	credential.NewStore,
	wire.Bind(new(logic.CredentialSource), new(*credential.Store)),

	release.NewResolver,
	wire.Bind(new(logic.ReleaseResolver), new(*release.Resolver)),

	installer.New,
	wire.Bind(new(logic.FirmwareInstaller), new(*installer.Installer)),

	staging.NewFileRegion,
	wire.Bind(new(staging.Region), new(*staging.FileRegion)),

	netcheck.NewDNSProbe,
	wire.Bind(new(logic.Prober), new(*netcheck.DNSProbe)),

	metrics.New,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
)
