package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ssilveira/atacama/domain/entities"
	"github.com/ssilveira/atacama/domain/ports"
	"github.com/ssilveira/atacama/infrastructure/config"
	"github.com/ssilveira/atacama/infrastructure/transport"
	"github.com/ssilveira/atacama/platform"
)

const discoveryConcurrency = 4

// NeighborSource discovers adjacencies without a CLI session (SNMP)
type NeighborSource interface {
	Neighbors(ctx context.Context, dev entities.Device) ([]entities.Link, error)
}

// Discovery queries every configured device for its neighbors and merges
// the responses into one topology. Devices are independent: a failure is
// logged against that device and the others proceed.
type Discovery struct {
	cfg     *config.TopoConfig
	clients ClientFactory
	snmp    NeighborSource
	log     zerolog.Logger
}

// NewDiscovery creates a discovery service over the shared transport cache
func NewDiscovery(cfg *config.TopoConfig, snmp NeighborSource, log zerolog.Logger) *Discovery {
	return NewDiscoveryWithFactory(cfg, transport.Get, snmp, log)
}

// NewDiscoveryWithFactory creates a discovery service with a custom client factory
func NewDiscoveryWithFactory(cfg *config.TopoConfig, factory ClientFactory, snmp NeighborSource, log zerolog.Logger) *Discovery {
	return &Discovery{
		cfg:     cfg,
		clients: factory,
		snmp:    snmp,
		log:     log,
	}
}

// Discover runs neighbor collection on all devices. It fails only when
// no device could be queried at all.
func (d *Discovery) Discover(ctx context.Context) (*entities.Topology, error) {
	topo := entities.NewTopology()

	var mu sync.Mutex
	succeeded := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(discoveryConcurrency)
	for _, dev := range d.cfg.Devices {
		g.Go(func() error {
			links, platformName, err := d.collectDevice(ctx, dev)
			if err != nil {
				d.log.Error().Str("device", dev.Name).Err(err).Msg("discovery failed")
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			topo.AddNode(entities.Node{Name: dev.Name, Platform: platformName})
			for _, l := range links {
				topo.AddLink(l)
			}
			succeeded++
			return nil
		})
	}
	_ = g.Wait()

	if succeeded == 0 {
		return nil, fmt.Errorf("discovery failed on all %d devices", len(d.cfg.Devices))
	}

	d.log.Info().
		Int("devices", succeeded).
		Int("nodes", topo.NodeCount()).
		Int("links", topo.LinkCount()).
		Msg("discovery complete")
	return topo, nil
}

func (d *Discovery) collectDevice(ctx context.Context, dev entities.Device) ([]entities.Link, string, error) {
	if dev.Source == "snmp" {
		return d.collectSNMP(ctx, dev)
	}
	return d.collectCLI(ctx, dev)
}

func (d *Discovery) collectSNMP(ctx context.Context, dev entities.Device) ([]entities.Link, string, error) {
	lldpEnabled := false
	for _, proto := range d.cfg.Protocols() {
		if proto == entities.ProtocolLLDP {
			lldpEnabled = true
			continue
		}
		d.log.Warn().Str("device", dev.Name).Str("protocol", string(proto)).
			Msg("protocol not available over snmp, skipping")
	}

	platformName := dev.PlatformID()
	if platformName == "auto" {
		platformName = ""
	}
	if !lldpEnabled {
		// Nothing this device can answer; it still shows up as a node.
		return nil, platformName, nil
	}

	links, err := d.snmp.Neighbors(ctx, dev)
	if err != nil {
		return nil, "", err
	}
	return links, platformName, nil
}

func (d *Discovery) collectCLI(ctx context.Context, dev entities.Device) ([]entities.Link, string, error) {
	client := d.clients(dev)
	repo := transport.NewDeviceAdapter(client)

	driver, err := d.resolveDriver(client, repo, dev)
	if err != nil {
		return nil, "", err
	}

	if !repo.IsConnected() {
		if err := repo.Connect(); err != nil {
			return nil, "", err
		}
	}

	var links []entities.Link
	for _, proto := range d.cfg.Protocols() {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		found, err := platform.Collect(driver, repo, dev.Name, proto)
		if err != nil {
			d.log.Warn().Str("device", dev.Name).Str("protocol", string(proto)).Err(err).
				Msg("protocol query failed, skipping")
			continue
		}
		d.log.Debug().Str("device", dev.Name).Str("protocol", string(proto)).
			Int("links", len(found)).Msg("neighbors collected")
		links = append(links, found...)
	}
	return links, driver.Name(), nil
}

// resolveDriver picks the platform driver, configuring the transport
// login sequence when the platform is known up front and falling back to
// auto-detection otherwise.
func (d *Discovery) resolveDriver(client transport.Client, repo ports.DeviceRepository, dev entities.Device) (platform.NeighborDriver, error) {
	if dev.PlatformID() == "auto" {
		driver, err := platform.Detect(repo)
		if err != nil {
			return nil, fmt.Errorf("platform auto-detection failed: %w", err)
		}
		return driver, nil
	}

	driver, err := platform.Get(dev.PlatformID())
	if err != nil {
		return nil, err
	}
	if auth, ok := client.(transport.AuthConfigurable); ok {
		auth.SetAuthSequence(driver.AuthSequence(dev.Username, dev.Password))
	}
	if setup, ok := client.(transport.SetupConfigurable); ok {
		setup.SetSetupCommands(driver.SetupCommands())
	}
	return driver, nil
}
