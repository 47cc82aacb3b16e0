package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-survive/internal/driver"
	"github.com/pixil98/go-survive/internal/game"
	"github.com/pixil98/go-survive/internal/listener"
	"github.com/pixil98/go-survive/internal/messaging"
	"github.com/pixil98/go-survive/internal/session"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tickInterval, err := cfg.tickInterval()
	if err != nil {
		return nil, err
	}

	// Load the map and survival tuning
	grid, err := cfg.World.buildGrid()
	if err != nil {
		return nil, fmt.Errorf("building map: %w", err)
	}
	tune, err := cfg.World.loadTuning()
	if err != nil {
		return nil, fmt.Errorf("loading tuning: %w", err)
	}

	// Embedded broker carries deltas to sessions
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	world := game.NewWorld(grid, cfg.World.worldOpts(tune, messaging.NewNatsPublisher(natsServer))...)

	workers := service.WorkerList{
		"nats":  natsServer,
		"world": world,
	}

	sessionOpts := cfg.Sessions.options()
	driverOpts := []driver.MudDriverOpt{driver.WithTickLength(tickInterval)}
	if j := cfg.Journal.buildWriter(); j != nil {
		sessionOpts = append(sessionOpts, session.WithJournal(j))
		driverOpts = append(driverOpts, driver.WithJournal(j))
		workers["journal"] = j
	}

	sessions := session.NewManager(world, natsServer, sessionOpts...)
	workers["sessions"] = sessions

	// Tickers run in order on every firing
	workers["driver"] = driver.NewMudDriver([]driver.Ticker{
		game.NewWorldTicker(world),
		sessions,
	}, driverOpts...)

	// Create Listeners
	cm := listener.NewConnectionManager(sessions)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lw, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating %s listener %d: %w", l.Protocol, i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lw
	}
	// Players only arrive once deltas can reach them
	workers["listeners"] = &afterReady{ready: natsServer.Ready(), worker: &listeners}

	return workers, nil
}

// afterReady holds a worker back until ready is closed.
type afterReady struct {
	ready  <-chan struct{}
	worker service.Worker
}

func (a *afterReady) Start(ctx context.Context) error {
	select {
	case <-a.ready:
	case <-ctx.Done():
		return nil
	}
	return a.worker.Start(ctx)
}
