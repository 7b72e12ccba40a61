package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ssilveira/atacama/domain/entities"
	"github.com/ssilveira/atacama/infrastructure/transport"
)

const (
	DefaultWorkers        = 8
	DefaultCommandTimeout = 30 * time.Second
)

// ClientFactory resolves the transport client for one device
type ClientFactory func(entities.Device) transport.Client

// Executor fans a single command out to every device in the inventory.
// Each device gets its own connection; a failure on one device never
// stops the others, and results keep inventory order.
type Executor struct {
	clients ClientFactory
	drop    func(entities.Device)
	timeout time.Duration
	workers int
	log     zerolog.Logger
}

// NewExecutor creates an executor backed by the shared transport cache
func NewExecutor(timeout time.Duration, workers int, log zerolog.Logger) *Executor {
	return NewExecutorWithFactory(transport.Get, timeout, workers, log)
}

// NewExecutorWithFactory creates an executor with a custom client factory
func NewExecutorWithFactory(factory ClientFactory, timeout time.Duration, workers int, log zerolog.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Executor{
		clients: factory,
		drop:    transport.Drop,
		timeout: timeout,
		workers: workers,
		log:     log,
	}
}

// Run executes the command on all devices and returns one result per
// device, positioned to match the input slice.
func (e *Executor) Run(ctx context.Context, devices []entities.Device, command string) []entities.CommandResult {
	results := make([]entities.CommandResult, len(devices))

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i := range devices {
		wg.Add(1)
		go func(idx int, dev entities.Device) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = e.runOne(ctx, dev, command)
		}(i, devices[i])
	}
	wg.Wait()

	return results
}

type outcome struct {
	output string
	err    error
}

func (e *Executor) runOne(ctx context.Context, dev entities.Device, command string) entities.CommandResult {
	start := time.Now()
	result := entities.CommandResult{Device: dev.Name, Host: dev.Host}

	e.log.Debug().Str("device", dev.Name).Str("host", dev.Host).Msg("dispatching command")

	done := make(chan outcome)
	abandoned := make(chan struct{})
	go func() {
		client := e.clients(dev)
		var o outcome
		if err := client.Connect(); err != nil {
			o.err = err
		} else {
			o.output, o.err = client.ExecuteCommand(command)
		}
		select {
		case done <- o:
		case <-abandoned:
			// The deadline fired and this device was dropped from the
			// shared cache; this goroutine is the only remaining holder
			// of the handle, so it closes it once the call returns.
			client.Disconnect()
		}
	}()

	select {
	case o := <-done:
		result.Output = o.output
		result.Err = o.err
	case <-time.After(e.timeout):
		result.Err = fmt.Errorf("device %s: timeout after %s", dev.Name, e.timeout)
		e.drop(dev)
		close(abandoned)
	case <-ctx.Done():
		result.Err = ctx.Err()
		e.drop(dev)
		close(abandoned)
	}
	result.Elapsed = time.Since(start)

	if result.Err != nil {
		e.log.Warn().Str("device", dev.Name).Err(result.Err).Msg("command failed")
	}
	return result
}
