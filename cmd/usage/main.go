package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/evanr70/usage/internal/exporter"
	"github.com/evanr70/usage/internal/identity"
	"github.com/evanr70/usage/internal/log"
	"github.com/evanr70/usage/internal/sampler"
	"github.com/evanr70/usage/internal/usage"
	"github.com/evanr70/usage/pkg/writer"
	"github.com/evanr70/usage/procfs"
)

func main() {
	// parse all command line flags
	kingpin.HelpFlag.Short('h')
	kingpin.Parse()

	if config.debug {
		log.SetLevel(log.LevelDebug)
	}
	if config.syslog {
		if err := log.InitSyslog(); err != nil {
			log.Error("failed to initialize syslog. Using standard logging: %+v", err)
		}
	}

	if err := checkConfig(); err != nil {
		log.Fatal("configuration failure: %+v", err)
	}

	fs, err := procfs.NewFS(config.procfsPath)
	if err != nil {
		log.Fatal("failed to open procfs: %+v", err)
	}
	smp, err := sampler.New(fs, fs)
	if err != nil {
		log.Fatal("failed to take a baseline reading: %+v", err)
	}
	resolver := identity.NewResolver(identity.DefaultTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP, syscall.SIGINT)
	go func() {
		for sig := range stop {
			if sig == syscall.SIGHUP {
				log.Info("caught SIGHUP, forgetting cached user names")
				resolver.Forget()
				continue
			}
			log.Info("caught signal, shutting down: %s", sig.String())
			cancel()
			return
		}
	}()

	col := exporter.NewCollector()
	if config.webListen {
		serveMetrics(config.webListenAddress, newRegistry(col))
	}

	scr := openScreen(cancel)
	term := writer.NewTerminal(scr.out, smp.NumCores(), scr.opts...)
	snaps := make(chan usage.Snapshot, 1)
	rendered := make(chan error, 1)
	go func() {
		err := term.Run(ctx, snaps)
		if err != nil {
			cancel()
		}
		rendered <- err
	}()

	err = run(ctx, &refresher{
		sampler:  smp,
		resolver: resolver,
		store:    newStore(),
		snaps:    snaps,
		observer: col,
	}, &constThrottler{wait: interval()})

	cancel()
	renderErr := <-rendered
	scr.restore()

	if renderErr != nil {
		log.Error("failed to draw: %+v", renderErr)
	}
	if err != nil {
		log.Fatal("%+v", err)
	}
	if renderErr != nil {
		os.Exit(1)
	}
}
