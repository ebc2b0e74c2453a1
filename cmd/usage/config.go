package main

import (
	"strconv"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/evanr70/usage/internal/usage"
	"github.com/evanr70/usage/procfs"
)

var config struct {
	milliseconds     uint64
	window           int
	procfsPath       string
	debug            bool
	syslog           bool
	webListen        bool
	webListenAddress string
}

const (
	defaultMilliseconds     = "500"
	defaultWebListenAddress = "127.0.0.1:9100"
)

func init() {
	kingpin.CommandLine.Name = "usage"
	kingpin.CommandLine.Help = "Live view of CPU usage grouped by the user owning each process."

	kingpin.Flag("milliseconds", "refresh interval in milliseconds").
		Short('m').
		Default(defaultMilliseconds).
		Uint64Var(&config.milliseconds)

	kingpin.Flag("window", "number of refresh cycles averaged per user (0 shows the last reading only)").
		Default(strconv.Itoa(usage.DefaultCapacity)).
		IntVar(&config.window)

	kingpin.Flag("path.procfs", "procfs mountpoint").
		Default(procfs.DefaultMountPoint).
		StringVar(&config.procfsPath)

	kingpin.Flag("debug", "log debug information to stderr").
		BoolVar(&config.debug)

	kingpin.Flag("syslog", "enable logging to syslog").
		BoolVar(&config.syslog)

	kingpin.Flag("web.listen", "enable a local endpoint for scrapeable prometheus metrics as well").
		Default("false").
		BoolVar(&config.webListen)

	kingpin.Flag("web.listen-address", `serve prometheus metrics on the specified address (ex. ":9100")`).
		Default(defaultWebListenAddress).
		StringVar(&config.webListenAddress)
}

func checkConfig() error {
	if config.milliseconds == 0 {
		return errors.New("--milliseconds must be greater than zero")
	}
	if config.window < 0 {
		return errors.Errorf("--window must not be negative, got %d", config.window)
	}
	if config.webListen && config.webListenAddress == "" {
		return errors.New("--web.listen requires --web.listen-address")
	}
	return nil
}

// interval is the configured pause between refresh cycles
func interval() time.Duration {
	return time.Duration(config.milliseconds) * time.Millisecond
}

// newStore returns the store the refresh loop starts with, or nil when
// smoothing is disabled
func newStore() *usage.Store {
	if config.window == 0 {
		return nil
	}
	return usage.NewStore(config.window)
}
