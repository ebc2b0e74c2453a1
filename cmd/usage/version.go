package main

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/common/version"
)

const programName = "usage"

func init() {
	kingpin.Version(version.Print(programName))
	kingpin.CommandLine.VersionFlag.Short('v')
}
