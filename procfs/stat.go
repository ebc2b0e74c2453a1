// Copyright 2016 DigitalOcean
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package procfs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// aggregateCPU is the /proc/stat line summing every core.
const aggregateCPU = "cpu"

// CPU contains the data exposed by the /proc/stat pseudo-file system
// file for cpus.
type CPU struct {
	CPU       string
	User      uint64
	Nice      uint64
	System    uint64
	Idle      uint64
	Iowait    uint64 // since Linux 2.5.41
	Irq       uint64 // since Linux 2.6.0-test4
	Softirq   uint64 // since Linux 2.6.0-test4
	Steal     uint64 // since Linux 2.6.11
	Guest     uint64 // since Linux 2.6.24
	GuestNice uint64 // since Linux 2.6.33
}

// Stat contains the data exposed by the /proc/stat pseudo-file system
// file.
type Stat struct {
	CPUS             []CPU
	Interrupt        uint64
	ContextSwitch    uint64
	Processes        uint64
	ProcessesRunning uint64
	ProcessesBlocked uint64
}

// Stater is a collection of CPU and scheduler metrics exposed by the
// procfs.
type Stater interface {
	NewStat() (Stat, error)
}

// NewStat collects data from the stat file under the mount point and
// converts it into a stat struct.
func (fs FS) NewStat() (Stat, error) {
	path := filepath.Join(fs.mount, "stat")
	f, err := os.Open(path)
	if err != nil {
		return Stat{}, errors.Wrapf(err, "unable to collect stat metrics from %s", path)
	}
	defer f.Close()

	return readStat(f)
}

// Cores returns the per-core entries, skipping the aggregate "cpu" line.
func (s Stat) Cores() []CPU {
	cores := make([]CPU, 0, len(s.CPUS))
	for _, c := range s.CPUS {
		if c.CPU == aggregateCPU {
			continue
		}
		cores = append(cores, c)
	}
	return cores
}

// TotalTime (in jiffies) executed by this CPU. Guest time is already
// accounted in User and Nice so it is not added again.
func (c CPU) TotalTime() uint64 {
	return c.User + c.Nice + c.System + c.Idle + c.Iowait + c.Irq + c.Softirq + c.Steal
}

// IdleTime (in jiffies) this CPU spent idle or waiting on I/O.
func (c CPU) IdleTime() uint64 {
	return c.Idle + c.Iowait
}

// Utilization returns the busy percentage (0-100) of c since prev. Counters
// that went backwards, or no elapsed time, report zero.
func (c CPU) Utilization(prev CPU) float64 {
	total, prevTotal := c.TotalTime(), prev.TotalTime()
	idle, prevIdle := c.IdleTime(), prev.IdleTime()
	if total <= prevTotal || idle < prevIdle {
		return 0
	}

	dTotal := total - prevTotal
	dIdle := idle - prevIdle
	if dIdle > dTotal {
		return 0
	}
	return 100 * float64(dTotal-dIdle) / float64(dTotal)
}

func readStat(f io.Reader) (Stat, error) {
	var stat Stat

	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "cpu") {
			cpu, err := parseCPU(line)
			if err != nil {
				return stat, err
			}
			stat.CPUS = append(stat.CPUS, cpu)
		} else {
			err := parseStat(line, &stat)
			if err != nil {
				return stat, err
			}
		}
	}
	return stat, errors.WithStack(scanner.Err())
}

// parseCPU parses a string and returns a CPU if the string is in the
// expected format.
func parseCPU(line string) (CPU, error) {
	lineArray := strings.Fields(line)

	if len(lineArray) < 5 {
		return CPU{}, fmt.Errorf("unsupported stat cpu format: %s", line)
	}

	for len(lineArray) < 11 {
		lineArray = append(lineArray, "0")
	}

	field := func(i int) uint64 {
		v, _ := strconv.ParseUint(lineArray[i], 10, 64)
		return v
	}

	return CPU{
		CPU:       lineArray[0],
		User:      field(1),
		Nice:      field(2),
		System:    field(3),
		Idle:      field(4),
		Iowait:    field(5),
		Irq:       field(6),
		Softirq:   field(7),
		Steal:     field(8),
		Guest:     field(9),
		GuestNice: field(10),
	}, nil
}

// parseStat parses a string and fills statMetric if the string is in
// the expected format.
func parseStat(line string, statMetric *Stat) error {
	lineArray := strings.Fields(line)
	if len(lineArray) < 2 {
		return fmt.Errorf("invalid line format: %q", line)
	}

	switch lineArray[0] {
	case "intr":
		statMetric.Interrupt, _ = strconv.ParseUint(lineArray[1], 10, 64)
	case "ctxt":
		statMetric.ContextSwitch, _ = strconv.ParseUint(lineArray[1], 10, 64)
	case "processes":
		statMetric.Processes, _ = strconv.ParseUint(lineArray[1], 10, 64)
	case "procs_running":
		statMetric.ProcessesRunning, _ = strconv.ParseUint(lineArray[1], 10, 64)
	case "procs_blocked":
		statMetric.ProcessesBlocked, _ = strconv.ParseUint(lineArray[1], 10, 64)
	}
	//Default omitted due to unsupported fields.
	return nil
}
