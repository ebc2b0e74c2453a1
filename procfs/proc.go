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
	"github.com/pkg/errors"
	"github.com/prometheus/procfs"
)

// DefaultMountPoint is the common mount point of the proc filesystem.
const DefaultMountPoint = procfs.DefaultMountPoint

// FS reads the proc pseudo-file system mounted at a given path.
type FS struct {
	mount string
	proc  procfs.FS
}

// NewFS returns an FS rooted at mount.
func NewFS(mount string) (FS, error) {
	fs, err := procfs.NewFS(mount)
	if err != nil {
		return FS{}, errors.Wrapf(err, "failed to open procfs at %s", mount)
	}
	return FS{mount: mount, proc: fs}, nil
}

// ProcSample is the CPU accounting of one process at one instant.
type ProcSample struct {
	PID  int
	UID  uint32 // real user id of the owner
	Comm string
	// Ticks is the user plus system time consumed so far, in clock ticks.
	Ticks uint64
	// StartTime in clock ticks after boot, used to detect pid reuse.
	StartTime uint64
}

// Procer is a collection of process metrics exposed by the
// procfs.
type Procer interface {
	NewProcSamples() ([]ProcSample, error)
}

// NewProcSamples reads the stat and status files of every running process.
// Processes which exit while being read are skipped.
func (fs FS) NewProcSamples() ([]ProcSample, error) {
	procs, err := fs.proc.AllProcs()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list processes")
	}

	samples := make([]ProcSample, 0, len(procs))
	for _, proc := range procs {
		stat, err := proc.Stat()
		if err != nil {
			continue // because the process is gone
		}

		status, err := proc.NewStatus()
		if err != nil {
			continue
		}

		samples = append(samples, ProcSample{
			PID:       proc.PID,
			UID:       uint32(status.UIDs[0]),
			Comm:      stat.Comm,
			Ticks:     uint64(stat.UTime + stat.STime),
			StartTime: stat.Starttime,
		})
	}
	return samples, nil
}
