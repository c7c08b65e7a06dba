// This file is part of Titleloader.
//
// Titleloader is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Titleloader is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Titleloader.  If not, see <https://www.gnu.org/licenses/>.

package kernel

import (
	"fmt"
	"sort"

	"github.com/jetsetilly/titleloader/capability"
	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/image"
	"github.com/jetsetilly/titleloader/logger"
)

// the first process identifier allocated. lower values are for system
// modules in the real console
const firstProcessID = 0x28

// Kernel is the reference process host.
type Kernel struct {
	processes map[uint32]*Process
	nextPID   uint32

	Limits   *ResourceLimitList
	FS       *FSRegistry
	Config   *ConfigStore
	Archives *ArchiveManager
}

// NewKernel is the preferred method of initialisation for the Kernel type.
func NewKernel() *Kernel {
	return &Kernel{
		processes: make(map[uint32]*Process),
		nextPID:   firstProcessID,
		Limits:    NewResourceLimitList(),
		FS:        NewFSRegistry(),
		Config:    &ConfigStore{},
		Archives:  &ArchiveManager{},
	}
}

// CodeSet is a completed process image.
type CodeSet struct {
	name      string
	programID uint64

	Code       image.Segment
	ROData     image.Segment
	Data       image.Segment
	Entrypoint uint32
	Memory     []byte
}

// Name implements the capability.CodeSet interface.
func (cs *CodeSet) Name() string {
	return cs.name
}

// ProgramID implements the capability.CodeSet interface.
func (cs *CodeSet) ProgramID() uint64 {
	return cs.programID
}

func (cs *CodeSet) String() string {
	return fmt.Sprintf("%s (%016x): %d bytes", cs.name, cs.programID, len(cs.Memory))
}

// CreateCodeSet implements the capability.ProcessHost interface.
func (k *Kernel) CreateCodeSet(img *image.Image, programID uint64) (capability.CodeSet, error) {
	cs := &CodeSet{
		name:       img.Name,
		programID:  programID,
		Code:       img.Code,
		ROData:     img.ROData,
		Data:       img.Data,
		Entrypoint: img.Entrypoint,
		Memory:     img.Handoff(),
	}

	if len(cs.Memory) == 0 {
		return nil, curated.Errorf("kernel: codeset %s has no memory", cs.name)
	}

	logger.Logf(logger.Allow, "kernel", "codeset: %s", cs)

	return cs, nil
}

// CreateProcess implements the capability.ProcessHost interface.
func (k *Kernel) CreateProcess(cs capability.CodeSet) (capability.Process, error) {
	c, ok := cs.(*CodeSet)
	if !ok {
		return nil, curated.Errorf("kernel: codeset of type %T not created by this kernel", cs)
	}

	p := newProcess(k.nextPID, c)
	k.processes[p.id] = p
	k.nextPID++

	logger.Logf(logger.Allow, "kernel", "process %d created for %s", p.id, c.Name())

	return p, nil
}

// DestroyProcess implements the capability.ProcessHost interface.
func (k *Kernel) DestroyProcess(proc capability.Process) {
	p, ok := k.processes[proc.ID()]
	if !ok {
		return
	}
	delete(k.processes, p.id)
	k.FS.unregister(p.id)
	logger.Logf(logger.Allow, "kernel", "process %d destroyed", p.id)
}

// Process returns the process with the identifier.
func (k *Kernel) Process(id uint32) (*Process, bool) {
	p, ok := k.processes[id]
	return p, ok
}

// Processes returns every process in identifier order.
func (k *Kernel) Processes() []*Process {
	l := make([]*Process, 0, len(k.processes))
	for _, p := range k.processes {
		l = append(l, p)
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].id < l[j].id
	})
	return l
}
