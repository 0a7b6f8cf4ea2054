package monitor

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessMonitor samples resource usage of the current process.
type ProcessMonitor struct {
	mu   sync.Mutex
	proc *process.Process
}

func NewProcessMonitor() (*ProcessMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open own process: %w", err)
	}
	return &ProcessMonitor{proc: proc}, nil
}

func (m *ProcessMonitor) Name() string {
	return "process"
}

func (m *ProcessMonitor) Collect() (*ProcessState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mem, err := m.proc.MemoryInfo()
	if err != nil {
		return nil, err
	}

	threads, err := m.proc.NumThreads()
	if err != nil {
		return nil, err
	}

	// Since process start; cheap and needs no sampling window.
	cpuPercent, err := m.proc.CPUPercent()
	if err != nil {
		return nil, err
	}

	state := &ProcessState{
		PID:        m.proc.Pid,
		RSSBytes:   mem.RSS,
		CPUPercent: cpuPercent,
		Threads:    threads,
	}

	if created, err := m.proc.CreateTime(); err == nil {
		state.UptimeSec = int64(time.Since(time.UnixMilli(created)).Seconds())
	}

	return state, nil
}
