package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// profiler writes <prefix>.cpu.pprof for the whole command and a heap
// snapshot to <prefix>.mem.pprof when it stops.
type profiler struct {
	prefix string
	cpu    *os.File
}

func startProfiler(prefix string) (*profiler, error) {
	f, err := os.Create(prefix + ".cpu.pprof")
	if err != nil {
		return nil, fmt.Errorf("failed to create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to start CPU profile: %w", err)
	}
	return &profiler{prefix: prefix, cpu: f}, nil
}

// stop ends CPU profiling and returns the files written.
func (p *profiler) stop() ([]string, error) {
	pprof.StopCPUProfile()
	if err := p.cpu.Close(); err != nil {
		return nil, err
	}
	written := []string{p.cpu.Name()}

	mem, err := os.Create(p.prefix + ".mem.pprof")
	if err != nil {
		return written, fmt.Errorf("failed to create memory profile: %w", err)
	}
	defer mem.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(mem); err != nil {
		return written, fmt.Errorf("failed to write memory profile: %w", err)
	}
	return append(written, mem.Name()), nil
}
