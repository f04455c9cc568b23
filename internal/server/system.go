package server

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// systemInfo is the host section of the health response. Fields the
// platform cannot report are left zero.
type systemInfo struct {
	CPUs           int     `json:"cpus"`
	MemoryTotal    uint64  `json:"memoryTotal"`
	MemoryUsedPct  float64 `json:"memoryUsedPercent"`
	ProcessRSS     uint64  `json:"processRss"`
	ProcessThreads int32   `json:"processThreads"`
}

func readSystemInfo(ctx context.Context) systemInfo {
	var info systemInfo
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.CPUs = n
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.MemoryTotal = vm.Total
		info.MemoryUsedPct = vm.UsedPercent
	}
	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil {
			info.ProcessRSS = mi.RSS
		}
		if n, err := p.NumThreadsWithContext(ctx); err == nil {
			info.ProcessThreads = n
		}
	}
	return info
}
