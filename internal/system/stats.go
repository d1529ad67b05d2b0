package system

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// HostStats is a snapshot of the machine for the performance report.
type HostStats struct {
	CPUs        int
	CPUPercent  float64
	MemTotalMB  uint64
	MemUsedPct  float64
	ProcessRSSM uint64
}

// CollectHostStats gathers what it can; unavailable figures stay zero.
func CollectHostStats() HostStats {
	var s HostStats
	if n, err := cpu.Counts(true); err == nil {
		s.CPUs = n
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		s.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemTotalMB = vm.Total / (1 << 20)
		s.MemUsedPct = vm.UsedPercent
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			s.ProcessRSSM = mi.RSS / (1 << 20)
		}
	}
	return s
}

func (s HostStats) String() string {
	return fmt.Sprintf("CPUs: %d (%.0f%%) | RAM: %d MB (%.0f%% used) | RSS: %d MB",
		s.CPUs, s.CPUPercent, s.MemTotalMB, s.MemUsedPct, s.ProcessRSSM)
}
