// Package diagnostics provides a best-effort resource check run before
// spawning provider subprocesses, so a memory-starved machine fails fast
// instead of mid-generation.
package diagnostics

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// PreflightResult reports whether execution should proceed.
type PreflightResult struct {
	OK       bool
	Warnings []string
	Errors   []string
}

// Preflight checks system resources against minimum thresholds.
type Preflight struct {
	// MinFreeMemMB is the minimum available memory required to start a
	// provider process.
	MinFreeMemMB uint64
	// WarnCPUPercent triggers a warning (not a failure) when total CPU
	// utilization is above it.
	WarnCPUPercent float64
}

// NewPreflight returns a preflight check with default thresholds.
func NewPreflight() *Preflight {
	return &Preflight{
		MinFreeMemMB:   256,
		WarnCPUPercent: 95,
	}
}

// Run performs the check. Metric collection failures degrade to warnings;
// the check never blocks execution on its own inability to measure.
func (p *Preflight) Run() PreflightResult {
	result := PreflightResult{OK: true}

	if vm, err := mem.VirtualMemory(); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("memory stats unavailable: %v", err))
	} else if availMB := vm.Available / (1024 * 1024); availMB < p.MinFreeMemMB {
		result.OK = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("only %d MB memory available, need %d MB", availMB, p.MinFreeMemMB))
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		if percents[0] > p.WarnCPUPercent {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("CPU utilization at %.0f%%", percents[0]))
		}
	}

	return result
}
