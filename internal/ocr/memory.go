package ocr

import (
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessMemoryGauge reads the current process RSS from the OS.
type ProcessMemoryGauge struct{}

func (ProcessMemoryGauge) ProcessRSS() (uint64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}
