package armorvis

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SetCPUAffinity pins the calling OS thread to the given CPU core numbers,
// eg: []int{4,5,6,7} for the fast cores of an RK3588.  Call
// runtime.LockOSThread first so the goroutine stays on the pinned thread.
func SetCPUAffinity(cores []int) error {

	if len(cores) == 0 {
		return fmt.Errorf("no CPU cores given")
	}

	var set unix.CPUSet
	set.Zero()

	for _, core := range cores {
		if core < 0 {
			return fmt.Errorf("invalid CPU core number %d", core)
		}
		set.Set(core)
	}

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("failed to set CPU affinity: %w", err)
	}

	return nil
}

// GetCPUAffinity returns the CPU core numbers the calling thread may run on
func GetCPUAffinity() ([]int, error) {

	var set unix.CPUSet

	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("failed to get CPU affinity: %w", err)
	}

	cores := make([]int, 0, set.Count())

	for i := 0; len(cores) < set.Count(); i++ {
		if set.IsSet(i) {
			cores = append(cores, i)
		}
	}

	return cores, nil
}
