//go:build !linux

package armorvis

import "errors"

// SetCPUAffinity is only supported on Linux
func SetCPUAffinity(cores []int) error {
	return errors.New("CPU affinity is not supported on this platform")
}

// GetCPUAffinity is only supported on Linux
func GetCPUAffinity() ([]int, error) {
	return nil, errors.New("CPU affinity is not supported on this platform")
}
