//go:build !linux

package seqpool

// PinToCPU is a no-op on platforms without sched_setaffinity.
func PinToCPU(cpu int) error { return nil }
