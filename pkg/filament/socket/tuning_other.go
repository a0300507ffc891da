//go:build !linux && !darwin

package socket

// applyConnOptions is a no-op on platforms without tuned setsockopt paths.
func applyConnOptions(fd int, cfg *TuningConfig) {}

// applyListenerOptions is a no-op on platforms without listener tuning.
func applyListenerOptions(fd int, cfg *TuningConfig) error {
	return nil
}
