//go:build !linux && !darwin

package digest

// Extended attributes are only mirrored on unix-like systems.

func Mirror(path string, digest string) {}

func ReadMirror(path string) string { return "" }
