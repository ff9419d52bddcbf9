//go:build linux || darwin

package digest

import "golang.org/x/sys/unix"

const xattrKey = "user.sha256"

// Mirror stores the digest in the file's extended attributes as a secondary
// persistence channel. Best effort: filesystems without xattr support leave
// the sidecar as the canonical record.
func Mirror(path string, digest string) {
	_ = unix.Setxattr(path, xattrKey, []byte(digest), 0)
}

// ReadMirror returns the digest stored in the file's extended attributes, or
// an empty string if none is present.
func ReadMirror(path string) string {
	sz, err := unix.Getxattr(path, xattrKey, nil)
	if err != nil || sz <= 0 {
		return ""
	}
	buf := make([]byte, sz)
	n, err := unix.Getxattr(path, xattrKey, buf)
	if err != nil || n <= 0 {
		return ""
	}
	return string(buf[:n])
}
