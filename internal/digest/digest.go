// Package digest computes content digests for data lake artifacts.
package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// blockSize bounds peak memory when hashing arbitrarily large artifacts.
const blockSize = 8 * 1024 * 1024

type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
)

func (a Algorithm) Valid() bool {
	switch a {
	case SHA256, SHA512:
		return true
	}
	return false
}

// SidecarExt returns the extension of the companion file holding this digest.
func (a Algorithm) SidecarExt() string {
	return "." + string(a)
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case SHA512:
		return sha512.New()
	default:
		return sha256.New()
	}
}

// File computes the digest of the file at path, streaming its contents in
// fixed-size blocks. Returns the lowercase hex digest and the number of bytes
// hashed.
func File(path string, algo Algorithm) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := algo.newHash()
	n, err := io.CopyBuffer(h, f, make([]byte, blockSize))
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Sum computes the digest of an in-memory byte slice.
func Sum(data []byte, algo Algorithm) string {
	h := algo.newHash()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
