package monitor

import "fmt"

type ViolationKind string

const (
	MissingSidecar ViolationKind = "missing_sidecar"
	DigestMismatch ViolationKind = "digest_mismatch"
)

// Violation is one verify-mode finding. Want/Got are only set for mismatches.
type Violation struct {
	Path string
	Kind ViolationKind
	Want string
	Got  string
}

func (v Violation) String() string {
	switch v.Kind {
	case MissingSidecar:
		return fmt.Sprintf("%s: missing sidecar", v.Path)
	default:
		return fmt.Sprintf("%s: digest mismatch (sidecar %s, file %s)", v.Path, v.Want, v.Got)
	}
}

// VerifyError carries every violation found in a verify pass, sorted by path,
// so one run shows the full blast radius.
type VerifyError struct {
	Violations []Violation
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("integrity check failed: %d violation(s)", len(e.Violations))
}
