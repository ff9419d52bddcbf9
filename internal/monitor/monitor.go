// Package monitor orchestrates update and verify passes over the tracked
// files of a data lake. The monitor is stateless across runs; the sidecar
// files are the only durable state.
package monitor

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"lakeguard/internal/digest"
	"lakeguard/internal/lake"
	"lakeguard/internal/sidecar"
)

type Monitor struct {
	lake    *lake.Lake
	store   *sidecar.Store
	algo    digest.Algorithm
	workers int
}

func New(l *lake.Lake, store *sidecar.Store, algo digest.Algorithm, workers int) *Monitor {
	if workers < 1 {
		workers = 1
	}
	return &Monitor{
		lake:    l,
		store:   store,
		algo:    algo,
		workers: workers,
	}
}

// UpdateResult summarizes an update pass.
type UpdateResult struct {
	Written int
	Bytes   int64
}

// Update recomputes and persists the sidecar for every given root-relative
// file, whether or not a prior sidecar existed or matched. Idempotent: with
// unchanged files the written sidecars are byte-identical run over run.
// Fails only on I/O errors.
func (m *Monitor) Update(ctx context.Context, files []string) (*UpdateResult, error) {
	var (
		mu  sync.Mutex
		res UpdateResult
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.workers)

	for _, rel := range files {
		rel := rel
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			n, err := m.updateOne(rel)
			if err != nil {
				return err
			}

			mu.Lock()
			res.Written++
			res.Bytes += n
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

// updateOne hashes one tracked file and replaces its sidecar, mirroring the
// digest into the file's extended attributes where supported.
func (m *Monitor) updateOne(rel string) (int64, error) {
	abs := m.lake.Abs(rel)

	sum, n, err := digest.File(abs, m.algo)
	if err != nil {
		return 0, err
	}
	if err := m.store.Write(abs, sum); err != nil {
		return 0, err
	}
	digest.Mirror(abs, sum)
	return n, nil
}

// Verify compares the live digest of every given root-relative file against
// its sidecar. All violations are collected before returning so the operator
// sees every offending path in one run; only I/O errors abort the pass early.
// Verify never mutates a sidecar.
func (m *Monitor) Verify(ctx context.Context, files []string) error {
	var (
		mu         sync.Mutex
		violations []Violation
	)

	collect := func(v Violation) {
		mu.Lock()
		violations = append(violations, v)
		mu.Unlock()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.workers)

	for _, rel := range files {
		rel := rel
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			abs := m.lake.Abs(rel)

			want, err := m.store.Read(abs)
			if errors.Is(err, sidecar.ErrNoSidecar) {
				collect(Violation{Path: rel, Kind: MissingSidecar})
				return nil
			}
			if err != nil {
				return err
			}

			got, _, err := digest.File(abs, m.algo)
			if err != nil {
				return err
			}
			if got != want {
				collect(Violation{Path: rel, Kind: DigestMismatch, Want: want, Got: got})
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	if len(violations) == 0 {
		return nil
	}

	// Completion order is not deterministic under concurrency; the report is.
	sort.Slice(violations, func(i, j int) bool {
		return violations[i].Path < violations[j].Path
	})
	return &VerifyError{Violations: violations}
}
