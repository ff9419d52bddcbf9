package main

import (
	"errors"

	"lakeguard/internal/lake"
	"lakeguard/internal/monitor"
	"lakeguard/internal/sidecar"
)

func buildLake() (*lake.Lake, error) {
	return lake.New(cfg.Root, cfg.Categories, cfg.Extensions, cfg.IgnoreFile)
}

func buildMonitor(l *lake.Lake) *monitor.Monitor {
	algo := cfg.HashAlgorithm()
	store := sidecar.NewStore(algo.SidecarExt())
	return monitor.New(l, store, algo, cfg.Workers)
}

// selectFiles resolves the file set for a pass: the whole lake in oneshot
// mode, or the hook-provided paths narrowed to lake scope otherwise.
func selectFiles(l *lake.Lake, args []string, oneshot bool) ([]string, error) {
	if oneshot {
		return l.Select()
	}
	if len(args) == 0 {
		return nil, errors.New("no files given; pass paths or use --oneshot")
	}
	return l.Filter(args)
}
