package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakeguard/internal/digest"
	"lakeguard/internal/lake"
	"lakeguard/internal/sidecar"
)

func newTestMonitor(t *testing.T) (*lake.Lake, *Monitor) {
	t.Helper()
	l, err := lake.New(t.TempDir(),
		[]string{"logs", "metadata", "processed", "raw"},
		[]string{"csv", "parquet", "feather", "json", "txt"},
		"")
	require.NoError(t, err)
	return l, New(l, sidecar.NewStore(".sha256"), digest.SHA256, 4)
}

func writeLakeFile(t *testing.T, l *lake.Lake, rel, content string) {
	t.Helper()
	abs := l.Abs(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestUpdateWritesSidecar(t *testing.T) {
	l, m := newTestMonitor(t)
	writeLakeFile(t, l, "raw/AB12/sample.csv", "a,b\n1,2\n")

	res, err := m.Update(context.Background(), []string{"raw/AB12/sample.csv"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, int64(8), res.Bytes)

	raw, err := os.ReadFile(l.Abs("raw/AB12/sample.csv.sha256"))
	require.NoError(t, err)
	assert.Equal(t, "492d5ea496056f1a6a6592241032fab764c321596317930b4fa0e1e8bc3b7470\n", string(raw))
}

func TestVerifyAfterUpdate(t *testing.T) {
	l, m := newTestMonitor(t)
	writeLakeFile(t, l, "raw/AB12/sample.csv", "a,b\n1,2\n")
	writeLakeFile(t, l, "processed/MSFT/prices.parquet", "binary-ish\n")

	files, err := l.Select()
	require.NoError(t, err)
	require.Len(t, files, 2)

	_, err = m.Update(context.Background(), files)
	require.NoError(t, err)

	assert.NoError(t, m.Verify(context.Background(), files))
}

func TestUpdateIsIdempotent(t *testing.T) {
	l, m := newTestMonitor(t)
	writeLakeFile(t, l, "raw/AB12/sample.csv", "a,b\n1,2\n")
	files := []string{"raw/AB12/sample.csv"}

	_, err := m.Update(context.Background(), files)
	require.NoError(t, err)
	first, err := os.ReadFile(l.Abs("raw/AB12/sample.csv.sha256"))
	require.NoError(t, err)

	_, err = m.Update(context.Background(), files)
	require.NoError(t, err)
	second, err := os.ReadFile(l.Abs("raw/AB12/sample.csv.sha256"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestVerifyDetectsTamper(t *testing.T) {
	l, m := newTestMonitor(t)
	writeLakeFile(t, l, "raw/AB12/sample.csv", "a,b\n1,2\n")
	writeLakeFile(t, l, "raw/AB12/other.csv", "ok\n")

	files, err := l.Select()
	require.NoError(t, err)
	_, err = m.Update(context.Background(), files)
	require.NoError(t, err)

	// tamper with one file after its sidecar was recorded
	writeLakeFile(t, l, "raw/AB12/sample.csv", "a,b\n1,3\n")

	err = m.Verify(context.Background(), files)
	var verr *VerifyError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)

	v := verr.Violations[0]
	assert.Equal(t, "raw/AB12/sample.csv", v.Path)
	assert.Equal(t, DigestMismatch, v.Kind)
	assert.Equal(t, "492d5ea496056f1a6a6592241032fab764c321596317930b4fa0e1e8bc3b7470", v.Want)
	assert.Equal(t, "8baab0330389def9ec921e89f5d0f28e41e6b80ce9de95e046df431dfec66925", v.Got)
}

func TestVerifyDetectsMissingSidecar(t *testing.T) {
	l, m := newTestMonitor(t)
	writeLakeFile(t, l, "metadata/SPY/schema.json", "{}\n")

	err := m.Verify(context.Background(), []string{"metadata/SPY/schema.json"})
	var verr *VerifyError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, MissingSidecar, verr.Violations[0].Kind)
	assert.Equal(t, "metadata/SPY/schema.json", verr.Violations[0].Path)
}

func TestVerifyCollectsAllViolations(t *testing.T) {
	l, m := newTestMonitor(t)
	writeLakeFile(t, l, "raw/AB12/a.csv", "a\n")
	writeLakeFile(t, l, "raw/AB12/b.csv", "b\n")
	writeLakeFile(t, l, "raw/AB12/c.csv", "c\n")

	files, err := l.Select()
	require.NoError(t, err)
	_, err = m.Update(context.Background(), files)
	require.NoError(t, err)

	writeLakeFile(t, l, "raw/AB12/c.csv", "changed\n")
	writeLakeFile(t, l, "raw/AB12/d.csv", "untracked\n")

	files, err = l.Select()
	require.NoError(t, err)

	err = m.Verify(context.Background(), files)
	var verr *VerifyError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 2)

	// report order is by path, not completion order
	assert.Equal(t, "raw/AB12/c.csv", verr.Violations[0].Path)
	assert.Equal(t, DigestMismatch, verr.Violations[0].Kind)
	assert.Equal(t, "raw/AB12/d.csv", verr.Violations[1].Path)
	assert.Equal(t, MissingSidecar, verr.Violations[1].Kind)
}

func TestVerifyNeverMutatesSidecars(t *testing.T) {
	l, m := newTestMonitor(t)
	writeLakeFile(t, l, "raw/AB12/sample.csv", "a,b\n1,2\n")
	files := []string{"raw/AB12/sample.csv"}

	_, err := m.Update(context.Background(), files)
	require.NoError(t, err)

	writeLakeFile(t, l, "raw/AB12/sample.csv", "a,b\n1,3\n")
	before, err := os.ReadFile(l.Abs("raw/AB12/sample.csv.sha256"))
	require.NoError(t, err)

	err = m.Verify(context.Background(), files)
	require.Error(t, err)

	after, err := os.ReadFile(l.Abs("raw/AB12/sample.csv.sha256"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOutOfScopeFilesNeverSelected(t *testing.T) {
	l, m := newTestMonitor(t)
	writeLakeFile(t, l, "raw/AB12/sample.csv", "a,b\n1,2\n")
	writeLakeFile(t, l, "notebooks/AB12/draft.csv", "x\n") // unknown category, no sidecar

	files, err := l.Select()
	require.NoError(t, err)
	require.Equal(t, []string{"raw/AB12/sample.csv"}, files)

	_, err = m.Update(context.Background(), files)
	require.NoError(t, err)
	assert.NoError(t, m.Verify(context.Background(), files))
	assert.NoFileExists(t, l.Abs("notebooks/AB12/draft.csv.sha256"))
}

func TestUpdateFailsOnUnreadableFile(t *testing.T) {
	_, m := newTestMonitor(t)

	_, err := m.Update(context.Background(), []string{"raw/AB12/ghost.csv"})
	assert.Error(t, err)
}
