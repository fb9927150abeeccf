// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/adsbib/internal/batch"
	"github.com/pdiddy/adsbib/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSummary() batch.Summary {
	return batch.Summary{
		Resolved:  1,
		NotFound:  1,
		Failed:    1,
		Malformed: 1,
		Skipped:   1,
		Outcomes: []batch.Outcome{
			{Line: 1, Text: `\MNRAS,473,2590`, Fragment: types.Fragment{Stem: "MNRAS", Volume: "473", Page: "259"}, Bibcode: "2018MNRAS.473.2590B", Status: batch.StatusResolved},
			{Line: 2, Text: `\XYZZY,1,1`, Fragment: types.Fragment{Stem: "XYZZY", Volume: "1", Page: "1"}, Status: batch.StatusNotFound, Kind: "not_found", Error: "paper not found"},
			{Line: 3, Text: "", Status: batch.StatusSkipped},
			{Line: 4, Text: "garbage", Status: batch.StatusMalformed, Error: "malformed citation line"},
			{Line: 5, Text: `\ApJ,870,12`, Fragment: types.Fragment{Stem: "ApJ", Volume: "870", Page: "1"}, Bibcode: "2019ApJ...870....1A", Status: batch.StatusFailed, Kind: "response_parse", Error: "unexpected response"},
		},
	}
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}

func TestRecordAndFailures(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	started := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	sum := sampleSummary()
	run := NewRun("run-a", batch.RunInfo{
		Input: "bibitems.txt", Output: "MyBibliography.bib", Format: "bibtex",
		Started: started, Finished: started.Add(time.Minute),
	}, sum)
	require.NoError(t, s.Record(ctx, run, sum.Outcomes))

	failures, err := s.Failures(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, failures, 3)

	assert.Equal(t, 2, failures[0].Line)
	assert.Equal(t, batch.StatusNotFound, failures[0].Status)
	assert.Equal(t, "XYZZY", failures[0].Stem)
	assert.Equal(t, 4, failures[1].Line)
	assert.Equal(t, batch.StatusMalformed, failures[1].Status)
	assert.Equal(t, 5, failures[2].Line)
	assert.Equal(t, "2019ApJ...870....1A", failures[2].Bibcode)
	assert.Equal(t, "response_parse", failures[2].Kind)
}

func TestFailuresDefaultsToLatestRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	t0 := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	sum := sampleSummary()
	require.NoError(t, s.Record(ctx, NewRun("old", batch.RunInfo{Started: t0}, sum), sum.Outcomes))

	clean := batch.Summary{Resolved: 1, Outcomes: sum.Outcomes[:1]}
	require.NoError(t, s.Record(ctx, NewRun("new", batch.RunInfo{Started: t0.Add(24 * time.Hour)}, clean), clean.Outcomes))

	failures, err := s.Failures(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, failures)

	failures, err = s.Failures(ctx, "old")
	require.NoError(t, err)
	assert.Len(t, failures, 3)
}

func TestFailuresEmptyLedger(t *testing.T) {
	s := testStore(t)
	_, err := s.Failures(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	t0 := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		sum := batch.Summary{Resolved: i, Cancelled: i == 2}
		run := NewRun(id, batch.RunInfo{Format: "bibtex", Started: t0.Add(time.Duration(i) * time.Hour)}, sum)
		require.NoError(t, s.Record(ctx, run, nil))
	}

	runs, err := s.Runs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r3", runs[0].ID)
	assert.Equal(t, "r2", runs[1].ID)
	assert.Equal(t, 2, runs[0].Resolved)
	assert.True(t, runs[0].Cancelled)
	assert.False(t, runs[1].Cancelled)
	assert.True(t, runs[0].Started.Equal(t0.Add(2*time.Hour)))
	assert.True(t, runs[0].Finished.IsZero())
}

func TestRecordDuplicateRunFails(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := NewRun("dup", batch.RunInfo{Started: time.Now()}, batch.Summary{})
	require.NoError(t, s.Record(ctx, run, nil))
	assert.Error(t, s.Record(ctx, run, nil))
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, NewRun("keep", batch.RunInfo{Started: time.Now()}, batch.Summary{}), nil))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "keep", runs[0].ID)
}
