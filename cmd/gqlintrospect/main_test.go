package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"git.sr.ht/~emersion/gqlintrospect"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger
	logger = zap.New(core)
	t.Cleanup(func() { logger = prev })
	return logs
}

func TestGenerate(t *testing.T) {
	observe(t)

	resp, err := generate([]string{"../../testdata/schema.graphql"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, resp.Schema.TypeByName("TestObject"))

	_, err = generate([]string{"../../testdata/missing.graphql"}, nil)
	assert.Error(t, err)
}

func TestGenerateGraphQL15(t *testing.T) {
	observe(t)

	opts := []gqlintrospect.Option{gqlintrospect.WithRevision(gqlintrospect.GraphQL15)}
	resp, err := generate([]string{"../../testdata/schema.graphql"}, opts)
	require.NoError(t, err)
	dateTime := resp.Schema.TypeByName("DateTime")
	require.NotNil(t, dateTime)
	assert.NotNil(t, dateTime.SpecifiedByURL)
}

func TestReportIssues(t *testing.T) {
	logs := observe(t)

	_, err := generate([]string{"../../testdata/too_deep.graphql"}, nil)
	require.Error(t, err)

	err = report(err)
	assert.True(t, errors.Is(err, errInvalid))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "type reference is wrapped more than 7 levels deep", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "invariant_violation", fields["code"])
	assert.Contains(t, fields["path"], "fields[1].type.ofType")
}

func TestReportPassesOtherErrors(t *testing.T) {
	logs := observe(t)

	other := errors.New("connection refused")
	assert.Equal(t, other, report(other))
	assert.Zero(t, logs.Len())
}

func TestLoad(t *testing.T) {
	observe(t)

	dir := t.TempDir()
	filename := filepath.Join(dir, "introspection.json")
	require.NoError(t, os.WriteFile(filename, []byte(`{"__schema": null}`), 0o644))

	_, err := load(filename, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(report(err), errInvalid))

	_, err = load(filepath.Join(dir, "missing.json"), nil)
	require.Error(t, err)
	assert.False(t, errors.Is(report(err), errInvalid))
}
