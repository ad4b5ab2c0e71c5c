package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HTN_CONFIG", filepath.Join(dir, "config"))
	t.Setenv("HTN_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"version"}, &stdout, &stderr))
	assert.Equal(t, "htn version "+version+"\n", stdout.String())

	stdout.Reset()
	require.NoError(t, run([]string{"config", "plan.format", "json"}, &stdout, &stderr))
	data, err := os.ReadFile(filepath.Join(dir, "config"))
	require.NoError(t, err)
	assert.Equal(t, "plan.format json", string(data))

	stdout.Reset()
	domain := filepath.Join("..", "..", "internal", "domainfile", "testdata", "example.yaml")
	require.NoError(t, run([]string{"plan", domain}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), `"plan": [`, "configured format is used")

	require.Error(t, run([]string{"nope"}, &stdout, &stderr))
}

func TestRun_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config")
	t.Setenv("HTN_CONFIG", path)
	t.Setenv("HTN_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"init"}, &stdout, &stderr))
	assert.Equal(t, "Initialized htn configuration at: "+path+"\n", stdout.String())

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	stdout.Reset()
	require.NoError(t, run([]string{"config", "-global"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "plan.format: text", "the written file is loaded")
}
