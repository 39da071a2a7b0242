// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/scratchlab/stats"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("SCRATCH_LOG", "silence")
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestSimJSON(t *testing.T) {
	code, out, errOut := runCLI(t, "-rounds", "2000", "-workers", "2", "-seed", "5", "-progress=false", "-format", "json")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "[GAME:demo]")
	assert.Contains(t, errOut, "[ROUNDS:4,000]")

	var rep stats.StatReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 4000, rep.Summary.Rounds)
	assert.Equal(t, "demo", rep.Summary.GameName)
	assert.Positive(t, rep.Summary.RTP)

	// 同 seed 可重現
	_, again, _ := runCLI(t, "-rounds", "2000", "-workers", "2", "-seed", "5", "-progress=false", "-format", "json")
	assert.JSONEq(t, out, again)
}

func TestSimTableAndSave(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.yaml.zst")
	code, stdout, errOut := runCLI(t,
		"-config", "../../demo/demo_configs/config.yaml",
		"-rounds", "500", "-workers", "1", "-progress=false", "-sampler", "lut", "-o", out)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, stdout, "Total RTP")
	assert.Contains(t, stdout, "config")
	st, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, st.Size())
}

func TestSimFailures(t *testing.T) {
	cases := []struct {
		args []string
		code int
	}{
		{[]string{"-bet", "0"}, 2},
		{[]string{"-rounds", "0"}, 2},
		{[]string{"-workers", "-1"}, 2},
		{[]string{"-format", "xml"}, 2},
		{[]string{"-o", "report.txt"}, 2},
		{[]string{"-p", "block", "-rounds", "1"}, 2},
		{[]string{"-config", "missing.json", "-rounds", "1"}, 1},
	}
	for _, tc := range cases {
		code, out, errOut := runCLI(t, tc.args...)
		assert.Equal(t, tc.code, code, "%v", tc.args)
		assert.Empty(t, out)
		assert.Contains(t, errOut, "error: ")
	}
}

func TestConfigName(t *testing.T) {
	assert.Equal(t, "game", configName("/tmp/game.json.zst"))
	assert.Equal(t, "game", configName("game.yaml"))
	assert.Equal(t, "game.v2", configName("game.v2.yml.gz"))
}
