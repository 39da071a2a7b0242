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
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/scratchlab/dto"
)

const demoJSON = "../../demo/demo_configs/config.json"
const demoYAML = "../../demo/demo_configs/config.yaml"

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestPlayPrintsResult(t *testing.T) {
	t.Setenv("SCRATCH_LOG", "silence")
	code, out, errOut := runCLI(t, "--config", demoJSON, "--betting-amount", "100")
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, errOut)

	res, err := dto.DecodeGameResult([]byte(out))
	require.NoError(t, err)
	require.Len(t, res.Matrix, 3)
	for _, row := range res.Matrix {
		assert.Len(t, row, 3)
	}
	assert.GreaterOrEqual(t, res.Reward, 0.0)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	for _, k := range []string{"matrix", "reward", "applied_winning_combinations", "applied_bonus_symbol"} {
		assert.Contains(t, raw, k)
	}
}

func TestSeedIsReproducible(t *testing.T) {
	t.Setenv("SCRATCH_LOG", "silence")
	t.Setenv("SCRATCH_SEED", "2024")
	_, a, _ := runCLI(t, "--config", demoJSON, "--betting-amount", "3")
	_, b, _ := runCLI(t, "--config", demoYAML, "--betting-amount", "3", "--sampler", "cumulative")
	assert.Equal(t, a, b)
}

func TestReplayFromLoggedState(t *testing.T) {
	t.Setenv("SCRATCH_LOG", "prod")
	code, first, errOut := runCLI(t, "--config", demoJSON, "--betting-amount", "7", "--sampler", "alias")
	require.Equal(t, 0, code)

	var start string
	sc := bufio.NewScanner(strings.NewReader(errOut))
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		if rec["msg"] == "play state" {
			start, _ = rec["start_b64u"].(string)
		}
	}
	require.NotEmpty(t, start)

	code, again, _ := runCLI(t, "--config", demoJSON, "--betting-amount", "7", "--sampler", "alias", "--replay", start)
	require.Equal(t, 0, code)
	assert.Equal(t, first, again)
}

func TestFailures(t *testing.T) {
	t.Setenv("SCRATCH_LOG", "silence")
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"columns": 3, "rows": 3, "symbols": {}}`), 0o644))

	cases := []struct {
		name string
		args []string
		code int
	}{
		{"missing config", []string{"--betting-amount", "1"}, 2},
		{"missing bet", []string{"--config", demoJSON}, 2},
		{"negative bet", []string{"--config", demoJSON, "--betting-amount", "-1"}, 2},
		{"nan bet", []string{"--config", demoJSON, "--betting-amount", "NaN"}, 2},
		{"infinite bet", []string{"--config", demoJSON, "--betting-amount", "Inf"}, 2},
		{"unparsable bet", []string{"--config", demoJSON, "--betting-amount", "abc"}, 2},
		{"unknown flag", []string{"--config", demoJSON, "--betting-amount", "1", "--nope"}, 2},
		{"extra args", []string{"--config", demoJSON, "--betting-amount", "1", "more"}, 2},
		{"bad sampler", []string{"--config", demoJSON, "--betting-amount", "1", "--sampler", "tree"}, 2},
		{"bad replay", []string{"--config", demoJSON, "--betting-amount", "1", "--replay", "%%"}, 2},
		{"missing file", []string{"--config", "nonexistent.json", "--betting-amount", "1"}, 1},
		{"invalid config", []string{"--config", bad, "--betting-amount", "1"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, tc.args...)
			assert.Equal(t, tc.code, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, "error: ")
		})
	}
}

func TestRewardOverflowIsInvalidBet(t *testing.T) {
	t.Setenv("SCRATCH_LOG", "silence")
	t.Setenv("SCRATCH_SEED", "0")
	code, out, errOut := runCLI(t, "--config", demoJSON, "--betting-amount", "1e308")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "kind=invalid_bet")
	assert.NotContains(t, errOut, "encode")
}
