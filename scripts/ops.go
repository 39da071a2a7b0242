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

// ops 開發用的任務入口，取代 Makefile：
//
//	go run ./scripts test         # 只列出 ok / FAIL
//	go run ./scripts test-all     # 含 coverage
//	go run ./scripts test-detail  # verbose，略過 [no test files]
//	go run ./scripts sim          # 內建示範設定跑一百萬局
//	go run ./scripts demo         # 內建示範設定玩一局
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// lineFilter 回傳 false 代表略過該行
type lineFilter func(line string) bool

type task struct {
	title      string
	cleanCache bool
	args       []string
	filter     lineFilter // nil 代表直接接上終端
}

var tasks = map[string]task{
	"test": {
		title:      "running tests",
		cleanCache: true,
		args:       []string{"test", "./...", "-cover", "-count=1"},
		filter: func(line string) bool {
			return strings.HasPrefix(line, "ok") || strings.HasPrefix(line, "FAIL") ||
				strings.Contains(line, "build failed") || strings.Contains(line, "setup failed")
		},
	},
	"test-all": {
		title:      "running tests (all with coverage)",
		cleanCache: true,
		args:       []string{"test", "./...", "-cover"},
	},
	"test-detail": {
		title:      "running tests (detail)",
		cleanCache: true,
		args:       []string{"test", "./...", "-v", "-count=1"},
		filter: func(line string) bool {
			return !strings.Contains(line, "[no test files]")
		},
	},
	"sim": {
		title: "simulating demo config",
		args:  []string{"run", "./cmd/sim", "-rounds", "250000", "-workers", "4"},
	},
	"demo": {
		title: "one demo play",
		args:  []string{"run", "./cmd/scratch", "--config", "demo/demo_configs/config.json", "--betting-amount", "100"},
	},
}

func main() {
	if len(os.Args) < 2 {
		PrintYellow("Usage: go run ./scripts [test|test-all|test-detail|sim|demo]")
		os.Exit(1)
	}
	t, ok := tasks[os.Args[1]]
	if !ok {
		PrintYellow(fmt.Sprintf("Unknown task: %s", os.Args[1]))
		os.Exit(1)
	}
	if err := t.run(); err != nil {
		PrintRed(fmt.Sprintf("\n%s finished with errors: %v", t.title, err))
		os.Exit(1)
	}
}

func (t task) run() error {
	PrintGreen(t.title)
	if t.cleanCache {
		clean := exec.Command("go", "clean", "-testcache")
		clean.Stdout, clean.Stderr = os.Stdout, os.Stderr
		if err := clean.Run(); err != nil {
			return fmt.Errorf("go clean -testcache: %w", err)
		}
	}

	cmd := exec.Command("go", t.args...)
	if t.filter == nil {
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		return cmd.Run()
	}

	// 2>&1 後逐行過濾
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		if !t.filter(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "failed"):
			PrintRed(line)
		default:
			fmt.Println(line)
		}
	}
	if err := sc.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}
	return cmd.Wait()
}
