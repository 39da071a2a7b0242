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

// Package logger 組裝 slog。
//
// 兩種注入方式：
//   - New(mode, w)：依模式建出 *slog.Logger，最常用。
//   - NewAsync(mode, w, buf)：背景寫出，熱路徑只做 enqueue，模擬器使用。
//
// 輸出目標由呼叫端決定；CLI 一律寫 stderr，stdout 保留給結果文件。
package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/zintix-labs/scratchlab/errs"
)

type LogMode uint8

const (
	ModeDev     LogMode = iota // text, debug
	ModeProd                   // json, info
	ModeSilence                // 全部丟棄
)

var modeMap = map[string]LogMode{
	"dev":     ModeDev,
	"prod":    ModeProd,
	"silence": ModeSilence,
}

// ParseMode 解析旗標或環境變數，未知模式為參數錯誤
func ParseMode(s string) (LogMode, error) {
	m, ok := modeMap[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return ModeDev, errs.Argumentf("unknown log mode %q, want dev|prod|silence", s)
	}
	return m, nil
}

func (m LogMode) String() string {
	for s, v := range modeMap {
		if v == m {
			return s
		}
	}
	return "unknown"
}

func New(mode LogMode, w io.Writer) *slog.Logger {
	return slog.New(buildHandler(mode, w))
}

// Silent 給測試與未注入 logger 的呼叫端
func Silent() *slog.Logger {
	return New(ModeSilence, nil)
}

// NewAsync 回傳 logger 與其 handler；結束前呼叫 handler.Close() 把殘留的紀錄寫完。
func NewAsync(mode LogMode, w io.Writer, buf int) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(mode, w), buf)
	return slog.New(ah), ah
}

func buildHandler(mode LogMode, w io.Writer) slog.Handler {
	if w == nil || mode == ModeSilence {
		return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})
	}
	switch mode {
	case ModeProd:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
