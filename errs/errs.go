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

// Package errs 提供整個引擎共用的錯誤型別。
//
// 每個錯誤同時帶有兩個維度：
//   - ErrLevel：嚴重程度（Fatal / Warn / Log），決定呼叫端要不要中止。
//   - Kind：錯誤類別（設定錯誤 / 參數錯誤 / 押注錯誤），決定對外回報的語意。
//
// 引擎是 fail-fast 的單局模型：任何錯誤都直接往上拋，不做重試。
package errs

import (
	"errors"
	"fmt"
)

type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Kind 錯誤類別
type Kind uint8

const (
	KindNone       Kind = iota
	KindConfig          // 設定檔缺漏、格式錯誤、引用不存在的符號/組合、空權重表
	KindArgument        // CLI 參數缺漏或無法解析
	KindInvalidBet      // 押注金額 <= 0
)

var kindMap = map[Kind]string{
	KindNone:       "",
	KindConfig:     "config",
	KindArgument:   "argument",
	KindInvalidBet: "invalid_bet",
}

func (k Kind) String() string {
	return kindMap[k]
}

// 供 errors.Is 使用的類別哨兵，只比對 Kind。
var (
	ErrConfig     error = &E{Kind: KindConfig, sentinel: true}
	ErrArgument   error = &E{Kind: KindArgument, sentinel: true}
	ErrInvalidBet error = &E{Kind: KindInvalidBet, sentinel: true}
)

type E struct {
	Message  string
	Extra    string
	Cause    error
	ErrLv    ErrLevel
	Kind     Kind
	sentinel bool
}

func (e *E) Error() string {
	if e.sentinel {
		return "kind=" + e.Kind.String()
	}
	base := fmt.Sprintf("errlv=%s", ErrLv(e.ErrLv))
	if e.Kind != KindNone {
		base += " kind=" + e.Kind.String()
	}
	base += " " + e.Message
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

func (e *E) Unwrap() error { return e.Cause }

// Is 讓 errors.Is(err, errs.ErrConfig) 之類的判斷只看 Kind。
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok || !t.sentinel {
		return false
	}
	return e.Kind == t.Kind
}

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Configf 設定錯誤：一律 Fatal，設定不可信就不能開局。
func Configf(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), ErrLv: Fatal, Kind: KindConfig}
}

// Argumentf 參數錯誤：呼叫端可修正後重試，屬 Warn。
func Argumentf(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), ErrLv: Warn, Kind: KindArgument}
}

// InvalidBetf 押注錯誤
func InvalidBetf(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), ErrLv: Warn, Kind: KindInvalidBet}
}

func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 包裝 cause；若 cause 本身是 *E，沿用其 ErrLv 與 Kind。
func Wrap(cause error, msg string) *E {
	errLv, kind := inherit(cause)
	r := New(errLv, msg)
	r.Kind = kind
	r.Cause = cause
	return r
}

// WrapKind 包裝外部錯誤（例如 json / yaml / os）並指定類別。
func WrapKind(cause error, kind Kind, msg string) *E {
	r := Wrap(cause, msg)
	r.Kind = kind
	switch kind {
	case KindConfig:
		r.ErrLv = Fatal
	case KindArgument, KindInvalidBet:
		r.ErrLv = Warn
	}
	return r
}

func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// KindOf 回傳錯誤鏈上第一個帶有 Kind 的類別，沒有則 KindNone。
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*E); ok && e.Kind != KindNone {
			return e.Kind
		}
		err = errors.Unwrap(err)
	}
	return KindNone
}

func inherit(cause error) (ErrLevel, Kind) {
	var e *E
	if errors.As(cause, &e) {
		return e.ErrLv, e.Kind
	}
	return Fatal, KindNone
}
