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

// Package corefmt PRNG 快照的文字編碼。
//
// 快照是二進位資料；放進 JSON、日誌或 CLI 參數時一律轉成 Base64URL，
// 不需跳脫即可直接貼到命令列。
package corefmt

import (
	"encoding/base64"
	"strings"

	"github.com/zintix-labs/scratchlab/errs"
)

func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64URL 輸入通常來自使用者，錯誤歸類為參數錯誤
func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errs.WrapKind(err, errs.KindArgument, "decode base64url failed")
	}
	return b, nil
}
