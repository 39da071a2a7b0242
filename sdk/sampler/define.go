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

// Package sampler 提供加權抽樣演算法。
//
// 本檔案 (define.go) 定義了 sampler 套件中通用的泛型約束與抽樣器介面。
//
// 三種實作共用同一個合約：給定一組正整數權重，Pick 回傳的 index 機率與權重成正比。
//   - Cumulative：累積權重線性走訪，行為與宣告順序一一對應，為預設實作。
//   - LUT：權重展開成查找表，O(1) 抽樣，適合權重總和小的表。
//   - AliasTable：Vose alias method，O(1) 抽樣且記憶體與權重總和無關。
package sampler

import (
	"math"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/core"
)

// Integers 定義所有底層實現為整數型別的集合
type Integers interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Picker 由預先建好的表抽出一個 index，表為空回傳 -1。
type Picker interface {
	Pick(c *core.Core) int
}

// Kind 抽樣演算法
type Kind uint8

const (
	KindCumulative Kind = iota
	KindLUT
	KindAlias
)

var kindMap = map[string]Kind{
	"cumulative": KindCumulative,
	"lut":        KindLUT,
	"alias":      KindAlias,
}

func ParseKind(s string) (Kind, bool) {
	k, ok := kindMap[s]
	return k, ok
}

func (k Kind) String() string {
	for s, v := range kindMap {
		if v == k {
			return s
		}
	}
	return "unknown"
}

// Build 依 kind 建立 Picker。權重必須非空且全部 > 0。
func Build[T Integers](kind Kind, weights []T) (Picker, error) {
	switch kind {
	case KindCumulative:
		return BuildCumulative(weights)
	case KindLUT:
		return BuildLUT(weights)
	case KindAlias:
		return BuildAliasTable(weights)
	default:
		return nil, errs.Configf("unknown sampler kind %d", kind)
	}
}

// checkWeights 檢查權重並回傳總和
func checkWeights[T Integers](weights []T) (int, error) {
	if len(weights) == 0 {
		return 0, errs.Configf("empty weight table")
	}
	total := uint64(0)
	for i, w := range weights {
		if w <= 0 {
			return 0, errs.Configf("weight[%d] must be positive, got %v", i, w)
		}
		uw := uint64(w)
		if total > math.MaxInt-uw {
			return 0, errs.Configf("total weight overflows int range")
		}
		total += uw
	}
	return int(total), nil
}
