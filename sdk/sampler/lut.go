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

package sampler

import (
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/core"
)

const maxLUTCap = 10_000_000

// LUT 查找表加權抽樣。
//
// 建表時把 index i 重複寫入 weights[i] 次，抽樣只做一次 IntN。
// 例如權重 [3,5] 展開成 [0,0,0,1,1,1,1,1]。
//
// 記憶體與權重總和成正比，總和超過 maxLUTCap 時改用 AliasTable。
type LUT []int

func BuildLUT[T Integers](weights []T) (LUT, error) {
	total, err := checkWeights(weights)
	if err != nil {
		return nil, err
	}
	if total > maxLUTCap {
		return nil, errs.Configf("lut: total weight %d exceeds limit %d, use alias instead", total, maxLUTCap)
	}
	lut := make([]int, 0, total)
	for i, w := range weights {
		for j := T(0); j < w; j++ {
			lut = append(lut, i)
		}
	}
	return lut, nil
}

// Pick O(1)，表為空回傳 -1
func (l LUT) Pick(c *core.Core) int {
	return c.Pick(l)
}
