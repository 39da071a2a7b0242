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

import "github.com/zintix-labs/scratchlab/sdk/core"

// Cumulative 累積權重表。
//
// acc[i] 為前 i+1 個權重的總和。抽樣時取 r ∈ [0,total)，回傳第一個 acc[i] > r 的 i。
// 走訪順序就是權重的宣告順序，所以結果可以直接對回設定檔。
type Cumulative struct {
	acc   []int
	total int
}

func BuildCumulative[T Integers](weights []T) (*Cumulative, error) {
	total, err := checkWeights(weights)
	if err != nil {
		return nil, err
	}
	acc := make([]int, len(weights))
	run := 0
	for i, w := range weights {
		run += int(w)
		acc[i] = run
	}
	return &Cumulative{acc: acc, total: total}, nil
}

// Total 權重總和
func (cu *Cumulative) Total() int {
	return cu.total
}

// Pick 消耗一次 IntN(total)。
func (cu *Cumulative) Pick(c *core.Core) int {
	if len(cu.acc) == 0 {
		return -1
	}
	r := c.IntN(cu.total)
	for i, a := range cu.acc {
		if r < a {
			return i
		}
	}
	// 算術正確時走不到這裡
	return 0
}

// PickWeighted 每次呼叫都重建累積表再抽一次。
//
// 只適合一次性的抽樣；重複抽同一張表請先 BuildCumulative。
func PickWeighted[T Integers](c *core.Core, weights []T) (int, error) {
	cu, err := BuildCumulative(weights)
	if err != nil {
		return -1, err
	}
	return cu.Pick(c), nil
}
