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
	"math"
	"math/bits"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/core"
)

// AliasTable Vose alias method 的整數版本。
//
// 每個槽位只放自己與一個別名。Prob[i] = weight[i] * Size 以整數 scaling，
// 抽樣時 IntN(Total) < Prob[idx] 等價於浮點版的 U < p[idx]，沒有精度誤差。
//
// 建表 O(N)，抽樣 O(1) 且固定消耗兩次 IntN，記憶體與權重總和無關。
type AliasTable struct {
	Prob    []int
	Aliases []int
	Size    int
	Total   int
}

func BuildAliasTable[T Integers](weights []T) (*AliasTable, error) {
	total, err := checkWeights(weights)
	if err != nil {
		return nil, err
	}
	n := len(weights)
	if !isSafeMultiply(total, n) {
		return nil, errs.Configf("alias: weights too large, scaling overflows")
	}

	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	for i, w := range weights {
		prob[i] = int(w) * n
		if prob[i] < total {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		// 維持 sum(prob) = total * n
		prob[l] = prob[l] + prob[s] - total
		if prob[l] < total {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// 剩下的槽位機率為滿格，別名指回自己
	for _, i := range large {
		aliases[i] = i
	}
	for _, i := range small {
		aliases[i] = i
	}

	return &AliasTable{Prob: prob, Aliases: aliases, Size: n, Total: total}, nil
}

func isSafeMultiply(a, b int) bool {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return hi == 0 && lo <= math.MaxInt64
}

func (at *AliasTable) Pick(c *core.Core) int {
	if at.Size == 0 {
		return -1
	}
	idx := c.IntN(at.Size)
	if c.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
