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

package stats

import "sort"

// WinBuckets 贏倍區間
//
// 請勿修改預設值
//   - 區間: [0,0], (0,1), [1,2), [2,5), ..., [2000,10000), [10000,+inf)
//
// 刮刮樂獎金是 float（押注 x 圖標倍數 x 組合倍數），所以以倍數落點二分搜尋，
// 不再以整數贏分建 LUT。
type WinBuckets struct {
	bounds []float64
	labels []string
}

var Buckets = &WinBuckets{
	bounds: []float64{1, 2, 5, 10, 20, 50, 100, 300, 500, 1000, 2000, 10000},
	labels: []string{"[0,0]", "(0,1)", "[1,2)", "[2,5)", "[5,10)", "[10,20)", "[20,50)", "[50,100)", "[100,300)", "[300,500)", "[500,1000)", "[1000,2000)", "[2000,10000)", "[10000,+inf)"},
}

// Labels 回傳副本
func (b *WinBuckets) Labels() []string {
	return append([]string(nil), b.labels...)
}

func (b *WinBuckets) Len() int {
	return len(b.labels)
}

// Index 贏倍 -> 區間索引；<= 0 一律落在 [0,0]
func (b *WinBuckets) Index(mult float64) int {
	if !(mult > 0) {
		return 0
	}
	// 第一個 > mult 的邊界
	i := sort.Search(len(b.bounds), func(i int) bool { return b.bounds[i] > mult })
	return i + 1
}
