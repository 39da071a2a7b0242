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

// PCG64 以標準庫 math/rand/v2 的 PCG 為底，補上引擎需要的 Snapshot/Restore 與無偏有界亂數。
//
// The PCG algorithm is designed by Melissa O'Neill.

package core

import (
	"math/bits"
	r2 "math/rand/v2"
)

// PCG64 亂數產生器
type PCG64 struct {
	rng *r2.PCG
}

// newPCG64WithSeed 以 splitmix64 把單一 seed 展開成 PCG 需要的兩個 64-bit 狀態。
func newPCG64WithSeed(seed int64) *PCG64 {
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	hi := splitmix64(x)
	lo := splitmix64(x ^ 0xda942042e4dd58b5)
	return &PCG64{rng: r2.NewPCG(hi, lo)}
}

func (r *PCG64) Uint64() uint64 {
	return r.rng.Uint64()
}

func (r *PCG64) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return uint(boundedUint64(r.rng, uint64(max)))
}

func (r *PCG64) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return int(boundedUint64(r.rng, uint64(max)))
}

// Float64 取 53 bits 精度
func (r *PCG64) Float64() float64 {
	return float64(r.rng.Uint64()>>11) / (1 << 53)
}

func (r *PCG64) Snapshot() ([]byte, error) {
	return r.rng.MarshalBinary()
}

func (r *PCG64) Restore(data []byte) error {
	return r.rng.UnmarshalBinary(data)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

type uint64Source interface {
	Uint64() uint64
}

// boundedUint64 回傳 [0,n) 的無偏亂數（Lemire 乘法取高位 + 拒絕採樣）。
func boundedUint64(src uint64Source, n uint64) uint64 {
	if n&(n-1) == 0 { // 2 的次方直接遮罩
		return src.Uint64() & (n - 1)
	}
	hi, lo := bits.Mul64(src.Uint64(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(src.Uint64(), n)
		}
	}
	return hi
}
