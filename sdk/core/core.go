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

// Package core 定義引擎使用的亂數能力（capability）。
//
// 引擎內任何需要亂數的地方都只依賴 PRNG 介面，由呼叫端注入：
//   - 測試可以用固定 seed 取得可重現的序列。
//   - 併發時每台 Machine 各自持有一個 PRNG，不共用。
package core

import (
	"crypto/rand"
	"math"
	"math/big"
)

type PRNG interface {
	RAND
	Restorable
}

type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約：同一個實作下 New(seed) 必須是決定性的，相同 seed 產生相同序列。
	// CryptoFactory 是唯一例外（見其說明）。
	New(int64) PRNG
}

type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

// Default 回傳預設的 PCG64 工廠
func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// NewSeed 以 crypto/rand 產生一個非負 int64 seed。
func NewSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, err
	}
	return seed.Int64(), nil
}

type Core struct {
	PRNG
}

func New(rng PRNG) *Core {
	return &Core{rng}
}

// Pick 從 src 中等機率取一個值，src 為空回傳 -1。
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	idx := c.IntN(len(src))
	return src[idx]
}

// Chance 以機率 p 回傳 true。
//
// p <= 0 與 p >= 1 不消耗亂數。
func (c *Core) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return c.Float64() < p
}
