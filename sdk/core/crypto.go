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

package core

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/zintix-labs/scratchlab/errs"
)

// CryptoPRNG 直接讀取作業系統的密碼學亂數來源。
//
// 不可重現：Snapshot/Restore 一律回傳錯誤。
type CryptoPRNG struct{}

func NewCrypto() *CryptoPRNG {
	return &CryptoPRNG{}
}

func (r *CryptoPRNG) Uint64() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

func (r *CryptoPRNG) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return uint(boundedUint64(r, uint64(max)))
}

func (r *CryptoPRNG) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return int(boundedUint64(r, uint64(max)))
}

func (r *CryptoPRNG) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

func (r *CryptoPRNG) Snapshot() ([]byte, error) {
	return nil, errs.NewWarn("crypto prng is not restorable")
}

func (r *CryptoPRNG) Restore([]byte) error {
	return errs.NewWarn("crypto prng is not restorable")
}

// CryptoFactory 忽略 seed，每次都回傳 CryptoPRNG。
//
// 僅用於不需要重現的正式開局；模擬與測試請用 Default()。
type CryptoFactory struct{}

func (CryptoFactory) New(int64) PRNG {
	return NewCrypto()
}
