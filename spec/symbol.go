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

package spec

import "github.com/zintix-labs/scratchlab/errs"

// Symbol 圖標定義。
//
// Fields:
//   - RewardMultiplier: 圖標倍率 (>= 0)
//   - Type: standard | bonus
//   - Impact: 只對 bonus 有意義，multiply_reward | extra_bonus | miss，未填為無效果
//   - Extra: 只有 extra_bonus 使用，直接加到總獎金
type Symbol struct {
	RewardMultiplier float64    `yaml:"reward_multiplier"  json:"reward_multiplier"`
	TypeStr          string     `yaml:"type"               json:"type"`
	ImpactStr        string     `yaml:"impact,omitempty"   json:"impact,omitempty"`
	Extra            float64    `yaml:"extra,omitempty"    json:"extra,omitempty"`
	Type             SymbolType `yaml:"-"                  json:"-"`
	Impact           Impact     `yaml:"-"                  json:"-"`
	initFlag         bool
}

// Init 解析字串列舉並檢查數值
func (s *Symbol) Init() error {
	if s.initFlag {
		return nil
	}
	st, ok := ParseSymbolType(s.TypeStr)
	if !ok {
		return errs.Configf("unknown symbol type %q", s.TypeStr)
	}
	s.Type = st
	s.Impact = ImpactNone
	if s.ImpactStr != "" {
		im, ok := ParseImpact(s.ImpactStr)
		if !ok {
			return errs.Configf("unknown impact %q", s.ImpactStr)
		}
		s.Impact = im
	}
	// standard 圖標的 impact 一律無效
	if st == Standard {
		s.Impact = ImpactNone
	}
	if s.RewardMultiplier < 0 {
		return errs.Configf("reward_multiplier must be >= 0, got %v", s.RewardMultiplier)
	}
	s.initFlag = true
	return nil
}

type SymbolType uint8

const (
	Standard SymbolType = iota
	Bonus
)

var symbolTypeMap = map[string]SymbolType{
	"standard": Standard,
	"bonus":    Bonus,
}

func ParseSymbolType(s string) (SymbolType, bool) {
	st, ok := symbolTypeMap[s]
	return st, ok
}

func (st SymbolType) String() string {
	if st == Bonus {
		return "bonus"
	}
	return "standard"
}

// Impact bonus 圖標對總獎金的效果
type Impact uint8

const (
	ImpactNone     Impact = iota // 未宣告
	MultiplyReward               // 總獎金 x 圖標倍率
	ExtraBonus                   // 總獎金 + extra
	Miss                         // 明確的無效果
)

var impactMap = map[string]Impact{
	"multiply_reward": MultiplyReward,
	"extra_bonus":     ExtraBonus,
	"miss":            Miss,
}

func ParseImpact(s string) (Impact, bool) {
	im, ok := impactMap[s]
	return im, ok
}

func (im Impact) String() string {
	for s, v := range impactMap {
		if v == im {
			return s
		}
	}
	return "none"
}
