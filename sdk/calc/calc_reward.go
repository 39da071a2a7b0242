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

package calc

import (
	"math"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/buf"
	"github.com/zintix-labs/scratchlab/spec"
)

// ValidBet 押注必須是正的有限值，NaN 與 +Inf 都不合法
func ValidBet(bet float64) bool {
	return bet > 0 && !math.IsInf(bet, 1)
}

// CheckBet 不合法時回傳 InvalidBetError
func CheckBet(bet float64) error {
	if !ValidBet(bet) {
		return errs.InvalidBetf("bet must be a positive finite number, got %v", bet)
	}
	return nil
}

// CalcReward 計算總獎金，第二個回傳值表示 bonus 是否改變了獎金。
//
// 每個圖標 bet x 圖標倍率 x 各組合倍率，依 wins 順序加總。
// 總獎金 > 0 才套用 bonus：multiply_reward 乘倍率，extra_bonus 加 extra，miss 與未宣告不變。
func (c *Calculator) CalcReward(bet float64, wins buf.Wins, bonus string) (float64, bool, error) {
	if err := CheckBet(bet); err != nil {
		return 0, false, err
	}
	if wins.Empty() {
		return 0, false, nil
	}

	total := 0.0
	for _, sw := range wins {
		sym, ok := c.cfg.Symbol(sw.Symbol)
		if !ok {
			return 0, false, errs.Configf("unknown symbol %q", sw.Symbol)
		}
		r := bet * sym.RewardMultiplier
		for _, name := range sw.Combos {
			wc, ok := c.cfg.Combination(name)
			if !ok {
				return 0, false, errs.Configf("unknown win combination %q", name)
			}
			r *= wc.RewardMultiplier
		}
		total += r
	}
	if math.IsInf(total, 0) {
		return 0, false, errs.InvalidBetf("reward overflows float64 at bet %v", bet)
	}

	if bonus == "" || total <= 0 {
		return total, false, nil
	}
	bs, ok := c.cfg.Symbol(bonus)
	if !ok {
		return 0, false, errs.Configf("unknown bonus symbol %q", bonus)
	}
	switch bs.Impact {
	case spec.MultiplyReward:
		total *= bs.RewardMultiplier
	case spec.ExtraBonus:
		total += bs.Extra
	default:
		return total, false, nil
	}
	if math.IsInf(total, 0) {
		return 0, false, errs.InvalidBetf("reward overflows float64 at bet %v", bet)
	}
	return total, true, nil
}
