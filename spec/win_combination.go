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

import (
	"strconv"
	"strings"

	"github.com/zintix-labs/scratchlab/errs"
)

// WinCombination 中獎組合定義。
//
// same_symbols 以標準圖標出現次數判定，需 Count >= 1；
// linear_symbols 以 CoveredAreas 判定，任一 area 的所有座標都是同一圖標即成立。
type WinCombination struct {
	RewardMultiplier float64    `yaml:"reward_multiplier"        json:"reward_multiplier"`
	WhenStr          string     `yaml:"when"                     json:"when"`
	Count            int        `yaml:"count,omitempty"          json:"count,omitempty"`
	Group            string     `yaml:"group"                    json:"group"`
	CoveredAreasStr  [][]string `yaml:"covered_areas,omitempty"  json:"covered_areas,omitempty"`
	When             When       `yaml:"-"                        json:"-"`
	CoveredAreas     [][]Coord  `yaml:"-"                        json:"-"`
	initFlag         bool
}

func (wc *WinCombination) Init() error {
	if wc.initFlag {
		return nil
	}
	w, ok := ParseWhen(wc.WhenStr)
	if !ok {
		return errs.Configf("unknown when %q", wc.WhenStr)
	}
	wc.When = w
	if wc.RewardMultiplier <= 0 {
		return errs.Configf("reward_multiplier must be > 0, got %v", wc.RewardMultiplier)
	}
	switch w {
	case SameSymbols:
		if wc.Count < 1 {
			return errs.Configf("same_symbols requires count >= 1, got %d", wc.Count)
		}
	case LinearSymbols:
		if len(wc.CoveredAreasStr) == 0 {
			return errs.Configf("linear_symbols requires covered_areas")
		}
		wc.CoveredAreas = make([][]Coord, len(wc.CoveredAreasStr))
		for i, area := range wc.CoveredAreasStr {
			if len(area) == 0 {
				return errs.Configf("covered_areas[%d] is empty", i)
			}
			cs := make([]Coord, len(area))
			for j, str := range area {
				c, err := ParseCoord(str)
				if err != nil {
					return err
				}
				cs[j] = c
			}
			wc.CoveredAreas[i] = cs
		}
	}
	wc.initFlag = true
	return nil
}

type When uint8

const (
	SameSymbols When = iota
	LinearSymbols
)

var whenMap = map[string]When{
	"same_symbols":   SameSymbols,
	"linear_symbols": LinearSymbols,
}

func ParseWhen(s string) (When, bool) {
	w, ok := whenMap[s]
	return w, ok
}

func (w When) String() string {
	if w == LinearSymbols {
		return "linear_symbols"
	}
	return "same_symbols"
}

// Coord 盤面座標，字串格式為 "row:column"。
//
// 越界不是設定錯誤，評估時視為該 area 不成立。
type Coord struct {
	Row int
	Col int
}

func ParseCoord(s string) (Coord, error) {
	r, c, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Coord{}, errs.Configf("invalid coordinate %q, want row:column", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return Coord{}, errs.Configf("invalid coordinate %q, bad row", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return Coord{}, errs.Configf("invalid coordinate %q, bad column", s)
	}
	return Coord{Row: row, Col: col}, nil
}

func (c Coord) String() string {
	return strconv.Itoa(c.Row) + ":" + strconv.Itoa(c.Col)
}
