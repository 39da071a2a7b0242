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

// Package stats 把模擬紀錄整理成報表：RTP、標準差、信賴區間、命中率與贏倍分布。
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/floats"
)

var lang language.Tag = language.English

const confidence = 0.95

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo" yaml:"Lo"`
	Hi float64 `json:"Hi" yaml:"Hi"`
}

// StatReport 模擬統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary" yaml:"Summary"`
	Mult    *MultReport    `json:"Mult" yaml:"Mult"`
	Hit     *HitReport     `json:"Hit" yaml:"Hit"`
	Dist    *DistReport    `json:"Dist" yaml:"Dist"`
	isDone  bool
}

type SummaryReport struct {
	GameName     string  `json:"GameName" yaml:"GameName"`
	Bet          float64 `json:"Bet" yaml:"Bet"`
	Rounds       int     `json:"Rounds" yaml:"Rounds"`
	TotalBet     float64 `json:"TotalBet" yaml:"TotalBet"`
	TotalWin     float64 `json:"TotalWin" yaml:"TotalWin"`
	RTP          float64 `json:"RTP" yaml:"RTP"`
	RtpCI        CI      `json:"RtpCI" yaml:"RtpCI"`
	Std          float64 `json:"Std" yaml:"Std"`
	Cv           float64 `json:"Cv" yaml:"Cv"`
	WinRounds    int     `json:"WinRounds" yaml:"WinRounds"`
	NoWinRounds  int     `json:"NoWinRounds" yaml:"NoWinRounds"`
	HitRate      float64 `json:"HitRate" yaml:"HitRate"`
	HitRateCI    CI      `json:"HitRateCI" yaml:"HitRateCI"`
	BonusRounds  int     `json:"BonusRounds" yaml:"BonusRounds"`
	BonusRate    float64 `json:"BonusRate" yaml:"BonusRate"`
	BonusApplied int     `json:"BonusApplied" yaml:"BonusApplied"`
	MaxWinMult   float64 `json:"MaxWinMult" yaml:"MaxWinMult"`
}

// MultReport 贏倍（獎金 / 押注）的和與平方和
type MultReport struct {
	WinMultSum   float64 `json:"WinMultSum" yaml:"WinMultSum"`
	WinMultSqSum float64 `json:"WinMultSqSum" yaml:"WinMultSqSum"` // 平方和
}

// CountRate 命中次數與每局比例
type CountRate struct {
	Name  string  `json:"Name" yaml:"Name"`
	Count int     `json:"Count" yaml:"Count"`
	Rate  float64 `json:"Rate" yaml:"Rate"`
}

// HitReport 依設定宣告順序列出
type HitReport struct {
	Combos  []CountRate `json:"Combos" yaml:"Combos"`
	Symbols []CountRate `json:"Symbols" yaml:"Symbols"`
	Impacts []CountRate `json:"Impacts" yaml:"Impacts"` // 盤面出現的 bonus，依效果分類
}

// DistReport 贏倍區間落點統計
type DistReport struct {
	WinBucket  []string  `json:"WinBucket" yaml:"WinBucket"`
	WinCollect []int     `json:"WinCollect" yaml:"WinCollect"`
	WinDist    []float64 `json:"WinDist" yaml:"WinDist"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 由累積計數算出衍生指標，可重複呼叫。
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	sm := s.Summary
	sm.RTP = s.Rtp()
	sm.RtpCI = s.Ci()
	sm.Std = s.Std()
	sm.Cv = s.Cv()
	sm.NoWinRounds = sm.Rounds - sm.WinRounds
	sm.HitRate, sm.HitRateCI = proportionCICP(sm.WinRounds, sm.Rounds, confidence)
	sm.BonusRate = rate(sm.BonusRounds, sm.Rounds)

	if s.Hit != nil {
		for _, l := range [][]CountRate{s.Hit.Combos, s.Hit.Symbols, s.Hit.Impacts} {
			for i := range l {
				l[i].Rate = rate(l[i].Count, sm.Rounds)
			}
		}
	}
	if s.Dist != nil {
		d := make([]float64, len(s.Dist.WinCollect))
		for i, c := range s.Dist.WinCollect {
			d[i] = float64(c)
		}
		if sm.Rounds > 0 {
			floats.Scale(1/float64(sm.Rounds), d)
		}
		s.Dist.WinDist = d
	}
	s.isDone = true
}

// Rtp 總贏分 / 總押注
func (s *StatReport) Rtp() float64 {
	if s.Summary.Rounds == 0 || s.Summary.TotalBet == 0 {
		return 0
	}
	return s.Summary.TotalWin / s.Summary.TotalBet
}

// Std 單局贏倍的樣本標準差
func (s *StatReport) Std() float64 {
	if s.Summary.Rounds < 2 {
		return 0
	}
	rounds := float64(s.Summary.Rounds)
	variance := (s.Mult.WinMultSqSum - s.Mult.WinMultSum*s.Mult.WinMultSum/rounds) / (rounds - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Cv 變異係數
func (s *StatReport) Cv() float64 {
	rtp := s.Rtp()
	if rtp <= 0 {
		return 0
	}
	return s.Std() / rtp
}

// Ci 回傳(95% Rtp)信賴區間
func (s *StatReport) Ci() CI {
	rtp := s.Rtp()
	se := 0.0
	if s.Summary.Rounds > 1 {
		se = s.Std() / math.Sqrt(float64(s.Summary.Rounds))
	}
	return CI{
		Lo: max(rtp-1.96*se, 0.0),
		Hi: rtp + 1.96*se,
	}
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// WriteTable 人類可讀的表格，ut 為模擬耗時
func (s *StatReport) WriteTable(w io.Writer, ut time.Duration) error {
	s.Done()
	var sb strings.Builder
	sb.WriteString(formatDuration(ut, s.Summary.Rounds))
	sk, sm := s.fmtBasic()
	sb.WriteString(fmtTable(s.Summary.GameName, sk, sm))
	if s.Hit != nil {
		for _, part := range []struct {
			title string
			rows  []CountRate
		}{
			{"Win Combinations", s.Hit.Combos},
			{"Winning Symbols", s.Hit.Symbols},
			{"Bonus Impacts", s.Hit.Impacts},
		} {
			if len(part.rows) == 0 {
				continue
			}
			k, m := fmtCounts(part.rows)
			sb.WriteString(fmtTable(part.title, k, m))
		}
	}
	if s.Dist != nil {
		k, m := s.fmtDist()
		sb.WriteString(fmtTable("Win Distribution", k, m))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (s *StatReport) StdOut(ut time.Duration) {
	_ = s.WriteTable(os.Stdout, ut)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func rate(k, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(k) / float64(n)
}

func formatDuration(d time.Duration, rounds int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	rps := int(float64(rounds) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nrps : %d rounds/sec\n", sec, rps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nrps : %d rounds/sec\n", m, s, rps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nrps : %d rounds/sec\n", h, m, s, rps)
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sm := s.Summary
	basic := map[string]string{
		"Game Name":     sm.GameName,
		"Bet":           p.Sprintf("%.2f", sm.Bet),
		"Total Rounds":  p.Sprintf("%d", sm.Rounds),
		"Total RTP":     p.Sprintf("%.2f %%", 100.0*sm.RTP),
		"RTP 95% CI":    p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sm.RtpCI.Lo, 100.0*sm.RtpCI.Hi),
		"Total Bet":     p.Sprintf("%.2f", sm.TotalBet),
		"Total Win":     p.Sprintf("%.2f", sm.TotalWin),
		"NoWin Rounds":  p.Sprintf("%d", sm.NoWinRounds),
		"Hit Rate":      p.Sprintf("%.2f %%", 100.0*sm.HitRate),
		"Hit 95% CI":    p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sm.HitRateCI.Lo, 100.0*sm.HitRateCI.Hi),
		"Bonus Rate":    p.Sprintf("%.2f %%", 100.0*sm.BonusRate),
		"Bonus Applied": p.Sprintf("%d", sm.BonusApplied),
		"Max Win Mult":  p.Sprintf("%.2f", sm.MaxWinMult),
		"STD":           p.Sprintf("%.3f", sm.Std),
		"CV":            p.Sprintf("%.3f", sm.Cv),
	}
	keys := []string{"Game Name", "Bet", "Total Rounds", "Total RTP", "RTP 95% CI", "Total Bet", "Total Win", "NoWin Rounds", "Hit Rate", "Hit 95% CI", "Bonus Rate", "Bonus Applied", "Max Win Mult", "STD", "CV"}
	return keys, basic
}

func fmtCounts(rows []CountRate) ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(rows))
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		keys = append(keys, r.Name)
		m[r.Name] = p.Sprintf("%d (%.4f%%)", r.Count, 100.0*r.Rate)
	}
	return keys, m
}

func (s *StatReport) fmtDist() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(s.Dist.WinBucket))
	m := make(map[string]string, len(s.Dist.WinBucket))
	for i, b := range s.Dist.WinBucket {
		keys = append(keys, b)
		m[b] = p.Sprintf("%d (%.4f%%)", s.Dist.WinCollect[i], 100.0*s.Dist.WinDist[i])
	}
	return keys, m
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := runewidth.StringWidth(title)
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	fmt.Fprintf(&sb, "|%s%s%s|\n", blank(left), title, blank(right))
	sb.WriteString(divider)
	for _, k := range keys {
		fmt.Fprintf(&sb, "| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
