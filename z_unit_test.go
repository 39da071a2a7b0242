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

package scratchlab

import (
	"bytes"
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/scratchlab/demo/demo_configs"
	"github.com/zintix-labs/scratchlab/dto"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/logger"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/sdk/sampler"
	"github.com/zintix-labs/scratchlab/spec"
)

func demoLab(t *testing.T, opt Options) *Lab {
	t.Helper()
	gc, err := spec.LoadFS(demo_configs.FS, demo_configs.JSON)
	require.NoError(t, err)
	lab, err := New(core.Default(), gc, opt)
	require.NoError(t, err)
	return lab
}

func TestNewErrors(t *testing.T) {
	gc, err := spec.LoadFS(demo_configs.FS, demo_configs.YAML)
	require.NoError(t, err)

	_, err = New(nil, gc, Options{})
	assert.Error(t, err)
	_, err = New(core.Default(), nil, Options{})
	assert.ErrorIs(t, err, errs.ErrConfig)

	lab, err := New(core.Default(), gc, Options{})
	require.NoError(t, err)
	assert.Equal(t, "scratch", lab.Name())
	assert.Same(t, gc, lab.Config())
}

func TestPlayDocumentInvariants(t *testing.T) {
	lab := demoLab(t, Options{})
	m, err := lab.NewMachineWithSeed(7)
	require.NoError(t, err)
	gc := lab.Config()

	bonusSeen := 0
	for range 500 {
		res, err := m.Play(100)
		require.NoError(t, err)
		require.Len(t, res.Matrix, gc.Rows)
		for _, row := range res.Matrix {
			require.Len(t, row, gc.Columns)
			for _, cell := range row {
				_, ok := gc.Symbol(cell)
				require.True(t, ok, "cell %q", cell)
			}
		}
		require.NotNil(t, res.AppliedWinningCombinations)
		if len(res.AppliedWinningCombinations) == 0 {
			assert.Zero(t, res.Reward)
		} else {
			assert.Positive(t, res.Reward)
		}
		if b := res.BonusSymbol(); b != "" {
			bonusSeen++
			sym, _ := gc.Symbol(b)
			assert.Equal(t, spec.Bonus, sym.Type)
		}
	}
	assert.Positive(t, bonusSeen)
}

func TestPlayDeterministic(t *testing.T) {
	for _, kind := range []sampler.Kind{sampler.KindCumulative, sampler.KindLUT, sampler.KindAlias} {
		lab := demoLab(t, Options{Sampler: kind})
		a, err := lab.NewMachineWithSeed(42)
		require.NoError(t, err)
		b, err := lab.NewMachineWithSeed(42)
		require.NoError(t, err)
		for range 50 {
			ra, err := a.Play(1)
			require.NoError(t, err)
			rb, err := b.Play(1)
			require.NoError(t, err)
			require.Equal(t, ra, rb)
		}
	}
}

func TestPlayInvalidBetKeepsState(t *testing.T) {
	lab := demoLab(t, Options{})
	m, err := lab.NewMachineWithSeed(1)
	require.NoError(t, err)

	before, err := m.SnapshotCore()
	require.NoError(t, err)
	for _, bet := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err = m.Play(bet)
		assert.ErrorIs(t, err, errs.ErrInvalidBet)
	}
	_, _, err = m.PlayRequest(dto.PlayRequest{Bet: 0})
	assert.ErrorIs(t, err, errs.ErrInvalidBet)
	after, err := m.SnapshotCore()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPlayRequestReplay(t *testing.T) {
	lab := demoLab(t, Options{})
	m, err := lab.NewMachineWithSeed(99)
	require.NoError(t, err)
	twin, err := lab.NewMachineWithSeed(99)
	require.NoError(t, err)

	first, st, err := m.PlayRequest(dto.PlayRequest{Bet: 10})
	require.NoError(t, err)
	require.NotEmpty(t, st.StartCoreSnapB64U)
	require.NotEqual(t, st.StartCoreSnapB64U, st.AfterCoreSnapB64U)
	_, err = twin.Play(10)
	require.NoError(t, err)

	// 重播同一局
	again, st2, err := m.PlayRequest(dto.PlayRequest{Bet: 10, StartB64U: st.StartCoreSnapB64U})
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, st, st2)

	// 重播不影響機台原本的亂數流
	next, err := m.Play(10)
	require.NoError(t, err)
	want, err := twin.Play(10)
	require.NoError(t, err)
	assert.Equal(t, want, next)

	// after_b64u 延續同一條亂數流
	cont, _, err := m.PlayRequest(dto.PlayRequest{Bet: 10, StartB64U: st.AfterCoreSnapB64U})
	require.NoError(t, err)
	assert.Equal(t, want, cont)

	_, _, err = m.PlayRequest(dto.PlayRequest{Bet: 10, StartB64U: "%%%"})
	assert.ErrorIs(t, err, errs.ErrArgument)
	_, _, err = m.PlayRequest(dto.PlayRequest{Bet: 10, StartB64U: "AAAA"})
	assert.ErrorIs(t, err, errs.ErrArgument)
}

func TestPlayDebugLog(t *testing.T) {
	var out bytes.Buffer
	lab := demoLab(t, Options{Name: "demo", Log: logger.New(logger.ModeDev, &out)})
	m, err := lab.NewMachineWithSeed(3)
	require.NoError(t, err)
	_, err = m.Play(5)
	require.NoError(t, err)
	s := out.String()
	assert.Contains(t, s, "msg=play")
	assert.Contains(t, s, "machine=demo")
	assert.Contains(t, s, "start_b64u=")
	assert.Contains(t, s, "bet=5")
}

func TestSimulator(t *testing.T) {
	lab := demoLab(t, Options{})
	s, err := lab.NewSimulatorWithSeed(2025)
	require.NoError(t, err)

	rep, used, err := s.Sim(1, 20000, false)
	require.NoError(t, err)
	assert.Positive(t, used)
	sm := rep.Summary
	assert.Equal(t, 20000, sm.Rounds)
	assert.InDelta(t, 20000, sm.TotalBet, 1e-6)
	assert.Positive(t, sm.RTP)
	assert.Greater(t, sm.HitRate, 0.0)
	assert.Less(t, sm.HitRate, 1.0)
	assert.InDelta(t, 0.2, sm.BonusRate, 0.015)
	assert.LessOrEqual(t, sm.RtpCI.Lo, sm.RTP)
	assert.GreaterOrEqual(t, sm.RtpCI.Hi, sm.RTP)
	assert.Len(t, rep.Hit.Combos, lab.Config().WinCombinations.Len())

	// 同 seed 同 worker 數可重現
	s1, err := lab.NewSimulatorWithSeed(11)
	require.NoError(t, err)
	s2, err := lab.NewSimulatorWithSeed(11)
	require.NoError(t, err)
	r1, _, err := s1.SimMP(2, 3000, 4, false)
	require.NoError(t, err)
	r2, _, err := s2.SimMP(2, 3000, 4, false)
	require.NoError(t, err)
	assert.Equal(t, 12000, r1.Summary.Rounds)
	assert.Equal(t, r1.Summary.TotalWin, r2.Summary.TotalWin)
	assert.Equal(t, r1.Dist.WinCollect, r2.Dist.WinCollect)

	_, _, err = s.Sim(0, 10, false)
	assert.ErrorIs(t, err, errs.ErrInvalidBet)
	_, _, err = s.Sim(1, 0, false)
	assert.ErrorIs(t, err, errs.ErrArgument)
	_, _, err = s.SimMP(1, 10, 0, false)
	assert.ErrorIs(t, err, errs.ErrArgument)
}

func TestSeedMaker(t *testing.T) {
	sm := newSeedMaker(-1)
	seen := make(map[int64]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				v := sm.next()
				mu.Lock()
				seen[v] = true
				mu.Unlock()
				assert.GreaterOrEqual(t, v, int64(0))
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 8000)

	a, b := newSeedMaker(5), newSeedMaker(5)
	assert.Equal(t, a.next(), b.next())
}

func TestMachinePool(t *testing.T) {
	lab := demoLab(t, Options{})
	p, err := lab.NewMachinePool(4, 77)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				res, st, err := p.Play(context.Background(), dto.PlayRequest{Bet: 1})
				assert.NoError(t, err)
				assert.Len(t, res.Matrix, 3)
				assert.NotEmpty(t, st.StartCoreSnapB64U)
			}
		}()
	}
	wg.Wait()

	_, _, err = p.Play(context.Background(), dto.PlayRequest{Bet: -1})
	assert.ErrorIs(t, err, errs.ErrInvalidBet)

	mt := p.Metrics()
	assert.Equal(t, 4, mt.PoolSize)
	assert.Equal(t, 4, mt.Available)
	assert.Zero(t, mt.Inflight)
	assert.Zero(t, mt.Rebuild)

	p.Close()
	p.Close()
	_, _, err = p.Play(context.Background(), dto.PlayRequest{Bet: 1})
	assert.Error(t, err)
	assert.True(t, p.Metrics().Closed)
	assert.Equal(t, "closed", p.ClosedReason())
}

func TestMachinePoolPlayAfterClose(t *testing.T) {
	lab := demoLab(t, Options{})
	for i := range 200 {
		p, err := lab.NewMachinePool(2, int64(i))
		require.NoError(t, err)
		p.Close()
		_, _, err = p.Play(context.Background(), dto.PlayRequest{Bet: 1})
		require.Error(t, err, "pool %d", i)
		assert.True(t, isFatalErr(err))
	}
}

func TestMachinePoolCanceled(t *testing.T) {
	lab := demoLab(t, Options{})
	p, err := lab.NewMachinePool(1, 1)
	require.NoError(t, err)
	defer p.Close()

	m := <-p.pool // 佔住唯一的機台
	defer func() { p.pool <- m }()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = p.Play(ctx, dto.PlayRequest{Bet: 1})
	assert.Error(t, err)

	// 有空閒機台時也不借出
	free, err := lab.NewMachinePool(2, 1)
	require.NoError(t, err)
	defer free.Close()
	for range 50 {
		_, _, err = free.Play(ctx, dto.PlayRequest{Bet: 1})
		require.Error(t, err)
	}
	assert.Equal(t, 2, free.Metrics().Available)
}

func TestCryptoMachineNotReplayable(t *testing.T) {
	gc, err := spec.LoadFS(demo_configs.FS, demo_configs.JSON)
	require.NoError(t, err)
	lab, err := New(core.CryptoFactory{}, gc, Options{})
	require.NoError(t, err)
	m, err := lab.NewMachine()
	require.NoError(t, err)
	assert.False(t, m.Replayable())

	res, st, err := m.PlayRequest(dto.PlayRequest{Bet: 1})
	require.NoError(t, err)
	assert.Len(t, res.Matrix, 3)
	assert.Empty(t, st.StartCoreSnapB64U)

	_, _, err = m.PlayRequest(dto.PlayRequest{Bet: 1, StartB64U: "AAAA"})
	assert.ErrorIs(t, err, errs.ErrArgument)
}
