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

package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// AsyncHandler 把任何 slog.Handler 變成非阻塞：
// Handle 只把 Record 複製後放進 channel，由背景 goroutine 依序交給 next。
// channel 滿或已 Close 時直接丟棄並計數，不把延遲傳回呼叫端。
type AsyncHandler struct {
	next slog.Handler
	q    *queue
}

type queue struct {
	ch      chan item
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type item struct {
	ctx context.Context
	rec slog.Record
	h   slog.Handler
}

// NewAsyncHandler buf <= 0 時使用 1024
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = buildHandler(ModeSilence, nil)
	}
	if buf <= 0 {
		buf = 1024
	}
	q := &queue{
		ch:   make(chan item, buf),
		done: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return &AsyncHandler{next: next, q: q}
}

func (q *queue) run() {
	defer q.wg.Done()
	for {
		select {
		case it := <-q.ch:
			_ = it.h.Handle(it.ctx, it.rec)
		case <-q.done:
			// drain
			for {
				select {
				case it := <-q.ch:
					_ = it.h.Handle(it.ctx, it.rec)
				default:
					return
				}
			}
		}
	}
}

// Dropped 因 buffer 滿或已關閉而丟棄的筆數
func (h *AsyncHandler) Dropped() uint64 {
	return h.q.dropped.Load()
}

// Close 停止接收並寫完殘留紀錄，可重複呼叫。
func (h *AsyncHandler) Close() {
	h.q.once.Do(func() { close(h.q.done) })
	h.q.wg.Wait()
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	select {
	case <-h.q.done:
		h.q.dropped.Add(1)
		return nil
	default:
	}
	select {
	case h.q.ch <- item{ctx: ctx, rec: r.Clone(), h: h.next}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), q: h.q}
}
