/**
 * Copyright 2025-present Profit Bliss
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package accrual

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler drives the engine on a fixed interval. One sweep runs
// immediately at start so a restarted daemon catches up without waiting a
// full tick.
type Scheduler struct {
	engine   *Engine
	interval time.Duration

	stopChan chan struct{}
	doneChan chan struct{}
}

func NewScheduler(engine *Engine, interval time.Duration) *Scheduler {
	return &Scheduler{
		engine:   engine,
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Scheduler) Start(ctx context.Context) {
	zap.L().Info("Starting accrual scheduler", zap.Duration("interval", s.interval))
	go s.sweepLoop(ctx)
}

// Stop signals the loop and waits for the in-flight sweep to finish.
func (s *Scheduler) Stop() {
	zap.L().Info("Stopping accrual scheduler")
	close(s.stopChan)
	<-s.doneChan
	zap.L().Info("Accrual scheduler stopped")
}

func (s *Scheduler) sweepLoop(ctx context.Context) {
	defer close(s.doneChan)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	started := time.Now()
	results, err := s.engine.AccrueDue(ctx, time.Now().UTC())
	if err != nil {
		zap.L().Error("Accrual sweep failed", zap.Error(err))
		return
	}

	if len(results) > 0 {
		completed := 0
		for _, r := range results {
			if r.Completed {
				completed++
			}
		}
		zap.L().Info("Accrual sweep finished",
			zap.Int("credited", len(results)),
			zap.Int("completed", completed),
			zap.Duration("elapsed", time.Since(started)))
	} else {
		zap.L().Debug("Accrual sweep finished, nothing due",
			zap.Duration("elapsed", time.Since(started)))
	}
}
