/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CCGTSIM project.
 *
 * CCGTSIM is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package internal

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/antst/ccgtsim/internal/config"
	"github.com/antst/ccgtsim/internal/db"
	"github.com/antst/ccgtsim/internal/fluid"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeBroker struct {
	lock     sync.Mutex
	messages map[string][]byte
	retained map[string]bool
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{messages: make(map[string][]byte), retained: make(map[string]bool)}
}

func (b *fakeBroker) SafePublish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.messages[topic] = payload.([]byte)
	b.retained[topic] = retained
	return doneToken{}
}

func (b *fakeBroker) SafeDisconnect() {}

func TestRunner(t *testing.T) {
	q, err := db.OpenDatabase(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer q.Close()

	base := config.DefaultCase()
	eroding := config.DefaultCase()
	eroding.Name = "eroding"
	eroding.Limits.MinCondenserQuality = 0.99
	broken := config.DefaultCase()
	broken.Name = "broken"
	broken.Cycle.NTGas = 2

	broker := newFakeBroker()
	r := NewRunner(fluid.Default(), 2, q, broker, "plant")
	out, err := r.Run(context.Background(), []config.CaseConfig{base, eroding, broken})

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.Contains(t, err.Error(), "broken")

	require.Len(t, out, 3)
	assert.NoError(t, out[0].Err)
	assert.NoError(t, out[1].Err)
	assert.Equal(t, KindInvalidInput, KindOf(out[2].Err))
	assert.Nil(t, out[2].Result)
	assert.NotEqual(t, out[0].RunID, out[1].RunID)

	t.Run("stored", func(t *testing.T) {
		ctx := context.Background()
		runs, err := q.ListRuns(ctx, "", 10)
		require.NoError(t, err)
		assert.Len(t, runs, 2)

		run, err := q.GetRun(ctx, out[1].RunID)
		require.NoError(t, err)
		assert.Equal(t, "eroding", run.CaseName)
		assert.InDelta(t, out[1].Result.Balance.WTotal, run.WTotal, 1e-6)

		points, err := q.GetPoints(ctx, out[1].RunID)
		require.NoError(t, err)
		assert.Len(t, points, len(out[1].Result.States))

		vs, err := q.GetViolations(ctx, out[1].RunID)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		assert.Equal(t, string(ErosionRisk), vs[0].Kind)
	})

	t.Run("published", func(t *testing.T) {
		assert.Len(t, broker.messages, 4)

		var msg summaryMessage
		require.NoError(t, json.Unmarshal(broker.messages["plant/default/summary"], &msg))
		assert.Equal(t, out[0].RunID, msg.RunID)
		assert.Equal(t, 0, msg.Violations)
		assert.True(t, broker.retained["plant/default/summary"])

		var vs []Violation
		require.NoError(t, json.Unmarshal(broker.messages["plant/default/violations"], &vs))
		assert.Empty(t, vs)
		require.NoError(t, json.Unmarshal(broker.messages["plant/eroding/violations"], &vs))
		require.Len(t, vs, 1)
		assert.Equal(t, ErosionRisk, vs[0].Kind)
	})
}

func TestRunnerWithoutSinks(t *testing.T) {
	out, err := NewRunner(fluid.Default(), 0, nil, nil, "").Run(context.Background(), []config.CaseConfig{config.DefaultCase()})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.NotNil(t, out[0].Result)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := NewRunner(fluid.Default(), 1, nil, nil, "").Run(ctx, []config.CaseConfig{config.DefaultCase()})
	require.Error(t, err)
	assert.ErrorIs(t, out[0].Err, context.Canceled)
}
