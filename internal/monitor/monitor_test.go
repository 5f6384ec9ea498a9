package monitor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Alia5/padscope/internal/event"
	"github.com/Alia5/padscope/internal/monitor"
	"github.com/Alia5/padscope/internal/source"
	htesting "github.com/Alia5/padscope/internal/testing"
	"github.com/Alia5/padscope/pad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(q *event.Queue) []event.Event {
	var out []event.Event
	for {
		ev, ok := q.Pop()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func TestCheckWithoutController(t *testing.T) {
	d := &htesting.FakeDriver{}
	q := event.NewQueue()
	m := monitor.New(d, q, nil)

	m.Check()
	m.Check()
	evs := drain(q)
	require.Len(t, evs, 1, "repeated status is queued once")
	assert.Equal(t, event.StatusEvent(monitor.StatusNoController, event.SeverityError), evs[0])
	assert.False(t, m.Connected())
}

func TestCheckConnects(t *testing.T) {
	d := &htesting.FakeDriver{}
	q := event.NewQueue()
	m := monitor.New(d, q, nil)

	m.Check()
	d.SetCandidates(source.Candidate{ID: "0", Name: "DualSense Controller", Connection: pad.ConnectionUSB})
	m.Check()

	evs := drain(q)
	require.Len(t, evs, 3)
	assert.Equal(t, event.StatusEvent("DualSense Controller connected!", event.SeverityInfo), evs[1])
	assert.Equal(t, event.ConnectionEvent(pad.ConnectionUSB), evs[2])
	require.True(t, m.Connected())

	ctrls := d.Controllers()
	require.Len(t, ctrls, 1)
	assert.True(t, ctrls[0].Active())

	m.Check()
	assert.Len(t, d.Controllers(), 1, "bound controller is kept")
	assert.Empty(t, drain(q))

	m.Close()
	m.Close()
	assert.False(t, ctrls[0].Active())
	assert.Equal(t, 1, ctrls[0].Deactivations())
}

func TestCheckReportsConnectErrors(t *testing.T) {
	tests := []struct {
		name   string
		driver *htesting.FakeDriver
		want   string
	}{
		{
			name:   "enumerate",
			driver: &htesting.FakeDriver{EnumerateErr: errors.New("hid unavailable")},
			want:   "Error connecting to controller: hid unavailable",
		},
		{
			name: "open",
			driver: &htesting.FakeDriver{
				Candidates: []source.Candidate{{ID: "0"}},
				OpenErr:    errors.New("busy"),
			},
			want: "Error connecting to controller: busy",
		},
		{
			name: "activate",
			driver: &htesting.FakeDriver{
				Candidates:  []source.Candidate{{ID: "0"}},
				ActivateErr: errors.New("permission denied"),
			},
			want: "Error connecting to controller: permission denied",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := event.NewQueue()
			m := monitor.New(tt.driver, q, nil)
			m.Check()
			evs := drain(q)
			require.Len(t, evs, 1)
			assert.Equal(t, event.StatusEvent(tt.want, event.SeverityError), evs[0])
			assert.False(t, m.Connected())
		})
	}
}

func TestBindTranslatesCallbacks(t *testing.T) {
	e := source.NewEmitter()
	q := event.NewQueue()
	monitor.Bind(e, q, true)

	e.Button(pad.ButtonCross, true)
	e.Button(pad.ButtonCross, false)
	e.Axis(pad.StickLeft, pad.AxisX, 0.5)
	e.Axis(pad.StickRight, pad.AxisY, 0.25)
	e.Battery(pad.Battery{Level: 15})
	e.Connection(pad.ConnectionBluetooth)
	e.Error(errors.New("disconnected"))

	assert.Equal(t, []event.Event{
		event.ButtonEvent(pad.ButtonCross, true),
		event.ButtonEvent(pad.ButtonCross, false),
		event.AxisEvent(pad.StickLeft, pad.AxisX, 0.5),
		event.AxisEvent(pad.StickRight, pad.AxisY, -0.25),
		event.BatteryEvent(pad.Battery{Level: 15}),
		event.WarningEvent(monitor.LowBatteryMessage),
		event.ConnectionEvent(pad.ConnectionBluetooth),
		event.ErrorEvent("disconnected"),
	}, drain(q))
}

func TestRunDeactivatesOnShutdown(t *testing.T) {
	d := &htesting.FakeDriver{Candidates: []source.Candidate{{ID: "0", Name: "Pad"}}}
	q := event.NewQueue()
	m := monitor.New(d, q, nil, monitor.WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, m.Connected, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	ctrls := d.Controllers()
	require.Len(t, ctrls, 1)
	assert.False(t, ctrls[0].Active())
	assert.False(t, m.Connected())
}
