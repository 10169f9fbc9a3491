package monitor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"codeberg.org/fervag/x708ctl/internal/battery"
	"codeberg.org/fervag/x708ctl/internal/errors"
	"codeberg.org/fervag/x708ctl/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSampler struct {
	mu       sync.Mutex
	voltages []float64
	calls    int
	err      error
}

func (f *fakeSampler) Sample() (battery.Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return battery.Sample{}, f.err
	}

	i := f.calls
	if i >= len(f.voltages) {
		i = len(f.voltages) - 1
	}
	f.calls++

	return battery.Sample{
		Temperature: 45,
		Voltage:     f.voltages[i],
		Charge:      80,
		Timestamp:   time.Now(),
	}, nil
}

func (f *fakeSampler) sampleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSink struct {
	mu      sync.Mutex
	renders int
}

func (f *fakeSink) Render(battery.Sample) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders++
}

func (f *fakeSink) Close() {}

func (f *fakeSink) renderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renders
}

type fakeCollector struct {
	mu      sync.Mutex
	records int
}

func (f *fakeCollector) Record(context.Context, battery.Sample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records++
	return nil
}

func (f *fakeCollector) Close() error { return nil }

func TestMonitorEmergencyPoweroff(t *testing.T) {
	sampler := &fakeSampler{voltages: []float64{3.9, 3.6, 3.2}}
	ctl := &fakeController{}

	m := monitor.New(monitor.Options{
		Interval:   10 * time.Millisecond,
		MinVoltage: 3.5,
		Quiet:      true,
	}, sampler, ctl, &fakeSink{}, &fakeCollector{})

	err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, sampler.sampleCount(), "loop must stop at the triggering sample")
	poweroffs, reboots := ctl.counts()
	assert.Equal(t, 1, poweroffs)
	assert.Equal(t, 0, reboots)
	require.Len(t, ctl.broadcasts, 1, "emergency broadcast must precede poweroff")
	assert.Contains(t, ctl.broadcasts[0], "Emergency poweroff")
}

func TestMonitorWatchOnlyNeverTriggers(t *testing.T) {
	sampler := &fakeSampler{voltages: []float64{3.2}}
	ctl := &fakeController{}

	m := monitor.New(monitor.Options{
		Interval:   10 * time.Millisecond,
		MinVoltage: 3.5,
		WatchOnly:  true,
		Quiet:      true,
	}, sampler, ctl, &fakeSink{}, &fakeCollector{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := m.Run(ctx)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, sampler.sampleCount(), 1)
	poweroffs, _ := ctl.counts()
	assert.Equal(t, 0, poweroffs, "watch-only mode must never actuate")
	assert.Empty(t, ctl.broadcasts)
}

func TestMonitorGuardBeforeDisplay(t *testing.T) {
	sampler := &fakeSampler{voltages: []float64{3.2}}
	ctl := &fakeController{}
	sink := &fakeSink{}

	m := monitor.New(monitor.Options{
		Interval:   10 * time.Millisecond,
		MinVoltage: 3.5,
	}, sampler, ctl, sink, &fakeCollector{})

	err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, sink.renderCount(), "the triggering sample must not be rendered")
	poweroffs, _ := ctl.counts()
	assert.Equal(t, 1, poweroffs)
}

func TestMonitorQuietSkipsDisplay(t *testing.T) {
	sampler := &fakeSampler{voltages: []float64{3.9}}
	sink := &fakeSink{}

	m := monitor.New(monitor.Options{
		Interval:   10 * time.Millisecond,
		MinVoltage: 3.5,
		Quiet:      true,
	}, sampler, &fakeController{}, sink, &fakeCollector{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, m.Run(ctx))
	assert.Equal(t, 0, sink.renderCount())
}

func TestMonitorQuitKey(t *testing.T) {
	sampler := &fakeSampler{voltages: []float64{3.9}}
	sink := &fakeSink{}

	quit := make(chan struct{})
	close(quit)

	m := monitor.New(monitor.Options{
		Interval:   time.Hour,
		MinVoltage: 3.5,
		Quit:       quit,
	}, sampler, &fakeController{}, sink, &fakeCollector{})

	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("quit request did not stop the loop")
	}

	assert.Equal(t, 1, sampler.sampleCount())
	assert.Equal(t, 1, sink.renderCount(), "the sample is rendered before the wait step")
}

func TestMonitorInterruptDuringWait(t *testing.T) {
	sampler := &fakeSampler{voltages: []float64{3.9}}

	ctx, cancel := context.WithCancel(context.Background())

	m := monitor.New(monitor.Options{
		Interval:   time.Hour,
		MinVoltage: 3.5,
		Quiet:      true,
	}, sampler, &fakeController{}, &fakeSink{}, &fakeCollector{})

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "interrupt must produce a clean return")
	case <-time.After(time.Second):
		t.Fatal("cancellation did not stop the loop")
	}
}

func TestMonitorSamplerErrorIsFatal(t *testing.T) {
	sampler := &fakeSampler{err: errors.New().New(errors.ErrUnavailable)}

	m := monitor.New(monitor.Options{
		Interval:   10 * time.Millisecond,
		MinVoltage: 3.5,
		Quiet:      true,
	}, sampler, &fakeController{}, &fakeSink{}, &fakeCollector{})

	err := m.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrMainLoop))
}

func TestMonitorInvalidInterval(t *testing.T) {
	m := monitor.New(monitor.Options{
		Interval:   0,
		MinVoltage: 3.5,
	}, &fakeSampler{voltages: []float64{3.9}}, &fakeController{}, &fakeSink{}, &fakeCollector{})

	err := m.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestMonitorRecordsTelemetry(t *testing.T) {
	sampler := &fakeSampler{voltages: []float64{3.9}}
	collector := &fakeCollector{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	m := monitor.New(monitor.Options{
		Interval:   10 * time.Millisecond,
		MinVoltage: 3.5,
		Quiet:      true,
	}, sampler, &fakeController{}, &fakeSink{}, collector)

	require.NoError(t, m.Run(ctx))

	collector.mu.Lock()
	defer collector.mu.Unlock()
	assert.GreaterOrEqual(t, collector.records, 1)
}
