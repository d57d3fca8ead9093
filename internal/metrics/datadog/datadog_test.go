package datadog

import (
	"reflect"
	"testing"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/metrics"
)

type sent struct {
	kind  string
	name  string
	value float64
	tags  []string
}

type fakeClient struct {
	sent   []sent
	closed bool
}

func (f *fakeClient) Count(name string, v int64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"count", name, float64(v), tags})
	return nil
}
func (f *fakeClient) Histogram(name string, v float64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"histogram", name, v, tags})
	return nil
}
func (f *fakeClient) Gauge(name string, v float64, tags []string, _ float64) error {
	f.sent = append(f.sent, sent{"gauge", name, v, tags})
	return nil
}
func (f *fakeClient) Close() error { f.closed = true; return nil }

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatalf("NewBackend(empty) error = nil")
	}
}

func TestBackend_Forwards(t *testing.T) {
	t.Parallel()
	fc := &fakeClient{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.RowsTotal, 3, metrics.Labels{"table": "orders", "reason": "duplicate"})
	b.ObserveHistogram(metrics.StepDuration, 0.25, metrics.Labels{"step": "aggregate"})
	b.SetGauge(metrics.OutlierBound, 9.5, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []sent{
		{"count", metrics.RowsTotal, 3, []string{"reason:duplicate", "table:orders"}},
		{"histogram", metrics.StepDuration, 0.25, []string{"step:aggregate"}},
		{"gauge", metrics.OutlierBound, 9.5, nil},
	}
	if !reflect.DeepEqual(fc.sent, want) {
		t.Fatalf("sent = %#v\nwant %#v", fc.sent, want)
	}
	if !fc.closed {
		t.Fatalf("Flush did not close the client")
	}
}

func TestBackend_NilClient(t *testing.T) {
	t.Parallel()
	b := &Backend{}
	b.IncCounter("x", 1, nil)
	b.SetGauge("x", 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}
