package install

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hoardpkg/hoard/util/common/errors"
)

type countingJob struct {
	id      int
	running *atomic.Int32
	peak    *atomic.Int32
	fail    bool
}

func (j *countingJob) Info() string { return fmt.Sprintf("job-%d", j.id) }

func (j *countingJob) Run(ctx context.Context) error {
	now := j.running.Add(1)
	defer j.running.Add(-1)

	for {
		peak := j.peak.Load()
		if now <= peak || j.peak.CompareAndSwap(peak, now) {
			break
		}
	}

	time.Sleep(10 * time.Millisecond)
	if j.fail {
		return errors.ErrPackageNotFound
	}
	return nil
}

func TestEngineConcurrencyCap(t *testing.T) {
	const limit = 3
	const total = 12

	var running, peak atomic.Int32
	jobs := make([]Job, total)
	for i := range jobs {
		jobs[i] = &countingJob{id: i, running: &running, peak: &peak}
	}

	succeeded, errs := NewEngine(limit, jobs).Execute(context.Background())
	if len(errs) != 0 {
		t.Fatalf("Execute() errors = %v", errs)
	}
	if succeeded != total {
		t.Errorf("Execute() succeeded = %d, want %d", succeeded, total)
	}
	if got := peak.Load(); got > limit {
		t.Errorf("observed %d concurrent jobs, cap is %d", got, limit)
	}
}

func TestEngineCollectsErrors(t *testing.T) {
	var running, peak atomic.Int32
	jobs := []Job{
		&countingJob{id: 0, running: &running, peak: &peak},
		&countingJob{id: 1, running: &running, peak: &peak, fail: true},
		&countingJob{id: 2, running: &running, peak: &peak},
		&countingJob{id: 3, running: &running, peak: &peak, fail: true},
	}

	succeeded, errs := NewEngine(2, jobs).Execute(context.Background())
	if succeeded != 2 {
		t.Errorf("Execute() succeeded = %d, want 2", succeeded)
	}
	if len(errs) != 2 {
		t.Errorf("Execute() collected %d errors, want 2", len(errs))
	}
	if succeeded+len(errs) != len(jobs) {
		t.Errorf("succeeded + failed = %d, want %d", succeeded+len(errs), len(jobs))
	}
}

func TestEngineNoJobs(t *testing.T) {
	succeeded, errs := NewEngine(4, nil).Execute(context.Background())
	if succeeded != 0 || errs != nil {
		t.Errorf("Execute() = (%d, %v), want (0, nil)", succeeded, errs)
	}
}

func TestEngineZeroConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	jobs := []Job{&countingJob{id: 0, running: &running, peak: &peak}}

	succeeded, errs := NewEngine(0, jobs).Execute(context.Background())
	if succeeded != 1 || len(errs) != 0 {
		t.Errorf("Execute() = (%d, %v), want (1, nil)", succeeded, errs)
	}
}
