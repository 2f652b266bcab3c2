package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseScheduleTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ScheduleTime
		wantErr bool
	}{
		{name: "Morning", input: "07:00", want: ScheduleTime{Hour: 7, Minute: 0}},
		{name: "Evening", input: "19:30", want: ScheduleTime{Hour: 19, Minute: 30}},
		{name: "Midnight", input: "00:00", want: ScheduleTime{Hour: 0, Minute: 0}},
		{name: "Hour Out Of Range", input: "24:00", wantErr: true},
		{name: "Minute Out Of Range", input: "12:60", wantErr: true},
		{name: "Garbage", input: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScheduleTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRun(t *testing.T) {
	s, err := New(Config{
		ScheduleTimes: []string{"07:00", "19:00"},
		WorkerCount:   1,
		QueueSize:     1,
	})
	if err != nil {
		t.Fatalf("creating scheduler: %v", err)
	}

	sevenAM := time.Date(2025, 8, 12, 7, 0, 30, 0, time.UTC)
	if !s.shouldRun(sevenAM) {
		t.Error("expected a run at a scheduled time")
	}
	if s.shouldRun(sevenAM.Add(10 * time.Second)) {
		t.Error("expected the same minute not to trigger twice")
	}
	if s.shouldRun(time.Date(2025, 8, 12, 8, 0, 0, 0, time.UTC)) {
		t.Error("expected no run at an unscheduled time")
	}
	if !s.shouldRun(time.Date(2025, 8, 12, 19, 0, 0, 0, time.UTC)) {
		t.Error("expected a run at the second scheduled time")
	}
	if !s.shouldRun(time.Date(2025, 8, 13, 7, 0, 0, 0, time.UTC)) {
		t.Error("expected the next day to trigger again")
	}
}

func TestNewScheduler_RequiresScheduleTimes(t *testing.T) {
	if _, err := New(Config{WorkerCount: 1}); err == nil {
		t.Error("expected an error with no schedule times")
	}
	if _, err := New(Config{ScheduleTimes: []string{"25:00"}, WorkerCount: 1}); err == nil {
		t.Error("expected an error with an invalid schedule time")
	}
}

// testJob counts executions and optionally fails
type testJob struct {
	name     string
	executed *atomic.Int64
	fail     bool
	done     *sync.WaitGroup
}

func (j *testJob) Execute(ctx context.Context) error {
	defer j.done.Done()
	j.executed.Add(1)
	if j.fail {
		return errors.New("job failed")
	}
	return nil
}

func (j *testJob) Name() string        { return j.name }
func (j *testJob) Description() string { return "test job " + j.name }

func TestWorkerPool_ProcessesJobs(t *testing.T) {
	pool := NewWorkerPool(3, 0, 10)
	pool.Start()

	var executed atomic.Int64
	var done sync.WaitGroup
	done.Add(5)
	for i := 0; i < 5; i++ {
		job := &testJob{name: "j", executed: &executed, done: &done}
		if err := pool.Submit(job); err != nil {
			t.Fatalf("submitting job %d: %v", i, err)
		}
	}

	done.Wait()
	pool.Shutdown()

	if got := executed.Load(); got != 5 {
		t.Errorf("expected 5 executions, got %d", got)
	}
}

func TestWorkerPool_FailedJobDoesNotStopWorkers(t *testing.T) {
	pool := NewWorkerPool(1, 0, 10)
	pool.Start()

	var executed atomic.Int64
	var done sync.WaitGroup
	done.Add(2)
	if err := pool.Submit(&testJob{name: "bad", executed: &executed, fail: true, done: &done}); err != nil {
		t.Fatalf("submitting failing job: %v", err)
	}
	if err := pool.Submit(&testJob{name: "good", executed: &executed, done: &done}); err != nil {
		t.Fatalf("submitting second job: %v", err)
	}

	done.Wait()
	pool.Shutdown()

	if got := executed.Load(); got != 2 {
		t.Errorf("expected both jobs to run, got %d", got)
	}
}

func TestWorkerPool_FullQueueRejectsJob(t *testing.T) {
	// No workers started, so the queue fills up
	pool := NewWorkerPool(1, 0, 1)

	var executed atomic.Int64
	var done sync.WaitGroup
	done.Add(1)
	if err := pool.Submit(&testJob{name: "first", executed: &executed, done: &done}); err != nil {
		t.Fatalf("submitting first job: %v", err)
	}
	if err := pool.Submit(&testJob{name: "second", executed: &executed, done: &done}); err == nil {
		t.Error("expected an error when the queue is full")
	}
}
