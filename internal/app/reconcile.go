package app

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/shrimpsizemoose/trekker/logger"
)

// Reconciler is the repair pass the job runs: rebuild the denormalized
// student result maps and report how many students were touched.
type Reconciler interface {
	Reconcile() (int, error)
}

// ReconcileJob runs the repair pass on a cron schedule. The best-effort
// two-step result writes leave stale student references behind crashes,
// so a standing schedule keeps that window bounded.
type ReconcileJob struct {
	scheduler  *gocron.Scheduler
	reconciler Reconciler
}

func NewReconcileJob(schedule string, reconciler Reconciler) (*ReconcileJob, error) {
	scheduler := gocron.NewScheduler(time.UTC)

	job := &ReconcileJob{
		scheduler:  scheduler,
		reconciler: reconciler,
	}

	if _, err := scheduler.Cron(schedule).Do(job.run); err != nil {
		return nil, fmt.Errorf("failed to schedule reconcile: %w", err)
	}

	scheduler.StartAsync()
	return job, nil
}

func (j *ReconcileJob) run() {
	fixed, err := j.reconciler.Reconcile()
	if err != nil {
		logger.Error.Printf("Scheduled reconcile failed after fixing %d students: %v", fixed, err)
		return
	}
	logger.Info.Printf("Scheduled reconcile done, %d students repaired", fixed)
}

func (j *ReconcileJob) Stop() {
	j.scheduler.Stop()
}
