// Reconcile walks every result document and rebuilds the denormalized
// results map on each student. The map is a best-effort projection kept
// by two-step writes, so crashes can leave it stale; this is the repair
// pass for those windows. With a [reconcile] schedule configured it runs
// as a standing cron job; -once (or an empty schedule) runs a single
// pass and exits.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/yms-edu/registrar/internal/app"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var once = flag.Bool("once", false, "Run a single reconcile pass and exit")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start service: %v", err)
	}
	defer service.Close()

	schedule := service.Config.Reconcile.Schedule
	if *once || schedule == "" {
		fixed, err := service.Results.Reconcile()
		if err != nil {
			logger.Error.Fatalf("Reconcile failed after fixing %d students: %v", fixed, err)
		}
		logger.Info.Printf("Reconcile done, %d students repaired", fixed)
		return
	}

	job, err := app.NewReconcileJob(schedule, service.Results)
	if err != nil {
		logger.Error.Fatalf("Failed to start reconcile job: %v", err)
	}
	defer job.Stop()

	logger.Info.Printf("Reconcile running on schedule %q", schedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info.Println("Reconcile stopping")
}
