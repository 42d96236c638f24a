package controllers

import (
	"fmt"
	"ghstats/internal/statistic/interfaces"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	scheduler interfaces.SchedulerInterface
	store     interfaces.BlobStore
	startTime time.Time
}

type healthResponse struct {
	Status         string  `json:"status"`
	Uptime         string  `json:"uptime"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	SnapshotDriver string  `json:"snapshot_driver"`
	LastSweepKept  *int    `json:"last_sweep_kept"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:         "ok",
		Uptime:         formatDuration(uptime),
		UptimeSeconds:  uptime.Seconds(),
		SnapshotDriver: hc.store.Name(),
	}
	if kept := hc.scheduler.LastSweep(); kept >= 0 {
		resp.LastSweepKept = &kept
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(scheduler interfaces.SchedulerInterface, store interfaces.BlobStore) *HealthController {
	return &HealthController{
		scheduler: scheduler,
		store:     store,
		startTime: time.Now(),
	}
}
