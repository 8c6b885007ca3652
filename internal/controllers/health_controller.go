package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/sa03134/soomgo-competitor-tracker/internal/collector/interfaces"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

type HealthController struct {
	scheduler interfaces.SchedulerInterface
	entities  int
	startTime time.Time
}

type healthResponse struct {
	Status        string     `json:"status"`
	Uptime        string     `json:"uptime"`
	UptimeSeconds float64    `json:"uptime_seconds"`
	Entities      int        `json:"entities"`
	Running       bool       `json:"running"`
	Passes        int64      `json:"passes"`
	LastPassAt    *time.Time `json:"last_pass_at,omitempty"`
	NextPassAt    *time.Time `json:"next_pass_at,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	status := hc.scheduler.Status()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Entities:      hc.entities,
		Running:       status.Running,
		Passes:        status.Passes,
		LastPassAt:    optionalTime(status.LastPassAt),
		NextPassAt:    optionalTime(status.NextPassAt),
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

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(scheduler interfaces.SchedulerInterface, conf *structures.Config) *HealthController {
	return &HealthController{
		scheduler: scheduler,
		entities:  len(conf.Entities),
		startTime: time.Now(),
	}
}
