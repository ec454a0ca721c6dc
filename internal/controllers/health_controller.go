package controllers

import (
	"fmt"
	"net/http"
	"reactbot/internal/services"
	"time"

	json "github.com/goccy/go-json"
)

// GuildCounter reports how many guilds the bot is connected to.
type GuildCounter interface {
	GuildCount() int
}

type HealthController struct {
	guilds    GuildCounter
	activity  services.ActivityServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Guilds        int     `json:"guilds"`
	ActiveToday   int     `json:"active_today"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Guilds:        hc.guilds.GuildCount(),
		ActiveToday:   hc.activity.TodayActiveUsers(),
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

func NewHealthController(guilds GuildCounter, activity services.ActivityServiceInterface) *HealthController {
	return &HealthController{
		guilds:    guilds,
		activity:  activity,
		startTime: time.Now(),
	}
}
