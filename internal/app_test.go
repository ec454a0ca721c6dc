package internal

import (
	"net/http"
	"net/http/httptest"
	"reactbot/internal/controllers"
	"reactbot/internal/structures"
	"reactbot/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
)

type appTestGuilds int

func (g appTestGuilds) GuildCount() int { return int(g) }

func TestNewMux_InstrumentsAPIRoutes(t *testing.T) {
	activity := &routeTestActivity{}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	sc := controllers.NewStatsController(logger, activity, testutil.NewMockCache())
	hc := controllers.NewHealthController(appTestGuilds(2), activity)

	mux := NewMux(hc, &structures.Config{}, logger, InitRoutes(sc), metrics)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/stats/dau", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, logger.Count("debug"))

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"guilds":2`)
	assert.Equal(t, 1, logger.Count("debug"))

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
