package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleamind/cropplanner/models"
)

func newPlanningRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := PlanningHandlers{}
	router.POST("/period", h.OptimizePeriod)
	router.POST("/allocation", h.OptimizeAllocation)
	router.POST("/adjust", h.AdjustAllocation)
	return router
}

func constantTemperatureProfile() models.TemperatureProfile {
	return models.TemperatureProfile{BaseT: 10, OptimalMin: 15, OptimalMax: 25, MaxT: 35}
}

func weatherDays(start string, days int, temp float64) models.WeatherSeries {
	d, _ := models.ParseDateOnly(start)
	var out []models.WeatherDay
	for i := 0; i < days; i++ {
		out = append(out, models.WeatherDay{Date: d.AddDays(i), TempMean: temp})
	}
	return models.WeatherSeries{Days: out}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOptimizePeriod_ReturnsOKForFeasibleRequest(t *testing.T) {
	router := newPlanningRouter()
	windowStart, _ := models.ParseDateOnly("2026-03-01")
	windowEnd, _ := models.ParseDateOnly("2026-05-29")

	req := periodRequest{
		Field:   models.Field{ID: "f1", AreaSqMeters: 1000},
		Profile: models.CropProfile{Crop: models.Crop{ID: "c1", AreaPerUnit: 1}, Stages: []models.StageRequirement{{Name: "only", Order: 1, RequiredGDD: 60, Temperature: constantTemperatureProfile()}}},
		Weather: weatherDays("2026-03-01", 90, 20),
		WindowStart: windowStart, WindowEnd: windowEnd, AreaUsed: 100,
	}

	w := postJSON(t, router, "/period", req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptimizePeriod_RejectsMalformedJSON(t *testing.T) {
	router := newPlanningRouter()
	r := httptest.NewRequest(http.MethodPost, "/period", bytes.NewReader([]byte("{not json")))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOptimizeAllocation_RejectsMissingWeatherAsBadRequest(t *testing.T) {
	router := newPlanningRouter()
	windowStart, _ := models.ParseDateOnly("2026-03-01")
	windowEnd, _ := models.ParseDateOnly("2027-01-01") // far beyond weather coverage

	req := allocationRequest{
		Fields:   []models.Field{{ID: "f1", AreaSqMeters: 1000}},
		Profiles: []models.CropProfile{{Crop: models.Crop{ID: "c1", AreaPerUnit: 1}, Stages: []models.StageRequirement{{Name: "only", Order: 1, RequiredGDD: 60, Temperature: constantTemperatureProfile()}}}},
		Weather:     weatherDays("2026-03-01", 90, 20),
		WindowStart: windowStart, WindowEnd: windowEnd,
		Config: models.DefaultAlgorithmConfig(),
	}

	w := postJSON(t, router, "/allocation", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustAllocation_RejectsUnknownAllocationGracefully(t *testing.T) {
	router := newPlanningRouter()
	windowStart, _ := models.ParseDateOnly("2026-03-01")
	windowEnd, _ := models.ParseDateOnly("2026-05-29")

	req := adjustRequest{
		allocationRequest: allocationRequest{
			Fields:   []models.Field{{ID: "f1", AreaSqMeters: 1000}},
			Profiles: []models.CropProfile{{Crop: models.Crop{ID: "c1", AreaPerUnit: 1}, Stages: []models.StageRequirement{{Name: "only", Order: 1, RequiredGDD: 60, Temperature: constantTemperatureProfile()}}}},
			Weather:     weatherDays("2026-03-01", 90, 20),
			WindowStart: windowStart, WindowEnd: windowEnd,
			Config: models.DefaultAlgorithmConfig(),
		},
		CurrentPlan: models.Plan{},
		Moves:       []models.MoveInstruction{{Action: models.MoveActionRemove, AllocationID: "does-not-exist"}},
	}

	w := postJSON(t, router, "/adjust", req)
	assert.Equal(t, http.StatusOK, w.Code)
}
