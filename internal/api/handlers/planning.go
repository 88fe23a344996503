package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oleamind/cropplanner/internal/engine"
	"github.com/oleamind/cropplanner/internal/planerr"
	"github.com/oleamind/cropplanner/models"
)

// PlanningHandlers exposes the three core engine operations over HTTP. It
// holds no state of its own: every request carries its own problem
// instance, matching the engine's I/O-free contract.
type PlanningHandlers struct{}

type periodRequest struct {
	Field       models.Field       `json:"field"`
	Profile     models.CropProfile `json:"profile"`
	Weather     models.WeatherSeries `json:"weather"`
	WindowStart models.DateOnly    `json:"window_start"`
	WindowEnd   models.DateOnly    `json:"window_end"`
	AreaUsed    float64            `json:"area_used"`
	Config      models.AlgorithmConfig `json:"config"`
}

// OptimizePeriod handles the first core operation: best cultivation period
// for one (field, crop) pair.
func (PlanningHandlers) OptimizePeriod(c *gin.Context) {
	var req periodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg := req.Config
	if cfg.TopPeriodCandidates == 0 {
		cfg = models.DefaultAlgorithmConfig()
	}
	result, err := engine.OptimizePeriodOp(req.Field, req.Profile, req.Weather, req.WindowStart, req.WindowEnd, req.AreaUsed, cfg)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type allocationRequest struct {
	Fields      []models.Field          `json:"fields"`
	Profiles    []models.CropProfile    `json:"profiles"`
	Weather     models.WeatherSeries    `json:"weather"`
	Rules       []models.InteractionRule `json:"interaction_rules"`
	WindowStart models.DateOnly         `json:"window_start"`
	WindowEnd   models.DateOnly         `json:"window_end"`
	Config      models.AlgorithmConfig  `json:"config"`
}

func (r allocationRequest) toInstance() engine.ProblemInstance {
	return engine.ProblemInstance{
		Fields: r.Fields, Profiles: r.Profiles, Weather: r.Weather, Rules: r.Rules,
		WindowStart: r.WindowStart, WindowEnd: r.WindowEnd,
	}
}

// OptimizeAllocation handles the second core operation: a full multi-field
// plan.
func (PlanningHandlers) OptimizeAllocation(c *gin.Context) {
	var req allocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan, err := engine.OptimizeAllocation(c.Request.Context(), req.toInstance(), req.Config)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type adjustRequest struct {
	allocationRequest
	CurrentPlan models.Plan             `json:"current_plan"`
	Moves       []models.MoveInstruction `json:"moves"`
}

// AdjustAllocation handles the third core operation: applying move/remove/add
// directives against an existing plan.
func (PlanningHandlers) AdjustAllocation(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := engine.AdjustAllocation(c.Request.Context(), req.CurrentPlan, req.Moves, req.toInstance(), req.Config)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeError maps the closed planerr kinds onto HTTP status codes so
// callers can distinguish "bad input" from "internal failure".
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch planerr.KindOf(err) {
	case planerr.ErrInvalidInput, planerr.ErrMissingWeather:
		status = http.StatusBadRequest
	case planerr.ErrInfeasible, planerr.ErrInvariantViolation, planerr.ErrConstraintViolation:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
