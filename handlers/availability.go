package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bookable/services/scheduling"
	"bookable/utils"
)

// AvailabilityHandler exposes the scheduling engine over HTTP.
type AvailabilityHandler struct {
	Engine scheduling.SchedulingEngine
}

func NewAvailabilityHandler(engine scheduling.SchedulingEngine) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine}
}

// GetAvailability returns the bookable start instants for a duration.
// Query params: duration (minutes, required), from/to (RFC3339, optional
// range override).
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil || duration <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid duration", "duration must be a positive number of minutes")
		return
	}

	override, err := parseRangeOverride(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid range", err.Error())
		return
	}

	times, err := h.Engine.ComputeAvailability(c.Request.Context(), duration, override)
	if err != nil {
		if errors.Is(err, scheduling.ErrConfigurationMissing) {
			utils.JSONError(c, http.StatusServiceUnavailable, "scheduling not configured", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability", err.Error())
		return
	}

	starts := make([]string, len(times))
	for i, t := range times {
		starts[i] = t.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, gin.H{"times": starts})
}

func parseRangeOverride(c *gin.Context) (*scheduling.DateRange, error) {
	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr == "" && toStr == "" {
		return nil, nil
	}
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		return nil, errors.New("from must be RFC3339")
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		return nil, errors.New("to must be RFC3339")
	}
	if to.Before(from) {
		return nil, errors.New("to must not precede from")
	}
	return &scheduling.DateRange{Start: from, End: to}, nil
}
