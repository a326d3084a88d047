package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tdms/internal/occupancy/service"
	apperrors "tdms/pkg/errors"
	httputil "tdms/pkg/http"
	"tdms/pkg/logger"
	"tdms/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type OccupancyHandler struct {
	service service.LedgerService
	log     *logger.Logger
}

func NewOccupancyHandler(service service.LedgerService, log *logger.Logger) *OccupancyHandler {
	return &OccupancyHandler{
		service: service,
		log:     log,
	}
}

// MonthResponse is the draft view the grid renders: the raw records plus
// the derived per-day totals.
type MonthResponse struct {
	Year    int                     `json:"year"`
	Month   int                     `json:"month"`
	Records []model.OccupancyRecord `json:"records"`
	Days    []model.DayTotals       `json:"days"`
}

func (h *OccupancyHandler) CreateStay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	var stay model.Stay
	if err := json.NewDecoder(r.Body).Decode(&stay); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateStay", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	created, err := h.service.CreateStay(r.Context(), ownerID, &stay)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateStay", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateStay", "operation", "WriteCreated", "error", err)
	}
}

func (h *OccupancyHandler) UpdateStay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")
	stayID := ps.ByName("stayId")

	var update model.StayUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStay", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	updated, err := h.service.UpdateStay(r.Context(), ownerID, stayID, &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStay", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStay", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OccupancyHandler) RemoveStay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")
	stayID := ps.ByName("stayId")

	if err := h.service.RemoveStay(r.Context(), ownerID, stayID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RemoveStay", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *OccupancyHandler) GetMonth(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	key, err := httputil.ExtractPeriod(ps)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetMonth", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	records, days, err := h.service.GetMonth(r.Context(), ownerID, key)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetMonth", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, MonthResponse{
		Year:    key.Year,
		Month:   key.Month,
		Records: records,
		Days:    days,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetMonth", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OccupancyHandler) GetStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	key, err := httputil.ExtractPeriod(ps)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetStats", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	roomCount, err := strconv.Atoi(r.URL.Query().Get("rooms"))
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'rooms' query parameter is required and must be a number")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetStats", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	stats, err := h.service.GetMonthlyStats(r.Context(), ownerID, key, roomCount)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetStats", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "GetStats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OccupancyHandler) ListPeriods(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	keys, err := h.service.ListPeriods(r.Context(), ownerID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListPeriods", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, keys); err != nil {
		h.log.Error("failed to write success response", "handler", "ListPeriods", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OccupancyHandler) SyncStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	if err := httputil.WriteSuccess(w, h.service.SyncStatus(ownerID)); err != nil {
		h.log.Error("failed to write success response", "handler", "SyncStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OccupancyHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/owners/:ownerId/stays", h.CreateStay)
	router.PATCH("/api/v1/owners/:ownerId/stays/:stayId", h.UpdateStay)
	router.DELETE("/api/v1/owners/:ownerId/stays/:stayId", h.RemoveStay)
	router.GET("/api/v1/owners/:ownerId/drafts", h.ListPeriods)
	router.GET("/api/v1/owners/:ownerId/drafts/:year/:month", h.GetMonth)
	router.GET("/api/v1/owners/:ownerId/drafts/:year/:month/stats", h.GetStats)
	router.GET("/api/v1/owners/:ownerId/sync-status", h.SyncStatus)
}
