package handler

import (
	"encoding/json"
	"net/http"

	"tdms/internal/submissions/service"
	httputil "tdms/pkg/http"
	"tdms/pkg/logger"
	"tdms/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SubmissionHandler struct {
	service  service.SubmissionService
	log      *logger.Logger
	maxLimit int
}

func NewSubmissionHandler(service service.SubmissionService, log *logger.Logger, maxLimit int) *SubmissionHandler {
	return &SubmissionHandler{
		service:  service,
		log:      log,
		maxLimit: maxLimit,
	}
}

func (h *SubmissionHandler) Finalize(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	key, err := httputil.ExtractPeriod(ps)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Finalize", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var req model.FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Finalize", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	submission, err := h.service.Finalize(r.Context(), ownerID, key, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Finalize", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, submission); err != nil {
		h.log.Error("failed to write created response", "handler", "Finalize", "operation", "WriteCreated", "error", err)
	}
}

func (h *SubmissionHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	submission, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, submission); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SubmissionHandler) GetByPeriod(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	key, err := httputil.ExtractPeriod(ps)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByPeriod", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	submission, err := h.service.GetByPeriod(r.Context(), ownerID, key)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByPeriod", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, submission); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByPeriod", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := ps.ByName("ownerId")

	limit, offset, err := httputil.ExtractLimitOffset(r, h.maxLimit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	submissions, total, err := h.service.List(r.Context(), ownerID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, submissions, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *SubmissionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/owners/:ownerId/submissions/:year/:month", h.Finalize)
	router.GET("/api/v1/owners/:ownerId/submissions", h.List)
	router.GET("/api/v1/owners/:ownerId/submissions/:year/:month", h.GetByPeriod)
	router.GET("/api/v1/submissions/id/:id", h.GetByID)
}
