package api

import (
	"net/http"

	"github.com/phrazzld/inbox-ai/internal/api/shared"
	"github.com/phrazzld/inbox-ai/internal/platform/logger"
	"github.com/phrazzld/inbox-ai/internal/service"
	"github.com/phrazzld/inbox-ai/internal/task"
)

// OperationHandler serves the operation endpoints.
type OperationHandler struct {
	operations service.OperationService
}

// NewOperationHandler creates an OperationHandler.
func NewOperationHandler(operations service.OperationService) *OperationHandler {
	return &OperationHandler{operations: operations}
}

// Submit handles POST /api/operations.
func (h *OperationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitOperationRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	op, err := req.toOperation()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	id, err := h.operations.Submit(r.Context(), op)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("operation accepted",
		"operation_id", id,
		"operation_type", op.Type.TypeName(),
		"priority", op.Priority.String())

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitOperationResponse{
		ID:    id,
		State: task.StateQueued,
	})
}

// Cancel handles DELETE /api/operations/{id}.
func (h *OperationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CancelOperationResponse{
		ID:        id,
		Cancelled: h.operations.Cancel(r.Context(), id),
	})
}

// Status handles GET /api/operations/{id}.
func (h *OperationHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	status, err := h.operations.Status(r.Context(), id)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newOperationStatusResponse(id, status))
}

// Result handles GET /api/operations/{id}/result.
func (h *OperationHandler) Result(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	rec, err := h.operations.Result(r.Context(), id)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newOperationResultResponse(rec))
}

// RecentResults handles GET /api/operations/results.
func (h *OperationHandler) RecentResults(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	records, err := h.operations.RecentResults(r.Context(), limit)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	resp := OperationResultsResponse{Results: make([]OperationResultResponse, 0, len(records))}
	for _, rec := range records {
		resp.Results = append(resp.Results, newOperationResultResponse(rec))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Stats handles GET /api/stats.
func (h *OperationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, newStatsResponse(h.operations.Stats(r.Context())))
}
