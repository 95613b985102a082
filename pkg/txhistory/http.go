package txhistory

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/kitswap/dex-middleware/pkg/app/errors"
	apphttp "github.com/kitswap/dex-middleware/pkg/app/http"
	"github.com/kitswap/dex-middleware/pkg/tx"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers transaction history endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Get("/transactions", apphttp.HandleError(h.list))
	r.Post("/transactions", apphttp.HandleError(h.record))
}

type listResponse struct {
	Success bool         `json:"success"`
	Data    []*tx.Record `json:"data"`
}

type recordResponse struct {
	Success bool       `json:"success"`
	Data    *tx.Record `json:"data"`
}

func (h *HTTP) list(w http.ResponseWriter, r *http.Request) error {
	address := r.URL.Query().Get("address")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.BadRequestError(err, "limit must be an integer")
		}
		limit = parsed
	}

	records, err := h.service.List(r.Context(), address, limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*tx.Record{}
	}

	apphttp.WriteJSON(w, http.StatusOK, &listResponse{Success: true, Data: records})
	return nil
}

func (h *HTTP) record(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	var rec tx.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}

	stored, err := h.service.Record(r.Context(), &rec)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, &recordResponse{Success: true, Data: stored})
	return nil
}
