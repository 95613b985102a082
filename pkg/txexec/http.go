package txexec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/kitswap/dex-middleware/pkg/app/errors"
	apphttp "github.com/kitswap/dex-middleware/pkg/app/http"
	"github.com/kitswap/dex-middleware/pkg/chain"
)

// HTTP wraps the Executor to provide HTTP endpoints
type HTTP struct {
	exec        Executor
	target      common.Address
	contractABI abi.ABI
	explorerURL string
	logger      *zap.Logger
}

// RegisterRoutes registers transaction execution endpoints on the given chi router
func RegisterRoutes(r chi.Router, exec Executor, target common.Address, contractABI abi.ABI, explorerURL string, logger *zap.Logger) {
	h := &HTTP{
		exec:        exec,
		target:      target,
		contractABI: contractABI,
		explorerURL: explorerURL,
		logger:      logger,
	}

	r.Post("/transactions/execute", apphttp.HandleError(h.execute))
	r.Get("/transactions/state", apphttp.HandleError(h.state))
}

type executeRequest struct {
	FunctionName string            `json:"functionName"`
	Args         []json.RawMessage `json:"args"`
	Value        string            `json:"value,omitempty"`
}

type executeResponse struct {
	Hash        string `json:"hash"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

type stateResponse struct {
	Status State  `json:"status"`
	Hash   string `json:"hash,omitempty"`
}

func (h *HTTP) execute(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	var req executeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	if req.FunctionName == "" {
		return apperrors.BadRequestError(nil, "functionName is required")
	}

	method, ok := h.contractABI.Methods[req.FunctionName]
	if !ok {
		return apperrors.BadRequestError(nil, fmt.Sprintf("unknown function %q", req.FunctionName))
	}

	args, err := coerceArgs(method, req.Args)
	if err != nil {
		return apperrors.BadRequestError(err, err.Error())
	}

	hash, err := h.exec.Execute(r.Context(), Request{
		Target:    h.target,
		ABI:       h.contractABI,
		Operation: req.FunctionName,
		Args:      args,
		Value:     req.Value,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotConnected):
			return apperrors.DependencyError(err, "no chain connection available")
		case errors.Is(err, ErrBroadcastFailed):
			return apperrors.DependencyError(err, "failed to broadcast transaction")
		case errors.Is(err, ErrConfirmationFailed):
			return apperrors.DependencyError(err, fmt.Sprintf("transaction %s failed on chain", hash))
		default:
			return apperrors.GeneralError(err)
		}
	}

	apphttp.WriteJSON(w, http.StatusOK, &executeResponse{
		Hash:        hash,
		ExplorerURL: chain.TxURL(h.explorerURL, hash),
	})
	return nil
}

func (h *HTTP) state(w http.ResponseWriter, _ *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, &stateResponse{
		Status: h.exec.State(),
		Hash:   h.exec.LastHash(),
	})
	return nil
}

// coerceArgs converts raw JSON arguments into the Go values the ABI
// encoder expects for the method's input types.
func coerceArgs(method abi.Method, raw []json.RawMessage) ([]any, error) {
	if len(raw) != len(method.Inputs) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", method.Name, len(method.Inputs), len(raw))
	}

	args := make([]any, len(raw))
	for i, input := range method.Inputs {
		arg, err := coerceArg(raw[i], input.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, input.Name, err)
		}
		args[i] = arg
	}
	return args, nil
}

func coerceArg(raw json.RawMessage, typ abi.Type) (any, error) {
	switch typ.T {
	case abi.AddressTy:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("expected address string: %w", err)
		}
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		return common.HexToAddress(s), nil

	case abi.UintTy, abi.IntTy:
		// Accept both "1000000000000000000" and bare JSON numbers.
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			var n json.Number
			if err := json.Unmarshal(raw, &n); err != nil {
				return nil, fmt.Errorf("expected integer string or number, got %s", raw)
			}
			s = n.String()
		}
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return v, nil

	case abi.BoolTy:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("expected boolean: %w", err)
		}
		return b, nil

	case abi.StringTy:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("expected string: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported argument type %s", typ.String())
	}
}
