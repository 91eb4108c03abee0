// Package lambdafn serves the optimizer API from an AWS Lambda function URL
package lambdafn

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/napolitain/solver-oasis/internal/api"
	"github.com/napolitain/solver-oasis/internal/converter"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// Handler routes function URL events to the service
type Handler struct {
	svc     *api.Service
	logger  *zap.Logger
	timeout time.Duration
}

// New creates a handler. A zero timeout leaves only the Lambda deadline.
func New(svc *api.Service, logger *zap.Logger, timeout time.Duration) *Handler {
	return &Handler{svc: svc, logger: logger, timeout: timeout}
}

// Handle answers one function URL invocation
func (h *Handler) Handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	method := event.RequestContext.HTTP.Method
	path := strings.TrimSuffix(event.RawPath, "/")

	h.logger.Debug("invocation", zap.String("method", method), zap.String("path", path))

	switch {
	case method == http.MethodGet && path == "/healthz":
		return jsonResp(http.StatusOK, map[string]string{"status": "ok"})
	case method == http.MethodGet && path == "/roster":
		return jsonResp(http.StatusOK, h.svc.Roster())
	case method == http.MethodGet && path == "/oasis":
		return jsonResp(http.StatusOK, h.svc.Oasis())
	case method == http.MethodPost && path == "/oasis/parse":
		var in converter.ParseOasisRequest
		if resp, ok := decodeBody(event, &in); !ok {
			return resp, nil
		}
		return jsonResp(http.StatusOK, h.svc.ParseOasis(in))
	case method == http.MethodPost && (path == "/optimize" || path == ""):
		return h.optimize(ctx, event)
	default:
		return errResp(http.StatusNotFound, "no route for "+method+" "+event.RawPath)
	}
}

func (h *Handler) optimize(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	var in converter.OptimizeRequest
	if resp, ok := decodeBody(event, &in); !ok {
		return resp, nil
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := h.svc.Optimize(ctx, in)
	if err != nil {
		status, body := api.ErrorStatus(err)
		h.logger.Warn("optimize failed", zap.Int("status", status), zap.Error(err))
		return jsonResp(status, body)
	}

	h.logger.Info("optimized",
		zap.String("tribe", in.Tribe),
		zap.Int("evaluations", out.Evaluations),
		zap.Duration("elapsed", time.Since(start)),
	)
	return jsonResp(http.StatusOK, out)
}

// decodeBody unmarshals the (possibly base64) body into out. On failure the
// returned response is ready to send.
func decodeBody(event events.LambdaFunctionURLRequest, out any) (events.LambdaFunctionURLResponse, bool) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			resp, _ := errResp(http.StatusBadRequest, "invalid base64 body")
			return resp, false
		}
		body = string(decoded)
	}

	if err := json.Unmarshal([]byte(body), out); err != nil {
		resp, _ := errResp(http.StatusBadRequest, "invalid JSON: "+err.Error())
		return resp, false
	}
	return events.LambdaFunctionURLResponse{}, true
}

func jsonResp(code int, v any) (events.LambdaFunctionURLResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return errResp(http.StatusInternalServerError, err.Error())
	}
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(converter.ErrorResponse{Error: msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
