package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/result"
	"github.com/rushteam/triagekit/triage"
)

// BatchResponse 是 /predict/batch 的输出，results 与请求顺序一致
type BatchResponse struct {
	Results []result.Response `json:"results"`
}

func (s *Server) handlePredict(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return core.NewMalformedInput(err, "read request body")
	}
	req, err := triage.DecodeRequest(body)
	if err != nil {
		return err
	}
	if req.ID == "" {
		req.ID = requestID(c)
	}
	resp, err := s.engine.Predict(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePredictBatch(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return core.NewMalformedInput(err, "read request body")
	}
	reqs, err := triage.DecodeBatch(body)
	if err != nil {
		return err
	}
	out, err := s.engine.PredictBatch(c.Request().Context(), reqs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BatchResponse{Results: out})
}

func (s *Server) handleSymptoms(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.Symptoms())
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.Health())
}

// StatusOf 把错误映射为 HTTP 状态码：请求格式错误为 400，其余为 500
func StatusOf(err error) int {
	var he *echo.HTTPError
	switch {
	case core.IsMalformedInput(err), core.IsVitalsMissing(err):
		return http.StatusBadRequest
	case errors.As(err, &he):
		return he.Code
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler 统一输出 {"error": "<message>"}
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := StatusOf(err)
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("request_id", requestID(c)).Msg("request failed")
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, result.Error{Error: msg})
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("write error response")
	}
}
