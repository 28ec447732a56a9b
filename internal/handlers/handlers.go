package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"memehub/internal/engine"
	"memehub/internal/utils"
	"memehub/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Server holds all handler dependencies
type Server struct {
	Engine         *engine.Engine
	Hub            *websocket.Hub
	Metrics        *utils.MetricsCollector
	Logger         *zap.Logger
	RequestTimeout time.Duration
	AllowedOrigins []string

	validate *validator.Validate
	now      func() time.Time
}

// NewServer creates a new Server instance with the given components. hub and
// metrics may be nil.
func NewServer(eng *engine.Engine, hub *websocket.Hub, metrics *utils.MetricsCollector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Engine:         eng,
		Hub:            hub,
		Metrics:        metrics,
		Logger:         logger,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
		AllowedOrigins: []string{"*"},
		validate:       newValidator(),
		now:            time.Now,
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.Logger.Warn("failed to encode response", zap.Error(err))
	}
}

// respondError maps an error to its HTTP status. Anything that is not an
// AppError is reported as an internal error without leaking details.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		appErr = utils.NewAppError(utils.ErrInternal, "internal error", err)
	}
	status := utils.AppErrorToHTTPStatus(appErr.Code)
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", zap.String("code", appErr.Code), zap.Error(err))
	} else if appErr.Origin != nil {
		message = appErr.Error()
	}
	s.respondJSON(w, status, errorResponse{Error: message, Code: appErr.Code})
}

// decode reads a JSON body into dst and runs its validate tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return utils.NewInvalidInputError("malformed JSON body")
	}
	if err := s.validate.Struct(dst); err != nil {
		return utils.NewInvalidInputError(formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

// queryLimit parses ?limit=; absent means def, anything else must be a
// positive integer.
func queryLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, utils.NewInvalidInputError("limit must be a positive integer")
	}
	return limit, nil
}

// ask sends msg to pid and waits up to RequestTimeout for the reply.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	return s.Engine.Request(pid, msg, s.RequestTimeout)
}
