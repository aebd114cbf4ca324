package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-insight-studio/internal/config"
	apperrors "go-insight-studio/internal/errors"
	"go-insight-studio/internal/logger"
	"go-insight-studio/internal/observer"
	"go-insight-studio/internal/predictor"
	"go-insight-studio/internal/report"
	"go-insight-studio/internal/repository"
	"go-insight-studio/internal/service"
	"go-insight-studio/internal/session"
	"go-insight-studio/internal/storage"
	"go-insight-studio/pkg/models"
	"go-insight-studio/pkg/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReportLocationHeader carries where a downloaded report was archived
const ReportLocationHeader = "X-Report-Location"

// Dependencies are the components the HTTP surface drives
type Dependencies struct {
	Sessions    repository.SessionRepository
	Predictions service.PredictionService
	Images      *validation.ImageValidator
	Reports     storage.ReportStore
	Metrics     *observer.MetricsObserver
}

type handler struct {
	Dependencies
}

func NewHandler(deps Dependencies, cfg *config.Config) http.Handler {
	h := &handler{Dependencies: deps}

	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestLogger(),
		cors.New(cors.Config{
			AllowOrigins:  cfg.CORSAllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Disposition", ReportLocationHeader},
			MaxAge:        12 * time.Hour,
		}),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/metrics", h.metrics)

	api := r.Group("/api/sessions")
	api.POST("", h.createSession)
	api.GET("/:id", h.getSession)
	api.DELETE("/:id", h.deleteSession)
	api.PUT("/:id/metrics/:field", h.updateField)
	api.PUT("/:id/image", h.uploadImage)
	api.GET("/:id/image", h.getImage)
	api.DELETE("/:id/image", h.clearImage)
	api.POST("/:id/predict", h.predict)
	api.POST("/:id/reset", h.reset)
	api.GET("/:id/report", h.downloadReport)

	return r
}

func (h *handler) createSession(c *gin.Context) {
	s, err := h.Sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to create session", err))
		return
	}
	logger.WithFields(logrus.Fields{"session_id": s.ID}).Debug("Session created")
	c.JSON(http.StatusCreated, s.Response())
}

func (h *handler) getSession(c *gin.Context) {
	s, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, sessionError(err))
		return
	}
	c.JSON(http.StatusOK, s.Response())
}

func (h *handler) deleteSession(c *gin.Context) {
	if err := h.Sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, sessionError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) updateField(c *gin.Context) {
	var req models.FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, requestError("invalid request format", err))
		return
	}

	field := c.Param("field")
	if !models.IsClinicalField(field) {
		respondError(c, apperrors.NewNotFoundError(fmt.Sprintf("Unknown clinical field %q", field), nil))
		return
	}
	h.update(c, func(s session.State) (session.State, error) {
		return s.SetField(field, req.Value)
	})
}

func (h *handler) uploadImage(c *gin.Context) {
	fh, err := c.FormFile(predictor.ImageFieldName)
	if err != nil {
		respondError(c, requestError(fmt.Sprintf("multipart field %q is required", predictor.ImageFieldName), err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to open upload", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, requestError("failed to read upload", err))
		return
	}

	upload, err := h.Images.ValidateUpload(fh.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"session_id":   c.Param("id"),
		"filename":     upload.Filename,
		"content_type": upload.ContentType,
		"size":         upload.Size,
	}).Debug("Scan selected")

	h.update(c, func(s session.State) (session.State, error) {
		return s.SelectImage(upload), nil
	})
}

// getImage serves the selected scan as uploaded
func (h *handler) getImage(c *gin.Context) {
	s, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, sessionError(err))
		return
	}
	if s.Image == nil {
		respondError(c, apperrors.NewNotFoundError("No scan selected", nil))
		return
	}
	c.Data(http.StatusOK, s.Image.ContentType, s.Image.Data)
}

func (h *handler) clearImage(c *gin.Context) {
	h.update(c, func(s session.State) (session.State, error) {
		return s.ClearImage(), nil
	})
}

func (h *handler) reset(c *gin.Context) {
	h.update(c, func(s session.State) (session.State, error) {
		return s.Reset(), nil
	})
}

// predict validates the current form, marks the session loading, runs the
// planned requests and applies their outcome to the session.
func (h *handler) predict(c *gin.Context) {
	id := c.Param("id")

	var (
		plan    *service.Plan
		planErr error
	)
	running, err := h.Sessions.Update(c.Request.Context(), id, func(s session.State) (session.State, error) {
		if s.Loading {
			return s, apperrors.NewConflictError("A prediction is already running", nil)
		}
		plan, planErr = h.Predictions.Prepare(service.Submission{
			SessionID: s.ID,
			Metrics:   s.Metrics,
			Image:     s.Image,
			Preview:   s.Preview,
		})
		if planErr != nil {
			if apperrors.IsType(planErr, apperrors.ErrorTypeValidation) {
				return s.RejectRun(plan.Validation), nil
			}
			return s, planErr
		}
		return s.BeginRun(plan.Validation)
	})
	if err != nil {
		respondError(c, sessionError(err))
		return
	}
	if planErr != nil {
		respondError(c, planErr)
		return
	}

	run := running.Run
	logger.WithFields(logrus.Fields{
		"session_id": id,
		"run":        run,
		"models":     plan.Models(),
	}).Info("Processing prediction request")

	// The run is not tied to the browser connection.
	outcome, execErr := h.Predictions.Execute(context.WithoutCancel(c.Request.Context()), plan)

	final, err := h.Sessions.Update(context.Background(), id, func(s session.State) (session.State, error) {
		if execErr != nil {
			return s.FailRun(run, apperrors.UserMessage(execErr)), nil
		}
		return s.CompleteRun(run, runInputs(plan), outcome.CSVResult, outcome.CNNResult), nil
	})
	if execErr != nil {
		respondError(c, execErr)
		return
	}
	if err != nil {
		respondError(c, sessionError(err))
		return
	}
	c.JSON(http.StatusOK, final.Response())
}

func (h *handler) downloadReport(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	s, err := h.Sessions.Get(ctx, id)
	if err != nil {
		respondError(c, sessionError(err))
		return
	}

	rep, err := report.Build(s.ID, s.Submitted.Payload, s.Submitted.ScanName, s.CSVResult, s.CNNResult, time.Now())
	if errors.Is(err, report.ErrNoResults) {
		respondError(c, apperrors.NewValidationError("Run a prediction before downloading a report", err))
		return
	}
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to build report", err))
		return
	}

	data, err := rep.JSON()
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to encode report", err))
		return
	}

	name := rep.FileName()
	location, err := h.Reports.SaveReport(ctx, name, data)
	if err != nil {
		// The download still succeeds when archiving fails.
		logger.WithError(err).WithFields(logrus.Fields{
			"session_id": id,
			"store":      h.Reports.Name(),
			"report":     name,
		}).Warn("Failed to archive report")
	} else if location != "" {
		c.Header(ReportLocationHeader, location)
	}

	if _, err := h.Sessions.Update(ctx, id, func(s session.State) (session.State, error) {
		return s.WithNotice(session.NoticeReportReady), nil
	}); err != nil {
		logger.WithError(err).WithField("session_id", id).Warn("Failed to record report notice")
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", data)
}

func (h *handler) metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.Metrics.GetMetrics())
}

func (h *handler) update(c *gin.Context, fn func(session.State) (session.State, error)) {
	s, err := h.Sessions.Update(c.Request.Context(), c.Param("id"), fn)
	if err != nil {
		respondError(c, sessionError(err))
		return
	}
	c.JSON(http.StatusOK, s.Response())
}

func runInputs(plan *service.Plan) session.RunInputs {
	inputs := session.RunInputs{Payload: plan.Payload}
	if plan.Image != nil {
		inputs.ScanName = plan.Image.Filename
	}
	return inputs
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// sessionError maps repository lookups to the error taxonomy
func sessionError(err error) error {
	if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrInvalidSessionID) {
		return apperrors.NewNotFoundError("Session not found", err)
	}
	return err
}

func requestError(message string, err error) *apperrors.AppError {
	appErr := apperrors.NewValidationError(message, err)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		appErr.Message = fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
		appErr.StatusCode = http.StatusRequestEntityTooLarge
	}
	return appErr
}
