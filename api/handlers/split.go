package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/opencaselist/blocksearch/config"
	"github.com/opencaselist/blocksearch/logger"
	"github.com/opencaselist/blocksearch/services/split"
	"github.com/opencaselist/blocksearch/validation"
)

type SplitRequest struct {
	Input             string `json:"input" validate:"required,valid_path"`
	OutputDir         string `json:"output_dir" validate:"required"`
	Level             int    `json:"level" validate:"min=1,max=9"`
	Template          string `json:"template" validate:"valid_path"`
	Zip               bool   `json:"zip"`
	PreserveHierarchy bool   `json:"preserve_hierarchy"`
}

type SplitUpdateRequest struct {
	OutputDir string `json:"output_dir" validate:"required,valid_path"`
}

type SplitResponse struct {
	ID string `json:"id"`
}

type SplitStatusResponse struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

func SetupSplit(router *gin.Engine, logger logger.Logger, cfg *config.Config, service *split.Service, validator *validation.Validator) {
	router.POST("/split", handleSplit(service, logger, cfg, validator))
	router.POST("/split/update", handleSplitUpdate(service, logger, validator))
	router.GET("/split/status/:id", handleSplitStatus(service, logger))
}

func handleSplit(service *split.Service, logger logger.Logger, cfg *config.Config, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SplitRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected body params from split request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate split request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		template := request.Template
		if template == "" {
			template = cfg.GetTemplatePath()
		}

		params := split.Params{
			InputPath:         request.Input,
			OutputDir:         request.OutputDir,
			TemplatePath:      template,
			TargetLevel:       request.Level,
			CreateZip:         request.Zip,
			PreserveHierarchy: request.PreserveHierarchy,
		}

		requestID := uuid.New().String()
		if err := service.Split(params, requestID); err != nil {
			logger.Warn("could not start split", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusConflict, []string{err.Error()})
			return
		}

		writeResponse(c, SplitResponse{ID: requestID}, http.StatusAccepted, nil)
	}
}

// handleSplitUpdate re-runs an earlier split using the settings
// recorded alongside its output, picking up edits to the input file.
func handleSplitUpdate(service *split.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SplitUpdateRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected body params from split update request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate split update request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		requestID := uuid.New().String()
		if err := service.Update(request.OutputDir, requestID); err != nil {
			logger.Warn("could not start split update", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusConflict, []string{err.Error()})
			return
		}

		writeResponse(c, SplitResponse{ID: requestID}, http.StatusAccepted, nil)
	}
}

func handleSplitStatus(service *split.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Param("id")

		progress, err := service.GetStatus(requestID)
		if err != nil {
			logger.Warn("could not get split status", "request_id", requestID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
			return
		}

		statusResponse := SplitStatusResponse{ID: requestID, Progress: progress}

		switch {
		case progress == split.ProgressStatusFailed:
			writeResponse(c, statusResponse, http.StatusInternalServerError, []string{"split failed"})
		case progress < split.ProgressStatusComplete:
			writeResponse(c, statusResponse, http.StatusAccepted, nil)
		default:
			writeResponse(c, statusResponse, http.StatusOK, nil)
		}
	}
}
