package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/opencaselist/blocksearch/logger"
	"github.com/opencaselist/blocksearch/services/index"
	"github.com/opencaselist/blocksearch/validation"
)

type IndexRequest struct {
	Path           string   `json:"path" validate:"required,valid_path"`
	ExcludeFolders []string `json:"exclude_folders"`
}

type IndexResponse struct {
	ID string `json:"id"`
}

type IndexStatusResponse struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

func SetupIndex(router *gin.Engine, logger logger.Logger, service *index.Service, validator *validation.Validator) {
	router.POST("/index", handleCreateIndex(service, logger, validator))
	router.GET("/index/status/:id", handleIndexStatus(service, logger))
}

func handleCreateIndex(service *index.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := IndexRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected body params from index request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate index request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		requestID := uuid.New().String()
		if err := service.Build(request.Path, request.ExcludeFolders, requestID); err != nil {
			logger.Warn("could not start index build", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusConflict, []string{err.Error()})
			return
		}

		writeResponse(c, IndexResponse{ID: requestID}, http.StatusAccepted, nil)
	}
}

func handleIndexStatus(service *index.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Param("id")

		progress, err := service.GetStatus(requestID)
		if err != nil {
			logger.Warn("could not get index build status", "request_id", requestID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
			return
		}

		statusResponse := IndexStatusResponse{ID: requestID, Progress: progress}

		switch {
		case progress == index.ProgressStatusFailed:
			writeResponse(c, statusResponse, http.StatusInternalServerError, []string{"index build failed"})
		case progress < index.ProgressStatusComplete:
			writeResponse(c, statusResponse, http.StatusAccepted, nil)
		default:
			writeResponse(c, statusResponse, http.StatusOK, nil)
		}
	}
}
