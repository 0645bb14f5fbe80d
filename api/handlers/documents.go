package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencaselist/blocksearch/logger"
	"github.com/opencaselist/blocksearch/services/search"
	"github.com/opencaselist/blocksearch/validation"
)

type ContextRequest struct {
	Path string `form:"path" validate:"required,valid_path"`
}

type ContextResponse struct {
	Documents []search.ContextDoc `json:"documents"`
}

func SetupDocuments(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator) {
	router.GET("/documents/context", handleContext(service, logger, validator))
}

// handleContext lists the family of a split-off document in
// original-document order, so a result can be viewed alongside its
// parent and siblings.
func handleContext(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ContextRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from context request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate context request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		documents, err := service.Context(request.Path)
		if err != nil {
			logger.Error("could not resolve document context", "path", request.Path, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, ContextResponse{Documents: documents}, http.StatusOK, nil)
	}
}
