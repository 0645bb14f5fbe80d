package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencaselist/blocksearch/config"
	"github.com/opencaselist/blocksearch/logger"
	"github.com/opencaselist/blocksearch/services/transfer"
	"github.com/opencaselist/blocksearch/validation"
)

type TransferRequest struct {
	Source   string `json:"source" validate:"required,valid_path"`
	Ordinal  *int   `json:"ordinal" validate:"omitempty,min=0"`
	Mode     string `json:"mode" validate:"omitempty,oneof=extract append cursor end"`
	Target   string `json:"target"`
	Position *int   `json:"position" validate:"omitempty,min=0"`
}

type TransferResponse struct {
	Content *transfer.BlockContent `json:"content,omitempty"`
	Target  string                 `json:"target,omitempty"`
}

func SetupTransfer(router *gin.Engine, logger logger.Logger, cfg *config.Config, service *transfer.Service, validator *validation.Validator) {
	router.POST("/transfer", handleTransfer(service, logger, cfg, validator))
}

func handleTransfer(service *transfer.Service, logger logger.Logger, cfg *config.Config, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := TransferRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected body params from transfer request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate transfer request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		mode := request.Mode
		if mode == "" {
			mode = cfg.GetDefaultPasteMode()
		}

		if mode != transfer.ModeExtract && request.Target == "" {
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{"target is required for this transfer mode"})
			return
		}

		switch mode {
		case transfer.ModeExtract:
			content, err := service.Extract(request.Source, request.Ordinal)
			if err != nil {
				logger.Error("could not extract block content", "source", request.Source, "err", err.Error())
				c.Abort()
				writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
				return
			}
			writeResponse(c, TransferResponse{Content: content}, http.StatusOK, nil)

		case transfer.ModeAppend:
			if err := service.Append(request.Source, request.Ordinal, request.Target); err != nil {
				logger.Error("could not append block to target", "target", request.Target, "err", err.Error())
				c.Abort()
				writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
				return
			}
			writeResponse(c, TransferResponse{Target: request.Target}, http.StatusOK, nil)

		case transfer.ModeCursor:
			position := 0
			if request.Position != nil {
				position = *request.Position
			}
			if err := service.Insert(request.Source, request.Ordinal, request.Target, position); err != nil {
				logger.Error("could not insert block into target", "target", request.Target, "err", err.Error())
				c.Abort()
				writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
				return
			}
			writeResponse(c, TransferResponse{Target: request.Target}, http.StatusOK, nil)

		case transfer.ModeEnd:
			if err := service.Insert(request.Source, request.Ordinal, request.Target, transfer.PositionEnd); err != nil {
				logger.Error("could not insert block into target", "target", request.Target, "err", err.Error())
				c.Abort()
				writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
				return
			}
			writeResponse(c, TransferResponse{Target: request.Target}, http.StatusOK, nil)

		default:
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{"unknown transfer mode"})
		}
	}
}
