package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencaselist/blocksearch/logger"
	"github.com/opencaselist/blocksearch/services/prefix"
	"github.com/opencaselist/blocksearch/validation"
)

type PrefixRequest struct {
	Prefix string `json:"prefix" validate:"required,max=100"`
	Folder string `json:"folder" validate:"required"`
}

type ExclusionRequest struct {
	Folder   string `json:"folder" validate:"required"`
	Excluded bool   `json:"excluded"`
}

type PrefixesResponse struct {
	Prefixes map[string][]string `json:"prefixes"`
	Excluded []string            `json:"excluded_folders"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

func SetupPrefixes(router *gin.Engine, logger logger.Logger, service *prefix.Service, validator *validation.Validator) {
	router.GET("/prefixes", handleListPrefixes(service, logger))
	router.POST("/prefixes", handleAddPrefixFolder(service, logger, validator))
	router.DELETE("/prefixes/:prefix", handleDeletePrefix(service, logger))
	router.PUT("/prefixes/exclusions", handleSetExclusion(service, logger, validator))
	router.GET("/prefixes/export", handleExportPrefixes(service, logger))
	router.POST("/prefixes/import", handleImportPrefixes(service, logger))
}

func handleListPrefixes(service *prefix.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefixes, err := service.All()
		if err != nil {
			logger.Error("could not list prefixes", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		excluded, err := service.ExcludedFolders()
		if err != nil {
			logger.Error("could not list excluded folders", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, PrefixesResponse{Prefixes: prefixes, Excluded: excluded}, http.StatusOK, nil)
	}
}

func handleAddPrefixFolder(service *prefix.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := PrefixRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected body params from prefix request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate prefix request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		if err := service.AddFolder(request.Prefix, request.Folder); err != nil {
			logger.Warn("could not add prefix folder", "prefix", request.Prefix, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

// handleDeletePrefix removes one folder from a prefix when the folder
// query param is present, or the whole prefix when it is not.
func handleDeletePrefix(service *prefix.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefixName := c.Param("prefix")
		folder := c.Query("folder")

		var err error
		if folder == "" {
			err = service.DeletePrefix(prefixName)
		} else {
			err = service.RemoveFolder(prefixName, folder)
		}
		if err != nil {
			logger.Warn("could not delete prefix mapping", "prefix", prefixName, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func handleSetExclusion(service *prefix.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ExclusionRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected body params from exclusion request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate exclusion request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		if err := service.SetFolderExclusion(request.Folder, request.Excluded); err != nil {
			logger.Warn("could not update folder exclusion", "folder", request.Folder, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func handleExportPrefixes(service *prefix.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := service.ExportCSV(&buf); err != nil {
			logger.Error("could not export prefixes", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="prefixes.csv"`)
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	}
}

func handleImportPrefixes(service *prefix.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		imported, err := service.ImportCSV(c.Request.Body)
		if err != nil {
			logger.Warn("could not import prefixes", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{err.Error()})
			return
		}

		writeResponse(c, ImportResponse{Imported: imported}, http.StatusOK, nil)
	}
}
