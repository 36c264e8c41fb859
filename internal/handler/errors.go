package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/spayd_api/internal/utils"
)

// errorStatus maps service errors to HTTP statuses. The error text of a
// sentinel doubles as the API error code.
var errorStatus = []struct {
	err    error
	status int
}{
	{utils.ErrAccountNotFound, http.StatusNotFound},
	{utils.ErrEventNotFound, http.StatusNotFound},
	{utils.ErrPaymentNotFound, http.StatusNotFound},
	{utils.ErrQueueItemNotFound, http.StatusNotFound},
	{utils.ErrInvalidCredentials, http.StatusUnauthorized},
	{utils.ErrInvalidToken, http.StatusUnauthorized},
	{utils.ErrSyncInProgress, http.StatusConflict},
	{utils.ErrBatchTooLarge, http.StatusRequestEntityTooLarge},
	{utils.ErrMissingQueueItemID, http.StatusBadRequest},
	{utils.ErrInvalidIBAN, http.StatusBadRequest},
	{utils.ErrInvalidSymbol, http.StatusBadRequest},
	{utils.ErrInvalidSplit, http.StatusBadRequest},
	{utils.ErrInvalidAmount, http.StatusBadRequest},
	{utils.ErrInvalidReset, http.StatusBadRequest},
	{utils.ErrInvalidSetting, http.StatusBadRequest},
	{utils.ErrInvalidStatus, http.StatusBadRequest},
}

// respondError writes err in the response envelope. Unknown errors are
// logged and reported as INTERNAL_ERROR without details.
func respondError(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			utils.Error(c, e.status, e.err.Error(), err.Error())
			return
		}
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func invalidRequest(c *gin.Context, err error) {
	utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
}

// paramID parses the :id path parameter. It writes the error response and
// returns false when the id is not a positive integer.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_ID", "ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryInt64 parses an optional integer query parameter.
func queryInt64(c *gin.Context, key string) (*int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_QUERY", key+" must be an integer")
		return nil, false
	}
	return &v, true
}
