package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
)

const defaultConversionLimit = 50

// GetSeals GET /api/seals
func (h *Handler) GetSeals(c *gin.Context) {
	list, err := h.store.ListSeals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"seals": list})
}

// PutSeals replaces the stored seal list with the JSON array in the body.
// PUT /api/seals
func (h *Handler) PutSeals(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	list, err := seal.DecodeList(body)
	if err == nil {
		err = seal.Validate(list)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.ReplaceSeals(list); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.log.Info().Int("count", len(list)).Msg("seal list replaced")
	c.JSON(http.StatusOK, gin.H{"seals": list})
}

// ListConversions GET /api/conversions?limit=
func (h *Handler) ListConversions(c *gin.Context) {
	limit := defaultConversionLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	items, err := h.store.ListConversions(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}
