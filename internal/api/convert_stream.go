package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/exporter"
)

type progressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConvertStream converts like Convert but answers with SSE progress events
// and, when done, a one-time download URL.
// POST /api/convert/stream
func (h *Handler) ConvertStream(c *gin.Context) {
	job, err := h.parseConvertRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer job.cleanup()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	send := func(event progressEvent) {
		event.Timestamp = time.Now()
		if event.Data == nil {
			event.Data = map[string]any{}
		}
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(progressEvent{
		Type:    "start",
		Message: "Konvertierung gestartet",
		Data:    map[string]any{"source": job.sourceName},
	})

	lastPercent := -1
	progressFn := func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(progressEvent{
			Type:    "progress",
			Message: p.Stage,
			Data:    map[string]any{"percent": p.Percent},
		})
	}

	outputPath, res, err := h.run(job, progressFn)
	if err != nil {
		h.log.Error().Err(err).Str("source", job.sourceName).Msg("conversion failed")
		send(progressEvent{
			Type:    "error",
			Message: "Fehler bei der Konvertierung: " + err.Error(),
		})
		return
	}

	token := h.downloads.put(outputPath, exporter.DownloadName(job.sourceName), downloadTTL)
	send(progressEvent{
		Type:    "done",
		Message: "Konvertierung abgeschlossen",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": "/api/download/" + token,
			"technician":  res.Technician,
			"periodRange": res.PeriodRange,
			"dataRows":    res.DataRows,
			"sealColumns": res.SealColumns,
		},
	})
}

// Download serves a converted workbook once.
// GET /api/download/:token
func (h *Handler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Download-Link abgelaufen"})
		return
	}
	defer os.Remove(item.filePath)

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Datei nicht gefunden"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(item.name))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)
}
