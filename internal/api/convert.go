package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/exporter"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/seal"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/table"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// requestError is a client error with the status to answer it with.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

// convertJob is one parsed conversion request. inputPath is a private copy
// of the upload that the caller removes.
type convertJob struct {
	sourceName string
	inputPath  string
	seals      []seal.Descriptor
}

func (j *convertJob) cleanup() {
	if j.inputPath != "" {
		_ = os.Remove(j.inputPath)
	}
}

// parseConvertRequest reads the multipart fields input_file and the
// optional user_dichtungen. Without user_dichtungen the stored seal list is
// used.
func (h *Handler) parseConvertRequest(c *gin.Context) (*convertJob, error) {
	fh, err := c.FormFile("input_file")
	if err != nil || fh.Filename == "" {
		return nil, &requestError{http.StatusBadRequest, "Bitte eine Packlisten-Datei hochladen (.xlsx/.xls/.csv)."}
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !table.SupportedExtension(ext) {
		return nil, &requestError{http.StatusBadRequest, "Ungültiges Dateiformat."}
	}

	var seals []seal.Descriptor
	if raw := c.PostForm("user_dichtungen"); strings.TrimSpace(raw) != "" {
		seals, err = seal.DecodeList([]byte(raw))
		if err == nil {
			err = seal.Validate(seals)
		}
		if err != nil {
			return nil, &requestError{http.StatusBadRequest, "Dichtungen-JSON ungültig: " + err.Error()}
		}
	} else {
		seals, err = h.store.ListSeals()
		if err != nil {
			return nil, fmt.Errorf("load seals: %w", err)
		}
	}

	if err := os.MkdirAll(h.uploadDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	inputPath := filepath.Join(h.uploadDir(), uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, inputPath); err != nil {
		_ = os.Remove(inputPath)
		return nil, fmt.Errorf("save upload: %w", err)
	}
	return &convertJob{
		sourceName: filepath.Base(fh.Filename),
		inputPath:  inputPath,
		seals:      seals,
	}, nil
}

// run converts job into a fresh file under the export dir and records the
// outcome in the conversion log. The caller owns the returned path.
func (h *Handler) run(job *convertJob, progress func(exporter.ProgressEvent)) (string, *exporter.Result, error) {
	id, err := h.store.CreateConversion(job.sourceName)
	if err != nil {
		h.log.Warn().Err(err).Msg("conversion log unavailable")
	}

	if err := os.MkdirAll(h.exportDir(), 0o755); err != nil {
		return "", nil, fmt.Errorf("create export dir: %w", err)
	}
	outputPath := filepath.Join(h.exportDir(), uuid.NewString()+".xlsx")
	res, convErr := h.converter(progress).ConvertFile(job.inputPath, outputPath, job.seals)
	if convErr != nil {
		_ = os.Remove(outputPath)
	}

	if id != "" {
		entry := model.Conversion{ID: id, OutputName: exporter.DownloadName(job.sourceName)}
		if res != nil {
			entry.Technician = res.Technician
			entry.PeriodRange = res.PeriodRange
			entry.DataRows = res.DataRows
			entry.SealColumns = res.SealNames()
		}
		if err := h.store.FinishConversion(entry, convErr); err != nil {
			h.log.Warn().Err(err).Str("id", id).Msg("conversion log not updated")
		}
	}
	if convErr != nil {
		return "", nil, convErr
	}
	return outputPath, res, nil
}

// Convert POST /api/convert
func (h *Handler) Convert(c *gin.Context) {
	job, err := h.parseConvertRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer job.cleanup()

	outputPath, _, err := h.run(job, nil)
	if err != nil {
		h.log.Error().Err(err).Str("source", job.sourceName).Msg("conversion failed")
		respondError(c, conversionError(err))
		return
	}
	defer os.Remove(outputPath)

	c.Header("Content-Disposition", contentDisposition(exporter.DownloadName(job.sourceName)))
	c.Header("Content-Type", xlsxContentType)
	c.File(outputPath)
}

// conversionError maps unreadable input to a client error.
func conversionError(err error) error {
	msg := "Fehler bei der Konvertierung: " + err.Error()
	if errors.Is(err, table.ErrUnsupportedFormat) || errors.Is(err, table.ErrUnreadable) {
		return &requestError{http.StatusBadRequest, msg}
	}
	return &requestError{http.StatusInternalServerError, msg}
}

func respondError(c *gin.Context, err error) {
	var re *requestError
	if errors.As(err, &re) {
		c.JSON(re.status, gin.H{"error": re.msg})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// contentDisposition names an attachment with an ASCII fallback and the
// UTF-8 name per RFC 5987.
func contentDisposition(name string) string {
	fallback := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			r = '_'
		}
		fallback = append(fallback, r)
	}
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", string(fallback), url.PathEscape(name))
}
