package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/model"
	"github.com/Starz2230/Packlistenconverter-ZOHOCRM/internal/store"
)

const sampleCSV = "Service Techniker;Zeitraum;Dealname;10_S\n" +
	";;;1\n" +
	"Max;24.11.2025 08:00;Kunde A;1\n" +
	"Max;21.11.2025 10:00;Kunde B;\n"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router  *gin.Engine
	store   *store.Store
	dataDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dataDir := t.TempDir()
	st, err := store.New(filepath.Join(dataDir, "packliste.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(st, Options{DataDir: dataDir})
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return &testEnv{router: r, store: st, dataDir: dataDir}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, path, filename, content string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("input_file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write upload: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("ReadDir %s: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Fatalf("%s not cleaned up: %d entries", dir, len(entries))
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"status":"ok"}` {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestConvert_RejectsBadRequests(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cases := []struct {
		name string
		req  *http.Request
	}{
		{"no file", uploadRequest(t, "/api/convert", "", "", nil)},
		{"bad extension", uploadRequest(t, "/api/convert", "liste.txt", sampleCSV, nil)},
		{"bad seal json", uploadRequest(t, "/api/convert", "liste.csv", sampleCSV, map[string]string{"user_dichtungen": "[{"})},
		{"duplicate seals", uploadRequest(t, "/api/convert", "liste.csv", sampleCSV, map[string]string{"user_dichtungen": `["A","A"]`})},
	}
	for _, tc := range cases {
		w := env.do(tc.req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d body=%s", tc.name, w.Code, w.Body.String())
		}
		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp["error"] == "" {
			t.Fatalf("%s: error body=%s", tc.name, w.Body.String())
		}
	}
	assertDirEmpty(t, filepath.Join(env.dataDir, "uploads"))
}

func TestConvert_ReturnsWorkbook(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := uploadRequest(t, "/api/convert", "Packliste Max.csv", sampleCSV, map[string]string{
		"user_dichtungen": `[{"name":"10_S","always_show":true,"default_value":2}]`,
	})
	w := env.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="Packliste Max_konvertiert.xlsx"`) {
		t.Fatalf("Content-Disposition=%q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if v, _ := f.GetCellValue(sheet, "B1"); v != "Max" {
		t.Fatalf("B1=%q", v)
	}
	if v, _ := f.GetCellValue(sheet, "E2"); v != "10\nS" {
		t.Fatalf("E2=%q", v)
	}

	list, err := env.store.ListConversions(10)
	if err != nil {
		t.Fatalf("ListConversions: %v", err)
	}
	if len(list) != 1 || list[0].Status != model.ConversionDone || list[0].DataRows != 2 {
		t.Fatalf("conversion log=%+v", list)
	}
	if list[0].OutputName != "Packliste Max_konvertiert.xlsx" {
		t.Fatalf("output name=%q", list[0].OutputName)
	}
	assertDirEmpty(t, filepath.Join(env.dataDir, "uploads"))
	assertDirEmpty(t, filepath.Join(env.dataDir, "exports"))
}

func TestConvert_UsesStoredSeals(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	putReq := httptest.NewRequest(http.MethodPut, "/api/seals", strings.NewReader(`[{"name":"10_S","always_show":true}]`))
	if w := env.do(putReq); w.Code != http.StatusOK {
		t.Fatalf("PUT seals status=%d body=%s", w.Code, w.Body.String())
	}

	w := env.do(uploadRequest(t, "/api/convert", "liste.csv", sampleCSV, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(f.GetSheetName(f.GetActiveSheetIndex()), "E2"); v != "10\nS" {
		t.Fatalf("E2=%q", v)
	}
}

func TestConvert_AcceptsBlankSealNames(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := uploadRequest(t, "/api/convert", "liste.csv", sampleCSV, map[string]string{
		"user_dichtungen": `["", {"name": "tag"}, {"name":"10_S","always_show":true,"default_value":-1}]`,
	})
	w := env.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if v, _ := f.GetCellValue(sheet, "E2"); v != "10\nS" {
		t.Fatalf("E2=%q", v)
	}
	if v, _ := f.GetCellValue(sheet, "F2"); v != "Informationen Packliste" {
		t.Fatalf("F2=%q, want the info header right after the only seal", v)
	}
}

type sseEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func parseEvents(t *testing.T, body string) []sseEvent {
	t.Helper()

	var out []sseEvent
	for _, chunk := range strings.Split(body, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		var ev sseEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(chunk, "data: ")), &ev); err != nil {
			t.Fatalf("decode event %q: %v", chunk, err)
		}
		out = append(out, ev)
	}
	return out
}

func TestConvertStream_DownloadOnce(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(uploadRequest(t, "/api/convert/stream", "liste.csv", sampleCSV, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	events := parseEvents(t, w.Body.String())
	if len(events) < 3 {
		t.Fatalf("events=%+v", events)
	}
	if events[0].Type != "start" {
		t.Fatalf("first event=%q", events[0].Type)
	}
	done := events[len(events)-1]
	if done.Type != "done" {
		t.Fatalf("last event=%+v", done)
	}
	sawProgress := false
	for _, ev := range events[1 : len(events)-1] {
		if ev.Type != "progress" {
			t.Fatalf("unexpected event %q", ev.Type)
		}
		sawProgress = true
	}
	if !sawProgress {
		t.Fatalf("no progress events")
	}

	url, _ := done.Data["downloadUrl"].(string)
	if !strings.HasPrefix(url, "/api/download/") {
		t.Fatalf("downloadUrl=%q", url)
	}
	first := env.do(httptest.NewRequest(http.MethodGet, url, nil))
	if first.Code != http.StatusOK {
		t.Fatalf("download status=%d", first.Code)
	}
	if _, err := excelize.OpenReader(bytes.NewReader(first.Body.Bytes())); err != nil {
		t.Fatalf("downloaded workbook: %v", err)
	}
	if again := env.do(httptest.NewRequest(http.MethodGet, url, nil)); again.Code != http.StatusNotFound {
		t.Fatalf("second download status=%d", again.Code)
	}
	assertDirEmpty(t, filepath.Join(env.dataDir, "exports"))
}

func TestSeals_PutAndGet(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	bad := httptest.NewRequest(http.MethodPut, "/api/seals", strings.NewReader(`[{"name":"A"},{"name":"A"}]`))
	if w := env.do(bad); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate status=%d", w.Code)
	}

	put := httptest.NewRequest(http.MethodPut, "/api/seals", strings.NewReader(`["R-12",{"name":"10_S","always_show":"true","order":"1"}]`))
	if w := env.do(put); w.Code != http.StatusOK {
		t.Fatalf("PUT status=%d body=%s", w.Code, w.Body.String())
	}

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/seals", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET status=%d", w.Code)
	}
	var resp struct {
		Seals []struct {
			Name       string `json:"name"`
			AlwaysShow bool   `json:"always_show"`
			Order      *int   `json:"order"`
		} `json:"seals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Seals) != 2 || resp.Seals[0].Name != "R-12" || !resp.Seals[1].AlwaysShow {
		t.Fatalf("seals=%+v", resp.Seals)
	}
	if resp.Seals[1].Order == nil || *resp.Seals[1].Order != 1 {
		t.Fatalf("order=%v", resp.Seals[1].Order)
	}
}

func TestListConversions_Limit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if w := env.do(httptest.NewRequest(http.MethodGet, "/api/conversions?limit=x", nil)); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	w := env.do(httptest.NewRequest(http.MethodGet, "/api/conversions", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total":0`) {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestContentDisposition(t *testing.T) {
	t.Parallel()

	got := contentDisposition("Prüfung_konvertiert.xlsx")
	want := "attachment; filename=\"Pr_fung_konvertiert.xlsx\"; filename*=UTF-8''Pr%C3%BCfung_konvertiert.xlsx"
	if got != want {
		t.Fatalf("content-disposition mismatch:\n got: %s\nwant: %s", got, want)
	}
}
