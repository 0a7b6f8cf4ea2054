package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/haskel/cancerform/internal/config"
	"github.com/haskel/cancerform/internal/features"
	"github.com/haskel/cancerform/internal/form"
	"github.com/haskel/cancerform/internal/history"
	"github.com/haskel/cancerform/internal/predictor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeAPI mimics the classification service.
type fakeAPI struct {
	predictStatus int
	predictBody   string
	lastFeatures  []float64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		predictStatus: http.StatusOK,
		predictBody:   `{"prediction": 0, "label": "Malignant", "confidence": 91.2, "probabilities": {"malignant": 91.2, "benign": 8.8}}`,
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/features":
		json.NewEncoder(w).Encode(predictor.FeaturesResponse{Features: features.Catalog(), Count: 30})
	case "/api/model-info":
		w.Write([]byte(`{"description": "Breast Cancer Detection Model", "features_count": 30, "model_type": "Logistic Regression"}`))
	case "/api/health":
		w.Write([]byte(`{"status": "healthy", "model_loaded": true}`))
	case "/api/predict":
		var req predictor.PredictRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.lastFeatures = req.Features
		w.WriteHeader(f.predictStatus)
		w.Write([]byte(f.predictBody))
	default:
		http.NotFound(w, r)
	}
}

type testEnv struct {
	srv   *Server
	api   *fakeAPI
	store *history.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	api := newFakeAPI()
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.Server.RateLimit.Enabled = false

	store := history.New(t.TempDir(), time.Minute, 10, testLogger())
	client := predictor.New(ts.URL, 2*time.Second)

	base := form.New(client, testLogger(), form.WithRecorder(store))
	if err := base.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	return &testEnv{
		srv:   New(cfg, base, client, store, testLogger(), "0.1.0-test"),
		api:   api,
		store: store,
	}
}

func sampleForm() url.Values {
	v := url.Values{}
	for k, val := range features.Sample() {
		v.Set(k, val)
	}
	return v
}

func postForm(handler http.HandlerFunc, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleIndex(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	env.srv.handleIndex(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"Mean Values", "Standard Error Values", "Worst Values",
		`name="mean radius"`, `name="worst fractal dimension"`,
		"Logistic Regression", "(0/30)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page should contain %q", want)
		}
	}
	if strings.Contains(body, `id="result"`) {
		t.Error("fresh page must not show a result")
	}
}

func TestHandleSubmit_Success(t *testing.T) {
	env := newTestEnv(t)

	values := sampleForm()
	values.Set("mean radius", "12.3")
	values.Set("mean texture", "5")

	w := postForm(env.srv.handleSubmit, "/submit", values)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"<h2>Malignant</h2>",
		"width: 91.2%",
		`<strong id="prob-malignant">91.2%</strong>`,
		`<strong id="prob-benign">8.8%</strong>`,
		"not a substitute",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page should contain %q", want)
		}
	}

	if len(env.api.lastFeatures) != 30 || env.api.lastFeatures[0] != 12.3 || env.api.lastFeatures[1] != 5 {
		t.Errorf("unexpected payload order: %v", env.api.lastFeatures)
	}

	if env.store.Len() != 1 {
		t.Errorf("expected submission recorded, got %d entries", env.store.Len())
	}
}

func TestHandleSubmit_Incomplete(t *testing.T) {
	env := newTestEnv(t)

	values := sampleForm()
	values.Set("mean radius", "12abc")

	w := postForm(env.srv.handleSubmit, "/submit", values)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Please fill in all 30 features with valid numbers") {
		t.Error("expected validation message")
	}
	if !strings.Contains(body, `value="12abc" class="invalid"`) {
		t.Error("expected invalid field flagged and value preserved")
	}
	if env.api.lastFeatures != nil {
		t.Error("no prediction request expected")
	}
}

func TestHandleSubmit_ServiceError(t *testing.T) {
	env := newTestEnv(t)
	env.api.predictStatus = http.StatusServiceUnavailable
	env.api.predictBody = `{"error": "model unavailable"}`

	w := postForm(env.srv.handleSubmit, "/submit", sampleForm())

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, `<div class="error" id="error">model unavailable</div>`) {
		t.Errorf("expected service error text, got %s", body)
	}
	if strings.Contains(body, `id="result"`) {
		t.Error("no result expected on failure")
	}
	if !strings.Contains(body, `value="17.99"`) {
		t.Error("form must stay filled after failure")
	}
}

func TestHandleSample(t *testing.T) {
	env := newTestEnv(t)

	w := postForm(env.srv.handleSample, "/sample", url.Values{"mean radius": {"1"}})

	body := w.Body.String()
	if !strings.Contains(body, `name="mean radius" value="17.99"`) {
		t.Error("expected sample value to replace posted value")
	}
	if !strings.Contains(body, "(30/30, ready)") {
		t.Error("expected sample to be submit-ready")
	}
}

func TestHandleClear(t *testing.T) {
	env := newTestEnv(t)

	w := postForm(env.srv.handleClear, "/clear", sampleForm())

	body := w.Body.String()
	if strings.Contains(body, `value="17.99"`) {
		t.Error("expected values cleared")
	}
	if !strings.Contains(body, "(0/30)") {
		t.Error("expected empty counter")
	}
}

func TestHandleExport(t *testing.T) {
	env := newTestEnv(t)

	values := url.Values{"mean radius": {"12.3"}, "tumor age": {"9"}}
	w := postForm(env.srv.handleExport, "/export", values)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	cd := w.Header().Get("Content-Disposition")
	if cd != `attachment; filename="breast_cancer_data.json"` {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}

	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}

	if len(got) != 30 {
		t.Errorf("expected 30 keys, got %d", len(got))
	}
	if got["mean radius"] != "12.3" {
		t.Errorf("expected posted value, got %q", got["mean radius"])
	}
	if v, ok := got["worst area"]; !ok || v != "" {
		t.Errorf("expected empty string for unset field, got %q (present=%v)", v, ok)
	}
	if _, ok := got["tumor age"]; ok {
		t.Error("unknown posted names must not be exported")
	}
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	env.srv.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
	if !resp.Service.Reachable || !resp.Service.ModelLoaded {
		t.Errorf("unexpected service status: %+v", resp.Service)
	}
	if resp.FeaturesLoaded != 30 {
		t.Errorf("expected 30 features, got %d", resp.FeaturesLoaded)
	}
	if resp.Version != "0.1.0-test" {
		t.Errorf("unexpected version %s", resp.Version)
	}
}

func TestHandleHistory(t *testing.T) {
	env := newTestEnv(t)

	postForm(env.srv.handleSubmit, "/submit", sampleForm())
	postForm(env.srv.handleSubmit, "/submit", sampleForm())

	req := httptest.NewRequest(http.MethodGet, "/history?limit=1", nil)
	w := httptest.NewRecorder()
	env.srv.handleHistory(w, req)

	var entries []history.Entry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Result.Confidence != 91.2 {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}

func TestHandleHistory_BadLimit(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/history?limit=zero", nil)
	w := httptest.NewRecorder()
	env.srv.handleHistory(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestNewResultView(t *testing.T) {
	tests := []struct {
		confidence float64
		wantWidth  string
	}{
		{91.2, "91.2"},
		{100, "100"},
		{120, "100"},
		{-5, "0"},
	}

	for _, tt := range tests {
		rv := newResultView(&predictor.Result{Prediction: predictor.Benign, Confidence: tt.confidence})
		if rv.BarWidth != tt.wantWidth {
			t.Errorf("confidence %v: expected width %s, got %s", tt.confidence, tt.wantWidth, rv.BarWidth)
		}
		if rv.Title != "Benign" || rv.Malignant {
			t.Errorf("expected benign view, got %+v", rv)
		}
	}
}

func TestFormFromRequest(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		body    string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "known names applied",
			body: "mean+radius=12.3&worst+area=880",
			want: map[string]string{"mean radius": "12.3", "worst area": "880", "mean texture": ""},
		},
		{
			name: "first value wins",
			body: "mean+radius=1&mean+radius=2",
			want: map[string]string{"mean radius": "1"},
		},
		{
			name: "unknown names ignored",
			body: "tumor+age=9&mean+area=1001",
			want: map[string]string{"mean area": "1001"},
		},
		{
			name:    "malformed body",
			body:    "mean+radius=%zz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			ctl, err := env.srv.formFromRequest(req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			values := ctl.State().Values
			for name, want := range tt.want {
				if got := values[name]; got != want {
					t.Errorf("%s = %q, want %q", name, got, want)
				}
			}
			if _, ok := values["tumor age"]; ok {
				t.Error("unknown name must not reach the form")
			}
		})
	}
}
