package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/seqnet/internal/model"
)

func newTestEcho(t *testing.T) (*echo.Echo, *RunStore) {
	t.Helper()
	runner, err := model.New(model.Config{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	store := NewRunStore(0)
	e := echo.New()
	NewServer(runner, store, nil).Register(e)
	return e, store
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestInferGetDeleteLifecycle(t *testing.T) {
	t.Parallel()

	e, store := newTestEcho(t)
	createRec := doJSON(t, e, http.MethodPost, "/v1/infer", `{"signal":{"samples":100}}`)
	if createRec.Code != http.StatusOK {
		t.Fatalf("infer status: got %d body=%s", createRec.Code, createRec.Body.String())
	}
	var created Run
	if err := json.Unmarshal(createRec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode infer response: %v", err)
	}
	if !strings.HasPrefix(created.ID, "run_") {
		t.Fatalf("unexpected run id %q", created.ID)
	}
	if len(created.Input) != 100 || len(created.Output) != 100 {
		t.Fatalf("got %d inputs, %d outputs", len(created.Input), len(created.Output))
	}
	if created.Spectrum == nil || created.Spectrum.FFTSize != 128 {
		t.Fatalf("missing or wrong spectrum: %+v", created.Spectrum)
	}
	if store.Len() != 1 {
		t.Fatalf("store holds %d runs", store.Len())
	}

	getRec := doJSON(t, e, http.MethodGet, "/v1/runs/"+created.ID, "")
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status: got %d body=%s", getRec.Code, getRec.Body.String())
	}

	plotRec := doJSON(t, e, http.MethodGet, "/v1/runs/"+created.ID+"/plot.svg", "")
	if plotRec.Code != http.StatusOK {
		t.Fatalf("plot status: got %d body=%s", plotRec.Code, plotRec.Body.String())
	}
	if ct := plotRec.Header().Get(echo.HeaderContentType); ct != "image/svg+xml" {
		t.Fatalf("plot content type %q", ct)
	}
	if !strings.HasPrefix(plotRec.Body.String(), "<svg") {
		t.Fatalf("plot body is not svg: %s", plotRec.Body.String())
	}

	delRec := doJSON(t, e, http.MethodDelete, "/v1/runs/"+created.ID, "")
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status: got %d body=%s", delRec.Code, delRec.Body.String())
	}
	if !strings.Contains(delRec.Body.String(), `"deleted":true`) {
		t.Fatalf("delete response missing deleted=true: %s", delRec.Body.String())
	}

	for _, path := range []string{"/v1/runs/" + created.ID, "/v1/runs/" + created.ID + "/plot.svg"} {
		if rec := doJSON(t, e, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s after delete: got %d", path, rec.Code)
		}
	}
	if rec := doJSON(t, e, http.MethodDelete, "/v1/runs/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d", rec.Code)
	}
}

func TestInferExplicitInputMatchesRunner(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(t)
	rec := doJSON(t, e, http.MethodPost, "/v1/infer", `{"input":[0.5]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("infer status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var run Run
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatal(err)
	}

	runner, err := model.New(model.Config{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	want, err := runner.Run(t.Context(), []float64{0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(run.Output) != 1 || run.Output[0] != want[0] {
		t.Fatalf("output %v, want %v", run.Output, want)
	}
}

func TestInferValidationErrors(t *testing.T) {
	t.Parallel()

	e, store := newTestEcho(t)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", `{}`, "one of input or signal is required"},
		{"empty input", `{"input":[]}`, "one of input or signal is required"},
		{"both", `{"input":[1],"signal":{"samples":4}}`, "mutually exclusive"},
		{"zero samples", `{"signal":{"samples":0}}`, "samples must be in"},
		{"too many samples", `{"signal":{"samples":70000}}`, "samples must be in"},
		{"unknown field", `{"inputs":[1]}`, "inputs"},
		{"malformed", `{"input":`, ""},
	}
	for _, tc := range tests {
		rec := doJSON(t, e, http.MethodPost, "/v1/infer", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d body=%s", tc.name, rec.Code, rec.Body.String())
		}
		body := rec.Body.String()
		if !strings.Contains(body, `"type":"invalid_request_error"`) || !strings.Contains(body, tc.want) {
			t.Fatalf("%s: unexpected error body: %s", tc.name, body)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("failed requests stored %d runs", store.Len())
	}
}

func TestTopologyAndHealth(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(t)
	rec := doJSON(t, e, http.MethodGet, "/v1/topology", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("topology status: got %d", rec.Code)
	}
	var topo TopologyResp
	if err := json.Unmarshal(rec.Body.Bytes(), &topo); err != nil {
		t.Fatal(err)
	}
	if topo.Seed != 7 || topo.Parameters != 461 || len(topo.Stages) != 4 {
		t.Fatalf("unexpected topology: %+v", topo)
	}
	if topo.Stages[1].Spec.Kind != model.KindConv1D || topo.Stages[1].Spec.Dilation != 2 {
		t.Fatalf("unexpected conv stage: %+v", topo.Stages[1])
	}

	rec = doJSON(t, e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	t.Parallel()

	e, _ := newTestEcho(t)
	var ids []string
	for range 3 {
		rec := doJSON(t, e, http.MethodPost, "/v1/infer", `{"input":[1,2,3]}`)
		var run Run
		if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, run.ID)
	}
	rec := doJSON(t, e, http.MethodGet, "/v1/runs", "")
	var list struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Data) != 3 || list.Data[0] != ids[2] || list.Data[2] != ids[0] {
		t.Fatalf("got %v, want reverse of %v", list.Data, ids)
	}
}
