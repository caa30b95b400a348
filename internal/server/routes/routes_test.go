package routes

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"github.com/finsight/graphview/internal/server/middleware"
	"github.com/finsight/graphview/pkg/api"
	"github.com/finsight/graphview/pkg/common"
	"github.com/finsight/graphview/pkg/graph"

	"github.com/go-playground/validator"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i any) error {
	return v.validator.Struct(i)
}

func newTestContext(t *testing.T, app *middleware.App, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	method := http.MethodGet
	if strings.HasPrefix(target, "POST ") {
		method = http.MethodPost
		target = strings.TrimPrefix(target, "POST ")
	}

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return &middleware.AppContext{Context: c, App: app, RequestID: "test-req"}, rec
}

func snapshotApp() *middleware.App {
	state := graph.NewState()
	state.Set(&common.Graph{
		Nodes: []common.Node{
			{ID: "u1", Label: "Jane Doe", Category: common.CategoryUser},
			{ID: "c1", Label: "Acme Ltd", Category: common.CategoryCompany},
			{ID: "tx1", Label: "Transaction #1 (10 USD)", Category: common.CategoryTransaction},
		},
		Edges: []common.Edge{
			{ID: "u1-DIRECTOR_OF-c1", SourceID: "u1", TargetID: "c1", Type: "DIRECTOR_OF"},
			{ID: "u1-SENT-tx1", SourceID: "u1", TargetID: "tx1", Type: "SENT"},
		},
	})
	return &middleware.App{State: state}
}

func TestGetGraphHandler_DefaultReturnsEverything(t *testing.T) {
	c, rec := newTestContext(t, snapshotApp(), "/api/graph")

	if err := GetGraphHandler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var g common.Graph
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Nodes) != 3 || len(g.Edges) != 2 {
		t.Fatalf("got %d nodes / %d edges", len(g.Nodes), len(g.Edges))
	}
}

func TestGetGraphHandler_CategoryToggle(t *testing.T) {
	c, rec := newTestContext(t, snapshotApp(), "/api/graph?companies=false")

	if err := GetGraphHandler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	var g common.Graph
	if err := json.Unmarshal(rec.Body.Bytes(), &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(g.Nodes))
	}
	if len(g.Edges) != 1 || g.Edges[0].ID != "u1-SENT-tx1" {
		t.Fatalf("edges = %+v", g.Edges)
	}
}

func TestGetGraphHandler_UnknownRelationshipCategory(t *testing.T) {
	c, rec := newTestContext(t, snapshotApp(), "/api/graph?relationships=NOPE")

	if err := GetGraphHandler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetSearchHandler(t *testing.T) {
	c, rec := newTestContext(t, snapshotApp(), "/api/graph/search?q=doe")

	if err := GetSearchHandler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	var out struct {
		Query   string        `json:"query"`
		Matches []common.Node `json:"matches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Matches) != 1 || out.Matches[0].ID != "u1" {
		t.Fatalf("matches = %+v", out.Matches)
	}
}

func TestGetSearchHandler_MissingQuery(t *testing.T) {
	c, rec := newTestContext(t, snapshotApp(), "/api/graph/search")

	if err := GetSearchHandler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetStylesHandler(t *testing.T) {
	c, rec := newTestContext(t, snapshotApp(), "/api/graph/styles")

	if err := GetStylesHandler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	var catalog graph.StyleCatalog
	if err := json.Unmarshal(rec.Body.Bytes(), &catalog); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if catalog.Nodes[common.CategoryUser].Color == "" {
		t.Fatal("user node style missing")
	}
}

func TestPostReloadHandler_ConflictWhileLoading(t *testing.T) {
	app := snapshotApp()

	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(func() {
		close(release)
		upstream.Close()
	})
	app.API = api.NewClient(api.NewClientParams{BaseURL: upstream.URL})

	go func() {
		c, _ := newTestContext(t, app, "POST /api/graph/reload")
		_ = PostReloadHandler(c)
	}()
	for !app.State.Loading() {
		runtime.Gosched()
	}

	c, rec := newTestContext(t, app, "POST /api/graph/reload")
	if err := PostReloadHandler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestGetOverlayPathHandler_MissingParams(t *testing.T) {
	c, rec := newTestContext(t, snapshotApp(), "/api/overlay/path?source_id=u1")

	if err := GetOverlayPathHandler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPostExportArchiveHandler_WithoutS3(t *testing.T) {
	c, rec := newTestContext(t, snapshotApp(), "POST /api/export/archive?format=json")

	if err := PostExportArchiveHandler(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
