package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/modules/catalog/repository"
	catalog "anoa.com/mediannsp/internal/modules/catalog/service"
	"anoa.com/mediannsp/internal/testdb"
	"github.com/gin-gonic/gin"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	svc := catalog.NewCatalogService(repository.NewCatalogRepository[entity.DeviceType](db), "Device type")
	h := NewCatalogHandler(svc, "Device type", "device_types")

	r := gin.New()
	group := r.Group("/api/device-types")
	h.Register(group, group)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListDeviceTypes(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/api/device-types", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		DeviceTypes []entity.DeviceType `json:"device_types"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.DeviceTypes) != 12 || body.DeviceTypes[0].Name != "Server" {
		t.Fatalf("unexpected device types: %+v", body.DeviceTypes)
	}
}

func TestDeviceTypeLifecycle(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/api/device-types", `{"name":"Projector","description":"Video projector"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body)
	}
	var created entity.DeviceType
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = do(r, http.MethodPost, "/api/device-types", `{"name":"Projector"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", w.Code)
	}

	w = do(r, http.MethodPut, "/api/device-types/13", `{"description":"Beamer"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"name":"Projector"`) {
		t.Fatalf("update status = %d body=%s", w.Code, w.Body)
	}

	w = do(r, http.MethodDelete, "/api/device-types/13", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Device type deleted successfully") {
		t.Fatalf("delete status = %d body=%s", w.Code, w.Body)
	}

	w = do(r, http.MethodGet, "/api/device-types/13", "")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Device type not found") {
		t.Fatalf("get deleted status = %d body=%s", w.Code, w.Body)
	}
	if created.ID != 13 {
		t.Fatalf("created id = %d, want 13 after 12 seeded rows", created.ID)
	}
}

func TestCreateDeviceTypeValidation(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodPost, "/api/device-types", `{"description":"no name"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Name is required") {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
}

func TestDeleteUnknownDeviceType(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodDelete, "/api/device-types/999", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
