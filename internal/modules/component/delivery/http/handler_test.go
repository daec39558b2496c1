package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/middleware"
	"anoa.com/mediannsp/internal/modules/component/repository"
	component "anoa.com/mediannsp/internal/modules/component/service"
	"anoa.com/mediannsp/internal/testdb"
	"github.com/gin-gonic/gin"
)

func setupRouter(t *testing.T) (*gin.Engine, *entity.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	writer := testdb.CreateUser(t, db, "writer", entity.RoleWriter)
	h := NewComponentHandler(component.NewComponentService(repository.NewComponentRepository(db)))

	r := gin.New()
	g := r.Group("/api/components", func(c *gin.Context) {
		middleware.SetCurrentUser(c, writer)
		c.Next()
	})
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r, writer
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) entity.Component {
	t.Helper()
	var c entity.Component
	if err := json.Unmarshal(w.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode %s: %v", w.Body, err)
	}
	return c
}

func TestComponentCreateRoundTrip(t *testing.T) {
	r, writer := setupRouter(t)

	w := do(r, http.MethodPost, "/api/components", `{
		"name": "Xeon Gold 6338",
		"serial_number": "CPU-001",
		"component_type_id": 1,
		"manufacturer": "Intel",
		"specifications": {"cores": 32},
		"purchase_date": "2023-05-10"
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
	created := decode(t, w)
	if created.ID == 0 || created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("generated fields missing: %+v", created)
	}
	if created.Status != entity.StatusActive || *created.SerialNumber != "CPU-001" || created.PurchaseDate.String() != "2023-05-10" {
		t.Fatalf("created = %+v", created)
	}
	if string(created.Specifications) != `{"cores": 32}` && string(created.Specifications) != `{"cores":32}` {
		t.Fatalf("specifications = %s", created.Specifications)
	}
	if created.CreatedBy == nil || *created.CreatedBy != writer.ID || *created.CreatedByUsername != "writer" {
		t.Fatalf("created_by not stamped: %+v", created)
	}

	w = do(r, http.MethodGet, fmt.Sprintf("/api/components/%d", created.ID), "")
	if got := decode(t, w); got.Name != "Xeon Gold 6338" || *got.ComponentTypeName != "Processor" {
		t.Fatalf("get = %+v", got)
	}
}

func TestComponentPartialUpdate(t *testing.T) {
	r, writer := setupRouter(t)

	created := decode(t, do(r, http.MethodPost, "/api/components",
		`{"name":"Kingston 32GB","component_type_id":2,"manufacturer":"Kingston","model":"KSM32"}`))
	time.Sleep(10 * time.Millisecond)

	w := do(r, http.MethodPut, fmt.Sprintf("/api/components/%d", created.ID), `{"status":"disposed"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
	updated := decode(t, w)
	if updated.Status != entity.StatusDisposed {
		t.Fatalf("status = %s", updated.Status)
	}
	if updated.Name != created.Name || *updated.Manufacturer != "Kingston" || *updated.Model != "KSM32" || updated.ComponentTypeID != 2 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updated_at did not advance")
	}
	if updated.UpdatedBy == nil || *updated.UpdatedBy != writer.ID {
		t.Fatalf("updated_by = %v", updated.UpdatedBy)
	}
}

func TestComponentValidation(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"missing name", `{"component_type_id":1}`, "Name is required"},
		{"bad status", `{"name":"x","component_type_id":1,"status":"lost"}`, "Status must be one of"},
		{"specs not object", `{"name":"x","component_type_id":1,"specifications":[1]}`, "Specifications must be a JSON object"},
		{"unknown type", `{"name":"x","component_type_id":99}`, "Component type not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/components", tt.body)
			if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), tt.msg) {
				t.Fatalf("status = %d body=%s", w.Code, w.Body)
			}
		})
	}
}

func TestComponentDuplicateSerialAndDelete(t *testing.T) {
	r, _ := setupRouter(t)

	created := decode(t, do(r, http.MethodPost, "/api/components", `{"name":"PSU","component_type_id":4,"serial_number":"PSU-1"}`))
	w := do(r, http.MethodPost, "/api/components", `{"name":"PSU 2","component_type_id":4,"serial_number":"PSU-1"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate serial status = %d body=%s", w.Code, w.Body)
	}

	path := fmt.Sprintf("/api/components/%d", created.ID)
	if w := do(r, http.MethodDelete, path, ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Component deleted successfully") {
		t.Fatalf("delete status = %d body=%s", w.Code, w.Body)
	}
	if w := do(r, http.MethodGet, path, ""); w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Component not found") {
		t.Fatalf("get deleted status = %d body=%s", w.Code, w.Body)
	}
}
