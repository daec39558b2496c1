package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/middleware"
	componentRepo "anoa.com/mediannsp/internal/modules/component/repository"
	contractRepo "anoa.com/mediannsp/internal/modules/contract/repository"
	"anoa.com/mediannsp/internal/modules/device/repository"
	device "anoa.com/mediannsp/internal/modules/device/service"
	"anoa.com/mediannsp/internal/testdb"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type fixture struct {
	router *gin.Engine
	db     *gorm.DB
	user   *entity.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	user := testdb.CreateUser(t, db, "admin", entity.RoleAdmin)
	svc := device.NewDeviceService(
		repository.NewDeviceRepository(db),
		componentRepo.NewComponentRepository(db),
		contractRepo.NewContractRepository(db),
	)
	h := NewDeviceHandler(svc)

	r := gin.New()
	g := r.Group("/api/devices", func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	})
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/components", h.ListComponents)
	g.POST("/:id/components", h.AddComponent)
	g.DELETE("/:id/components/:componentId", h.RemoveComponent)

	return &fixture{router: r, db: db, user: user}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func expect(t *testing.T, w *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	if w.Code != code || !strings.Contains(w.Body.String(), msg) {
		t.Fatalf("got %d %s, want %d containing %q", w.Code, w.Body, code, msg)
	}
}

func TestCreateDeviceWithContract(t *testing.T) {
	f := setup(t)
	contract := testdb.CreateContract(t, f.db, "C-1", 1)

	w := f.do(http.MethodPost, "/api/devices",
		fmt.Sprintf(`{"name":"Server A","device_type_id":1,"contract_id":%d,"location":"Rack 4"}`, contract.ID))
	expect(t, w, http.StatusCreated, `"name":"Server A"`)

	var created entity.DeviceDetail
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || created.CreatedAt.IsZero() || created.Status != entity.StatusActive {
		t.Fatalf("created = %+v", created)
	}
	if string(created.Specifications) != "{}" {
		t.Fatalf("specifications = %s, want {}", created.Specifications)
	}
	if created.CreatedBy == nil || *created.CreatedBy != f.user.ID {
		t.Fatalf("created_by = %v", created.CreatedBy)
	}

	w = f.do(http.MethodGet, fmt.Sprintf("/api/devices/%d", created.ID), "")
	expect(t, w, http.StatusOK, `"contract_number":"C-1"`)

	var got entity.DeviceDetail
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if *got.DeviceTypeName != "Server" || *got.Location != "Rack 4" || got.Components == nil {
		t.Fatalf("get = %+v", got)
	}
}

func TestCreateDeviceRequiresContract(t *testing.T) {
	f := setup(t)

	expect(t, f.do(http.MethodPost, "/api/devices", `{"name":"Server B","device_type_id":1}`),
		http.StatusBadRequest, "Contract ID is required when creating a device")
	expect(t, f.do(http.MethodPost, "/api/devices", `{"name":"Server B","device_type_id":1,"contract_id":77}`),
		http.StatusBadRequest, "Contract not found")
	expect(t, f.do(http.MethodPost, "/api/devices", `{"device_type_id":1,"contract_id":1}`),
		http.StatusBadRequest, "Name is required")
}

func TestDeleteUnknownDevice(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodDelete, "/api/devices/4242", "")
	if w.Code != http.StatusNotFound || strings.TrimSpace(w.Body.String()) != `{"error":"Device not found"}` {
		t.Fatalf("got %d %s", w.Code, w.Body)
	}
}

func TestUpdateDeviceKeepsOtherFields(t *testing.T) {
	f := setup(t)
	contract := testdb.CreateContract(t, f.db, "C-9", 1)
	d := testdb.CreateDevice(t, f.db, "Laptop 7", contract.ID)

	w := f.do(http.MethodPut, fmt.Sprintf("/api/devices/%d", d.ID), `{"status":"in_repair","specifications":{"ram":"16GB"}}`)
	expect(t, w, http.StatusOK, `"status":"in_repair"`)

	var updated entity.DeviceDetail
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Name != "Laptop 7" || *updated.ContractNumber != "C-9" || updated.DeviceTypeID != 1 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.UpdatedBy == nil || *updated.UpdatedByUsername != "admin" {
		t.Fatalf("updated_by not stamped: %+v", updated)
	}
	if !strings.Contains(string(updated.Specifications), "16GB") {
		t.Fatalf("specifications = %s", updated.Specifications)
	}

	expect(t, f.do(http.MethodPut, "/api/devices/999", `{"name":"ghost"}`), http.StatusNotFound, "Device not found")
}

func TestUpdateUnknownDeviceWithUnknownContract(t *testing.T) {
	f := setup(t)

	expect(t, f.do(http.MethodPut, "/api/devices/999", `{"contract_id":777}`), http.StatusNotFound, "Device not found")

	contract := testdb.CreateContract(t, f.db, "C-3", 1)
	d := testdb.CreateDevice(t, f.db, "Switch 2", contract.ID)
	expect(t, f.do(http.MethodPut, fmt.Sprintf("/api/devices/%d", d.ID), `{"contract_id":777}`),
		http.StatusBadRequest, "Contract not found")
}

func TestDeviceComponentLinks(t *testing.T) {
	f := setup(t)
	d := testdb.CreateDevice(t, f.db, "Server C", testdb.CreateContract(t, f.db, "C-2", 1).ID)
	cpu := testdb.CreateComponent(t, f.db, "Xeon")
	base := fmt.Sprintf("/api/devices/%d/components", d.ID)
	add := fmt.Sprintf(`{"component_id":%d}`, cpu.ID)

	w := f.do(http.MethodPost, base, add)
	expect(t, w, http.StatusCreated, `"is_active":true`)
	var first entity.DeviceComponent
	_ = json.Unmarshal(w.Body.Bytes(), &first)
	if first.InstalledBy == nil || *first.InstalledBy != f.user.ID {
		t.Fatalf("installed_by = %v", first.InstalledBy)
	}

	expect(t, f.do(http.MethodPost, base, add), http.StatusBadRequest, "Component is already added to this device")

	w = f.do(http.MethodGet, base, "")
	var components []entity.Component
	if err := json.Unmarshal(w.Body.Bytes(), &components); err != nil {
		t.Fatal(err)
	}
	if len(components) != 1 || components[0].ID != cpu.ID || *components[0].ComponentTypeName != "Processor" {
		t.Fatalf("components = %+v", components)
	}

	remove := fmt.Sprintf("%s/%d", base, cpu.ID)
	expect(t, f.do(http.MethodDelete, remove, ""), http.StatusOK, "Component removed from device successfully")
	expect(t, f.do(http.MethodDelete, remove, ""), http.StatusNotFound, "Component not found in device or already removed")

	w = f.do(http.MethodPost, base, add)
	expect(t, w, http.StatusCreated, `"is_active":true`)
	var second entity.DeviceComponent
	_ = json.Unmarshal(w.Body.Bytes(), &second)
	if second.ID == first.ID {
		t.Fatal("re-adding must create a new link row")
	}

	var rows []entity.DeviceComponent
	f.db.Order("id").Find(&rows)
	if len(rows) != 2 || rows[0].IsActive || !rows[1].IsActive {
		t.Fatalf("link history = %+v", rows)
	}
}

func TestDeviceComponentNotFound(t *testing.T) {
	f := setup(t)
	d := testdb.CreateDevice(t, f.db, "Server D", testdb.CreateContract(t, f.db, "C-3", 1).ID)

	expect(t, f.do(http.MethodPost, "/api/devices/999/components", `{"component_id":1}`), http.StatusNotFound, "Device not found")
	expect(t, f.do(http.MethodPost, fmt.Sprintf("/api/devices/%d/components", d.ID), `{"component_id":999}`),
		http.StatusNotFound, "Component not found")
	expect(t, f.do(http.MethodGet, "/api/devices/999/components", ""), http.StatusNotFound, "Device not found")
}

func TestListDevicesFilters(t *testing.T) {
	f := setup(t)
	contract := testdb.CreateContract(t, f.db, "C-4", 1)
	for i := 0; i < 5; i++ {
		testdb.CreateDevice(t, f.db, fmt.Sprintf("PC-%d", i), contract.ID)
	}
	router := testdb.CreateDevice(t, f.db, "Edge router", contract.ID)
	f.db.Model(&entity.Device{}).Where("id = ?", router.ID).Updates(map[string]any{"device_type_id": 8, "location": "Server room"})

	var body struct {
		Devices    []entity.Device `json:"devices"`
		TotalCount int64           `json:"totalCount"`
		TotalPages int             `json:"totalPages"`
	}

	w := f.do(http.MethodGet, "/api/devices?page=3&limit=2", "")
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.TotalCount != 6 || body.TotalPages != 3 || len(body.Devices) != 2 {
		t.Fatalf("page 3 = %+v", body)
	}

	w = f.do(http.MethodGet, "/api/devices?device_type_id=8&location=server", "")
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.TotalCount != 1 || body.Devices[0].Name != "Edge router" || *body.Devices[0].DeviceTypeName != "Router" {
		t.Fatalf("filtered = %+v", body)
	}

	expect(t, f.do(http.MethodGet, "/api/devices?status=broken", ""), http.StatusBadRequest, "Status must be one of")
}
