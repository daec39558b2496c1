package repository

import (
	"context"
	"fmt"
	"testing"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/testdb"
	commonDto "anoa.com/mediannsp/pkg/dto"
)

func TestListFiltersAndPagination(t *testing.T) {
	db := testdb.New(t)
	repo := NewComponentRepository(db)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		testdb.CreateComponent(t, db, fmt.Sprintf("DIMM %d", i))
	}
	ssd := testdb.CreateComponent(t, db, "Samsung SSD")
	if err := db.Model(ssd).Updates(map[string]any{"component_type_id": 3, "status": "in_repair"}).Error; err != nil {
		t.Fatal(err)
	}

	page, err := repo.List(ctx, Filter{ListQuery: commonDto.ListQuery{Page: 2, Limit: 5}})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 8 || page.TotalPages() != 2 || len(page.Items) != 3 {
		t.Fatalf("page 2: %d items of %d, %d pages", len(page.Items), page.TotalCount, page.TotalPages())
	}

	page, err = repo.List(ctx, Filter{ListQuery: commonDto.ListQuery{Page: 1, Limit: 10}, ComponentTypeID: 3})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 1 || page.Items[0].ID != ssd.ID {
		t.Fatalf("type filter = %+v", page.Items)
	}
	if page.Items[0].ComponentTypeName == nil || *page.Items[0].ComponentTypeName != "Storage drive" {
		t.Fatalf("type label = %v", page.Items[0].ComponentTypeName)
	}

	page, err = repo.List(ctx, Filter{ListQuery: commonDto.ListQuery{Page: 1, Limit: 10, Search: "dimm"}, Status: "active"})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 7 {
		t.Fatalf("search+status total = %d, want 7", page.TotalCount)
	}
	if page.Items[0].Name != "DIMM 6" {
		t.Fatalf("newest first expected, got %s", page.Items[0].Name)
	}
}

func TestUpdateUnknownComponent(t *testing.T) {
	repo := NewComponentRepository(testdb.New(t))

	updated, err := repo.Update(context.Background(), 404, map[string]any{"name": "x"})
	if err != nil || updated != nil {
		t.Fatalf("Update = %v, %v", updated, err)
	}
}

func TestDeleteCascadesLinks(t *testing.T) {
	db := testdb.New(t)
	repo := NewComponentRepository(db)
	owner := testdb.CreateUser(t, db, "owner", entity.RoleAdmin)
	device := testdb.CreateDevice(t, db, "srv", testdb.CreateContract(t, db, "C-1", owner.ID).ID)
	cpu := testdb.CreateComponent(t, db, "cpu")

	if err := db.Create(&entity.DeviceComponent{DeviceID: device.ID, ComponentID: cpu.ID, IsActive: true}).Error; err != nil {
		t.Fatal(err)
	}

	affected, err := repo.Delete(context.Background(), cpu.ID)
	if err != nil || affected != 1 {
		t.Fatalf("Delete = %d, %v", affected, err)
	}

	var links int64
	db.Model(&entity.DeviceComponent{}).Count(&links)
	if links != 0 {
		t.Fatalf("links left after delete: %d", links)
	}
}
