package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/testdb"
)

func newPhoto(ref entity.EntityRef, n int) *entity.Photo {
	return &entity.Photo{
		EntityType: ref.Type,
		EntityID:   ref.ID,
		FilePath:   fmt.Sprintf("photos/photo-%d.png", n),
		FileName:   fmt.Sprintf("p%d.png", n),
		FileSize:   100,
		MimeType:   "image/png",
	}
}

func seed(t *testing.T, repo PhotoRepository, ref entity.EntityRef, count int) []*entity.Photo {
	t.Helper()
	var photos []*entity.Photo
	for i := 0; i < count; i++ {
		p, err := repo.Create(context.Background(), newPhoto(ref, i))
		if err != nil {
			t.Fatal(err)
		}
		photos = append(photos, p)
	}
	return photos
}

func primaries(t *testing.T, repo PhotoRepository, ref entity.EntityRef) []uint {
	t.Helper()
	photos, err := repo.ListByEntity(context.Background(), ref)
	if err != nil {
		t.Fatal(err)
	}
	var ids []uint
	for _, p := range photos {
		if p.IsPrimary {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func TestFirstPhotoBecomesPrimary(t *testing.T) {
	db := testdb.New(t)
	repo := NewPhotoRepository(db)
	ref := entity.ComponentRef(testdb.CreateComponent(t, db, "gpu").ID)

	photos := seed(t, repo, ref, 3)
	if !photos[0].IsPrimary || photos[1].IsPrimary || photos[2].IsPrimary {
		t.Fatalf("primary flags = %v %v %v", photos[0].IsPrimary, photos[1].IsPrimary, photos[2].IsPrimary)
	}
	if photos[0].UploadedAt.IsZero() {
		t.Fatal("uploaded_at not set")
	}
}

func TestSetAsPrimaryKeepsExactlyOne(t *testing.T) {
	db := testdb.New(t)
	repo := NewPhotoRepository(db)
	ref := entity.DeviceRef(1)
	other := entity.DeviceRef(2)
	photos := seed(t, repo, ref, 3)
	otherPhotos := seed(t, repo, other, 1)

	updated, err := repo.SetAsPrimary(context.Background(), photos[2].ID, ref)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.IsPrimary || updated.ID != photos[2].ID {
		t.Fatalf("updated = %+v", updated)
	}
	if ids := primaries(t, repo, ref); len(ids) != 1 || ids[0] != photos[2].ID {
		t.Fatalf("primaries = %v", ids)
	}
	if ids := primaries(t, repo, other); len(ids) != 1 || ids[0] != otherPhotos[0].ID {
		t.Fatalf("other entity touched: %v", ids)
	}

	list, _ := repo.ListByEntity(context.Background(), ref)
	if list[0].ID != photos[2].ID || list[1].ID != photos[0].ID || list[2].ID != photos[1].ID {
		t.Fatalf("order = %d %d %d", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestConcurrentSetAsPrimary(t *testing.T) {
	db := testdb.New(t)
	repo := NewPhotoRepository(db)
	ref := entity.DeviceRef(1)
	photos := seed(t, repo, ref, 4)

	var wg sync.WaitGroup
	for _, p := range photos[1:] {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			if _, err := repo.SetAsPrimary(context.Background(), id, ref); err != nil {
				t.Errorf("SetAsPrimary(%d): %v", id, err)
			}
		}(p.ID)
	}
	wg.Wait()

	if ids := primaries(t, repo, ref); len(ids) != 1 || ids[0] == photos[0].ID {
		t.Fatalf("primaries after concurrent toggles = %v", ids)
	}
}

func TestDeletePrimaryPromotesOldest(t *testing.T) {
	db := testdb.New(t)
	repo := NewPhotoRepository(db)
	ref := entity.DeviceRef(1)
	photos := seed(t, repo, ref, 3)

	affected, err := repo.Delete(context.Background(), photos[0].ID)
	if err != nil || affected != 1 {
		t.Fatalf("Delete = %d, %v", affected, err)
	}
	if ids := primaries(t, repo, ref); len(ids) != 1 || ids[0] != photos[1].ID {
		t.Fatalf("primaries = %v, want %d", ids, photos[1].ID)
	}

	affected, err = repo.Delete(context.Background(), 999)
	if err != nil || affected != 0 {
		t.Fatalf("Delete unknown = %d, %v", affected, err)
	}
}

func TestFindOrphans(t *testing.T) {
	db := testdb.New(t)
	repo := NewPhotoRepository(db)
	owner := testdb.CreateUser(t, db, "owner", entity.RoleAdmin)
	device := testdb.CreateDevice(t, db, "srv", testdb.CreateContract(t, db, "C-1", owner.ID).ID)
	component := testdb.CreateComponent(t, db, "ram")

	seed(t, repo, entity.DeviceRef(device.ID), 1)
	seed(t, repo, entity.ComponentRef(component.ID), 1)
	lost := seed(t, repo, entity.DeviceRef(device.ID+100), 1)
	lostToo := seed(t, repo, entity.ComponentRef(component.ID+100), 1)

	orphans, err := repo.FindOrphans(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(orphans) != 2 || orphans[0].ID != lost[0].ID || orphans[1].ID != lostToo[0].ID {
		t.Fatalf("orphans = %+v", orphans)
	}

	ok, err := repo.EntityExists(context.Background(), entity.DeviceRef(device.ID))
	if err != nil || !ok {
		t.Fatalf("EntityExists = %v, %v", ok, err)
	}
	ok, _ = repo.EntityExists(context.Background(), entity.ComponentRef(999))
	if ok {
		t.Fatal("missing component reported as existing")
	}
}
