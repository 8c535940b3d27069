package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"quotation_backend/internal/catalog/repository"
)

func newTestCache(t *testing.T) (*ListCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, nil), srv
}

func TestCategoriesReadThrough(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	want := []repository.Category{
		{ID: uuid.New(), Name: "Giám sát an ninh", IconKey: "securityAlert"},
		{ID: uuid.New(), Name: "Giám sát thông thường", IconKey: "camera"},
	}

	loads := 0
	load := func(context.Context) ([]repository.Category, error) {
		loads++
		return want, nil
	}

	first, err := cache.Categories(ctx, load)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if len(first) != 2 || first[0].Name != want[0].Name {
		t.Fatalf("first read returned %+v, want %+v", first, want)
	}

	second, err := cache.Categories(ctx, load)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if loads != 1 {
		t.Fatalf("loader ran %d times, want 1", loads)
	}
	if second[1].IconKey != "camera" {
		t.Fatalf("cached icon key = %q, want camera", second[1].IconKey)
	}
}

func TestItemDetailsKeyedByEnvironment(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cloudLoads, onPremLoads := 0, 0

	cloud := func(context.Context) ([]repository.ItemDetail, error) {
		cloudLoads++
		return []repository.ItemDetail{{ID: uuid.New(), Name: "Cloud AI Camera", Environment: repository.EnvironmentCloud}}, nil
	}
	onPrem := func(context.Context) ([]repository.ItemDetail, error) {
		onPremLoads++
		return []repository.ItemDetail{{ID: uuid.New(), Name: "NVR Station", Environment: repository.EnvironmentOnPremise}}, nil
	}

	if _, err := cache.ItemDetails(ctx, "Cloud", cloud); err != nil {
		t.Fatalf("cloud read: %v", err)
	}
	if _, err := cache.ItemDetails(ctx, "OnPremise", onPrem); err != nil {
		t.Fatalf("on-premise read: %v", err)
	}
	if _, err := cache.ItemDetails(ctx, "Cloud", cloud); err != nil {
		t.Fatalf("cloud reread: %v", err)
	}

	if cloudLoads != 1 || onPremLoads != 1 {
		t.Fatalf("loads = (%d cloud, %d on-premise), want (1, 1)", cloudLoads, onPremLoads)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) ([]repository.Category, error) {
		loads++
		return []repository.Category{{ID: uuid.New(), Name: "Giám sát an ninh"}}, nil
	}

	if _, err := cache.Categories(ctx, load); err != nil {
		t.Fatalf("warm read: %v", err)
	}
	cache.Invalidate(ctx)
	if _, err := cache.Categories(ctx, load); err != nil {
		t.Fatalf("read after invalidate: %v", err)
	}

	if loads != 2 {
		t.Fatalf("loader ran %d times, want 2 after invalidation", loads)
	}
}

func TestNilClientFallsThrough(t *testing.T) {
	cache := New(nil, nil)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) ([]repository.Category, error) {
		loads++
		return nil, nil
	}

	for i := 0; i < 3; i++ {
		if _, err := cache.Categories(ctx, load); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
	}
	if loads != 3 {
		t.Fatalf("loader ran %d times, want 3 with caching disabled", loads)
	}
}

func TestCacheDegradesWhenRedisDown(t *testing.T) {
	cache, srv := newTestCache(t)
	ctx := context.Background()

	srv.Close()

	want := []repository.Category{{ID: uuid.New(), Name: "Giám sát thông thường"}}
	got, err := cache.Categories(ctx, func(context.Context) ([]repository.Category, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("read with redis down: %v", err)
	}
	if len(got) != 1 || got[0].Name != want[0].Name {
		t.Fatalf("read with redis down returned %+v, want %+v", got, want)
	}
}
