package repository

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mr1hm/go-disaster-hub/internal/catalog"
	"github.com/mr1hm/go-disaster-hub/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func saveDefault(t *testing.T, db *SQLiteDB) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	if err := db.SaveCatalog(context.Background(), cat); err != nil {
		t.Fatalf("SaveCatalog failed: %v", err)
	}
	return cat
}

func TestSQLiteDB_SaveAndListProfiles(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cat := saveDefault(t, db)

	profiles, err := db.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if len(profiles) != int(models.NumCategories) {
		t.Fatalf("expected %d profiles, got %d", models.NumCategories, len(profiles))
	}
	for i, p := range profiles {
		if !reflect.DeepEqual(p, cat.Profiles[i]) {
			t.Errorf("profile %d differs:\n got %+v\nwant %+v", i, p, cat.Profiles[i])
		}
	}
}

func TestSQLiteDB_ListTimeSeries(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cat := saveDefault(t, db)

	points, err := db.ListTimeSeries(context.Background())
	if err != nil {
		t.Fatalf("ListTimeSeries failed: %v", err)
	}
	if !reflect.DeepEqual(points, cat.TimeSeries) {
		t.Errorf("time series differs:\n got %+v\nwant %+v", points, cat.TimeSeries)
	}
}

func TestSQLiteDB_ListEconomicImpact(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cat := saveDefault(t, db)

	entries, err := db.ListEconomicImpact(context.Background())
	if err != nil {
		t.Fatalf("ListEconomicImpact failed: %v", err)
	}
	if !reflect.DeepEqual(entries, cat.EconomicImpact) {
		t.Errorf("economic impact differs:\n got %+v\nwant %+v", entries, cat.EconomicImpact)
	}
}

func TestSQLiteDB_ListMarkers_WithFilters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cat := saveDefault(t, db)
	ctx := context.Background()

	all, err := db.ListMarkers(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListMarkers failed: %v", err)
	}
	if !reflect.DeepEqual(all, cat.Markers) {
		t.Errorf("markers differ:\n got %+v\nwant %+v", all, cat.Markers)
	}

	quake := models.CategoryEarthquake
	quakes, err := db.ListMarkers(ctx, Filter{Category: &quake})
	if err != nil {
		t.Fatalf("ListMarkers failed: %v", err)
	}
	if len(quakes) != 2 {
		t.Errorf("expected 2 earthquakes, got %d", len(quakes))
	}
	for _, m := range quakes {
		if m.Category != models.CategoryEarthquake {
			t.Errorf("unexpected category %s", m.Category)
		}
	}

	page, err := db.ListMarkers(ctx, Filter{Limit: 3, Offset: 1})
	if err != nil {
		t.Fatalf("ListMarkers failed: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(page))
	}
	if page[0].Name != "Hurricane Idalia" {
		t.Errorf("expected offset to skip first marker, got %s", page[0].Name)
	}

	tail, err := db.ListMarkers(ctx, Filter{Offset: 6})
	if err != nil {
		t.Fatalf("ListMarkers failed: %v", err)
	}
	if len(tail) != 2 {
		t.Errorf("expected offset without limit to return 2 markers, got %d", len(tail))
	}
}

func TestSQLiteDB_SaveReplaces(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cat := saveDefault(t, db)

	if err := db.SaveCatalog(context.Background(), cat); err != nil {
		t.Fatalf("second SaveCatalog failed: %v", err)
	}

	markers, err := db.ListMarkers(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("ListMarkers failed: %v", err)
	}
	if len(markers) != len(cat.Markers) {
		t.Errorf("expected %d markers after resave, got %d", len(cat.Markers), len(markers))
	}
}

func TestSQLiteDB_EmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	markers, err := db.ListMarkers(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("ListMarkers failed: %v", err)
	}
	if len(markers) != 0 {
		t.Errorf("expected no markers, got %d", len(markers))
	}
}

func TestSQLiteDB_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.db")

	db, err := NewSQLiteDB(path)
	if err != nil {
		t.Fatalf("NewSQLiteDB failed: %v", err)
	}
	saveDefault(t, db)
	db.Close()

	reopened, err := NewSQLiteDB(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	points, err := reopened.ListTimeSeries(context.Background())
	if err != nil {
		t.Fatalf("ListTimeSeries failed: %v", err)
	}
	if len(points) != 5 {
		t.Errorf("expected 5 persisted points, got %d", len(points))
	}
}
