package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"linsac/internal/database"
	"linsac/internal/fitting/model"
	"linsac/internal/linear"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	sDB, err := database.NewFromEnv(context.Background(), &database.Config{
		FileName: filepath.Join(t.TempDir(), "linsac-test.db"),
	})
	if err != nil {
		t.Fatalf("unable to open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := sDB.Close(context.Background()); err != nil {
			t.Errorf("unable to close test db: %v", err)
		}
	})
	return New(sDB)
}

func testFit(entityID string) model.Fit {
	return model.NewFit(entityID, &linear.Result{
		Coeffs:   linear.Coeffs{Intercept: 1, Slope: 2},
		Inliers:  []int{0, 1, 2},
		Outliers: []int{3},
		Trials:   17,
		Refitted: true,
	}, time.Now())
}

func TestStoreAndFindByEntity(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	stored := testFit("cpu")
	if err := db.Store(ctx, stored); err != nil {
		t.Fatalf("store error: %v", err)
	}
	if err := db.Store(ctx, testFit("mem")); err != nil {
		t.Fatalf("store error: %v", err)
	}

	fits, err := db.FindByEntity(ctx, "cpu")
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if len(fits) != 1 {
		t.Fatalf("fits found got: %d, expected: 1", len(fits))
	}
	got := fits[0]
	if got.ID != stored.ID {
		t.Errorf("fit id got: %v, expected: %v", got.ID, stored.ID)
	}
	if got.Coeffs != stored.Coeffs {
		t.Errorf("fit model got: %+v, expected: %+v", got.Coeffs, stored.Coeffs)
	}
	if len(got.Inliers) != 3 || len(got.Outliers) != 1 {
		t.Errorf("fit index sets got: %v / %v", got.Inliers, got.Outliers)
	}
}

func TestFindByUnknownEntity(t *testing.T) {
	db := testDB(t)

	fits, err := db.FindByEntity(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if len(fits) != 0 {
		t.Errorf("fits found got: %d, expected: 0", len(fits))
	}
}

func TestKeys(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, entityID := range []string{"cpu", "mem", "cpu"} {
		if err := db.Store(ctx, testFit(entityID)); err != nil {
			t.Fatalf("store error: %v", err)
		}
	}

	keys, err := db.Keys()
	if err != nil {
		t.Fatalf("keys error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys got: %v, expected 2 entities", keys)
	}
}
