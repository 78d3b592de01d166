package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Upload.MaxSize != 10<<20 {
		t.Errorf("expected default upload max size %d, got %d", int64(10<<20), cfg.Upload.MaxSize)
	}
	if len(cfg.Upload.AllowedExtensions) != 2 || cfg.Upload.AllowedExtensions[0] != ".csv" || cfg.Upload.AllowedExtensions[1] != ".xlsx" {
		t.Errorf("expected default allowed extensions [.csv .xlsx], got %v", cfg.Upload.AllowedExtensions)
	}
	if cfg.Analytics.TopProducts != 10 {
		t.Errorf("expected default top products 10, got %d", cfg.Analytics.TopProducts)
	}
	if cfg.Analytics.MovingAverageWindow != 3 {
		t.Errorf("expected default moving average window 3, got %d", cfg.Analytics.MovingAverageWindow)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("UPLOAD_ALLOWED_EXTENSIONS", ".csv")
	t.Setenv("ANALYTICS_TOP_PRODUCTS", "5")
	t.Setenv("ANALYTICS_MOVING_AVERAGE_WINDOW", "7")
	t.Setenv("DATA_FILE", "testdata/sales.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if len(cfg.Upload.AllowedExtensions) != 1 || cfg.Upload.AllowedExtensions[0] != ".csv" {
		t.Errorf("expected allowed extensions [.csv], got %v", cfg.Upload.AllowedExtensions)
	}
	if cfg.Analytics.TopProducts != 5 {
		t.Errorf("expected top products 5, got %d", cfg.Analytics.TopProducts)
	}
	if cfg.Analytics.MovingAverageWindow != 7 {
		t.Errorf("expected moving average window 7, got %d", cfg.Analytics.MovingAverageWindow)
	}
	if cfg.Data.File != "testdata/sales.csv" {
		t.Errorf("expected data file testdata/sales.csv, got %q", cfg.Data.File)
	}
}

func TestLoad_RejectsEvenMovingAverageWindow(t *testing.T) {
	t.Setenv("ANALYTICS_MOVING_AVERAGE_WINDOW", "4")

	if _, err := Load(); err == nil {
		t.Error("expected error for even moving average window")
	}
}

func TestLoad_RejectsBadExtension(t *testing.T) {
	t.Setenv("UPLOAD_ALLOWED_EXTENSIONS", "csv")

	if _, err := Load(); err == nil {
		t.Error("expected error for extension without a leading dot")
	}
}
