package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ning0612/Sortrules/internal/domain"
)

func TestNewManager(t *testing.T) {
	tmpDir := t.TempDir()

	manager, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	defer manager.Close()

	if manager.db == nil {
		t.Error("Database connection is nil")
	}

	// Verify database file was created
	dbPath := filepath.Join(tmpDir, "sortrules.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNewManager_EmptyDir(t *testing.T) {
	_, err := NewManager("")
	if err == nil {
		t.Error("Expected error for empty directory, got nil")
	}
}

func TestSaveAndList(t *testing.T) {
	tmpDir := t.TempDir()
	manager, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	defer manager.Close()

	record := Record{
		Operation:  domain.OpOrganize,
		Directory:  "/home/user/Downloads",
		Items:      12,
		Status:     "success",
		StartedAt:  time.Now().Add(-10 * time.Minute),
		FinishedAt: time.Now(),
	}

	if err := manager.Save(record); err != nil {
		t.Fatalf("Failed to save record: %v", err)
	}

	records, err := manager.List(10)
	if err != nil {
		t.Fatalf("Failed to list history: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	retrieved := records[0]
	if retrieved.ID == "" {
		t.Error("Expected record to be assigned an ID")
	}
	if retrieved.Operation != domain.OpOrganize {
		t.Errorf("Expected operation organize, got %s", retrieved.Operation)
	}
	if retrieved.Directory != record.Directory {
		t.Errorf("Expected directory %s, got %s", record.Directory, retrieved.Directory)
	}
	if retrieved.Items != record.Items {
		t.Errorf("Expected items %d, got %d", record.Items, retrieved.Items)
	}
	if retrieved.Status != record.Status {
		t.Errorf("Expected status %s, got %s", record.Status, retrieved.Status)
	}
}

func TestList_Ordering(t *testing.T) {
	tmpDir := t.TempDir()
	manager, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	defer manager.Close()

	records := []Record{
		{Operation: domain.OpOrganize, Directory: "/a", Items: 5, Status: "success", StartedAt: time.Now().Add(-30 * time.Minute), FinishedAt: time.Now().Add(-29 * time.Minute)},
		{Operation: domain.OpUndo, Directory: "/a", Items: 5, Status: "success", StartedAt: time.Now().Add(-20 * time.Minute), FinishedAt: time.Now().Add(-19 * time.Minute)},
		{Operation: domain.OpOrganize, Directory: "/b", Items: 0, Status: "failed", Error: "permission denied", StartedAt: time.Now().Add(-10 * time.Minute), FinishedAt: time.Now().Add(-9 * time.Minute)},
	}

	for _, record := range records {
		if err := manager.Save(record); err != nil {
			t.Fatalf("Failed to save record: %v", err)
		}
	}

	all, err := manager.List(100)
	if err != nil {
		t.Fatalf("Failed to list history: %v", err)
	}

	if len(all) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(all))
	}

	// Verify ordering (should be DESC by started_at)
	if all[0].Directory != "/b" || all[0].Status != "failed" {
		t.Error("Expected most recent record to be the failed organize of /b")
	}
}

func TestList_Limit(t *testing.T) {
	tmpDir := t.TempDir()
	manager, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	defer manager.Close()

	for i := 0; i < 5; i++ {
		record := Record{
			Operation:  domain.OpOrganize,
			Directory:  "/d",
			Items:      i,
			Status:     "success",
			StartedAt:  time.Now().Add(time.Duration(-i*10) * time.Minute),
			FinishedAt: time.Now().Add(time.Duration(-i*10+1) * time.Minute),
		}
		if err := manager.Save(record); err != nil {
			t.Fatalf("Failed to save record: %v", err)
		}
	}

	records, err := manager.List(3)
	if err != nil {
		t.Fatalf("Failed to list history: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	// Verify we got the most recent ones
	if records[0].Items != 0 {
		t.Errorf("Expected most recent record to have 0 items, got %d", records[0].Items)
	}
}

func TestListByOperation(t *testing.T) {
	tmpDir := t.TempDir()
	manager, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	defer manager.Close()

	records := []Record{
		{Operation: domain.OpOrganize, Directory: "/a", Items: 5, Status: "success", StartedAt: time.Now().Add(-30 * time.Minute), FinishedAt: time.Now().Add(-29 * time.Minute)},
		{Operation: domain.OpRename, Directory: "/a", Items: 3, Status: "success", StartedAt: time.Now().Add(-20 * time.Minute), FinishedAt: time.Now().Add(-19 * time.Minute)},
		{Operation: domain.OpOrganize, Directory: "/b", Items: 7, Status: "partial", StartedAt: time.Now().Add(-10 * time.Minute), FinishedAt: time.Now().Add(-9 * time.Minute)},
	}

	for _, record := range records {
		if err := manager.Save(record); err != nil {
			t.Fatalf("Failed to save record: %v", err)
		}
	}

	organizes, err := manager.ListByOperation(domain.OpOrganize, 10)
	if err != nil {
		t.Fatalf("Failed to list by operation: %v", err)
	}

	if len(organizes) != 2 {
		t.Fatalf("Expected 2 organize records, got %d", len(organizes))
	}
	for _, record := range organizes {
		if record.Operation != domain.OpOrganize {
			t.Errorf("Unexpected operation in filtered list: %s", record.Operation)
		}
	}
	if organizes[0].Directory != "/b" {
		t.Errorf("Expected newest organize first, got %s", organizes[0].Directory)
	}
}

func TestClear(t *testing.T) {
	tmpDir := t.TempDir()
	manager, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	defer manager.Close()

	record := Record{
		Operation:  domain.OpOrganize,
		Directory:  "/a",
		Items:      1,
		Status:     "success",
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}
	if err := manager.Save(record); err != nil {
		t.Fatalf("Failed to save record: %v", err)
	}

	if err := manager.Clear(); err != nil {
		t.Fatalf("Failed to clear history: %v", err)
	}

	records, err := manager.List(10)
	if err != nil {
		t.Fatalf("Failed to list history: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected empty history after clear, got %d records", len(records))
	}
}

// Test validation: invalid status
func TestSave_InvalidStatus(t *testing.T) {
	tmpDir := t.TempDir()
	manager, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	defer manager.Close()

	record := Record{
		Operation:  domain.OpOrganize,
		Directory:  "/a",
		Status:     "invalid_status", // Invalid status
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}

	if err := manager.Save(record); err == nil {
		t.Error("Expected error for invalid status, got nil")
	}
}

// Test validation: unknown operation type
func TestSave_InvalidOperation(t *testing.T) {
	tmpDir := t.TempDir()
	manager, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	defer manager.Close()

	record := Record{
		Operation:  "defragment",
		Directory:  "/a",
		Status:     "success",
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}

	if err := manager.Save(record); err == nil {
		t.Error("Expected error for invalid operation, got nil")
	}
}

// Test validation: invalid limit in List
func TestList_InvalidLimit(t *testing.T) {
	tmpDir := t.TempDir()
	manager, err := NewManager(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	defer manager.Close()

	if _, err := manager.List(0); err == nil {
		t.Error("Expected error for limit=0, got nil")
	}

	if _, err := manager.List(-1); err == nil {
		t.Error("Expected error for limit=-1, got nil")
	}
}
