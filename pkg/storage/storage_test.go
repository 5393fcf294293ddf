package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	urlPath, err := store.Save("banner.PNG", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(urlPath, "/images/") {
		t.Fatalf("url path %q missing /images/ prefix", urlPath)
	}
	if !strings.HasSuffix(urlPath, ".png") {
		t.Errorf("extension not preserved lowercased: %q", urlPath)
	}

	onDisk := filepath.Join(dir, filepath.Base(urlPath))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("content = %q", data)
	}

	if err := store.Delete(urlPath); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Errorf("file still exists after delete")
	}
}

func TestDeleteUnknownPathIsNoop(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if err := store.Delete("/images/never-saved.png"); err != nil {
		t.Errorf("Delete unknown: %v", err)
	}
}
