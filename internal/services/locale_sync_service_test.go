package services

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"translation-backend/internal/models"
)

func newTestSync(t *testing.T) (LocaleSyncService, string) {
	t.Helper()
	dir := t.TempDir()
	return NewLocaleSyncService(dir, testLogger()), dir
}

func readLocaleFile(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	content := map[string]string{}
	if err := json.Unmarshal(data, &content); err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return content
}

func TestSyncTranslationCreatesAndUpdatesFile(t *testing.T) {
	svc, dir := newTestSync(t)

	translation := &models.Translation{Namespace: "common", Key: "greeting", Language: "en", Value: "Hello", IsActive: true}
	if err := svc.SyncTranslation(translation); err != nil {
		t.Fatalf("SyncTranslation: %v", err)
	}

	path := filepath.Join(dir, "en", "common.json")
	content := readLocaleFile(t, path)
	if content["greeting"] != "Hello" {
		t.Errorf("greeting = %q, want Hello", content["greeting"])
	}

	translation.Value = "Hello there"
	if err := svc.SyncTranslation(translation); err != nil {
		t.Fatalf("SyncTranslation update: %v", err)
	}
	content = readLocaleFile(t, path)
	if content["greeting"] != "Hello there" {
		t.Errorf("greeting = %q, want Hello there", content["greeting"])
	}
}

func TestSyncTranslationRecoversFromCorruptFile(t *testing.T) {
	svc, dir := newTestSync(t)

	path := filepath.Join(dir, "en", "common.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	translation := &models.Translation{Namespace: "common", Key: "greeting", Language: "en", Value: "Hello"}
	if err := svc.SyncTranslation(translation); err != nil {
		t.Fatalf("SyncTranslation over corrupt file: %v", err)
	}

	content := readLocaleFile(t, path)
	if len(content) != 1 || content["greeting"] != "Hello" {
		t.Errorf("content = %v, want only greeting", content)
	}
}

func TestRemoveTranslationMissingFileIsNoop(t *testing.T) {
	svc, _ := newTestSync(t)

	translation := &models.Translation{Namespace: "common", Key: "greeting", Language: "en"}
	if err := svc.RemoveTranslation(translation); err != nil {
		t.Errorf("RemoveTranslation on missing file: %v", err)
	}
}

func TestRemoveTranslationDeletesKey(t *testing.T) {
	svc, dir := newTestSync(t)

	for _, key := range []string{"greeting", "farewell"} {
		if err := svc.SyncTranslation(&models.Translation{Namespace: "common", Key: key, Language: "en", Value: key}); err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.RemoveTranslation(&models.Translation{Namespace: "common", Key: "greeting", Language: "en"}); err != nil {
		t.Fatalf("RemoveTranslation: %v", err)
	}

	content := readLocaleFile(t, filepath.Join(dir, "en", "common.json"))
	if _, ok := content["greeting"]; ok {
		t.Error("greeting should be removed")
	}
	if content["farewell"] != "farewell" {
		t.Error("unrelated key should survive removal")
	}
}

func TestRebuildAllIsDeterministic(t *testing.T) {
	svc, dir := newTestSync(t)

	translations := []models.Translation{
		{Namespace: "common", Key: "b", Language: "en", Value: "2", IsActive: true},
		{Namespace: "common", Key: "a", Language: "en", Value: "1", IsActive: true},
		{Namespace: "home", Key: "title", Language: "fr", Value: "Accueil", IsActive: true},
		{Namespace: "common", Key: "gone", Language: "en", Value: "x", IsActive: false},
	}

	if err := svc.RebuildAll(translations); err != nil {
		t.Fatalf("RebuildAll: %v", err)
	}

	first, err := os.ReadFile(filepath.Join(dir, "en", "common.json"))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.RebuildAll(translations); err != nil {
		t.Fatalf("second RebuildAll: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(dir, "en", "common.json"))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("rebuild output should be byte-identical across runs")
	}

	content := readLocaleFile(t, filepath.Join(dir, "en", "common.json"))
	if _, ok := content["gone"]; ok {
		t.Error("inactive translations must not appear in locale files")
	}
	if content["a"] != "1" || content["b"] != "2" {
		t.Errorf("content = %v", content)
	}

	frContent := readLocaleFile(t, filepath.Join(dir, "fr", "home.json"))
	if frContent["title"] != "Accueil" {
		t.Errorf("fr/home content = %v", frContent)
	}
}

func TestRebuildOverwritesStaleKeys(t *testing.T) {
	svc, dir := newTestSync(t)

	if err := svc.SyncTranslation(&models.Translation{Namespace: "common", Key: "stale", Language: "en", Value: "old"}); err != nil {
		t.Fatal(err)
	}

	fresh := []models.Translation{
		{Namespace: "common", Key: "current", Language: "en", Value: "new", IsActive: true},
	}
	if err := svc.RebuildAll(fresh); err != nil {
		t.Fatalf("RebuildAll: %v", err)
	}

	content := readLocaleFile(t, filepath.Join(dir, "en", "common.json"))
	if _, ok := content["stale"]; ok {
		t.Error("rebuild must overwrite the file entirely, stale key survived")
	}
	if content["current"] != "new" {
		t.Errorf("content = %v", content)
	}
}
