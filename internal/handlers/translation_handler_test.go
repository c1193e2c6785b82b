package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"translation-backend/internal/models"
	"translation-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type fakeTranslationService struct {
	services.TranslationService
	translations map[uint]*models.Translation
}

func (f *fakeTranslationService) GetByID(_ context.Context, id uint) (*models.Translation, error) {
	t, ok := f.translations[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return t, nil
}

func (f *fakeTranslationService) Create(_ context.Context, input services.CreateTranslationInput, _ models.AuditMeta) (*models.Translation, error) {
	for _, t := range f.translations {
		if t.Namespace == input.Namespace && t.Key == input.Key && t.Language == input.Language && t.IsActive {
			return nil, services.ErrDuplicateKey
		}
	}
	created := &models.Translation{
		ID:        uint(len(f.translations) + 1),
		Namespace: input.Namespace,
		Key:       input.Key,
		Language:  input.Language,
		Value:     input.Value,
		Version:   1,
		IsActive:  true,
	}
	f.translations[created.ID] = created
	return created, nil
}

func (f *fakeTranslationService) BulkUpdate(_ context.Context, items []models.BulkUpdateItem, _ models.AuditMeta) ([]models.BulkUpdateResult, models.BulkUpdateSummary) {
	results := make([]models.BulkUpdateResult, 0, len(items))
	summary := models.BulkUpdateSummary{Total: len(items)}
	for _, item := range items {
		if t, ok := f.translations[item.ID]; ok {
			t.Value = item.Value
			t.Version++
			results = append(results, models.BulkUpdateResult{ID: item.ID, Success: true, Data: t})
			summary.Successful++
		} else {
			results = append(results, models.BulkUpdateResult{ID: item.ID, Success: false, Error: services.ErrNotFound.Error()})
			summary.Errors++
		}
	}
	return results, summary
}

type recordingNotifier struct {
	events int
}

func (n *recordingNotifier) Broadcast(string, interface{}) {
	n.events++
}

type envelope struct {
	Success bool                      `json:"success"`
	Error   string                    `json:"error"`
	Code    string                    `json:"code"`
	Details map[string]string         `json:"details"`
	Data    json.RawMessage           `json:"data"`
	Summary *models.BulkUpdateSummary `json:"summary"`
}

func newHandlerApp(svc services.TranslationService, notifier Notifier) *fiber.App {
	log := logrus.New()
	log.SetOutput(io.Discard)
	handler := NewTranslationHandler(svc, notifier, log)

	app := fiber.New()
	app.Get("/api/translations/:id", handler.GetTranslationByID)
	app.Post("/api/translations", handler.CreateTranslation)
	app.Put("/api/translations/bulk", handler.BulkUpdateTranslations)
	return app
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestGetTranslationByIDNotFound(t *testing.T) {
	svc := &fakeTranslationService{translations: map[uint]*models.Translation{}}
	app := newHandlerApp(svc, &recordingNotifier{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/translations/42", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	env := decode(t, resp)
	if env.Success {
		t.Error("success should be false")
	}
	if env.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", env.Code)
	}
}

func TestGetTranslationByIDInvalidID(t *testing.T) {
	svc := &fakeTranslationService{translations: map[uint]*models.Translation{}}
	app := newHandlerApp(svc, &recordingNotifier{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/translations/abc", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateTranslationValidation(t *testing.T) {
	svc := &fakeTranslationService{translations: map[uint]*models.Translation{}}
	notifier := &recordingNotifier{}
	app := newHandlerApp(svc, notifier)

	body := bytes.NewBufferString(`{"namespace":"common","language":"en"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/translations", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	env := decode(t, resp)
	if env.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", env.Code)
	}
	if _, ok := env.Details["key"]; !ok {
		t.Errorf("details should flag the missing key field: %v", env.Details)
	}
	if _, ok := env.Details["value"]; !ok {
		t.Errorf("details should flag the missing value field: %v", env.Details)
	}
	if notifier.events != 0 {
		t.Error("validation failures must not broadcast")
	}
}

func TestCreateTranslationSuccessBroadcasts(t *testing.T) {
	svc := &fakeTranslationService{translations: map[uint]*models.Translation{}}
	notifier := &recordingNotifier{}
	app := newHandlerApp(svc, notifier)

	body := bytes.NewBufferString(`{"namespace":"common","key":"greeting","language":"en","value":"Hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/translations", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
	if notifier.events != 1 {
		t.Errorf("broadcasts = %d, want 1", notifier.events)
	}
}

func TestCreateTranslationDuplicate(t *testing.T) {
	svc := &fakeTranslationService{translations: map[uint]*models.Translation{
		1: {ID: 1, Namespace: "common", Key: "greeting", Language: "en", Value: "Hello", IsActive: true},
	}}
	app := newHandlerApp(svc, &recordingNotifier{})

	body := bytes.NewBufferString(`{"namespace":"common","key":"greeting","language":"en","value":"Hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/translations", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if env := decode(t, resp); env.Code != "DUPLICATE_KEY" {
		t.Errorf("code = %q, want DUPLICATE_KEY", env.Code)
	}
}

func TestBulkUpdateSummary(t *testing.T) {
	svc := &fakeTranslationService{translations: map[uint]*models.Translation{
		1: {ID: 1, Namespace: "common", Key: "a", Language: "en", Value: "x", Version: 1, IsActive: true},
		2: {ID: 2, Namespace: "common", Key: "b", Language: "en", Value: "y", Version: 1, IsActive: true},
	}}
	app := newHandlerApp(svc, &recordingNotifier{})

	body := bytes.NewBufferString(`{"updates":[{"id":1,"value":"x2"},{"id":99,"value":"nope"},{"id":2,"value":"y2"}]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/translations/bulk", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	env := decode(t, resp)
	if env.Summary == nil {
		t.Fatal("summary missing")
	}
	if env.Summary.Total != 3 || env.Summary.Successful != 2 || env.Summary.Errors != 1 {
		t.Errorf("summary = %+v, want total=3 successful=2 errors=1", env.Summary)
	}

	var results []models.BulkUpdateResult
	if err := json.Unmarshal(env.Data, &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("results length = %d, want 3", len(results))
	}
}

func TestBulkUpdateEmptyList(t *testing.T) {
	svc := &fakeTranslationService{translations: map[uint]*models.Translation{}}
	app := newHandlerApp(svc, &recordingNotifier{})

	body := bytes.NewBufferString(`{"updates":[]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/translations/bulk", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
