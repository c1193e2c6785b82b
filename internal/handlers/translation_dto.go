package handlers

import "translation-backend/internal/models"

type CreateTranslationRequest struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Language  string `json:"language"`
	Value     string `json:"value"`
}

// Validate applies shape checks only; language-set and namespace-existence
// checks live in the service.
func (r *CreateTranslationRequest) Validate() map[string]string {
	details := map[string]string{}
	if r.Namespace == "" {
		details["namespace"] = "namespace is required"
	} else if len(r.Namespace) > 100 {
		details["namespace"] = "namespace must be at most 100 characters"
	}
	if r.Key == "" {
		details["key"] = "key is required"
	} else if len(r.Key) > 255 {
		details["key"] = "key must be at most 255 characters"
	}
	if r.Language == "" {
		details["language"] = "language is required"
	} else if len(r.Language) > 10 {
		details["language"] = "language must be at most 10 characters"
	}
	if r.Value == "" {
		details["value"] = "value is required"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

type UpdateTranslationRequest struct {
	Value string `json:"value"`
}

type BulkUpdateRequest struct {
	Updates []models.BulkUpdateItem `json:"updates"`
}

type ExportRequest struct {
	Namespace string `json:"namespace"`
	Language  string `json:"language"`
	Format    string `json:"format"`
}

type CreateNamespaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

func (r *CreateNamespaceRequest) Validate() map[string]string {
	details := map[string]string{}
	if r.Name == "" {
		details["name"] = "name is required"
	} else if len(r.Name) > 100 {
		details["name"] = "name must be at most 100 characters"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
