package api

import (
	"net/http"
	"strings"
	"testing"
)

func TestPreferencesCRUD(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	token, _ := ta.register(t, "prefs@example.com")

	stored := ta.expectStatus(t, http.MethodPut, "/api/preferences/ui.theme", token, map[string]any{"value": "dark"}, http.StatusOK)
	if stored["key"] != "ui.theme" || stored["value"] != "dark" {
		t.Fatalf("unexpected preference %v", stored)
	}
	ta.expectStatus(t, http.MethodPut, "/api/preferences/ui.theme", token, map[string]any{"value": "light"}, http.StatusOK)
	ta.expectStatus(t, http.MethodPut, "/api/preferences/units", token, map[string]any{"value": "metric"}, http.StatusOK)

	listed := listField(t, ta.expectStatus(t, http.MethodGet, "/api/preferences", token, nil, http.StatusOK), "preferences")
	if len(listed) != 2 {
		t.Fatalf("expected two preferences, got %v", listed)
	}
	values := map[string]any{}
	for _, item := range listed {
		entry := item.(map[string]any)
		values[entry["key"].(string)] = entry["value"]
	}
	if values["ui.theme"] != "light" || values["units"] != "metric" {
		t.Fatalf("unexpected preference values %v", values)
	}

	invalid := ta.expectStatus(t, http.MethodPut, "/api/preferences/Bad%20Key", token, map[string]any{"value": "x"}, http.StatusBadRequest)
	if invalid["error"] != "preference key invalid" {
		t.Fatalf("expected invalid key, got %v", invalid)
	}
	ta.expectStatus(t, http.MethodPut, "/api/preferences/notes", token, map[string]any{"value": strings.Repeat("a", 1025)}, http.StatusBadRequest)

	ta.expectStatus(t, http.MethodDelete, "/api/preferences/units", token, nil, http.StatusNoContent)
	ta.expectStatus(t, http.MethodDelete, "/api/preferences/units", token, nil, http.StatusNotFound)
}

func TestPreferencesAreScopedToOwner(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	owner, _ := ta.register(t, "prefowner@example.com")
	other, _ := ta.register(t, "prefother@example.com")

	ta.expectStatus(t, http.MethodPut, "/api/preferences/ui.theme", owner, map[string]any{"value": "dark"}, http.StatusOK)
	if listed := listField(t, ta.expectStatus(t, http.MethodGet, "/api/preferences", other, nil, http.StatusOK), "preferences"); len(listed) != 0 {
		t.Fatalf("expected no preferences for another user, got %v", listed)
	}
	ta.expectStatus(t, http.MethodDelete, "/api/preferences/ui.theme", other, nil, http.StatusNotFound)
}
