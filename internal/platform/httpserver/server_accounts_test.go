package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	accounthttp "funded/contexts/identity-access/account-service/transport/http"
)

func TestSyncUserCreatesThenRefreshes(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPost, "/api/auth/sync", "", `{"email":"New.Person@Example.com","name":"New Person"}`)
	var created accounthttp.SyncUserResponse
	_ = json.Unmarshal(env.Data, &created)
	if rec.Code != http.StatusCreated || !created.Created || created.User.Role != "donor" {
		t.Fatalf("expected new donor, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec, env = ts.do(t, http.MethodPost, "/api/auth/sync", "", `{"email":"new.person@example.com","name":"Renamed"}`)
	var refreshed accounthttp.SyncUserResponse
	_ = json.Unmarshal(env.Data, &refreshed)
	if rec.Code != http.StatusOK || refreshed.Created || refreshed.User.UserID != created.User.UserID || refreshed.User.Name != "Renamed" {
		t.Fatalf("expected refresh of the same user, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec, env = ts.do(t, http.MethodPost, "/api/auth/sync", "", `{"email":"no-at-sign"}`)
	expectError(t, rec, env, http.StatusBadRequest, "invalid_request")
}

func TestStudentOnboardingFlow(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPost, "/api/students/profile", "donor-1", `{"country":"Nigeria"}`)
	expectError(t, rec, env, http.StatusBadRequest, "invalid_request")

	rec, env = ts.do(t, http.MethodPost, "/api/students/profile/documents", "donor-1", `{"type":"student_id","content_type":"application/pdf"}`)
	expectError(t, rec, env, http.StatusNotFound, "student_profile_not_found")

	rec, env = ts.do(t, http.MethodPost, "/api/students/profile", "donor-1", `{"country":"Nigeria","field_of_study":"Law","university":"University of Lagos"}`)
	var user accounthttp.UserDTO
	_ = json.Unmarshal(env.Data, &user)
	if rec.Code != http.StatusCreated || user.Role != "student" || user.StudentProfile == nil || user.StudentProfile.VerificationStatus != "pending" {
		t.Fatalf("expected pending student, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec, env = ts.do(t, http.MethodPost, "/api/students/profile", "donor-1", `{"country":"Nigeria","field_of_study":"Law","university":"University of Lagos"}`)
	expectError(t, rec, env, http.StatusConflict, "profile_exists")

	rec, env = ts.do(t, http.MethodPost, "/api/students/profile/documents", "donor-1", `{"type":"student_id","content_type":"application/pdf"}`)
	var upload accounthttp.DocumentUploadResponse
	_ = json.Unmarshal(env.Data, &upload)
	if rec.Code != http.StatusCreated || upload.Method != http.MethodPut || !strings.Contains(upload.UploadURL, "verification/donor-1/") {
		t.Fatalf("expected presigned upload, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec, env = ts.do(t, http.MethodGet, "/api/auth/me", "donor-1", "")
	_ = json.Unmarshal(env.Data, &user)
	if rec.Code != http.StatusOK || len(user.StudentProfile.Documents) != 1 || user.StudentProfile.Documents[0].Verified {
		t.Fatalf("expected one unverified document, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestListCountries(t *testing.T) {
	ts := newTestServer(t)
	rec, env := ts.do(t, http.MethodGet, "/api/countries", "", "")
	var resp accounthttp.CountriesResponse
	_ = json.Unmarshal(env.Data, &resp)
	if rec.Code != http.StatusOK || len(resp.Countries) != 11 || resp.Countries[0] != "United States" {
		t.Fatalf("expected 11 countries, got %d body=%s", rec.Code, rec.Body.String())
	}
}
