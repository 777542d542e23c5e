package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	campaignhttp "funded/contexts/fundraising/campaign-service/transport/http"
)

func TestListCampaignsShowsActiveWithStudents(t *testing.T) {
	ts := newTestServer(t)
	rec, env := ts.do(t, http.MethodGet, "/api/campaigns", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var items []campaignhttp.CampaignDTO
	_ = json.Unmarshal(env.Data, &items)
	var pagination campaignhttp.PaginationDTO
	_ = json.Unmarshal(env.Pagination, &pagination)

	if len(items) != 2 || pagination.Total != 2 || pagination.Limit != 12 || pagination.Page != 1 {
		t.Fatalf("expected two active campaigns on page 1, got %d items pagination=%+v", len(items), pagination)
	}
	if items[0].CampaignID != "c3" {
		t.Fatalf("expected newest first, got %s", items[0].CampaignID)
	}
	for _, item := range items {
		if item.Student == nil || item.Student.UserID != item.StudentID {
			t.Fatalf("expected student summary on %s, got %+v", item.CampaignID, item.Student)
		}
	}
}

func TestListCampaignsFiltersByStudentProfile(t *testing.T) {
	ts := newTestServer(t)
	rec, env := ts.do(t, http.MethodGet, "/api/campaigns?country=kenya", "", "")
	var items []campaignhttp.CampaignDTO
	_ = json.Unmarshal(env.Data, &items)
	if rec.Code != http.StatusOK || len(items) != 1 || items[0].CampaignID != "c1" {
		t.Fatalf("expected only c1, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !items[0].Student.Verified || items[0].Student.Country != "Kenya" {
		t.Fatalf("expected verified Kenyan student, got %+v", items[0].Student)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/campaigns?country=Brazil", "", "")
	_ = json.Unmarshal(env.Data, &items)
	if rec.Code != http.StatusOK || len(items) != 0 {
		t.Fatalf("expected no campaigns, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec, env = ts.do(t, http.MethodGet, "/api/campaigns?limit=abc", "", "")
	expectError(t, rec, env, http.StatusBadRequest, "invalid_pagination")
}

func TestGetCampaignIncludesDonorWall(t *testing.T) {
	ts := newTestServer(t)
	rec, env := ts.do(t, http.MethodGet, "/api/campaigns/c2", "", "")
	var resp campaignhttp.GetCampaignResponse
	_ = json.Unmarshal(env.Data, &resp)
	if rec.Code != http.StatusOK || resp.Campaign.Status != "completed" || resp.Campaign.Student == nil {
		t.Fatalf("expected completed campaign with student, got %d body=%s", rec.Code, rec.Body.String())
	}
	if resp.Donors == nil {
		t.Fatal("expected an empty donor wall, not null")
	}

	rec, env = ts.do(t, http.MethodGet, "/api/campaigns/nope", "", "")
	expectError(t, rec, env, http.StatusNotFound, "campaign_not_found")
}

func TestCreateCampaignRequiresVerifiedStudent(t *testing.T) {
	ts := newTestServer(t)
	body := `{"title":"Books for term","story":"Need textbooks.","category":"books","target_amount":250,"timeline":"1 month"}`

	rec, env := ts.do(t, http.MethodPost, "/api/campaigns", "", body)
	expectError(t, rec, env, http.StatusUnauthorized, "missing_user")

	rec, env = ts.do(t, http.MethodPost, "/api/campaigns", "student-2", body)
	expectError(t, rec, env, http.StatusForbidden, "student_not_verified")

	rec, env = ts.do(t, http.MethodPost, "/api/campaigns", "student-1", `{"title":"x","story":"y","category":"yachts","target_amount":5,"timeline":"z"}`)
	expectError(t, rec, env, http.StatusBadRequest, "invalid_category")

	rec, env = ts.do(t, http.MethodPost, "/api/campaigns", "student-1", body)
	if rec.Code != http.StatusCreated || env.Message != "Campaign created" {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var created campaignhttp.CampaignDTO
	_ = json.Unmarshal(env.Data, &created)
	if created.TargetAmount != 250 || created.Status != "active" || created.StudentID != "student-1" {
		t.Fatalf("unexpected campaign %+v", created)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/campaigns/my", "student-1", "")
	var mine []campaignhttp.CampaignDTO
	_ = json.Unmarshal(env.Data, &mine)
	if rec.Code != http.StatusOK || len(mine) != 3 {
		t.Fatalf("expected three owned campaigns, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUpdateAndCancelCampaignOwnership(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPut, "/api/campaigns/c1", "student-2", `{"title":"Hijack"}`)
	expectError(t, rec, env, http.StatusForbidden, "forbidden")

	rec, env = ts.do(t, http.MethodPut, "/api/campaigns/c1", "student-1", `{"impact_log":"Paid first semester"}`)
	var updated campaignhttp.CampaignDTO
	_ = json.Unmarshal(env.Data, &updated)
	if rec.Code != http.StatusOK || updated.ImpactLog != "Paid first semester" {
		t.Fatalf("expected impact log update, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec, env = ts.do(t, http.MethodDelete, "/api/campaigns/c1", "admin-1", "")
	var cancelled campaignhttp.CampaignDTO
	_ = json.Unmarshal(env.Data, &cancelled)
	if rec.Code != http.StatusOK || cancelled.Status != "cancelled" {
		t.Fatalf("expected cancelled, got %d body=%s", rec.Code, rec.Body.String())
	}
}
