package brreg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLookupMapsEntity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/enheter/923609016" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"organisasjonsnummer": "923609016",
			"navn": "EQUINOR ASA",
			"organisasjonsform": {"kode": "ASA", "beskrivelse": "Allmennaksjeselskap"},
			"forretningsadresse": {"adresse": ["Forusbeen 50"], "postnummer": "4035", "poststed": "STAVANGER"},
			"naeringskode1": {"kode": "06.100", "beskrivelse": "Utvinning av råolje"}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	org, err := client.LookupByOrganizationNumber(context.Background(), "923 609 016")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org == nil {
		t.Fatal("expected an organization, got nil")
	}
	if org.OrganizationNumber != "923609016" || org.Name != "EQUINOR ASA" {
		t.Errorf("bad mapping: %+v", org)
	}
	if org.OrgForm != "ASA" || org.City != "STAVANGER" || org.Address != "Forusbeen 50" {
		t.Errorf("bad mapping: %+v", org)
	}
	if org.Deleted {
		t.Error("organization should not be marked deleted")
	}
}

func TestLookupNotFoundReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	org, err := client.LookupByOrganizationNumber(context.Background(), "923609016")
	if err != nil {
		t.Fatalf("404 should not be an error, got %v", err)
	}
	if org != nil {
		t.Errorf("404 should yield nil organization, got %+v", org)
	}
}

func TestLookupRejectsMalformedNumber(t *testing.T) {
	client := NewClient("http://unused.invalid", time.Second)
	for _, orgnr := range []string{"", "1234", "92360901x"} {
		if _, err := client.LookupByOrganizationNumber(context.Background(), orgnr); err == nil {
			t.Errorf("LookupByOrganizationNumber(%q) should fail before any HTTP call", orgnr)
		}
	}
}

func TestLookupUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	if _, err := client.LookupByOrganizationNumber(context.Background(), "923609016"); err == nil {
		t.Error("upstream 500 should surface as an error")
	}
}

func TestSearchByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("navn"); got != "kor" {
			t.Errorf("navn query = %q, want kor", got)
		}
		w.Write([]byte(`{"_embedded": {"enheter": [
			{"organisasjonsnummer": "974760673", "navn": "OSLO KAMMERKOR"},
			{"organisasjonsnummer": "971277882", "navn": "BERGEN DOMKOR"}
		]}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	orgs, err := client.SearchByName(context.Background(), "kor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orgs) != 2 {
		t.Fatalf("got %d results, want 2", len(orgs))
	}
	if orgs[0].Name != "OSLO KAMMERKOR" {
		t.Errorf("first hit = %+v", orgs[0])
	}
}
