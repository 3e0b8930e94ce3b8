// Package brreg is a read-only client for the Brønnøysund business registry
// (Enhetsregisteret). It validates organization numbers locally and maps the
// registry's entity schema to the internal organization shape.
package brreg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/choirdinated/backend/internal/pkg/logger"
)

// DefaultBaseURL is the public Enhetsregisteret API root
const DefaultBaseURL = "https://data.brreg.no/enhetsregisteret/api"

// Organization is the internal shape of a registry entity
type Organization struct {
	OrganizationNumber string `json:"organizationNumber"`
	Name               string `json:"name"`
	OrgForm            string `json:"orgForm,omitempty"`
	OrgFormDescription string `json:"orgFormDescription,omitempty"`
	Address            string `json:"address,omitempty"`
	PostalCode         string `json:"postalCode,omitempty"`
	City               string `json:"city,omitempty"`
	IndustryCode       string `json:"industryCode,omitempty"`
	Industry           string `json:"industry,omitempty"`
	Deleted            bool   `json:"deleted,omitempty"`
}

// registry wire schema, fields we care about only
type registryEntity struct {
	Organisasjonsnummer string `json:"organisasjonsnummer"`
	Navn                string `json:"navn"`
	Organisasjonsform   struct {
		Kode        string `json:"kode"`
		Beskrivelse string `json:"beskrivelse"`
	} `json:"organisasjonsform"`
	Forretningsadresse struct {
		Adresse    []string `json:"adresse"`
		Postnummer string   `json:"postnummer"`
		Poststed   string   `json:"poststed"`
	} `json:"forretningsadresse"`
	Naeringskode1 struct {
		Kode        string `json:"kode"`
		Beskrivelse string `json:"beskrivelse"`
	} `json:"naeringskode1"`
	Slettedato string `json:"slettedato"`
}

type searchResult struct {
	Embedded struct {
		Enheter []registryEntity `json:"enheter"`
	} `json:"_embedded"`
}

// Client talks to the registry over HTTP. It performs no retries; upstream
// failures surface directly to the caller.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a registry client. An empty baseURL selects the public
// registry endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// LookupByOrganizationNumber fetches a single entity. The number must be
// exactly 9 digits after whitespace stripping. An upstream 404 returns
// (nil, nil), not an error.
func (c *Client) LookupByOrganizationNumber(ctx context.Context, raw string) (*Organization, error) {
	orgnr, err := NormalizeOrganizationNumber(raw)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/enheter/"+orgnr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warn().Int("status", resp.StatusCode).Str("orgnr", orgnr).Msg("Unexpected registry response")
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var entity registryEntity
	if err := json.NewDecoder(resp.Body).Decode(&entity); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	return mapEntity(entity), nil
}

// SearchByName searches entities by name and maps each hit
func (c *Client) SearchByName(ctx context.Context, name string) ([]*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []*Organization{}, nil
	}

	endpoint := c.baseURL + "/enheter?navn=" + url.QueryEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var result searchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode registry search response: %w", err)
	}

	organizations := make([]*Organization, 0, len(result.Embedded.Enheter))
	for _, entity := range result.Embedded.Enheter {
		organizations = append(organizations, mapEntity(entity))
	}
	return organizations, nil
}

func mapEntity(entity registryEntity) *Organization {
	return &Organization{
		OrganizationNumber: entity.Organisasjonsnummer,
		Name:               entity.Navn,
		OrgForm:            entity.Organisasjonsform.Kode,
		OrgFormDescription: entity.Organisasjonsform.Beskrivelse,
		Address:            strings.Join(entity.Forretningsadresse.Adresse, ", "),
		PostalCode:         entity.Forretningsadresse.Postnummer,
		City:               entity.Forretningsadresse.Poststed,
		IndustryCode:       entity.Naeringskode1.Kode,
		Industry:           entity.Naeringskode1.Beskrivelse,
		Deleted:            entity.Slettedato != "",
	}
}
