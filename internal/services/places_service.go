package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// LoadState tracks the one-time warm-up of the places API adapter.
type LoadState int

const (
	LoadNotStarted LoadState = iota
	LoadLoading
	LoadReady
)

// DefaultPlacesBaseURL is the third-party places API. Overridable for
// tests through NewPlacesServiceWithBaseURL.
const DefaultPlacesBaseURL = "https://maps.googleapis.com/maps/api/place"

// defaultWarmupTimeout bounds how long a caller waits for the adapter to
// become ready. Hitting it is non-fatal: suggestions are simply disabled
// for that request.
const defaultWarmupTimeout = 10 * time.Second

// Prediction is an address suggestion for a partial input.
type Prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// ResolvedAddress is the (street, city, postal code) tuple derived from a
// selected place. Missing city or postal code are empty strings, never
// errors.
type ResolvedAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// PlacesService wraps the third-party places-lookup API. The warm-up runs
// at most once process-wide: the first caller starts it and caches the
// in-flight readiness channel, concurrent and later callers wait on the
// same channel. The state is held on the service instance and injected
// where needed, never a package-level variable.
//
// Predictions are restricted to addresses in Spain, matching the single
// country the storefront ships to.
type PlacesService struct {
	apiKey        string
	baseURL       string
	warmupTimeout time.Duration
	httpClient    *http.Client

	stateMu   sync.Mutex
	state     LoadState
	ready     chan struct{}
	available bool
}

// NewPlacesService creates a new PlacesService against the real API.
// An empty API key is tolerated: the service stays permanently
// unavailable and every lookup degrades to an empty result.
func NewPlacesService(apiKey string) *PlacesService {
	return NewPlacesServiceWithBaseURL(apiKey, DefaultPlacesBaseURL, defaultWarmupTimeout)
}

// NewPlacesServiceWithBaseURL creates a PlacesService against a custom
// endpoint with a custom warm-up ceiling. Used by tests.
func NewPlacesServiceWithBaseURL(apiKey, baseURL string, warmupTimeout time.Duration) *PlacesService {
	return &PlacesService{
		apiKey:        apiKey,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		warmupTimeout: warmupTimeout,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// EnsureReady makes sure the one-time warm-up has been started and waits,
// bounded, for it to finish. It reports whether the places API is usable.
// A timeout is swallowed: autocomplete is a convenience, not a
// requirement.
func (s *PlacesService) EnsureReady() bool {
	if s.apiKey == "" {
		return false
	}

	s.stateMu.Lock()
	if s.state == LoadReady {
		available := s.available
		s.stateMu.Unlock()
		return available
	}
	if s.state == LoadNotStarted {
		s.state = LoadLoading
		s.ready = make(chan struct{})
		go s.warmUp()
	}
	ready := s.ready
	s.stateMu.Unlock()

	select {
	case <-ready:
	case <-time.After(s.warmupTimeout):
		return false
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.available
}

// warmUp probes the API once to verify the key works, then marks the
// adapter ready and releases every waiter. It runs exactly once per
// process regardless of outcome.
func (s *PlacesService) warmUp() {
	available := false

	probe := fmt.Sprintf("%s/autocomplete/json?input=calle&components=country:es&types=address&key=%s",
		s.baseURL, url.QueryEscape(s.apiKey))
	resp, err := s.httpClient.Get(probe)
	if err == nil {
		defer resp.Body.Close()
		var body struct {
			Status string `json:"status"`
		}
		if resp.StatusCode == http.StatusOK && json.NewDecoder(resp.Body).Decode(&body) == nil {
			available = body.Status == "OK" || body.Status == "ZERO_RESULTS"
		}
	}

	s.stateMu.Lock()
	s.available = available
	s.state = LoadReady
	close(s.ready)
	s.stateMu.Unlock()
}

// Autocomplete returns address predictions for a partial input. When the
// adapter never became ready it returns an empty list rather than an
// error: the form simply works without suggestions.
func (s *PlacesService) Autocomplete(input string) ([]Prediction, error) {
	if !s.EnsureReady() {
		return []Prediction{}, nil
	}

	endpoint := fmt.Sprintf("%s/autocomplete/json?input=%s&components=country:es&types=address&key=%s",
		s.baseURL, url.QueryEscape(input), url.QueryEscape(s.apiKey))
	resp, err := s.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("autocomplete request failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status      string       `json:"status"`
		Predictions []Prediction `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode autocomplete response: %w", err)
	}
	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("autocomplete rejected: %s", body.Status)
	}
	if body.Predictions == nil {
		body.Predictions = []Prediction{}
	}
	return body.Predictions, nil
}

// AddressComponent is one typed component of a place's address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// ResolveAddress fetches a selected place and extracts its street, city
// and postal code.
func (s *PlacesService) ResolveAddress(placeID string) (*ResolvedAddress, error) {
	if !s.EnsureReady() {
		return nil, fmt.Errorf("places API is not available")
	}

	endpoint := fmt.Sprintf("%s/details/json?place_id=%s&fields=address_component,formatted_address&key=%s",
		s.baseURL, url.QueryEscape(placeID), url.QueryEscape(s.apiKey))
	resp, err := s.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("place details request failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
		Result struct {
			AddressComponents []AddressComponent `json:"address_components"`
			FormattedAddress  string             `json:"formatted_address"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode place details response: %w", err)
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("place details rejected: %s", body.Status)
	}

	address := ExtractAddress(body.Result.AddressComponents, body.Result.FormattedAddress)
	return &address, nil
}

// ExtractAddress derives (street, city, postal code) from typed address
// components. Street concatenates route and street number; when no route
// exists the formatted address string is used instead. City prefers the
// locality component, falling back to administrative_area_level_2.
// Missing city or postal code pass through as empty strings.
func ExtractAddress(components []AddressComponent, formatted string) ResolvedAddress {
	var route, streetNumber, locality, adminLevel2, postalCode string

	for _, component := range components {
		for _, t := range component.Types {
			switch t {
			case "route":
				route = component.LongName
			case "street_number":
				streetNumber = component.LongName
			case "locality":
				locality = component.LongName
			case "administrative_area_level_2":
				adminLevel2 = component.LongName
			case "postal_code":
				postalCode = component.LongName
			}
		}
	}

	street := route
	if street != "" && streetNumber != "" {
		street = route + " " + streetNumber
	}
	if street == "" {
		street = formatted
	}

	city := locality
	if city == "" {
		city = adminLevel2
	}

	return ResolvedAddress{
		Street:     street,
		City:       city,
		PostalCode: postalCode,
	}
}
