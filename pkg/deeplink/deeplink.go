// Package deeplink stores the last audit request as hotel, city and type
// query parameters, so a link reproduces the audit when opened.
package deeplink

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/helmcode/hotel-audit/pkg/model"
)

const (
	ParamHotel = "hotel"
	ParamCity  = "city"
	ParamType  = "type"
)

// Store is a narrow key/value view of wherever the link state lives.
type Store interface {
	Get(key string) string
	Set(key, value string)
	Del(key string)
}

// URLStore keeps the values in the query string of URL.
type URLStore struct {
	mu  sync.Mutex
	url *url.URL
}

// NewURLStore works on a copy of u.
func NewURLStore(u *url.URL) *URLStore {
	cp := *u
	return &URLStore{url: &cp}
}

// ParseURLStore is NewURLStore over a parsed raw URL.
func ParseURLStore(raw string) (*URLStore, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	return NewURLStore(u), nil
}

func (s *URLStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url.Query().Get(key)
}

func (s *URLStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.url.Query()
	q.Set(key, value)
	s.url.RawQuery = q.Encode()
}

func (s *URLStore) Del(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.url.Query()
	q.Del(key)
	s.url.RawQuery = q.Encode()
}

// String returns the current URL.
func (s *URLStore) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url.String()
}

// Read returns the request stored in s. ok is false unless both hotel and
// city are present. An unknown type falls back to New Onboarding.
func Read(s Store) (model.AuditInput, bool) {
	in := model.AuditInput{
		HotelName:      strings.TrimSpace(s.Get(ParamHotel)),
		City:           strings.TrimSpace(s.Get(ParamCity)),
		EvaluationType: model.EvaluationType(s.Get(ParamType)),
	}
	if in.HotelName == "" || in.City == "" {
		return model.AuditInput{}, false
	}
	return in.Normalized(), true
}

func Write(s Store, in model.AuditInput) {
	in = in.Normalized()
	s.Set(ParamHotel, in.HotelName)
	s.Set(ParamCity, in.City)
	s.Set(ParamType, string(in.EvaluationType))
}

func Clear(s Store) {
	s.Del(ParamHotel)
	s.Del(ParamCity)
	s.Del(ParamType)
}

// Share is what gets handed to a share sheet or copied to the clipboard.
type Share struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
	URL   string `json:"url" yaml:"url"`
}

// NewShare builds the share payload for report, linking back through baseURL.
func NewShare(baseURL string, report *model.Report) (Share, error) {
	store, err := ParseURLStore(baseURL)
	if err != nil {
		return Share{}, err
	}
	es := report.ExecutiveSummary
	Write(store, model.AuditInput{HotelName: es.HotelName, City: es.City, EvaluationType: es.EvaluationType})

	return Share{
		Title: "Treebo Audit: " + es.HotelName,
		Text:  fmt.Sprintf("Strategic commercial evaluation for %s in %s. Verdict: %s", es.HotelName, es.City, es.FinalDecision),
		URL:   store.String(),
	}, nil
}
