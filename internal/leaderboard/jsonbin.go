package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultJSONBinURL is the public JSONBin API.
const DefaultJSONBinURL = "https://api.jsonbin.io/v3"

// JSONBinStore keeps the document in a single JSONBin bin.
type JSONBinStore struct {
	baseURL string
	binID   string
	key     string
	client  *http.Client
}

// NewJSONBinStore creates a store for bin binID authenticated with key.
// An empty baseURL uses DefaultJSONBinURL; a nil client uses a client
// with a 10 second timeout.
func NewJSONBinStore(baseURL, binID, key string, client *http.Client) *JSONBinStore {
	if baseURL == "" {
		baseURL = DefaultJSONBinURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &JSONBinStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		binID:   binID,
		key:     key,
		client:  client,
	}
}

// Load fetches the latest version of the bin.
func (s *JSONBinStore) Load(ctx context.Context) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.binURL()+"/latest", nil)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	s.authorize(req)
	req.Header.Set("X-Bin-Meta", "false")

	resp, err := s.client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("%w: load: %v", ErrStore, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: decode: %v", ErrStore, err)
	}
	return doc, nil
}

// Save overwrites the bin with doc.
func (s *JSONBinStore) Save(ctx context.Context, doc Document) error {
	if doc.Scores == nil {
		doc.Scores = []Entry{}
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStore, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.binURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: save: %v", ErrStore, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (s *JSONBinStore) binURL() string {
	return s.baseURL + "/b/" + s.binID
}

func (s *JSONBinStore) authorize(req *http.Request) {
	req.Header.Set("X-Master-Key", s.key)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: %s %s: %s: %s", ErrStore, resp.Request.Method,
		resp.Request.URL.Path, resp.Status, strings.TrimSpace(string(msg)))
}
