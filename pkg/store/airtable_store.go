package store

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/entities"
	"Recipe-Generator/internal/metrics"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	DefaultAirtableURL     = "https://api.airtable.com/v0"
	DefaultAirtableTimeout = 30 * time.Second

	backendAirtable = "airtable"
)

var ErrAirtableCredentials = errors.New("airtable api key and base id are required")

type (
	AirtableConfig struct {
		APIKey  string
		BaseID  string
		BaseURL string
		Timeout time.Duration
		// HTTPClient overrides the client built from Timeout.
		HTTPClient *http.Client
	}

	airtableStore struct {
		baseURL string
		apiKey  string
		client  *http.Client
	}

	airtableRecord struct {
		ID          string         `json:"id"`
		CreatedTime string         `json:"createdTime"`
		Fields      map[string]any `json:"fields"`
	}

	airtableList struct {
		Records []airtableRecord `json:"records"`
		Offset  string           `json:"offset,omitempty"`
	}

	airtableFields struct {
		Fields map[string]any `json:"fields"`
	}

	airtableBatch struct {
		Records  []airtableFields `json:"records"`
		Typecast bool             `json:"typecast"`
	}
)

// NewAirtableStore returns a RecordStore backed by the Airtable REST API.
// The store holds no state besides its HTTP client and is safe for
// concurrent use.
func NewAirtableStore(cfg AirtableConfig) (RecordStore, error) {
	if cfg.APIKey == "" || cfg.BaseID == "" {
		return nil, ErrAirtableCredentials
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultAirtableURL
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultAirtableTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &airtableStore{
		baseURL: baseURL + "/" + url.PathEscape(cfg.BaseID),
		apiKey:  cfg.APIKey,
		client:  client,
	}, nil
}

func (s *airtableStore) tableURL(table string) string {
	return s.baseURL + "/" + url.PathEscape(table)
}

func (s *airtableStore) recordURL(table, id string) string {
	return s.tableURL(table) + "/" + url.PathEscape(id)
}

func (s *airtableStore) List(ctx context.Context, table string, opts ListOptions) ([]entities.Record, error) {
	params := url.Values{}
	if opts.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.MaxRecords > 0 {
		params.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}
	if opts.View != "" {
		params.Set("view", opts.View)
	}
	if opts.FilterByFormula != "" {
		params.Set("filterByFormula", opts.FilterByFormula)
	}
	for i, sort := range opts.Sort {
		params.Set(fmt.Sprintf("sort[%d][field]", i), sort.Field)
		dir := sort.Direction
		if dir == "" {
			dir = Asc
		}
		params.Set(fmt.Sprintf("sort[%d][direction]", i), string(dir))
	}

	records := make([]entities.Record, 0)
	offset := ""
	for {
		page := params
		if offset != "" {
			page = cloneValues(params)
			page.Set("offset", offset)
		}
		target := s.tableURL(table)
		if encoded := page.Encode(); encoded != "" {
			target += "?" + encoded
		}

		var res airtableList
		if err := s.do(ctx, "list", table, http.MethodGet, target, nil, &res); err != nil {
			return nil, err
		}
		for _, r := range res.Records {
			records = append(records, r.toRecord())
		}

		offset = res.Offset
		if offset == "" || (opts.MaxRecords > 0 && len(records) >= opts.MaxRecords) {
			break
		}
	}

	if opts.MaxRecords > 0 && len(records) > opts.MaxRecords {
		records = records[:opts.MaxRecords]
	}
	return records, nil
}

func (s *airtableStore) Get(ctx context.Context, table, id string) (entities.Record, error) {
	if id == "" {
		return entities.Record{}, &domain.ValidationError{Field: "id", Constraint: "required"}
	}
	var res airtableRecord
	if err := s.do(ctx, "get", table, http.MethodGet, s.recordURL(table, id), nil, &res); err != nil {
		return entities.Record{}, err
	}
	return res.toRecord(), nil
}

func (s *airtableStore) Create(ctx context.Context, table string, fields entities.Fields) (entities.Record, error) {
	var res airtableRecord
	body := airtableFields{Fields: fields}
	if err := s.do(ctx, "create", table, http.MethodPost, s.tableURL(table), body, &res); err != nil {
		return entities.Record{}, err
	}
	return res.toRecord(), nil
}

func (s *airtableStore) CreateMany(ctx context.Context, table string, fields []entities.Fields) ([]entities.Record, error) {
	created := make([]entities.Record, 0, len(fields))
	for _, batch := range chunks(fields, BatchSize) {
		body := airtableBatch{Records: make([]airtableFields, 0, len(batch))}
		for _, f := range batch {
			body.Records = append(body.Records, airtableFields{Fields: f})
		}
		var res airtableList
		if err := s.do(ctx, "create_many", table, http.MethodPost, s.tableURL(table), body, &res); err != nil {
			return created, err
		}
		for _, r := range res.Records {
			created = append(created, r.toRecord())
		}
	}
	return created, nil
}

func (s *airtableStore) Update(ctx context.Context, table, id string, fields entities.Fields) (entities.Record, error) {
	if id == "" {
		return entities.Record{}, &domain.ValidationError{Field: "id", Constraint: "required"}
	}
	var res airtableRecord
	body := airtableFields{Fields: fields}
	if err := s.do(ctx, "update", table, http.MethodPatch, s.recordURL(table, id), body, &res); err != nil {
		return entities.Record{}, err
	}
	return res.toRecord(), nil
}

func (s *airtableStore) Delete(ctx context.Context, table, id string) error {
	if id == "" {
		return &domain.ValidationError{Field: "id", Constraint: "required"}
	}
	return s.do(ctx, "delete", table, http.MethodDelete, s.recordURL(table, id), nil, nil)
}

func (s *airtableStore) DeleteMany(ctx context.Context, table string, ids []string) error {
	for _, batch := range chunks(ids, BatchSize) {
		params := url.Values{}
		for _, id := range batch {
			params.Add("records[]", id)
		}
		target := s.tableURL(table) + "?" + params.Encode()
		if err := s.do(ctx, "delete_many", table, http.MethodDelete, target, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *airtableStore) do(ctx context.Context, op, table, method, target string, body, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveStore(backendAirtable, table, op, start, err)
		if err != nil {
			log.Errorw("airtable request failed", "op", op, "table", table, "error", err)
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return storeError(op, table, 0, "encode request", mErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return storeError(op, table, 0, "", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return storeError(op, table, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return storeError(op, table, resp.StatusCode, "read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return storeError(op, table, resp.StatusCode, errorMessage(resp.Status, raw), nil)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return storeError(op, table, resp.StatusCode, "decode response", err)
	}
	return nil
}

// errorMessage understands both Airtable error shapes:
// {"error":"NOT_FOUND"} and {"error":{"type":"...","message":"..."}}.
func errorMessage(status string, raw []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Error) == 0 {
		if text := strings.TrimSpace(string(raw)); text != "" {
			return status + ": " + text
		}
		return status
	}

	var code string
	if err := json.Unmarshal(envelope.Error, &code); err == nil {
		return code
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		switch {
		case detail.Type != "" && detail.Message != "":
			return detail.Type + ": " + detail.Message
		case detail.Message != "":
			return detail.Message
		case detail.Type != "":
			return detail.Type
		}
	}
	return status
}

func (r airtableRecord) toRecord() entities.Record {
	fields := r.Fields
	if fields == nil {
		fields = entities.Fields{}
	}
	return entities.Record{ID: r.ID, CreatedTime: r.CreatedTime, Fields: fields}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
