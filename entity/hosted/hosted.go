// Package hosted implements core.EntityStore against a hosted document
// database exposed over a small REST surface:
//
//	GET    {base}/v1/entities/{kind}        list all records
//	POST   {base}/v1/entities/{kind}        create (server generates id/createdAt)
//	GET    {base}/v1/entities/{kind}/{id}   fetch one record
//	PATCH  {base}/v1/entities/{kind}/{id}   shallow-merge a delta
//	DELETE {base}/v1/entities/{kind}/{id}   hard delete
//
// Query parameters field/equals/order_by/limit on the list endpoint expose
// the backend's native filtering; this store therefore implements
// core.Queryer directly.
//
// Any transport failure or unexpected status maps to *core.BackendUnavailable.
// Faults are logged and returned; the store never retries.
package hosted

import (
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

	"github.com/veriscribe/veriscribe/core"
	"github.com/veriscribe/veriscribe/logging"
)

// Options configure the hosted store client.
type Options struct {
	// HTTPClient overrides the transport; timeout policy belongs to it or to
	// the caller's context, never to the store.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Store is a core.EntityStore backed by the hosted document database.
type Store struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewStore creates a hosted store client for the given base URL.
func NewStore(baseURL string, optFns ...func(o *Options)) *Store {
	opts := Options{
		HTTPClient: http.DefaultClient,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
}

func (s *Store) collectionURL(kind core.Kind) string {
	return fmt.Sprintf("%s/v1/entities/%s", s.baseURL, url.PathEscape(string(kind)))
}

func (s *Store) recordURL(kind core.Kind, id string) string {
	return s.collectionURL(kind) + "/" + url.PathEscape(id)
}

// Create posts the fields and returns the record as stored by the backend.
// The reserved id/createdAt keys are stripped before sending; the backend
// generates them.
func (s *Store) Create(ctx context.Context, kind core.Kind, fields core.Document) (core.Document, error) {
	payload := fields.Clone()
	if payload == nil {
		payload = core.Document{}
	}
	delete(payload, core.FieldID)
	delete(payload, core.FieldCreatedAt)

	var doc core.Document
	err := s.do(ctx, "create", kind, http.MethodPost, s.collectionURL(kind), payload, &doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindAll lists every record of the kind.
func (s *Store) FindAll(ctx context.Context, kind core.Kind) ([]core.Document, error) {
	var docs []core.Document
	if err := s.do(ctx, "findAll", kind, http.MethodGet, s.collectionURL(kind), nil, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []core.Document{}
	}
	return docs, nil
}

// FindByID fetches one record; a backend 404 maps to core.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, kind core.Kind, id string) (core.Document, error) {
	var doc core.Document
	if err := s.do(ctx, "findById", kind, http.MethodGet, s.recordURL(kind, id), nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update patches the record with a shallow-merge delta. Missing records
// signal core.ErrNotFound; reserved keys are stripped before sending.
func (s *Store) Update(ctx context.Context, kind core.Kind, id string, delta core.Document) (core.Document, error) {
	payload := delta.Clone()
	if payload == nil {
		payload = core.Document{}
	}
	delete(payload, core.FieldID)
	delete(payload, core.FieldCreatedAt)

	var doc core.Document
	if err := s.do(ctx, "update", kind, http.MethodPatch, s.recordURL(kind, id), payload, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the record. The backend answering 404 still counts as
// success: delete is idempotent by contract.
func (s *Store) Delete(ctx context.Context, kind core.Kind, id string) (bool, error) {
	err := s.do(ctx, "delete", kind, http.MethodDelete, s.recordURL(kind, id), nil, nil)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return false, err
	}
	return true, nil
}

// Query uses the backend's native filtering: equality on one field, ordered
// by one field descending, optional limit.
func (s *Store) Query(ctx context.Context, kind core.Kind, q core.Query) ([]core.Document, error) {
	u, err := url.Parse(s.collectionURL(kind))
	if err != nil {
		return nil, &core.BackendUnavailable{Op: "query", Err: err}
	}
	params := u.Query()
	if q.Field != "" {
		params.Set("field", q.Field)
		params.Set("equals", fmt.Sprint(q.Equals))
	}
	if q.OrderBy != "" {
		params.Set("order_by", q.OrderBy)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	u.RawQuery = params.Encode()

	var docs []core.Document
	if err := s.do(ctx, "query", kind, http.MethodGet, u.String(), nil, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []core.Document{}
	}
	return docs, nil
}

// do performs one request/response cycle. 404 maps to core.ErrNotFound, any
// other non-2xx status or transport failure to *core.BackendUnavailable.
func (s *Store) do(ctx context.Context, op string, kind core.Kind, method, rawURL string, body any, out any) error {
	start := time.Now()
	err := s.doOnce(ctx, op, method, rawURL, body, out)
	logging.LogStoreOp(s.logger, "hosted", op, string(kind), time.Since(start), err)
	return err
}

func (s *Store) doOnce(ctx context.Context, op, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &core.StorageFault{Op: op, Err: err}
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return &core.BackendUnavailable{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &core.BackendUnavailable{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return core.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &core.BackendUnavailable{
			Op:  op,
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &core.BackendUnavailable{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}
