package datasource

import (
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

	"github.com/dd0wney/drugnet/pkg/catalog"
	"github.com/dd0wney/drugnet/pkg/graph"
	"github.com/dd0wney/drugnet/pkg/validation"
)

// DefaultHTTPTimeout bounds a single request when the caller supplies no
// http.Client.
const DefaultHTTPTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is decoded.
const maxResponseBytes = 8 << 20

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.Code, http.StatusText(e.Code), e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
}

// HTTP talks to a drugnet-compatible REST service.
type HTTP struct {
	base   *url.URL
	client *http.Client
}

// NewHTTP parses baseURL and returns a client for it. A nil client gets
// DefaultHTTPTimeout.
func NewHTTP(baseURL string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("datasource: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("datasource: base url %q must be http or https", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTP{base: u, client: client}, nil
}

func (h *HTTP) Name() string { return KindHTTP }

func (h *HTTP) Drugs(ctx context.Context) ([]catalog.Drug, error) {
	var payload []validation.NodePayload
	q := url.Values{"limit": {strconv.Itoa(validation.MaxDrugsLimit)}}
	if err := h.get(ctx, "/api/drugs", q, &payload); err != nil {
		return nil, err
	}

	drugs := make([]catalog.Drug, 0, len(payload))
	for i := range payload {
		if err := validation.ValidateNode(&payload[i]); err != nil {
			return nil, fmt.Errorf("datasource: drugs[%d]: %w", i, err)
		}
		drugs = append(drugs, drugFromPayload(payload[i]))
	}
	return drugs, nil
}

func (h *HTTP) Drug(ctx context.Context, id string) (catalog.Drug, error) {
	var payload validation.NodePayload
	if err := h.get(ctx, "/api/drugs/"+url.PathEscape(id), nil, &payload); err != nil {
		return catalog.Drug{}, err
	}
	if err := validation.ValidateNode(&payload); err != nil {
		return catalog.Drug{}, fmt.Errorf("datasource: drug %s: %w", id, err)
	}
	return drugFromPayload(payload), nil
}

func (h *HTTP) Network(ctx context.Context, threshold float64) (*graph.Snapshot, error) {
	var payload validation.NetworkPayload
	q := url.Values{
		"threshold": {strconv.FormatFloat(threshold, 'f', -1, 64)},
		"limit":     {strconv.Itoa(validation.MaxNetworkLimit)},
	}
	if err := h.get(ctx, "/api/network", q, &payload); err != nil {
		return nil, err
	}
	if err := validation.ValidateNetwork(&payload); err != nil {
		return nil, fmt.Errorf("datasource: network: %w", err)
	}

	nodes := make([]graph.Node, len(payload.Nodes))
	for i, n := range payload.Nodes {
		nodes[i] = drugFromPayload(n).Node()
	}
	links := payload.AllLinks()
	edges := make([]graph.Edge, len(links))
	for i, l := range links {
		edges[i] = graph.Edge{Source: l.Source, Target: l.Target, Similarity: l.Similarity}
	}
	return graph.NewSnapshot(threshold, nodes, edges)
}

func (h *HTTP) Similar(ctx context.Context, id string, threshold float64, limit int) ([]Similarity, error) {
	if limit <= 0 || limit > validation.MaxSimilarLimit {
		limit = validation.MaxSimilarLimit
	}
	var payload []validation.SimilarityPayload
	q := url.Values{
		"threshold": {strconv.FormatFloat(threshold, 'f', -1, 64)},
		"limit":     {strconv.Itoa(limit)},
	}
	if err := h.get(ctx, "/api/similar/"+url.PathEscape(id), q, &payload); err != nil {
		return nil, err
	}
	if err := validation.ValidateSimilarities(payload); err != nil {
		return nil, fmt.Errorf("datasource: similar %s: %w", id, err)
	}

	out := make([]Similarity, len(payload))
	for i, p := range payload {
		out[i] = Similarity{Drug: drugFromPayload(p.Drug), Similarity: p.Similarity}
	}
	return out, nil
}

func (h *HTTP) get(ctx context.Context, path string, query url.Values, out any) error {
	u := h.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("datasource: %w", err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Method: req.Method, URL: u.String(), Code: resp.StatusCode, Detail: errorDetail(body)}
		if resp.StatusCode == http.StatusNotFound {
			return errors.Join(ErrNotFound, serr)
		}
		return serr
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("datasource: decode %s: %w", path, err)
	}
	return nil
}

// errorDetail extracts the message of an error body. Both {"detail": ...}
// and this module's own {"error", "message"} shape are understood.
func errorDetail(r io.Reader) string {
	var body struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	switch {
	case body.Detail != "":
		return body.Detail
	case body.Message != "":
		return body.Message
	default:
		return body.Error
	}
}

func drugFromPayload(p validation.NodePayload) catalog.Drug {
	return catalog.Drug{
		ID:                p.ID,
		Name:              p.Drug,
		CellLine:          p.CellLine,
		Mechanism:         p.Mechanism,
		SamplesAggregated: p.SamplesAggregated,
	}
}
