/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package loki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tschaefer/flowlens/internal/flow"
)

const (
	readyPath      = "/ready"
	queryRangePath = "/loki/api/v1/query_range"
)

var Protocols = []string{"http", "https"}

// Client queries flow records from a Loki instance.
type Client struct {
	Address string
	HTTP    *http.Client
}

func NewClient(address string) (*Client, error) {
	uri, err := url.Parse(address)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(Protocols, uri.Scheme) {
		return nil, fmt.Errorf("unsupported loki protocol: %q", uri.Scheme)
	}

	return &Client{
		Address: address,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Ready probes the Loki readiness endpoint.
func (c *Client) Ready(ctx context.Context) error {
	uri, err := url.Parse(c.Address)
	if err != nil {
		return err
	}
	uri.Path = uri.Path + readyPath

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return err
	}

	response, err := c.HTTP.Do(request)
	if err != nil {
		return err
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return errors.New(response.Status)
	}

	return nil
}

// QueryFlows runs one query per OR-branch concurrently and merges the
// decoded records in query order.
func (c *Client) QueryFlows(ctx context.Context, queries []string, start, end time.Time, limit int) ([]flow.Record, error) {
	var mu sync.Mutex
	results := make([][]flow.Record, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			records, err := c.queryRange(ctx, query, start, end, limit)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []flow.Record
	for _, records := range results {
		merged = append(merged, records...)
	}
	return merged, nil
}

func (c *Client) queryRange(ctx context.Context, query string, start, end time.Time, limit int) ([]flow.Record, error) {
	uri, err := url.Parse(c.Address)
	if err != nil {
		return nil, err
	}
	uri.Path = uri.Path + queryRangePath

	values := url.Values{}
	values.Set("query", query)
	values.Set("start", strconv.FormatInt(start.UnixNano(), 10))
	values.Set("end", strconv.FormatInt(end.UnixNano(), 10))
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	uri.RawQuery = values.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return nil, err
	}

	response, err := c.HTTP.Do(request)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("loki query failed: %s", response.Status)
	}

	var decoded queryResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("invalid loki response: %w", err)
	}

	return decoded.records(), nil
}

type queryResponse struct {
	Status string `json:"status"`
	Data   struct {
		ResultType string   `json:"resultType"`
		Result     []stream `json:"result"`
	} `json:"data"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// records decodes every log line into a flow record, folding the stream
// labels back in. Lines that are not JSON objects are skipped.
func (r *queryResponse) records() []flow.Record {
	var records []flow.Record
	for _, s := range r.Data.Result {
		for _, value := range s.Values {
			record := flow.Record{}
			if err := json.Unmarshal([]byte(value[1]), &record); err != nil {
				continue
			}
			for k, v := range s.Stream {
				if _, ok := record[k]; !ok {
					record[k] = v
				}
			}
			records = append(records, record)
		}
	}
	return records
}
