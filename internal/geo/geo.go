// Package geo fetches the external geocoding CSV used by the headcount
// map panel. The file is Latin-1 encoded and cached read-only by URL.
package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Coordinate is one geocoding row: a district with its position and the
// headcount the map bubble scales by (filled in at join time).
type Coordinate struct {
	District  string  `csv:"localidad" json:"district"`
	Latitude  float64 `csv:"lat" json:"lat"`
	Longitude float64 `csv:"lon" json:"lon"`
}

// Fetcher downloads and caches coordinate files by URL.
type Fetcher struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string][]Coordinate
}

// NewFetcher creates a fetcher with a sane request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  make(map[string][]Coordinate),
	}
}

// Fetch returns the coordinates for a URL, downloading at most once per
// URL for the life of the process.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Coordinate, error) {
	f.mu.Lock()
	if rows, ok := f.cache[url]; ok {
		f.mu.Unlock()
		return rows, nil
	}
	f.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("no se pudo descargar coordenadas: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coordenadas: respuesta %d de %s", resp.StatusCode, url)
	}

	rows, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.cache[url] = rows
	f.mu.Unlock()
	return rows, nil
}

// Parse decodes a Latin-1 coordinates CSV.
func Parse(r io.Reader) ([]Coordinate, error) {
	decoded := transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	var rows []Coordinate
	if err := gocsv.Unmarshal(decoded, &rows); err != nil {
		return nil, fmt.Errorf("no se pudo leer el CSV de coordenadas: %w", err)
	}
	out := rows[:0]
	for _, row := range rows {
		row.District = strings.TrimSpace(row.District)
		if row.District == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// Lookup indexes coordinates by lowercase district name.
func Lookup(rows []Coordinate) map[string]Coordinate {
	idx := make(map[string]Coordinate, len(rows))
	for _, row := range rows {
		idx[strings.ToLower(row.District)] = row
	}
	return idx
}
