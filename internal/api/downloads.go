package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// exportDownload is one staged export held in memory until its token is
// redeemed or expires. Nothing touches disk.
type exportDownload struct {
	fileName    string
	contentType string
	data        []byte
	expiresAt   time.Time
}

type downloadStore struct {
	mu    sync.Mutex
	items map[string]exportDownload
	ttl   time.Duration
}

func newDownloadStore(ttl time.Duration) *downloadStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &downloadStore{
		items: make(map[string]exportDownload),
		ttl:   ttl,
	}
}

func (s *downloadStore) put(fileName, contentType string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token := uuid.New().String()
	s.items[token] = exportDownload{
		fileName:    fileName,
		contentType: contentType,
		data:        data,
		expiresAt:   time.Now().Add(s.ttl),
	}
	return token
}

// take redeems a token. Downloads are single use.
func (s *downloadStore) take(token string) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return exportDownload{}, false
	}
	delete(s.items, token)
	return v, true
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}
