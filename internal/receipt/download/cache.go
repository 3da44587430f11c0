package download

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrClosed is returned by Put once the cache has been closed.
var ErrClosed = errors.New("download cache is closed")

// File is a rendered receipt waiting to be fetched by the browser.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	ExpiresAt   time.Time
}

// Cache holds rendered files for a fixed time and releases them afterwards.
type Cache struct {
	ttl time.Duration

	mu     sync.Mutex
	files  map[string]File
	timers map[string]*time.Timer
	closed bool
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{
		ttl:    ttl,
		files:  make(map[string]File),
		timers: make(map[string]*time.Timer),
	}
}

// Put stores data and returns the token it can be fetched with.
func (c *Cache) Put(name, contentType string, data []byte) (string, time.Time, error) {
	token := uuid.NewString()
	expires := time.Now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", time.Time{}, ErrClosed
	}
	c.files[token] = File{Name: name, ContentType: contentType, Data: data, ExpiresAt: expires}
	c.timers[token] = time.AfterFunc(c.ttl, func() { c.release(token) })
	return token, expires, nil
}

func (c *Cache) Get(token string) (File, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.files[token]
	return f, ok
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}

func (c *Cache) release(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, token)
	delete(c.timers, token)
}

// Close stops every pending release timer and drops all files.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for token, t := range c.timers {
		t.Stop()
		delete(c.timers, token)
	}
	c.files = make(map[string]File)
	c.closed = true
}
