package basis

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Opener opens the basis artifact stored at path.
type Opener func(path string) (io.ReadCloser, error)

// Option configures a Store.
type Option func(*Store)

// WithOpener replaces the function used to read artifacts. The default opens
// files on the local filesystem.
func WithOpener(open Opener) Option {
	return func(s *Store) {
		s.open = open
	}
}

// WithLogger sets the logger that reports each artifact actually read.
// By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Store caches decoded bases by path for the lifetime of the process.
//
// A path is read from storage at most once: concurrent first loads of the same
// path wait for a single read and share its result. Failed loads are not
// cached, so a later call retries.
type Store struct {
	mu     sync.RWMutex
	bases  map[string]*Basis
	flight singleflight.Group
	open   Opener
	logger *log.Logger
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		bases:  make(map[string]*Basis),
		open:   openFile,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultStore = NewStore()

// Default returns the process-wide store.
func Default() *Store {
	return defaultStore
}

// Load returns the basis stored at path, reading and decoding it on first use.
func (s *Store) Load(path string) (*Basis, error) {
	if b, ok := s.cached(path); ok {
		return b, nil
	}

	v, err, _ := s.flight.Do(path, func() (interface{}, error) {
		// Another flight may have finished between the cache miss and now.
		if b, ok := s.cached(path); ok {
			return b, nil
		}

		b, err := s.read(path)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.bases[path] = b
		s.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Basis), nil
}

// Len returns the number of cached bases.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bases)
}

// Evict drops path from the cache. The next Load reads it again.
func (s *Store) Evict(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bases, path)
}

// SetLogger replaces the logger that reports artifact reads.
func (s *Store) SetLogger(l *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l
}

// Clear drops every cached basis.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bases = make(map[string]*Basis)
}

func (s *Store) cached(path string) (*Basis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bases[path]
	return b, ok
}

func (s *Store) read(path string) (*Basis, error) {
	rc, err := s.open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening basis %s", path)
	}
	defer rc.Close()

	b, err := Decode(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding basis %s", path)
	}

	s.mu.RLock()
	logger := s.logger
	s.mu.RUnlock()
	logger.Printf("Found %d kernels DIM %dx%dx%d", b.NumKernels, b.KernelSize, b.KernelSize, b.NumChannels)
	return b, nil
}

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
