package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Store memoizes loaded tables and images by path. The first call for a path
// reads the file; later calls return the same value until Invalidate.
// Concurrent first calls share one read, which runs detached from any single
// caller's cancellation and is bounded by the load timeout instead.
type Store struct {
	mu          sync.RWMutex
	tables      map[string]*Table
	images      map[string]*Image
	group       singleflight.Group
	thumbWidth  int
	loadTimeout time.Duration
	loadTable   func(ctx context.Context, path string) (*Table, error)
	logger      *slog.Logger
}

const defaultLoadTimeout = 30 * time.Second

func NewStore(thumbWidth int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		tables:      make(map[string]*Table),
		images:      make(map[string]*Image),
		thumbWidth:  thumbWidth,
		loadTimeout: defaultLoadTimeout,
		loadTable:   LoadTable,
		logger:      logger,
	}
}

// SetLoadTimeout bounds every shared read. Non-positive values are ignored.
func (s *Store) SetLoadTimeout(d time.Duration) {
	if d > 0 {
		s.loadTimeout = d
	}
}

// shared runs fn once per key and waits for it, or for ctx, whichever ends
// first. A caller giving up does not cancel the read for the others.
func (s *Store) shared(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return fn(loadCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Table returns the order table for path, loading it on first use.
func (s *Store) Table(ctx context.Context, path string) (*Table, error) {
	s.mu.RLock()
	t, ok := s.tables[path]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	v, err := s.shared(ctx, "table:"+path, func(ctx context.Context) (any, error) {
		s.mu.RLock()
		cached, ok := s.tables[path]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		start := time.Now()
		table, err := s.loadTable(ctx, path)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.tables[path] = table
		s.mu.Unlock()

		s.logger.Info("order table loaded",
			"path", path,
			"rows", table.Len(),
			"duration", time.Since(start),
		)
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// Image returns the decoded image for path, loading it on first use.
func (s *Store) Image(ctx context.Context, path string) (*Image, error) {
	s.mu.RLock()
	img, ok := s.images[path]
	s.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err := s.shared(ctx, "image:"+path, func(ctx context.Context) (any, error) {
		s.mu.RLock()
		cached, ok := s.images[path]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := LoadImage(path, s.thumbWidth)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.images[path] = img
		s.mu.Unlock()

		s.logger.Info("image loaded",
			"path", path,
			"format", img.Format,
			"width", img.Width,
			"height", img.Height,
		)
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Image), nil
}

// Invalidate forgets anything memoized for path.
func (s *Store) Invalidate(path string) {
	s.mu.Lock()
	delete(s.tables, path)
	delete(s.images, path)
	s.mu.Unlock()

	s.group.Forget("table:" + path)
	s.group.Forget("image:" + path)
}

// LoadTable reads path without memoization. ".xlsx" files go through the
// workbook reader, everything else is treated as CSV.
func LoadTable(ctx context.Context, path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	read := ReadCSV
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		read = ReadXLSX
	}

	orders, err := read(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return NewTable(path, orders), nil
}

// LoadImage reads and decodes path without memoization.
func LoadImage(path string, thumbWidth int) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, err := DecodeImage(file, thumbWidth)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	img.Path = path
	return img, nil
}
