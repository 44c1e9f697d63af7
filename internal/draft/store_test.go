package draft

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	bs, err := NewBoltStore(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("NewBoltStore() error = %v", err)
	}
	t.Cleanup(func() { bs.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   bs,
	}
}

func TestStorePutGet(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			id, err := s.Put(ctx, "/tmp/a.docx", "Legal_Draft_20240315.docx")
			if err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if id == "" {
				t.Fatal("Put() returned empty id")
			}

			d, err := s.Get(ctx, id)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if d.ID != id || d.Path != "/tmp/a.docx" || d.Filename != "Legal_Draft_20240315.docx" {
				t.Errorf("Get() = %+v", d)
			}
			if d.CreatedAt.IsZero() {
				t.Error("CreatedAt not set")
			}

			// Get does not consume
			if _, err := s.Get(ctx, id); err != nil {
				t.Errorf("second Get() error = %v", err)
			}
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := s.Get(ctx, "nonexistent"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() error = %v, want ErrNotFound", err)
			}
			if _, err := s.Take(ctx, "nonexistent"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Take() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreTake(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			id, err := s.Put(ctx, "/tmp/b.docx", "b.docx")
			if err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			d, err := s.Take(ctx, id)
			if err != nil {
				t.Fatalf("Take() error = %v", err)
			}
			if d.Path != "/tmp/b.docx" {
				t.Errorf("Take().Path = %s", d.Path)
			}

			if _, err := s.Take(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Errorf("second Take() error = %v, want ErrNotFound", err)
			}
			if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Take error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreConcurrentPut(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const n = 50

			var (
				mu  sync.Mutex
				ids = make(map[string]bool)
				wg  sync.WaitGroup
			)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					id, err := s.Put(ctx, "/tmp/c.docx", "c.docx")
					if err != nil {
						t.Errorf("Put() error = %v", err)
						return
					}
					mu.Lock()
					ids[id] = true
					mu.Unlock()
				}()
			}
			wg.Wait()

			if len(ids) != n {
				t.Errorf("unique ids = %d, want %d", len(ids), n)
			}
			for id := range ids {
				if _, err := s.Get(ctx, id); err != nil {
					t.Errorf("Get(%s) error = %v", id, err)
				}
			}
		})
	}
}

func TestStoreExpire(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			old, _ := s.Put(ctx, "/tmp/old.docx", "old.docx")
			time.Sleep(50 * time.Millisecond)
			fresh, _ := s.Put(ctx, "/tmp/new.docx", "new.docx")

			expired, err := s.Expire(ctx, 25*time.Millisecond)
			if err != nil {
				t.Fatalf("Expire() error = %v", err)
			}
			if len(expired) != 1 || expired[0].ID != old {
				t.Fatalf("Expire() = %+v, want only %s", expired, old)
			}

			if _, err := s.Get(ctx, old); !errors.Is(err, ErrNotFound) {
				t.Errorf("expired draft still present: %v", err)
			}
			if _, err := s.Get(ctx, fresh); err != nil {
				t.Errorf("fresh draft removed: %v", err)
			}
		})
	}
}

func TestBoltStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")
	ctx := context.Background()

	s, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore() error = %v", err)
	}
	id, err := s.Put(ctx, "/tmp/p.docx", "p.docx")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	s.Close()

	s, err = NewBoltStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, id); err != nil {
		t.Errorf("Get() after reopen error = %v", err)
	}
}

func TestFilename(t *testing.T) {
	got := Filename(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC))
	if got != "Legal_Draft_20240305.docx" {
		t.Errorf("Filename() = %s", got)
	}
}
