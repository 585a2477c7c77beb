package google

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestSheetIDFromCache(t *testing.T) {
	// A cached title never triggers a metadata fetch, so a nil service
	// is safe here.
	c := &Client{
		spreadsheetID: "test",
		sheetIDs:      map[string]int64{"Investment": 1234, "Dividends": 5678},
	}

	id, err := c.sheetID(context.Background(), "Investment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 1234 {
		t.Errorf("expected cached id 1234, got %d", id)
	}

	id, err = c.sheetID(context.Background(), "Dividends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 5678 {
		t.Errorf("expected cached id 5678, got %d", id)
	}
}

func TestSheetIDCacheMutexProtection(t *testing.T) {
	c := &Client{
		spreadsheetID: "test",
		sheetIDs:      map[string]int64{"Current Asset": 1},
	}

	var wg sync.WaitGroup

	// Readers resolving a cached title
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := c.sheetID(context.Background(), "Current Asset"); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
	}

	// Writer filling the cache the way a metadata fetch would
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			c.mu.Lock()
			c.sheetIDs[fmt.Sprintf("Sheet%d", j)] = int64(j)
			c.mu.Unlock()
		}
	}()

	wg.Wait()
}
