package embedding

import (
	"fmt"
	"sync"
	"testing"
)

func TestVectorCache_LRU(t *testing.T) {
	c := NewVectorCache(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Put("a", []float32{1, 2, 3})
	c.Put("b", []float32{4, 5})
	c.Get("a")
	c.Put("c", []float32{6}) // evicts b, the least recently used

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || len(v) != 3 || v[0] != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
	st := c.Stats()
	if st.Entries != 2 || st.Hits != 3 || st.Misses != 2 {
		t.Errorf("Stats = %+v, want 2 entries, 3 hits, 2 misses", st)
	}
}

func TestVectorCache_CopiesVectors(t *testing.T) {
	c := NewVectorCache(4)
	in := []float32{1, 2}
	c.Put("a", in)
	in[0] = 99

	out, _ := c.Get("a")
	if out[0] != 1 {
		t.Fatalf("cache aliased the stored vector: %v", out)
	}
	out[1] = 42
	again, _ := c.Get("a")
	if again[1] != 2 {
		t.Fatalf("cache aliased the returned vector: %v", again)
	}
}

func TestVectorCache_PutReplaces(t *testing.T) {
	c := NewVectorCache(1)
	c.Put("a", []float32{1})
	c.Put("a", []float32{2})
	if v, _ := c.Get("a"); v[0] != 2 {
		t.Errorf("Get(a) = %v, want [2]", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestVectorCache_Concurrent(t *testing.T) {
	c := NewVectorCache(16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("k%d", (g*7+i)%32)
				c.Put(key, []float32{float32(i)})
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Errorf("Len = %d exceeds capacity", c.Len())
	}
}
