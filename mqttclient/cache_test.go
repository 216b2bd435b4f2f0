/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package mqttclient

import (
	"sync"
	"testing"
	"time"
)

func TestCacheFIFOOrder(t *testing.T) {
	c, err := newCache(CacheConfig{MemCapBytes: 1 << 20, ItemCap: 100})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		c.push(&cacheItem{Topic: "t", Payload: []byte{byte(i)}})
	}

	for i := 0; i < 5; i++ {
		item, ok := c.pop()
		if !ok {
			t.Fatalf("pop %d: expected an item", i)
		}
		if item.Payload[0] != byte(i) {
			t.Fatalf("pop %d: got payload %v, want %v", i, item.Payload, []byte{byte(i)})
		}
	}

	if _, ok := c.pop(); ok {
		t.Fatal("expected cache to be empty")
	}
}

func TestCacheEvictsOldestWhenFullWithoutDiskPath(t *testing.T) {
	c, err := newCache(CacheConfig{ItemCap: 2})
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var failed []int

	push := func(n int) {
		c.push(&cacheItem{Topic: "t", Payload: []byte{byte(n)}, Release: func(err error) {
			if err != nil {
				mu.Lock()
				failed = append(failed, n)
				mu.Unlock()
			}
		}})
	}

	push(0)
	push(1)
	push(2) // evicts 0

	time.Sleep(20 * time.Millisecond) // eviction callback runs on its own goroutine

	mu.Lock()
	defer mu.Unlock()
	if len(failed) != 1 || failed[0] != 0 {
		t.Fatalf("expected item 0 to fail, got %v", failed)
	}
	if c.count() != 2 {
		t.Fatalf("count = %d, want 2", c.count())
	}
}

func TestCacheDrainFailsPendingCallbacks(t *testing.T) {
	c, err := newCache(CacheConfig{ItemCap: 10})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	c.push(&cacheItem{Topic: "t", Payload: []byte("x"), Release: func(err error) { done <- err }})

	c.drain(errClientClosed())

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected a non-nil error on drain")
		}
	case <-time.After(time.Second):
		t.Fatal("callback never invoked")
	}

	if c.count() != 0 {
		t.Fatalf("count = %d after drain, want 0", c.count())
	}
}
