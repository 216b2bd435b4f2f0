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
	"container/list"
	"encoding/binary"
	"sync"

	"github.com/nutsdb/nutsdb"
)

// cacheItem is one pending publish awaiting delivery (§4.4 store-and-
// forward). Release is nil for an item replayed from disk: the original
// caller's callback closure cannot survive process restart, so a disk-
// replayed publish is fire-and-forget on the delivery side, matching the
// opportunistic nature of the spill (SPEC_FULL open question #3).
type cacheItem struct {
	Topic   string
	QoS     byte
	Payload []byte
	Release PublishCallback

	// fromDisk marks an item popped off the on-disk tier, so a failed
	// drain requeues it to that tier's head rather than memory's,
	// preserving overall FIFO order (P2).
	fromDisk bool
}

func (it *cacheItem) size() int64 { return int64(len(it.Topic) + len(it.Payload) + 1) }

const nutsBucket = "mqttcache"
const nutsKey = "fifo"

// cache is the bounded memory-plus-disk FIFO of §4.4 / I6: while the
// gateway cannot reach the broker, Push accumulates publishes up to
// mem_cap_bytes/item_cap; once those caps are hit it makes room by moving
// the oldest in-memory entry to an opportunistic on-disk nutsdb list (when
// configured), repeating until the new arrival fits, or — once disk spill
// is unavailable or exhausted — evicting the oldest in-memory entry
// outright, failing its callback with errCacheFull. The disk tier always
// holds strictly older items than memory, so Pop drains it first,
// preserving overall arrival order.
type cache struct {
	mu sync.Mutex

	memCapBytes int64
	itemCap     int

	mem      *list.List // of *cacheItem
	memBytes int64

	db *nutsdb.DB
}

func newCache(cfg CacheConfig) (*cache, error) {
	c := &cache{
		memCapBytes: cfg.MemCapBytes,
		itemCap:     cfg.ItemCap,
		mem:         list.New(),
	}
	if cfg.DiskPath != "" {
		db, err := nutsdb.Open(
			nutsdb.DefaultOptions,
			nutsdb.WithDir(cfg.DiskPath),
		)
		if err != nil {
			// Disk spill is opportunistic: a broken disk path degrades to
			// memory-only caching rather than failing client Open.
			return c, nil
		}
		c.db = db
	}
	return c, nil
}

func (c *cache) fitsLocked(it *cacheItem) bool {
	return (c.itemCap <= 0 || c.mem.Len() < c.itemCap) &&
		(c.memCapBytes <= 0 || c.memBytes+it.size() <= c.memCapBytes)
}

func (c *cache) push(it *cacheItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict oldest-until-fits (I6: "sum(size) <= mem_cap ... at all times"):
	// a single eviction is not enough when the incoming item is larger than
	// whatever it displaced.
	for !c.fitsLocked(it) {
		if c.mem.Len() == 0 {
			break
		}
		if c.db != nil && c.spillOldestLocked() {
			continue
		}
		c.evictOldestLocked()
	}

	c.mem.PushBack(it)
	c.memBytes += it.size()
}

// spillOldestLocked moves the oldest in-memory item onto the on-disk tail
// FIFO, preserving its place as the oldest item overall (the disk tier is
// always older than whatever remains in memory, per §4.4). Returns false
// if there is nothing to spill or the disk write failed, in which case the
// caller falls back to evictOldestLocked.
func (c *cache) spillOldestLocked() bool {
	front := c.mem.Front()
	if front == nil {
		return false
	}
	oldest := front.Value.(*cacheItem)
	if err := c.spill(oldest); err != nil {
		return false
	}
	c.mem.Remove(front)
	c.memBytes -= oldest.size()
	return true
}

// evictOldestLocked drops the oldest in-memory item outright, failing its
// callback with errCacheFull (§4.4, I6 overflow policy), used once disk
// spill is unavailable or itself fails.
func (c *cache) evictOldestLocked() {
	front := c.mem.Front()
	if front == nil {
		return
	}
	c.mem.Remove(front)
	evicted := front.Value.(*cacheItem)
	c.memBytes -= evicted.size()
	if evicted.Release != nil {
		go evicted.Release(errCacheFull())
	}
}

func (c *cache) spill(it *cacheItem) error {
	buf := encodeItem(it)
	return c.db.Update(func(tx *nutsdb.Tx) error {
		return tx.RPush(nutsBucket, []byte(nutsKey), buf)
	})
}

// pop removes and returns the oldest cached item. Disk-spilled entries are
// always older than anything still in memory, so they drain first.
func (c *cache) pop() (*cacheItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		var buf []byte
		err := c.db.Update(func(tx *nutsdb.Tx) error {
			v, err := tx.LPop(nutsBucket, []byte(nutsKey))
			if err != nil {
				return err
			}
			buf = v
			return nil
		})
		if err == nil && buf != nil {
			item := decodeItem(buf)
			item.fromDisk = true
			return item, true
		}
	}

	front := c.mem.Front()
	if front == nil {
		return nil, false
	}
	c.mem.Remove(front)
	item := front.Value.(*cacheItem)
	c.memBytes -= item.size()
	return item, true
}

// requeueFront puts a popped-but-undelivered item back at the head of the
// tier it came from, so a failed drain "leaves the item at head" (§4.4)
// instead of losing it. A disk-sourced item is pushed back onto the disk
// list's head (LPush) to stay ahead of anything still in memory; falling
// back to memory's head only if that disk write itself fails.
func (c *cache) requeueFront(item *cacheItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item.fromDisk && c.db != nil {
		buf := encodeItem(item)
		err := c.db.Update(func(tx *nutsdb.Tx) error {
			return tx.LPush(nutsBucket, []byte(nutsKey), buf)
		})
		if err == nil {
			return
		}
	}

	c.mem.PushFront(item)
	c.memBytes += item.size()
}

// count returns the total number of items still awaiting delivery,
// backing the cached_msgs metric (§3).
func (c *cache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.mem.Len()
	if c.db != nil {
		_ = c.db.View(func(tx *nutsdb.Tx) error {
			size, err := tx.LSize(nutsBucket, []byte(nutsKey))
			if err != nil {
				return nil
			}
			n += size
			return nil
		})
	}
	return n
}

// drain empties the memory queue, failing every still-pending callback;
// used on Close (§4.4 Contracts: every cached publish resolves exactly
// once). Disk-spilled items are left untouched — they are fire-and-forget
// already and will be replayed on the next Open.
func (c *cache) drain(cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for e := c.mem.Front(); e != nil; e = e.Next() {
		item := e.Value.(*cacheItem)
		if item.Release != nil {
			go item.Release(cause)
		}
	}
	c.mem.Init()
	c.memBytes = 0
}

func (c *cache) close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func encodeItem(it *cacheItem) []byte {
	buf := make([]byte, 0, len(it.Topic)+len(it.Payload)+9)
	var lenBuf [4]byte

	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(it.Topic)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, it.Topic...)

	buf = append(buf, it.QoS)

	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(it.Payload)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, it.Payload...)

	return buf
}

func decodeItem(buf []byte) *cacheItem {
	if len(buf) < 4 {
		return &cacheItem{}
	}
	topicLen := binary.BigEndian.Uint32(buf[0:4])
	off := 4 + int(topicLen)
	if off+1+4 > len(buf) {
		return &cacheItem{}
	}
	topic := string(buf[4:off])
	qos := buf[off]
	off++
	payloadLen := binary.BigEndian.Uint32(buf[off : off+4])
	off += 4
	var payload []byte
	if off+int(payloadLen) <= len(buf) {
		payload = buf[off : off+int(payloadLen)]
	}
	return &cacheItem{Topic: topic, QoS: qos, Payload: payload}
}
