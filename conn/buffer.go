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

package conn

// MaxScratch bounds implicit growth of the recv scratch buffer. A declared
// protocol need beyond this is refused rather than grown without limit.
const MaxScratch = 1 << 20

// scratch is the per-connection recv buffer described in §4.2: it starts
// at InitialScratch, grows only as far as a declared frame need, and is
// compacted after each consumed frame so offset always trends to zero.
type scratch struct {
	buf []byte
	off int // bytes already framed; read resumes after this
	n   int // valid bytes in buf[0:n]
}

func newScratch() *scratch {
	return &scratch{buf: make([]byte, InitialScratch)}
}

// ensure grows buf so at least need bytes are addressable past n, or
// returns errScratchFull if that would exceed MaxScratch.
func (s *scratch) ensure(need int) error {
	if s.n+need <= len(s.buf) {
		return nil
	}
	if s.n+need > MaxScratch {
		return errScratchFull()
	}
	grown := make([]byte, s.n+need)
	copy(grown, s.buf[:s.n])
	s.buf = grown
	return nil
}

func (s *scratch) append(p []byte) error {
	if err := s.ensure(len(p)); err != nil {
		return err
	}
	copy(s.buf[s.n:], p)
	s.n += len(p)
	return nil
}

// compact discards consumed bytes, sliding the remainder to offset 0.
func (s *scratch) compact() {
	if s.off == 0 {
		return
	}
	remain := s.n - s.off
	copy(s.buf, s.buf[s.off:s.n])
	s.n = remain
	s.off = 0
}

func (s *scratch) data() []byte { return s.buf[s.off:s.n] }

func (s *scratch) consume(n int) {
	s.off += n
	s.compact()
}

func (s *scratch) reset() {
	s.off = 0
	s.n = 0
}
