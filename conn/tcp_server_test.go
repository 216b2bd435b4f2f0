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

package conn_test

import (
	"net"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emqx/neuron-sub004/conn"
)

// freePort asks the OS for an ephemeral port by briefly listening on it.
func freePort() int {
	l, _ := net.Listen("tcp", "127.0.0.1:0")
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

var _ = Describe("TCP server connection table", func() {
	// Seed scenario 3: max_link=2, accept A, B, C in order; A's fd must be
	// closed on C's arrival (oldest-slot eviction, Open Question #2).
	It("evicts the oldest slot when a new client arrives at capacity", func() {
		port := freePort()
		srv := conn.NewTCPServer(conn.Config{IP: "127.0.0.1", Port: port, MaxLink: 2}, nil, nil, nil)
		Expect(srv.Start()).To(Succeed())
		defer srv.Stop()

		addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))

		a, err := net.Dial("tcp", addr)
		Expect(err).NotTo(HaveOccurred())
		defer a.Close()
		Eventually(func() int { return len(srv.ClientFDs()) }, time.Second).Should(Equal(1))

		b, err := net.Dial("tcp", addr)
		Expect(err).NotTo(HaveOccurred())
		defer b.Close()
		Eventually(func() int { return len(srv.ClientFDs()) }, time.Second).Should(Equal(2))

		c, err := net.Dial("tcp", addr)
		Expect(err).NotTo(HaveOccurred())
		defer c.Close()
		Eventually(func() int { return len(srv.ClientFDs()) }, time.Second).Should(Equal(2))

		buf := make([]byte, 1)
		_ = a.SetReadDeadline(time.Now().Add(time.Second))
		_, readErr := a.Read(buf)
		Expect(readErr).To(HaveOccurred())
	})
})
