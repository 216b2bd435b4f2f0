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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/emqx/neuron-sub004/conn"
)

var _ = Describe("TCP client", func() {
	var ln net.Listener
	var port int

	BeforeEach(func() {
		var err error
		ln, err = net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		port = ln.Addr().(*net.TCPAddr).Port
		go func() {
			for {
				c, err := ln.Accept()
				if err != nil {
					return
				}
				go func(c net.Conn) {
					buf := make([]byte, 4096)
					for {
						n, err := c.Read(buf)
						if err != nil {
							return
						}
						_, _ = c.Write(buf[:n])
					}
				}(c)
			}
		}()
	})

	AfterEach(func() { ln.Close() })

	It("lazily connects on first send and fires connected_cb once", func() {
		var connectedCount int
		c, err := conn.NewTCPClient(conn.Config{IP: "127.0.0.1", Port: port}, nil,
			func(any) { connectedCount++ }, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.IsConnected()).To(BeFalse())

		n, err := c.Send([]byte("hello"))
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(5))
		Expect(c.IsConnected()).To(BeTrue())
		Expect(connectedCount).To(Equal(1))

		_, _ = c.Send([]byte("world"))
		Expect(connectedCount).To(Equal(1))
	})

	// P7: after reconfig, byte counters reset and subsequent send/recv use
	// the new parameters.
	It("resets counters and rebuilds the transport on reconfig", func() {
		c, err := conn.NewTCPClient(conn.Config{IP: "127.0.0.1", Port: port}, nil, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = c.Send([]byte("abc"))
		Expect(err).NotTo(HaveOccurred())
		Expect(c.State().SendBytes).To(Equal(uint64(3)))

		Expect(c.Reconfig(conn.Config{IP: "127.0.0.1", Port: port})).To(Succeed())
		Expect(c.State().SendBytes).To(Equal(uint64(0)))
		Expect(c.IsConnected()).To(BeFalse())

		_, err = c.Send([]byte("de"))
		Expect(err).NotTo(HaveOccurred())
		Expect(c.State().SendBytes).To(Equal(uint64(2)))
	})

	It("recovers the echoed bytes via Recv", func() {
		c, err := conn.NewTCPClient(conn.Config{IP: "127.0.0.1", Port: port, TimeoutMS: 1000}, nil, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = c.Send([]byte("ping"))
		Expect(err).NotTo(HaveOccurred())

		buf := make([]byte, 16)
		var n int
		Eventually(func() error {
			n, err = c.Recv(buf)
			return err
		}, time.Second).Should(Succeed())
		Expect(string(buf[:n])).To(Equal("ping"))
	})
})
