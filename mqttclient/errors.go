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

import "github.com/emqx/neuron-sub004/errs"

const (
	errClientClosedCode   = errs.MinPkgMQTT + 1
	errNotOpenableCode    = errs.MinPkgMQTT + 2
	errCacheFullCode      = errs.MinPkgMQTT + 3
	errReconfigureCode    = errs.MinPkgMQTT + 4
	errUnsubscribedCode   = errs.MinPkgMQTT + 5
)

func errClientClosed() error {
	return errs.New(errClientClosedCode, "mqtt client is closed")
}

func errNotOpenable(reason string) error {
	return errs.New(errNotOpenableCode, "mqtt client cannot open: "+reason)
}

func errCacheFull() error {
	return errs.New(errCacheFullCode, "store-and-forward cache is full")
}

func errReconfigureWhileOpen() error {
	return errs.New(errReconfigureCode, "mqtt client must be closed before reconfiguration")
}

func errNotSubscribed(topic string) error {
	return errs.New(errUnsubscribedCode, "not subscribed to "+topic)
}
