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

import "github.com/emqx/neuron-sub004/errs"

func errAddress(cause error) errs.Error {
	return errs.New(errs.EADDRINVAL, "invalid or unreachable address", cause)
}

func errInstance() errs.Error {
	return errs.New(errs.EINTERNAL, "connection not initialized")
}

func errConnection(cause error) errs.Error {
	return errs.New(errs.ECONNSHUT, "connection lost", cause)
}

func errClosed() errs.Error {
	return errs.New(errs.ECLOSED, "connection is closed")
}

func errScratchFull() errs.Error {
	return errs.New(errs.ENOSPC, "recv scratch buffer too small for declared frame need")
}

func errUnsupported() errs.Error {
	return errs.New(errs.ENOTSUP, "operation not supported for this connection kind")
}

func errShortWrite() errs.Error {
	return errs.New(errs.EMSGSIZE, "short write exceeded retry budget")
}

func errProtocol() errs.Error {
	return errs.New(errs.EPROTO, "framer rejected stream, connection reset")
}
