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

// Package errs is the single process-wide error-code space for the gateway
// core. It mirrors a POSIX-style negative range for transport/runtime errors
// and a positive "domain error" range (>=1000) for node/group/tag/plugin
// faults, matching the numbering the REST layer and the field protocols
// agree on. Every core package returns an Error built from a Code here
// instead of an ad-hoc error string, so callers across process boundaries
// can compare on the numeric code alone.
package errs

import "strconv"

// Code is the process-wide signed error code. Negative values mirror POSIX
// errno numbering; positive values >= 1000 are domain errors local to this
// system (node/group/tag/plugin lifecycle, auth, persistence).
type Code int32

// POSIX-style transport/runtime codes, negative range. Values and names are
// fixed by the wire contract shared with the field-protocol plugins and the
// REST layer; do not renumber.
const (
	Success Code = 0

	EINTR        Code = -1
	ENOMEM       Code = -2
	EINVAL       Code = -3
	EBUSY        Code = -4
	ETIMEDOUT    Code = -5
	ECONNREFUSED Code = -6
	ECLOSED      Code = -7
	EAGAIN       Code = -8
	ENOTSUP      Code = -9
	EADDRINUSE   Code = -10
	ESTATE       Code = -11
	ENOENT       Code = -12
	EPROTO       Code = -13
	EUNREACHABLE Code = -14
	EADDRINVAL   Code = -15
	EPERM        Code = -16
	EMSGSIZE     Code = -17
	ECONNABORTED Code = -18
	ECONNRESET   Code = -19
	ECANCELED    Code = -20
	ENOFILES     Code = -21
	ENOSPC       Code = -22
	EEXIST       Code = -23
	EREADONLY    Code = -24
	EWRITEONLY   Code = -25
	ECRYPTO      Code = -26
	EPEERAUTH    Code = -27
	ENOARG       Code = -28
	EAMBIGUOUS   Code = -29
	EBADTYPE     Code = -30
	ECONNSHUT    Code = -31
)

// Domain codes, positive range >= 1000.
const (
	FAILURE   Code = 1000
	EINTERNAL Code = 1001

	BodyIsWrong  Code = 1002
	ParamIsWrong Code = 1003

	NeedToken             Code = 1004
	DecodeToken           Code = 1005
	ExpiredToken          Code = 1006
	ValidateToken         Code = 1007
	InvalidToken          Code = 1008
	InvalidUserOrPassword Code = 1009

	PluginNameNotFound    Code = 2000
	NodeTypeInvalid       Code = 2001
	NodeExist             Code = 2002
	NodeNotExist          Code = 2003
	GroupConfigNotExist   Code = 2004
	TagNotExist           Code = 2005
	TagAttributeNotSupport Code = 2006
	NodeSettingInvalid    Code = 2007
	NodeSettingNotFound   Code = 2008
	GroupConfigInUse      Code = 2009
	NodeNotReady          Code = 2010
	NodeIsRunning         Code = 2011
	NodeNotRunning        Code = 2012
	NodeIsStopped         Code = 2013
	GroupNotSubscribe     Code = 2014
	TagTypeNotSupport     Code = 2015
	GroupConfigExist      Code = 2016
	TagNameExist          Code = 2017
)

// Per-package code bands, used by packages that need a local error code with
// no fixed entry in the table above. Mirrors the teacher's MinPkg* banding
// convention so every package's "unlabelled" errors still land in a
// disjoint, greppable range.
const (
	MinPkgReactor   Code = 3000
	MinPkgConn      Code = 3100
	MinPkgScheduler Code = 3200
	MinPkgMQTT      Code = 3300
	MinPkgStore     Code = 3400
	MinPkgCerts     Code = 3500
	MinPkgGwconfig  Code = 3600

	MinAvailable Code = 4000
)

var names = map[Code]string{
	Success:      "success",
	EINTR:        "interrupted system call",
	ENOMEM:       "out of memory",
	EINVAL:       "invalid argument",
	EBUSY:        "resource busy",
	ETIMEDOUT:    "operation timed out",
	ECONNREFUSED: "connection refused",
	ECLOSED:      "connection closed",
	EAGAIN:       "resource temporarily unavailable",
	ENOTSUP:      "operation not supported",
	EADDRINUSE:   "address already in use",
	ESTATE:       "invalid state for operation",
	ENOENT:       "no such entity",
	EPROTO:       "protocol error",
	EUNREACHABLE: "destination unreachable",
	EADDRINVAL:   "invalid address",
	EPERM:        "operation not permitted",
	EMSGSIZE:     "message too large",
	ECONNABORTED: "connection aborted",
	ECONNRESET:   "connection reset by peer",
	ECANCELED:    "operation canceled",
	ENOFILES:     "too many open files",
	ENOSPC:       "no space left on device",
	EEXIST:       "entity already exists",
	EREADONLY:    "entity is read-only",
	EWRITEONLY:   "entity is write-only",
	ECRYPTO:      "cryptographic operation failed",
	EPEERAUTH:    "peer authentication failed",
	ENOARG:       "missing required argument",
	EAMBIGUOUS:   "ambiguous request",
	EBADTYPE:     "value has unexpected type",
	ECONNSHUT:    "connection shut down",

	FAILURE:               "general failure",
	EINTERNAL:             "internal error",
	BodyIsWrong:           "request body is malformed",
	ParamIsWrong:          "request parameter is invalid",
	NeedToken:             "authentication token required",
	DecodeToken:           "unable to decode authentication token",
	ExpiredToken:          "authentication token expired",
	ValidateToken:         "unable to validate authentication token",
	InvalidToken:          "invalid authentication token",
	InvalidUserOrPassword: "invalid user or password",

	PluginNameNotFound:     "plugin name not found",
	NodeTypeInvalid:        "node type invalid",
	NodeExist:              "node already exists",
	NodeNotExist:           "node does not exist",
	GroupConfigNotExist:    "group does not exist",
	TagNotExist:            "tag does not exist",
	TagAttributeNotSupport: "tag attribute not supported",
	NodeSettingInvalid:     "node setting invalid",
	NodeSettingNotFound:    "node setting not found",
	GroupConfigInUse:       "group is in use",
	NodeNotReady:           "node not ready",
	NodeIsRunning:          "node is running",
	NodeNotRunning:         "node not running",
	NodeIsStopped:          "node is stopped",
	GroupNotSubscribe:      "group has no subscription",
	TagTypeNotSupport:      "tag type not supported",
	GroupConfigExist:       "group already exists",
	TagNameExist:           "tag name already exists",
}

// Message returns the canonical human-readable text for a code, or a
// generic placeholder for codes with no registered text (local package
// bands typically supply their own via New).
func (c Code) Message() string {
	if m, ok := names[c]; ok {
		return m
	}
	return "unregistered error code " + strconv.Itoa(int(c))
}

// Int32 returns the code as its wire representation.
func (c Code) Int32() int32 { return int32(c) }

// IsDomain reports whether c is a domain error (>= 1000) as opposed to a
// POSIX-style transport/runtime code.
func (c Code) IsDomain() bool { return c >= 1000 }
