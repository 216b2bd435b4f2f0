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

package store

import "github.com/emqx/neuron-sub004/errs"

const (
	errNotOpenCode    = errs.MinPkgStore + 1
	errNotFoundCode   = errs.MinPkgStore + 2
	errAlreadyCode    = errs.MinPkgStore + 3
	errValidateCode   = errs.MinPkgStore + 4
	errMigrateCode    = errs.MinPkgStore + 5
	errOpenCode       = errs.MinPkgStore + 6
)

func errNotOpen() error {
	return errs.New(errNotOpenCode, "store is not open")
}

func errNotFound(entity, key string) error {
	return errs.New(errNotFoundCode, entity+" "+key+" not found")
}

func errAlreadyExists(entity, key string) error {
	return errs.New(errAlreadyCode, entity+" "+key+" already exists")
}

func errValidate(cause error) error {
	return errs.New(errValidateCode, "validation failed", cause)
}

func errMigrate(cause error) error {
	return errs.New(errMigrateCode, "schema migration failed", cause)
}

func errOpen(cause error) error {
	return errs.New(errOpenCode, "cannot open database", cause)
}
