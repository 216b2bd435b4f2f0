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

// Store is the persistence layer's top-level handle (§4.5): one typed DAO
// per table, all sharing a single underlying connection opened by Open.
// Not-open, not-found and already-exists conditions are returned as typed
// errors (errs.Code); other database errors are returned as the driver
// reports them. None of these are called on the scheduler's hot path.
type Store interface {
	Nodes() NodeStore
	Plugins() PluginStore
	Groups() GroupStore
	Tags() TagStore
	Subscriptions() SubscriptionStore
	Templates() TemplateStore
	ServerCerts() ServerCertStore
	ClientCerts() ClientCertStore
	SecurityPolicies() SecurityPolicyStore
	AuthSettings() AuthSettingStore
	AuthUsers() AuthUserStore

	// Close releases the underlying connection. Safe to call multiple
	// times.
	Close() error
}

// Open validates cfg, opens the underlying sqlite connection, and
// optionally runs AutoMigrate over the closed table set of §4.5.
func Open(cfg Config) (Store, error) {
	return open(cfg)
}
