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

import "strings"

// topicMatch reports whether topic matches filter under the MQTT 3.1.1/5
// wildcard rules (§4.4, §6): "+" matches exactly one level, "#" (only
// legal as the final level) matches that level and all remaining levels,
// and a filter starting with "+" or "#" never matches a topic whose first
// level starts with "$" (reserved for broker system topics).
func topicMatch(filter, topic string) bool {
	if filter == "" || topic == "" {
		return false
	}

	fLevels := strings.Split(filter, "/")
	tLevels := strings.Split(topic, "/")

	if strings.HasPrefix(tLevels[0], "$") {
		if fLevels[0] != tLevels[0] {
			return false
		}
	}

	i := 0
	for ; i < len(fLevels); i++ {
		f := fLevels[i]

		if f == "#" {
			return i == len(fLevels)-1
		}

		if i >= len(tLevels) {
			return false
		}

		if f != "+" && f != tLevels[i] {
			return false
		}
	}

	return i == len(tLevels)
}
