/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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
 */

// Package tlsversion represents the single TLS protocol version a run is
// restricted to. Unlike a general-purpose client library, the benchmark
// never negotiates a range of versions: the session template pins exactly
// one version as both min and max (spec: {TLS 1.2} or {TLS 1.3}, singleton).
package tlsversion

import (
	"crypto/tls"
	"strings"
)

// Version wraps the int version values from crypto/tls.
type Version int

const (
	// VersionUnknown represents an unrecognized TLS version.
	VersionUnknown Version = iota

	// VersionTLS12 is the only legacy-compatible version this tool exposes.
	VersionTLS12 = Version(tls.VersionTLS12)

	// VersionTLS13 is the modern, preferred version.
	VersionTLS13 = Version(tls.VersionTLS13)
)

// Parse returns the Version matching a CLI value such as "tls12", "1.3",
// "TLS 1.2". Unknown input returns VersionUnknown.
func Parse(s string) Version {
	s = strings.ToLower(s)
	s = strings.NewReplacer(
		"\"", "",
		"'", "",
		"tls", "",
		"ssl", "",
		".", "",
		"-", "",
		"_", "",
		" ", "",
	).Replace(s)
	s = strings.TrimSpace(s)

	switch s {
	case "12":
		return VersionTLS12
	case "13":
		return VersionTLS13
	default:
		return VersionUnknown
	}
}

// String renders the version as it appears in the final report, e.g. "TLS 1.3".
func (v Version) String() string {
	switch v {
	case VersionTLS12:
		return "TLS 1.2"
	case VersionTLS13:
		return "TLS 1.3"
	default:
		return ""
	}
}

// Uint16 returns the crypto/tls numeric version constant.
func (v Version) Uint16() uint16 {
	switch v {
	case VersionTLS12:
		return tls.VersionTLS12
	case VersionTLS13:
		return tls.VersionTLS13
	default:
		return 0
	}
}
