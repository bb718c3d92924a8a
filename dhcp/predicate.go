// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package dhcp

import (
	"regexp"
	"strings"
)

// Predicate reports whether a lease matches
type Predicate func(lease *Lease) bool

// AddressEquals matches the leases of the given IP address
func AddressEquals(address string) Predicate {
	return func(lease *Lease) bool {
		return lease.Address == address
	}
}

// MACEquals matches the leases of the given MAC address.
// The comparison is exact, no normalization is done.
func MACEquals(mac string) Predicate {
	return func(lease *Lease) bool {
		return lease.MAC == mac
	}
}

// NameContains matches the leases whose host name contains value, ignoring case.
// A lease without host name never matches.
func NameContains(value string) Predicate {
	value = strings.ToLower(value)
	return func(lease *Lease) bool {
		return lease.Name != nil && strings.Contains(strings.ToLower(*lease.Name), value)
	}
}

// NameMatches matches the leases whose host name matches the expression.
// A lease without host name never matches.
func NameMatches(expression *regexp.Regexp) Predicate {
	return func(lease *Lease) bool {
		return lease.Name != nil && expression.MatchString(*lease.Name)
	}
}

// MatchAll matches every lease
func MatchAll() Predicate {
	return func(*Lease) bool {
		return true
	}
}
