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
	"encoding/json"
)

const (
	addressField        = "address"
	macField            = "mac"
	nameField           = "name"
	dhcpServerField     = "dhcpServer"
	dhcpServerNameField = "dhcpServerName"
)

// Lease is an active DHCP lease as reported by one DHCP server.
// The fields used for matching are decoded, every other field
// is kept verbatim in Extras.
type Lease struct {
	// Address is the leased IP address
	Address string
	// MAC is the client hardware address in colon-separated form
	MAC string
	// Name is the client host name, nil when the server has none
	Name *string
	// DHCPServer is the address of the server owning the lease
	DHCPServer string
	// DHCPServerName is the resolved name of DHCPServer.
	// It is empty until the lease has been enriched.
	DHCPServerName string
	// Extras holds the remaining fields of the record
	Extras map[string]json.RawMessage
}

// enforce compilation error
var (
	_ json.Marshaler   = (*Lease)(nil)
	_ json.Unmarshaler = (*Lease)(nil)
)

// HostName returns the host name or an empty string
func (l *Lease) HostName() string {
	if l.Name == nil {
		return ""
	}
	return *l.Name
}

// Field returns the raw value of an extra field
func (l *Lease) Field(name string) (json.RawMessage, bool) {
	raw, ok := l.Extras[name]
	return raw, ok
}

// UnmarshalJSON implements json.Unmarshaler
func (l *Lease) UnmarshalJSON(data []byte) error {
	var lease Lease
	extras, err := splitFields(data, map[string]any{
		addressField:        &lease.Address,
		macField:            &lease.MAC,
		nameField:           &lease.Name,
		dhcpServerField:     &lease.DHCPServer,
		dhcpServerNameField: &lease.DHCPServerName,
	})
	if err != nil {
		return err
	}
	lease.Extras = extras
	*l = lease
	return nil
}

// MarshalJSON implements json.Marshaler
func (l Lease) MarshalJSON() ([]byte, error) {
	known := map[string]any{
		addressField:    l.Address,
		macField:        l.MAC,
		nameField:       l.Name,
		dhcpServerField: l.DHCPServer,
	}
	if l.DHCPServerName != "" {
		known[dhcpServerNameField] = l.DHCPServerName
	}
	return joinFields(l.Extras, known)
}
