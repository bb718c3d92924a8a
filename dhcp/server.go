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
	serverNameField    = "name"
	serverAddressField = "v4_ipaddress"
)

// ServerRecord is a DHCP server known to TCPWave
type ServerRecord struct {
	Name    string
	Address string
	Extras  map[string]json.RawMessage
}

// enforce compilation error
var (
	_ json.Marshaler   = (*ServerRecord)(nil)
	_ json.Unmarshaler = (*ServerRecord)(nil)
)

// UnmarshalJSON implements json.Unmarshaler
func (s *ServerRecord) UnmarshalJSON(data []byte) error {
	var record ServerRecord
	extras, err := splitFields(data, map[string]any{
		serverNameField:    &record.Name,
		serverAddressField: &record.Address,
	})
	if err != nil {
		return err
	}
	record.Extras = extras
	*s = record
	return nil
}

// MarshalJSON implements json.Marshaler
func (s ServerRecord) MarshalJSON() ([]byte, error) {
	return joinFields(s.Extras, map[string]any{
		serverNameField:    s.Name,
		serverAddressField: s.Address,
	})
}
