package testutil

import (
	"context"
	"net"
)

// StaticMX is an MX resolver backed by a fixed table. Unknown domains fail
// the way an NXDOMAIN lookup would.
type StaticMX map[string][]string

// DefaultMX resolves example.com and nothing else.
func DefaultMX() StaticMX {
	return StaticMX{"example.com": {"mx.example.com."}}
}

func (s StaticMX) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	hosts, ok := s[name]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
	}
	out := make([]*net.MX, 0, len(hosts))
	for i, h := range hosts {
		out = append(out, &net.MX{Host: h, Pref: uint16(10 * (i + 1))})
	}
	return out, nil
}
