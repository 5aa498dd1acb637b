package core

import (
	"net"
	"strings"

	"github.com/miekg/dns"

	"github.com/weftlabs/weft/state"
)

// The resolver payloads are real wire-format DNS messages so the blob
// riding the transport is opaque bytes, not structured fields. Logical
// addresses map onto 10.0.0.0/8 for the A record.

func encodeDNSQuery(qname string) []byte {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(qname), dns.TypeA)
	wire, err := m.Pack()
	if err != nil {
		return nil
	}
	return wire
}

func decodeDNSQname(wire []byte) string {
	var m dns.Msg
	if err := m.Unpack(wire); err != nil || len(m.Question) == 0 {
		return ""
	}
	return strings.TrimSuffix(m.Question[0].Name, ".")
}

func encodeDNSAnswer(qname string, addr state.Addr) []byte {
	q := new(dns.Msg)
	q.SetQuestion(dns.Fqdn(qname), dns.TypeA)
	m := new(dns.Msg)
	m.SetReply(q)
	m.Answer = append(m.Answer, &dns.A{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(qname),
			Rrtype: dns.TypeA,
			Class:  dns.ClassINET,
			Ttl:    3600,
		},
		A: addrToIP(addr),
	})
	wire, err := m.Pack()
	if err != nil {
		return nil
	}
	return wire
}

func addrToIP(a state.Addr) net.IP {
	return net.IPv4(10, byte(a>>16), byte(a>>8), byte(a))
}
