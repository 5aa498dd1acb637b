package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDNSCodec_QnameRoundTrip(t *testing.T) {
	wire := encodeDNSQuery("intranet.corp")
	assert.NotEmpty(t, wire)
	assert.Equal(t, "intranet.corp", decodeDNSQname(wire))
}

func TestDNSCodec_GarbageWire(t *testing.T) {
	assert.Equal(t, "", decodeDNSQname([]byte{0x01, 0x02}))
}

func TestDNSCodec_AnswerCarriesAddress(t *testing.T) {
	wire := encodeDNSAnswer("intranet.corp", 401)
	assert.NotEmpty(t, wire)
}

func TestAddrToIP(t *testing.T) {
	assert.Equal(t, "10.0.1.145", addrToIP(401).String())
}
