package cookie

import (
	"bytes"
	"testing"
)

func TestClientCookieForIsStablePerAddr(t *testing.T) {
	c, err := NewCache()
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}

	cc1 := c.ClientCookieFor("192.0.2.53:53")
	cc2 := c.ClientCookieFor("192.0.2.53:53")
	if cc1 != cc2 {
		t.Error("client cookie for the same address should be stable across calls")
	}

	cc3 := c.ClientCookieFor("198.51.100.53:53")
	if cc1 == cc3 {
		t.Error("client cookies for different nameservers should differ")
	}
}

func TestOptionValueIncludesRememberedServerCookie(t *testing.T) {
	c, err := NewCache()
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	addr := "192.0.2.53:53"

	first := c.OptionValue(addr)
	if len(first) != clientCookieSize {
		t.Fatalf("first option value len = %d, want %d (no server cookie yet)", len(first), clientCookieSize)
	}

	serverCookie := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	c.Observe(addr, serverCookie)

	second := c.OptionValue(addr)
	if len(second) != clientCookieSize+len(serverCookie) {
		t.Fatalf("second option value len = %d, want %d", len(second), clientCookieSize+len(serverCookie))
	}
	if !bytes.Equal(second[clientCookieSize:], serverCookie) {
		t.Error("option value should echo the most recently observed server cookie")
	}
	if !bytes.Equal(second[:clientCookieSize], first[:clientCookieSize]) {
		t.Error("client cookie portion should be unchanged")
	}
}

func TestValidateResponseDetectsMismatch(t *testing.T) {
	c, err := NewCache()
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	addr := "192.0.2.53:53"
	cc := c.ClientCookieFor(addr)

	if err := c.ValidateResponse(addr, cc); err != nil {
		t.Errorf("ValidateResponse() with the cached cookie should succeed, got %v", err)
	}

	var wrong [8]byte
	copy(wrong[:], []byte("wrongccc"))
	if err := c.ValidateResponse(addr, wrong); err == nil {
		t.Error("ValidateResponse() with a mismatched client cookie should fail")
	}
}

func TestValidateResponseUnknownAddr(t *testing.T) {
	c, err := NewCache()
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	var cc [8]byte
	if err := c.ValidateResponse("203.0.113.53:53", cc); err == nil {
		t.Error("ValidateResponse() for an address never queried should fail")
	}
}

func TestParseCookie(t *testing.T) {
	tests := []struct {
		name          string
		data          []byte
		wantClientLen int
		wantServerLen int
		wantErr       bool
	}{
		{
			name:          "client cookie only",
			data:          []byte{1, 2, 3, 4, 5, 6, 7, 8},
			wantClientLen: 8,
			wantServerLen: 0,
		},
		{
			name:          "client + server cookie",
			data:          []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
			wantClientLen: 8,
			wantServerLen: 8,
		},
		{
			name:    "too short",
			data:    []byte{1, 2, 3},
			wantErr: true,
		},
		{
			name:    "server cookie too long (>32 bytes)",
			data:    make([]byte, 8+33),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientCookie, serverCookie, err := ParseCookie(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCookie() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(clientCookie) != tt.wantClientLen {
				t.Errorf("client cookie len = %d, want %d", len(clientCookie), tt.wantClientLen)
			}
			if len(serverCookie) != tt.wantServerLen {
				t.Errorf("server cookie len = %d, want %d", len(serverCookie), tt.wantServerLen)
			}
		})
	}
}

func TestFormatCookie(t *testing.T) {
	var clientCookie [8]byte
	copy(clientCookie[:], []byte{1, 2, 3, 4, 5, 6, 7, 8})

	data := FormatCookie(clientCookie, nil)
	if len(data) != 8 {
		t.Errorf("format client only: len = %d, want 8", len(data))
	}
	if !bytes.Equal(data, clientCookie[:]) {
		t.Error("format client only: data mismatch")
	}

	serverCookie := []byte{9, 10, 11, 12, 13, 14, 15, 16}
	data = FormatCookie(clientCookie, serverCookie)
	if len(data) != 16 {
		t.Errorf("format client+server: len = %d, want 16", len(data))
	}

	parsedClient, parsedServer, err := ParseCookie(data)
	if err != nil {
		t.Fatalf("parse formatted cookie: %v", err)
	}
	if !bytes.Equal(parsedClient[:], clientCookie[:]) {
		t.Error("parsed client cookie mismatch")
	}
	if !bytes.Equal(parsedServer, serverCookie) {
		t.Error("parsed server cookie mismatch")
	}
}

func BenchmarkOptionValue(b *testing.B) {
	c, _ := NewCache()
	addr := "192.0.2.53:53"
	c.Observe(addr, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.OptionValue(addr)
	}
}
