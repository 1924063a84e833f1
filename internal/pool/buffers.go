// Package pool holds sync.Pool-backed reuse for the message and buffer
// allocations the resolver and transport layers churn through on every
// query: a pooled *message.Message plus three fixed-size byte-buffer
// tiers sized for UDP queries, EDNS0 responses, and full TCP/AXFR
// messages.
package pool

import (
	"sync"

	"github.com/dnsscience/dnsgo/message"
)

const (
	// Buffer sizes for different use cases
	SmallBufferSize  = 512   // UDP DNS queries (most common)
	MediumBufferSize = 4096  // EDNS0 responses
	LargeBufferSize  = 65535 // Maximum DNS message size (TCP/AXFR)
)

// MessagePool is a sync.Pool for *message.Message reuse.
var MessagePool = sync.Pool{
	New: func() interface{} {
		return new(message.Message)
	},
}

// GetMessage gets a message from the pool.
func GetMessage() *message.Message {
	return MessagePool.Get().(*message.Message)
}

// PutMessage returns a message to the pool. The message is reset first so
// no data from one query leaks into the next caller's message.
func PutMessage(msg *message.Message) {
	if msg == nil {
		return
	}

	resetHeader(msg)

	msg.Question = msg.Question[:0]
	msg.Answer = msg.Answer[:0]
	msg.Authority = msg.Authority[:0]
	msg.Additional = msg.Additional[:0]

	MessagePool.Put(msg)
}

// SmallBufferPool serves UDP query buffers (512 bytes, RFC 1035's
// original non-EDNS datagram ceiling).
var SmallBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, SmallBufferSize)
		return &buf
	},
}

// GetSmallBuffer gets a 512-byte buffer.
func GetSmallBuffer() []byte {
	bufPtr := SmallBufferPool.Get().(*[]byte)
	return (*bufPtr)[:SmallBufferSize]
}

// PutSmallBuffer returns a buffer to the pool.
func PutSmallBuffer(buf []byte) {
	if cap(buf) < SmallBufferSize {
		return // don't pool undersized buffers
	}
	buf = buf[:cap(buf)]
	SmallBufferPool.Put(&buf)
}

// MediumBufferPool serves EDNS0 response buffers (4096 bytes, a common
// advertised UDP payload size).
var MediumBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, MediumBufferSize)
		return &buf
	},
}

// GetMediumBuffer gets a 4096-byte buffer.
func GetMediumBuffer() []byte {
	bufPtr := MediumBufferPool.Get().(*[]byte)
	return (*bufPtr)[:MediumBufferSize]
}

// PutMediumBuffer returns a buffer to the pool.
func PutMediumBuffer(buf []byte) {
	if cap(buf) < MediumBufferSize {
		return
	}
	buf = buf[:cap(buf)]
	MediumBufferPool.Put(&buf)
}

// LargeBufferPool serves full-size TCP/AXFR message buffers (65535 bytes,
// the maximum a 16-bit TCP length prefix can carry).
var LargeBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, LargeBufferSize)
		return &buf
	},
}

// GetLargeBuffer gets a 65535-byte buffer.
func GetLargeBuffer() []byte {
	bufPtr := LargeBufferPool.Get().(*[]byte)
	return (*bufPtr)[:LargeBufferSize]
}

// PutLargeBuffer returns a buffer to the pool.
func PutLargeBuffer(buf []byte) {
	if cap(buf) < LargeBufferSize {
		return
	}
	buf = buf[:cap(buf)]
	LargeBufferPool.Put(&buf)
}

// GetBuffer picks the smallest pooled tier that can hold size bytes.
func GetBuffer(size int) []byte {
	switch {
	case size <= SmallBufferSize:
		return GetSmallBuffer()
	case size <= MediumBufferSize:
		return GetMediumBuffer()
	default:
		return GetLargeBuffer()
	}
}

// PutBuffer returns buf to whichever tier its capacity matches exactly;
// odd-sized buffers (e.g. a caller-supplied slice) are left unpooled.
func PutBuffer(buf []byte) {
	switch cap(buf) {
	case SmallBufferSize:
		PutSmallBuffer(buf)
	case MediumBufferSize:
		PutMediumBuffer(buf)
	case LargeBufferSize:
		PutLargeBuffer(buf)
	}
}

// ResetPools discards all pooled entries, useful under test or after a
// configuration reload that changes expected message sizes.
func ResetPools() {
	MessagePool = sync.Pool{New: func() interface{} { return new(message.Message) }}
	SmallBufferPool = sync.Pool{New: func() interface{} { buf := make([]byte, SmallBufferSize); return &buf }}
	MediumBufferPool = sync.Pool{New: func() interface{} { buf := make([]byte, MediumBufferSize); return &buf }}
	LargeBufferPool = sync.Pool{New: func() interface{} { buf := make([]byte, LargeBufferSize); return &buf }}
}

func resetHeader(msg *message.Message) {
	msg.Header.ID = 0
	msg.Header.QR = false
	msg.Header.Opcode = 0
	msg.Header.AA = false
	msg.Header.TC = false
	msg.Header.RD = false
	msg.Header.RA = false
	msg.Header.Z = false
	msg.Header.AD = false
	msg.Header.CD = false
	msg.Header.Rcode = 0
	msg.Header.QDCount = 0
	msg.Header.ANCount = 0
	msg.Header.NSCount = 0
	msg.Header.ARCount = 0
}
