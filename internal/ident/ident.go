// Package ident issues player ids, room codes, and player secrets.
package ident

import (
	cryptorand "crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// Crockford's base32, used for player ids
const idAlphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Uppercase alphanumerics for short room codes
const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RoomCodeLength is the length of generated room codes
const RoomCodeLength = 6

// Generator produces identifiers from a random source. The source is
// crypto/rand in production and injectable for deterministic tests;
// player secrets authenticate actions and always need the strong source.
type Generator struct {
	source io.Reader
	now    func() time.Time
}

// NewGenerator creates a generator. A nil source means crypto/rand.
func NewGenerator(source io.Reader) *Generator {
	if source == nil {
		source = cryptorand.Reader
	}
	return &Generator{source: source, now: time.Now}
}

// PlayerID returns a 26-character base32 UUIDv7: sortable by creation
// time, unguessable in the random bits.
func (g *Generator) PlayerID() string {
	var uuid [16]byte

	ms := g.now().UnixMilli()
	uuid[0] = byte(ms >> 40)
	uuid[1] = byte(ms >> 32)
	uuid[2] = byte(ms >> 24)
	uuid[3] = byte(ms >> 16)
	uuid[4] = byte(ms >> 8)
	uuid[5] = byte(ms)

	g.fill(uuid[6:])
	uuid[6] = (uuid[6] & 0x0f) | 0x70 // version 7
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // variant 10

	return encodeBase32(uuid)
}

// RoomCode returns a short uppercase alphanumeric code. Collisions are
// possible but vanishingly rare at typical room caps; the registry
// tolerates them by overwriting.
func (g *Generator) RoomCode() string {
	buf := make([]byte, RoomCodeLength)
	g.fill(buf)
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}

// Secret returns a 128-bit hex secret for authenticating a seat
func (g *Generator) Secret() string {
	buf := make([]byte, 16)
	g.fill(buf)
	return hex.EncodeToString(buf)
}

func (g *Generator) fill(buf []byte) {
	if _, err := io.ReadFull(g.source, buf); err != nil {
		panic(fmt.Sprintf("ident: random source failed: %v", err))
	}
}

// SecretsEqual compares two secrets in constant time
func SecretsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// encodeBase32 packs 128 bits into 26 base32 characters, 5 bits per
// character, high bits first.
func encodeBase32(data [16]byte) string {
	out := make([]byte, 26)
	for i := range out {
		bit := i * 5
		byteIdx, bitIdx := bit/8, bit%8

		var v byte
		if byteIdx < 16 {
			if bitIdx <= 3 {
				v = (data[byteIdx] >> (3 - bitIdx)) & 0x1f
			} else {
				v = (data[byteIdx] << (bitIdx - 3)) & 0x1f
				if byteIdx+1 < 16 {
					v |= data[byteIdx+1] >> (11 - bitIdx)
				}
			}
		}
		out[i] = idAlphabet[v]
	}
	return string(out)
}
