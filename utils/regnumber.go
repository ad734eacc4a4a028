package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	mathrand "math/rand"
	"strconv"
	"strings"
	"time"
)

const regNumberPrefix = "CSI"

var seededRand = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

// GenerateRegistrationNumber produces a short, human-speakable identifier of
// the form CSI-<ts>-<hex>: the last 4 base-36 chars of the current millisecond
// timestamp plus 4 random bytes, both uppercased. Uniqueness is NOT guaranteed
// here; the store's unique index on registration_number is the real guard and
// callers regenerate when an insert reports a duplicate.
func GenerateRegistrationNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		binary.BigEndian.PutUint32(b, seededRand.Uint32())
	}

	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	if len(ts) > 4 {
		ts = ts[len(ts)-4:]
	}

	return fmt.Sprintf("%s-%s-%s", regNumberPrefix, ts, strings.ToUpper(hex.EncodeToString(b)))
}
