package billing

import (
	"crypto/rand"
	"time"
)

// InvoiceNumberPrefix is the prefix of every generated invoice number
const InvoiceNumberPrefix = "INV"

// suffix alphabet excludes ambiguous characters (0/O, 1/I)
const suffixAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const suffixLength = 6

// GenerateInvoiceNumber produces a human-readable invoice number of the form
// INV-20240131-X7KQ2M. Numbers are assigned once at first save; uniqueness is
// enforced by the store's unique index, the random suffix keeps collisions
// out of the normal path.
func GenerateInvoiceNumber(now time.Time) string {
	buf := make([]byte, suffixLength)
	// rand.Read never returns an error on supported platforms
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = suffixAlphabet[int(buf[i])%len(suffixAlphabet)]
	}
	return InvoiceNumberPrefix + "-" + now.Format("20060102") + "-" + string(buf)
}
