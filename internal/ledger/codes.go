package ledger

import (
	"math/rand"
	"time"
)

const provisioningCodeLength = 12

func generateProvisioningCode(l int) string {
	var charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

	b := make([]byte, l)
	for i := range b {
		b[i] = charset[seededRand.Intn(len(charset))]
	}

	return string(b)
}
