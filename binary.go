package section

import (
	"io"

	"github.com/icza/bitio"
)

// TryReadFull reads len(p) bytes into p, recording any failure on r's
// sticky TryError instead of returning it, per bitio's "check Err() once
// at the end" convention that BitReader builds on.
func TryReadFull(r *bitio.CountReader, p []byte) {
	if r.TryError == nil {
		_, r.TryError = io.ReadFull(r, p)
	}
}
