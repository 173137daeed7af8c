package utils

import (
	"encoding/hex"
	"io"
	"os"

	"lukechampine.com/blake3"
)

// digestSize is the BLAKE3 output length in bytes.
const digestSize = 32

// readChunk is the buffer used when hashing files. Validator tables are
// small, so a single fixed buffer is enough.
const readChunk = 64 << 10

// hashReader computes a BLAKE3 hash with a manual read loop.
func hashReader(r io.Reader) ([]byte, error) {
	buf := make([]byte, readChunk)
	h := blake3.New(digestSize, nil)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return nil, werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, rerr
		}
	}
	return h.Sum(nil), nil
}

// Blake3HashFile returns the BLAKE3 hash of a file.
func Blake3HashFile(filePath string) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return hashReader(f)
}

// Blake3Hash returns the BLAKE3 hash of msg.
func Blake3Hash(msg []byte) []byte {
	sum := blake3.Sum256(msg)
	return sum[:]
}

// GetHashFromBytes returns the hex-encoded BLAKE3 hash of msg.
func GetHashFromBytes(msg []byte) string {
	return hex.EncodeToString(Blake3Hash(msg))
}
