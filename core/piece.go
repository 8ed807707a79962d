package core

// BlockSize is the maximum size of a single requested block within a piece,
// per the peer wire protocol (16 KiB).
const BlockSize = 16384

// PieceLength returns the length of piece i out of numPieces, given the
// torrent's total length and nominal piece length. Every piece is
// pieceLength long except possibly the last, which is whatever remains.
func PieceLength(totalLength, pieceLength int64, numPieces, i int) int64 {
	if i < 0 || i >= numPieces {
		return 0
	}
	if i == numPieces-1 {
		return totalLength - pieceLength*int64(i)
	}
	return pieceLength
}

// NumPieces returns the number of pieces needed to hold totalLength bytes
// broken into pieceLength chunks. The final piece is strictly greater than
// zero bytes and at most pieceLength bytes.
func NumPieces(totalLength, pieceLength int64) int {
	if pieceLength <= 0 {
		return 0
	}
	n := totalLength / pieceLength
	if totalLength%pieceLength > 0 {
		n++
	}
	return int(n)
}
