// Package relay copies line-oriented data between streams.
//
// A relay forwards bytes verbatim, but paced by line boundaries: each
// complete line is written to the destination as soon as its newline
// arrives, so a line-driven peer on the far side sees it without
// buffering delay. A trailing unterminated line is forwarded when the
// source ends.
package relay

import (
	"bytes"
	"io"
)

// Lines reads from src and writes every complete line (newline included)
// to dst immediately. When src ends, any unterminated remainder is
// written as-is. Returns nil on a clean end of stream, otherwise the
// first read or write error. Bytes are never altered; non-UTF-8 data and
// carriage returns pass through untouched.
func Lines(dst io.Writer, src io.Reader) error {
	var lineBuf bytes.Buffer
	chunk := make([]byte, 4096)

	for {
		n, rerr := src.Read(chunk)
		if n > 0 {
			lineBuf.Write(chunk[:n])
			for {
				line, err := lineBuf.ReadBytes('\n')
				if err != nil {
					// No complete line yet; keep the partial for the next read.
					lineBuf.Reset()
					lineBuf.Write(line)
					break
				}
				if _, werr := dst.Write(line); werr != nil {
					return werr
				}
			}
		}
		if rerr != nil {
			if lineBuf.Len() > 0 {
				if _, werr := dst.Write(lineBuf.Bytes()); werr != nil {
					return werr
				}
			}
			if rerr == io.EOF {
				return nil
			}
			return rerr
		}
	}
}
