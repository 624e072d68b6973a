package main

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// errBinaryFile marks files whose content is binary despite passing the
// extension filters. The scan reports and skips them.
var errBinaryFile = errors.New("binary content")

const binarySniffLen = 8192

// CountLines counts the lines in the file at path.
//
// The counting rule is fixed so reports are reproducible across platforms: a
// file containing N newline bytes counts N lines, plus one more if any bytes
// follow the final newline. An empty file counts 0 lines. Counting is
// byte-oriented, so any newline-delimited encoding counts identically.
//
// Content with a NUL byte in the first 8 KiB is treated as binary and
// rejected with errBinaryFile.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var (
		lines    int
		read     int64
		lastByte byte
	)
	buf := make([]byte, 32*1024)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if read < binarySniffLen {
				sniff := chunk
				if remaining := binarySniffLen - read; int64(len(sniff)) > remaining {
					sniff = sniff[:remaining]
				}
				if bytes.IndexByte(sniff, 0) >= 0 {
					return 0, errBinaryFile
				}
			}
			lines += bytes.Count(chunk, []byte{'\n'})
			lastByte = chunk[n-1]
			read += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}

	if read > 0 && lastByte != '\n' {
		lines++
	}
	return lines, nil
}
