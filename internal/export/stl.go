// Package export writes solids as binary STL through pluggable sinks.
package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"squared/internal/csg"

	"github.com/soypat/geometry/ms3"
)

const (
	headerSize   = 80
	triangleSize = 50 // normal + 3 vertices as float32, uint16 attribute
)

// ErrTruncated is returned when an STL stream ends before its declared
// triangle count.
var ErrTruncated = errors.New("truncated stl")

// WriteSTL encodes triangles as binary STL. The header is truncated or
// zero padded to 80 bytes.
func WriteSTL(w io.Writer, header string, triangles []ms3.Triangle) error {
	bw := bufio.NewWriter(w)

	var head [headerSize]byte
	copy(head[:], header)
	if _, err := bw.Write(head[:]); err != nil {
		return fmt.Errorf("write stl header: %w", err)
	}

	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(triangles)))
	if _, err := bw.Write(count[:]); err != nil {
		return fmt.Errorf("write stl triangle count: %w", err)
	}

	var record [triangleSize]byte
	for i, t := range triangles {
		putVec(record[0:12], unitNormal(t))
		putVec(record[12:24], t[0])
		putVec(record[24:36], t[1])
		putVec(record[36:48], t[2])
		binary.LittleEndian.PutUint16(record[48:50], 0)
		if _, err := bw.Write(record[:]); err != nil {
			return fmt.Errorf("write stl triangle %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush stl: %w", err)
	}
	return nil
}

// readSTL decodes a binary STL stream, returning its header with trailing
// zero bytes removed.
func readSTL(r io.Reader) (string, []ms3.Triangle, error) {
	br := bufio.NewReader(r)

	var head [headerSize]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return "", nil, fmt.Errorf("read stl header: %w", truncated(err))
	}
	header := string(head[:])
	for len(header) > 0 && header[len(header)-1] == 0 {
		header = header[:len(header)-1]
	}

	var count [4]byte
	if _, err := io.ReadFull(br, count[:]); err != nil {
		return "", nil, fmt.Errorf("read stl triangle count: %w", truncated(err))
	}
	n := binary.LittleEndian.Uint32(count[:])

	triangles := make([]ms3.Triangle, 0, min(n, 1<<16))
	var record [triangleSize]byte
	for i := uint32(0); i < n; i++ {
		if _, err := io.ReadFull(br, record[:]); err != nil {
			return "", nil, fmt.Errorf("read stl triangle %d: %w", i, truncated(err))
		}
		triangles = append(triangles, ms3.Triangle{
			getVec(record[12:24]),
			getVec(record[24:36]),
			getVec(record[36:48]),
		})
	}
	return header, triangles, nil
}

// EncodedSize is the byte length of a binary STL holding n triangles.
func EncodedSize(n int) int {
	return headerSize + 4 + n*triangleSize
}

// Header builds the 80 byte banner identifying a solid.
func Header(name string, m csg.Material) string {
	return fmt.Sprintf("squared %s solid: %s", m, name)
}

func unitNormal(t ms3.Triangle) ms3.Vec {
	n := t.Normal()
	if ms3.Norm(n) == 0 {
		return ms3.Vec{}
	}
	return ms3.Unit(n)
}

func putVec(dst []byte, v ms3.Vec) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(v.Z))
}

func getVec(src []byte) ms3.Vec {
	return ms3.Vec{
		X: math.Float32frombits(binary.LittleEndian.Uint32(src[0:4])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(src[4:8])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(src[8:12])),
	}
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}
