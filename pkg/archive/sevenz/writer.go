/*
Package sevenz implements a minimal 7z container writer: one LZMA2
folder per non-empty file, CRC32 digests, UTF-16LE names and
modification times. The LZMA2 encoding itself comes from
github.com/ulikunitz/xz; this package only assembles the container.

The format is not naturally streaming: entry contents are compressed as
they are added, but the container can only be laid out once all entries
are known, so everything is buffered until Close.
*/
package sevenz

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"time"
	"unicode/utf16"

	"github.com/ulikunitz/xz/lzma"
)

// Container property IDs, from the 7z format documentation.
const (
	idEnd              = 0x00
	idHeader           = 0x01
	idMainStreamsInfo  = 0x04
	idFilesInfo        = 0x05
	idPackInfo         = 0x06
	idUnpackInfo       = 0x07
	idSize             = 0x09
	idCRC              = 0x0A
	idFolder           = 0x0B
	idCodersUnpackSize = 0x0C
	idEmptyStream      = 0x0E
	idEmptyFile        = 0x0F
	idName             = 0x11
	idMTime            = 0x14
)

// coderLZMA2 is the single-byte 7z method ID for LZMA2.
const coderLZMA2 = 0x21

// dictCap is the LZMA2 dictionary capacity (8 MiB); dictProp is its
// 7z properties-byte encoding: (2|(p&1)) << (p/2+11) == dictCap.
const (
	dictCap  = 1 << 23
	dictProp = 22
)

var signature = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}

// epochDelta is the offset between Windows FILETIME and Unix epochs, in
// seconds.
const epochDelta = 11644473600

type entry struct {
	name     string
	modTime  time.Time
	size     uint64
	packSize uint64
	crc      uint32
	empty    bool
}

// Writer assembles a 7z archive. Entries are added with Add and the
// container is written out by Close.
type Writer struct {
	out     io.Writer
	packed  bytes.Buffer
	entries []entry
	closed  bool
}

// NewWriter creates a 7z writer over out. Nothing is written until
// Close.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Add compresses content into its own LZMA2 folder under the given
// slash-separated name. Empty content produces an empty-file record
// with no stream.
func (w *Writer) Add(name string, modTime time.Time, content []byte) error {
	if w.closed {
		return fmt.Errorf("sevenz: writer already closed")
	}

	e := entry{
		name:    name,
		modTime: modTime,
		size:    uint64(len(content)),
		crc:     crc32.ChecksumIEEE(content),
	}

	if len(content) == 0 {
		e.empty = true
		w.entries = append(w.entries, e)
		return nil
	}

	before := w.packed.Len()

	enc, err := lzma.Writer2Config{DictCap: dictCap}.NewWriter2(&w.packed)
	if err != nil {
		return fmt.Errorf("sevenz: create encoder for %q: %w", name, err)
	}
	if _, err := enc.Write(content); err != nil {
		return fmt.Errorf("sevenz: compress %q: %w", name, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("sevenz: finish %q: %w", name, err)
	}

	e.packSize = uint64(w.packed.Len() - before)
	w.entries = append(w.entries, e)
	return nil
}

// Close lays out the container and writes it to the underlying writer.
// It must be called exactly once, also when no entries were added.
func (w *Writer) Close() error {
	if w.closed {
		return fmt.Errorf("sevenz: writer already closed")
	}
	w.closed = true

	var header []byte
	if len(w.entries) > 0 {
		header = w.buildHeader()
	}

	sig := w.buildSignatureHeader(header)
	if _, err := w.out.Write(sig); err != nil {
		return fmt.Errorf("sevenz: write signature header: %w", err)
	}
	if _, err := w.out.Write(w.packed.Bytes()); err != nil {
		return fmt.Errorf("sevenz: write packed streams: %w", err)
	}
	if len(header) > 0 {
		if _, err := w.out.Write(header); err != nil {
			return fmt.Errorf("sevenz: write header: %w", err)
		}
	}
	return nil
}

// buildSignatureHeader produces the fixed 32-byte start-of-file block.
func (w *Writer) buildSignatureHeader(header []byte) []byte {
	buf := make([]byte, 32)
	copy(buf, signature)
	buf[6] = 0x00 // format version 0.4
	buf[7] = 0x04

	binary.LittleEndian.PutUint64(buf[12:], uint64(w.packed.Len()))
	binary.LittleEndian.PutUint64(buf[20:], uint64(len(header)))
	if len(header) > 0 {
		binary.LittleEndian.PutUint32(buf[28:], crc32.ChecksumIEEE(header))
	}
	binary.LittleEndian.PutUint32(buf[8:], crc32.ChecksumIEEE(buf[12:32]))
	return buf
}

func (w *Writer) buildHeader() []byte {
	var folders []entry
	for _, e := range w.entries {
		if !e.empty {
			folders = append(folders, e)
		}
	}

	h := new(bytes.Buffer)
	h.WriteByte(idHeader)

	if len(folders) > 0 {
		w.writeStreamsInfo(h, folders)
	}
	w.writeFilesInfo(h)

	h.WriteByte(idEnd)
	return h.Bytes()
}

// writeStreamsInfo emits pack and unpack stream descriptions: one pack
// stream and one single-coder folder per non-empty file. With no
// SubStreamsInfo present, readers assume one substream per folder, so
// folder sizes and CRCs describe the files directly.
func (w *Writer) writeStreamsInfo(h *bytes.Buffer, folders []entry) {
	h.WriteByte(idMainStreamsInfo)

	h.WriteByte(idPackInfo)
	writeNumber(h, 0) // pack position
	writeNumber(h, uint64(len(folders)))
	h.WriteByte(idSize)
	for _, f := range folders {
		writeNumber(h, f.packSize)
	}
	h.WriteByte(idEnd)

	h.WriteByte(idUnpackInfo)
	h.WriteByte(idFolder)
	writeNumber(h, uint64(len(folders)))
	h.WriteByte(0) // not external
	for range folders {
		writeNumber(h, 1)          // one coder
		h.WriteByte(0x01 | 0x20)   // ID size 1, has attributes
		h.WriteByte(coderLZMA2)    // method ID
		writeNumber(h, 1)          // properties size
		h.WriteByte(dictProp)      // dictionary capacity
	}
	h.WriteByte(idCodersUnpackSize)
	for _, f := range folders {
		writeNumber(h, f.size)
	}
	h.WriteByte(idCRC)
	h.WriteByte(1) // all defined
	for _, f := range folders {
		var crc [4]byte
		binary.LittleEndian.PutUint32(crc[:], f.crc)
		h.Write(crc[:])
	}
	h.WriteByte(idEnd)

	h.WriteByte(idEnd)
}

func (w *Writer) writeFilesInfo(h *bytes.Buffer) {
	h.WriteByte(idFilesInfo)
	writeNumber(h, uint64(len(w.entries)))

	emptyCount := 0
	for _, e := range w.entries {
		if e.empty {
			emptyCount++
		}
	}

	if emptyCount > 0 {
		// Entries with no stream, and among those, which are files
		// rather than directories. This writer never stores directory
		// entries, so every streamless entry is an empty file.
		vec := newBitVector(len(w.entries))
		for i, e := range w.entries {
			if e.empty {
				vec.set(i)
			}
		}
		h.WriteByte(idEmptyStream)
		writeNumber(h, uint64(len(vec.bits)))
		h.Write(vec.bits)

		all := newBitVector(emptyCount)
		for i := 0; i < emptyCount; i++ {
			all.set(i)
		}
		h.WriteByte(idEmptyFile)
		writeNumber(h, uint64(len(all.bits)))
		h.Write(all.bits)
	}

	names := new(bytes.Buffer)
	names.WriteByte(0) // not external
	for _, e := range w.entries {
		for _, u := range utf16.Encode([]rune(e.name)) {
			var c [2]byte
			binary.LittleEndian.PutUint16(c[:], u)
			names.Write(c[:])
		}
		names.Write([]byte{0, 0})
	}
	h.WriteByte(idName)
	writeNumber(h, uint64(names.Len()))
	h.Write(names.Bytes())

	times := new(bytes.Buffer)
	times.WriteByte(1) // all defined
	times.WriteByte(0) // not external
	for _, e := range w.entries {
		var ft [8]byte
		binary.LittleEndian.PutUint64(ft[:], filetime(e.modTime))
		times.Write(ft[:])
	}
	h.WriteByte(idMTime)
	writeNumber(h, uint64(times.Len()))
	h.Write(times.Bytes())

	h.WriteByte(idEnd)
}

// writeNumber emits the 7z variable-length integer encoding: the first
// byte carries a mask of how many full bytes follow plus the high bits
// of the value.
func writeNumber(h *bytes.Buffer, value uint64) {
	var first byte
	mask := byte(0x80)
	var i uint

	for i = 0; i < 8; i++ {
		if value < uint64(1)<<(7*(i+1)) {
			first |= byte(value >> (8 * i))
			break
		}
		first |= mask
		mask >>= 1
	}

	h.WriteByte(first)
	for ; i > 0; i-- {
		h.WriteByte(byte(value))
		value >>= 8
	}
}

// bitVector is an MSB-first bit vector as used by 7z headers.
type bitVector struct {
	bits []byte
}

func newBitVector(n int) *bitVector {
	return &bitVector{bits: make([]byte, (n+7)/8)}
}

func (v *bitVector) set(i int) {
	v.bits[i/8] |= 0x80 >> uint(i%8)
}

// filetime converts a time to Windows FILETIME: 100ns intervals since
// 1601-01-01.
func filetime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.Unix()+epochDelta)*10000000 + uint64(t.Nanosecond()/100)
}
