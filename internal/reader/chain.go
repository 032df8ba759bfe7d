package reader

import (
	"errors"

	"github.com/klauspost/compress/zstd"

	"github.com/joshuapare/nk2kit/internal/buf"
	"github.com/joshuapare/nk2kit/internal/format"
	"github.com/joshuapare/nk2kit/internal/stream"
	"github.com/joshuapare/nk2kit/pkg/types"
)

// The decoder is safe for concurrent DecodeAll calls and costly to build,
// so one instance serves every file. DecodeAll never grows dst past its
// capacity, which bounds a frame by the bytes the value still expects.
var zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecodeAllCapLimit(true))

// walkChain visits every data block of the chain starting at first, in
// order. With payload false only block headers are read. Cycles, and
// offsets that are misaligned or out of bounds, end the walk with an error.
func (f *File) walkChain(s stream.Stream, first uint64, payload bool, fn func(off uint64, blk format.DataBlock, span uint64) error) error {
	l := f.layout
	bs := f.header.BlockSize()
	visited := make(map[uint64]struct{})
	for off := first; off != 0; {
		if _, seen := visited[off]; seen {
			return invalidData("data block chain loops back to 0x%x", off)
		}
		visited[off] = struct{}{}
		if err := f.checkOffset(off, l.NodeHeaderSize(), "data block"); err != nil {
			return err
		}
		hdr, err := stream.ReadFull(s, int64(off), l.NodeHeaderSize())
		if err != nil {
			return wrapReadErr(err, "unable to read data block at 0x%x", off)
		}
		blk, err := format.DecodeDataBlockHeader(hdr, l)
		if err != nil {
			return wrapFormatErr(err, "unable to decode data block at 0x%x", off)
		}
		size := format.DataBlockSize(l, int(blk.StoredSize))
		if !buf.RangeWithin(off, uint64(size), f.size) {
			return invalidData("data block at 0x%x with %d-byte payload exceeds file size", off, blk.StoredSize)
		}
		if payload {
			b, err := stream.ReadFull(s, int64(off), size)
			if err != nil {
				return wrapReadErr(err, "unable to read data block at 0x%x", off)
			}
			if blk, err = format.DecodeDataBlock(b, l); err != nil {
				return wrapFormatErr(err, "unable to decode data block at 0x%x", off)
			}
		}
		if err := fn(off, blk, format.BlockSpan(uint64(size), bs)); err != nil {
			return err
		}
		off = blk.Next
	}
	return nil
}

// readChain reassembles a value of exactly size bytes: every stored payload
// is decrypted, then decompressed when flagged, then appended.
func (f *File) readChain(s stream.Stream, first, size uint64) ([]byte, error) {
	if size > uint64(f.opts.MaxValueSize) {
		return nil, types.Set(nil, types.DomainRuntime, types.RuntimeValueExceedsMaximum,
			"value size %d exceeds maximum %d", size, f.opts.MaxValueSize)
	}
	if first == 0 {
		return nil, invalidData("value of %d bytes has no data block", size)
	}
	out := make([]byte, 0, size)
	err := f.walkChain(s, first, true, func(off uint64, blk format.DataBlock, _ uint64) error {
		if uint64(len(out)) == size {
			return invalidData("data block chain continues past the declared size %d at 0x%x", size, off)
		}
		p := blk.Payload
		format.Decrypt(p, f.header.Encryption, f.header.Key)
		if blk.Compressed() {
			// out was allocated with cap size, so the decoder writes in place
			// and refuses to inflate past the declared value size.
			dec, err := zstdDecoder.DecodeAll(p, out)
			if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
				return invalidData("data block at 0x%x overruns the declared size %d", off, size)
			}
			if err != nil {
				return types.Set(err, types.DomainCompression, types.CompressionDecompressFailed,
					"unable to decompress data block at 0x%x", off)
			}
			out = dec
			return nil
		}
		if uint64(len(p)) > size-uint64(len(out)) {
			return invalidData("data block at 0x%x overruns the declared size %d", off, size)
		}
		out = append(out, p...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) != size {
		return nil, invalidData("data block chain holds %d of %d bytes", len(out), size)
	}
	return out, nil
}
