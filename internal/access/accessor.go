package access

import "encoding/binary"

// Configuration-space accessor. Byte/word/long accesses must be aligned to
// their width; values cross the API boundary little-endian regardless of
// host byte order. Reads inside the cached prefix never reach the method;
// writes inside it update the cache and still go through to the method. A
// failed width read yields all-ones, matching what real hardware returns
// for unimplemented registers, so callers cannot tell "read failed" from
// "register not there" — which is exactly the contract they want.

func (d *Device) readRange(pos int, buf []byte) bool {
	if pos+len(buf) <= d.cacheLen {
		copy(buf, d.cache[pos:pos+len(buf)])
		return true
	}
	return d.methodFor().Read(d, pos, buf)
}

func (d *Device) writeRange(pos int, buf []byte) bool {
	if !d.ctx.WritesEnabled {
		d.ctx.Fatalf("config space write at %#x without writes enabled", pos)
	}
	if pos < d.cacheLen {
		copy(d.cache[pos:min(pos+len(buf), d.cacheLen)], buf)
	}
	return d.methodFor().Write(d, pos, buf)
}

// ReadByte reads one byte of configuration space.
func (d *Device) ReadByte(pos int) uint8 {
	var buf [1]byte
	if !d.readRange(pos, buf[:]) {
		return 0xFF
	}
	return buf[0]
}

// ReadWord reads an aligned 16-bit little-endian value.
func (d *Device) ReadWord(pos int) uint16 {
	if pos&1 != 0 {
		d.ctx.Fatalf("unaligned read of 2 bytes at %#x from device %s", pos, d.Addr)
	}
	var buf [2]byte
	if !d.readRange(pos, buf[:]) {
		return 0xFFFF
	}
	return binary.LittleEndian.Uint16(buf[:])
}

// ReadLong reads an aligned 32-bit little-endian value.
func (d *Device) ReadLong(pos int) uint32 {
	if pos&3 != 0 {
		d.ctx.Fatalf("unaligned read of 4 bytes at %#x from device %s", pos, d.Addr)
	}
	var buf [4]byte
	if !d.readRange(pos, buf[:]) {
		return 0xFFFFFFFF
	}
	return binary.LittleEndian.Uint32(buf[:])
}

// ReadBlock reads an arbitrary unaligned range into buf. Unlike the width
// accessors, a failure is reported to the caller instead of being papered
// over with all-ones.
func (d *Device) ReadBlock(pos int, buf []byte) bool {
	return d.readRange(pos, buf)
}

// WriteByte writes one byte of configuration space.
func (d *Device) WriteByte(pos int, val uint8) bool {
	buf := [1]byte{val}
	return d.writeRange(pos, buf[:])
}

// WriteWord writes an aligned 16-bit little-endian value.
func (d *Device) WriteWord(pos int, val uint16) bool {
	if pos&1 != 0 {
		d.ctx.Fatalf("unaligned write of 2 bytes at %#x to device %s", pos, d.Addr)
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], val)
	return d.writeRange(pos, buf[:])
}

// WriteLong writes an aligned 32-bit little-endian value.
func (d *Device) WriteLong(pos int, val uint32) bool {
	if pos&3 != 0 {
		d.ctx.Fatalf("unaligned write of 4 bytes at %#x to device %s", pos, d.Addr)
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], val)
	return d.writeRange(pos, buf[:])
}

// WriteBlock writes an arbitrary unaligned range.
func (d *Device) WriteBlock(pos int, buf []byte) bool {
	return d.writeRange(pos, buf)
}

// ReadVPD reads vendor product data. It reports false when the selected
// method has no VPD support.
func (d *Device) ReadVPD(pos int, buf []byte) bool {
	v, ok := d.methodFor().(VPDReader)
	if !ok {
		return false
	}
	return v.ReadVPD(d, pos, buf)
}
