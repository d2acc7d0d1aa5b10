package access

// bufferTransport serves a device entirely from an in-memory byte image.
// Writes always fail: the image is a snapshot, not hardware.
type bufferTransport struct {
	data []byte
}

func (t *bufferTransport) Read(d *Device, pos int, buf []byte) bool {
	if pos < 0 || pos+len(buf) > len(t.data) {
		return false
	}
	copy(buf, t.data[pos:pos+len(buf)])
	return true
}

func (t *bufferTransport) Write(d *Device, pos int, buf []byte) bool {
	return false
}

func (t *bufferTransport) FillInfo(d *Device, want Fields) Fields {
	return GenericFillInfo(d, want)
}

// SetupBuffer replaces the device's transport with an in-memory image of
// its configuration space, detaching it from the context's method entirely.
// It is the natural way to synthesize a device from a dump: reads come from
// the image, derived fields come from the generic fill path, and writes
// always fail.
func (d *Device) SetupBuffer(data []byte) {
	d.transport = &bufferTransport{data: data}
	d.known = 0
	d.caps = nil
}
