package fixture

// Snapshot describes a synthetic single lap snapshot (.blap/.olap) file
type Snapshot struct {
	Driver  string
	CarPath string
	// Strings are placed one after another starting at 0x100, each null terminated
	Strings []string
	// LapTime is written at the fixed lap time offset if not zero
	LapTime float32
	Size    int
}

// Bytes renders the snapshot with the BLAP magic
func (s Snapshot) Bytes() []byte {
	size := s.Size
	if size == 0 {
		size = 0x1000
	}
	buf := make([]byte, size)
	copy(buf, "BLAP")
	copy(buf[0x10:0x10+124], s.Driver)
	copy(buf[0x90:0x90+64], s.CarPath)
	pos := 0x100
	for _, str := range s.Strings {
		if pos+len(str)+1 > 0x400 {
			break
		}
		copy(buf[pos:], str)
		pos += len(str) + 1
	}
	if s.LapTime != 0 && size >= 0x5B8 {
		PutFloat32(buf, 0x5B4, s.LapTime)
	}
	return buf
}
