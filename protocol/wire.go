package protocol

// Wire structs mirror the device's on-wire layout bit-for-bit: little-endian,
// packed, no padding. Field order and sizes must not change; reader.ReadStruct
// decodes them with encoding/binary, which lays fields out in declaration order.

// DataHeader is the outermost 64-byte record delivered by the device.
type DataHeader struct {
	Type     uint32
	Size     uint32
	Buffer   uint32
	Reserved [52]uint8
}

// PayloadHeader follows a DataHeader of type DataTypePayload.
type PayloadHeader struct {
	Counter  uint32
	Frames   uint32
	Reserved [4]uint8
}

// PayloadFrameHeader precedes each frame inside a payload.
type PayloadFrameHeader struct {
	Index    uint16
	Type     uint16
	Size     uint32
	Reserved [8]uint8
}

// ReportHeader precedes each report inside a frame.
type ReportHeader struct {
	Type uint16
	Size uint16
}

// StylusReportSerial wraps a run of StylusDataV2 samples for one serial.
type StylusReportSerial struct {
	Elements uint8
	Reserved [3]uint8
	Serial   uint32
}

// StylusDataV2 is a single stylus sample with tilt information.
type StylusDataV2 struct {
	Timestamp uint16
	Mode      uint16
	X         uint16
	Y         uint16
	Pressure  uint16
	Altitude  uint16
	Azimuth   uint16
	Reserved  uint16
}

// StylusDataV1 is the older, tilt-less stylus sample format. Pressure must
// be scaled ×4 before emission to match the V2 scale.
type StylusDataV1 struct {
	Reserved  [4]uint8
	Mode      uint8
	X         uint16
	Y         uint16
	Pressure  uint16
	Reserved2 uint8
}

// HeatmapDim carries the active sub-window of the capacitive heatmap.
type HeatmapDim struct {
	Height uint8
	Width  uint8
	YMin   uint8
	YMax   uint8
	XMin   uint8
	XMax   uint8
	ZMin   uint8
	ZMax   uint8
}

// HeatmapTimestamp carries the per-frame capture count and device timestamp.
type HeatmapTimestamp struct {
	Reserved  [2]uint8
	Count     uint16
	Timestamp uint32
}
