package protocol

// Data types, as carried in the outer `data` header's Type field.
const (
	DataTypePayload     uint32 = 0
	DataTypeError       uint32 = 1
	DataTypeVendor      uint32 = 2
	DataTypeHIDReport   uint32 = 3
	DataTypeGetFeatures uint32 = 4
)

// Payload frame types, as carried in `payload_frame.Type`.
const (
	FrameTypeStylus  uint16 = 6
	FrameTypeHeatmap uint16 = 8
)

// Report types, as carried in `report.Type`.
const (
	ReportTypeHeatmapTimestamp uint16 = 0x400
	ReportTypeHeatmapDim       uint16 = 0x403
	ReportTypeHeatmap          uint16 = 0x425
	ReportTypeStylusV1         uint16 = 0x410
	ReportTypeStylusV2         uint16 = 0x460
)

// Stylus mode bitmask values. Left untyped so they adapt to either
// StylusDataV1.Mode (uint8) or StylusDataV2.Mode (uint16) at each use site.
const (
	StylusModeProximity = 1 << 0
	StylusModeContact   = 1 << 1
	StylusModeButton    = 1 << 2
	StylusModeRubber    = 1 << 3
)
