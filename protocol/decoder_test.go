package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/curioxide/iptsd-android/heatmap"
)

type fakeHandler struct {
	stylus   []StylusEvent
	heatmaps []*heatmap.Heatmap
}

func (f *fakeHandler) OnStylus(e StylusEvent)       { f.stylus = append(f.stylus, e) }
func (f *fakeHandler) OnHeatmap(h *heatmap.Heatmap) { f.heatmaps = append(f.heatmaps, h) }

func put(buf *bytes.Buffer, v any) {
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
}

// buildDataFrame wraps a payload body (already-encoded frames) in a
// DataHeader/PayloadHeader envelope, mirroring what a real device buffer
// looks like.
func buildDataFrame(frames int, payloadFrames []byte) []byte {
	var payload bytes.Buffer
	put(&payload, PayloadHeader{Counter: 1, Frames: uint32(frames)})
	payload.Write(payloadFrames)

	var out bytes.Buffer
	put(&out, DataHeader{Type: DataTypePayload, Size: uint32(payload.Len())})
	out.Write(payload.Bytes())
	return out.Bytes()
}

func buildFrame(frameType uint16, body []byte) []byte {
	var out bytes.Buffer
	put(&out, PayloadFrameHeader{Type: frameType, Size: uint32(len(body))})
	out.Write(body)
	return out.Bytes()
}

func buildReport(reportType uint16, body []byte) []byte {
	var out bytes.Buffer
	put(&out, ReportHeader{Type: reportType, Size: uint16(len(body))})
	out.Write(body)
	return out.Bytes()
}

func TestDecodeUnknownDataTypeIsSkipped(t *testing.T) {
	var out bytes.Buffer
	put(&out, DataHeader{Type: DataTypeVendor, Size: 0})

	h := &fakeHandler{}
	if err := Decode(out.Bytes(), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.stylus) != 0 || len(h.heatmaps) != 0 {
		t.Fatal("expected no records dispatched for a non-payload data type")
	}
}

func TestDecodeUnknownFrameTypeIsSkipped(t *testing.T) {
	garbage := []byte{0xde, 0xad, 0xbe, 0xef}
	frame := buildFrame(0xFFFF, garbage)
	buf := buildDataFrame(1, frame)

	h := &fakeHandler{}
	if err := Decode(buf, h); err != nil {
		t.Fatalf("unexpected error decoding an unknown frame type: %v", err)
	}
	if len(h.stylus) != 0 || len(h.heatmaps) != 0 {
		t.Fatal("expected an unknown frame type to be skipped, not dispatched")
	}
}

func TestDecodeUnknownReportTypeIsSkipped(t *testing.T) {
	report := buildReport(0xFFFF, []byte{1, 2, 3, 4})
	frame := buildFrame(FrameTypeStylus, report)
	buf := buildDataFrame(1, frame)

	h := &fakeHandler{}
	if err := Decode(buf, h); err != nil {
		t.Fatalf("unexpected error decoding an unknown report type: %v", err)
	}
	if len(h.stylus) != 0 {
		t.Fatal("expected an unknown report type to be skipped, not dispatched")
	}
}

func TestDecodeStylusV1ScalesPressureByFour(t *testing.T) {
	sample := StylusDataV1{
		Mode:     StylusModeContact | StylusModeProximity,
		X:        100,
		Y:        200,
		Pressure: 50,
	}
	var sampleBuf bytes.Buffer
	put(&sampleBuf, sample)

	report := buildReport(ReportTypeStylusV1, sampleBuf.Bytes())
	frame := buildFrame(FrameTypeStylus, report)
	buf := buildDataFrame(1, frame)

	h := &fakeHandler{}
	if err := Decode(buf, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.stylus) != 1 {
		t.Fatalf("expected exactly one stylus event, got %d", len(h.stylus))
	}

	got := h.stylus[0]
	if got.Pressure != sample.Pressure*4 {
		t.Errorf("pressure = %d, want %d (v1 samples scale x4)", got.Pressure, sample.Pressure*4)
	}
	if got.X != sample.X || got.Y != sample.Y {
		t.Errorf("position = (%d,%d), want (%d,%d)", got.X, got.Y, sample.X, sample.Y)
	}
	if !got.Contact || !got.Proximity {
		t.Error("expected contact and proximity bits to carry through from the mode field")
	}
}

func TestDecodeStylusV2CarriesTiltAndTimestamp(t *testing.T) {
	sample := StylusDataV2{
		Timestamp: 42,
		Mode:      StylusModeButton,
		X:         300,
		Y:         400,
		Pressure:  900,
		Altitude:  500,
		Azimuth:   100,
	}
	var sampleBuf bytes.Buffer
	put(&sampleBuf, StylusReportSerial{Elements: 1, Serial: 1})
	put(&sampleBuf, sample)

	report := buildReport(ReportTypeStylusV2, sampleBuf.Bytes())
	frame := buildFrame(FrameTypeStylus, report)
	buf := buildDataFrame(1, frame)

	h := &fakeHandler{}
	if err := Decode(buf, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.stylus) != 1 {
		t.Fatalf("expected exactly one stylus event, got %d", len(h.stylus))
	}

	got := h.stylus[0]
	if got.Pressure != sample.Pressure {
		t.Errorf("pressure = %d, want %d (v2 samples are not rescaled)", got.Pressure, sample.Pressure)
	}
	if got.Timestamp != sample.Timestamp {
		t.Errorf("timestamp = %d, want %d", got.Timestamp, sample.Timestamp)
	}
	// Altitude 5 deg, azimuth 1 deg: tx = atan(tan 5 deg * cos 1 deg) = 4.9992 deg,
	// ty = -atan(tan 5 deg * sin 1 deg) = -0.0875 deg, truncated to hundredths.
	if got.TiltX != 499 || got.TiltY != -8 {
		t.Errorf("tilt = (%d,%d), want (499,-8)", got.TiltX, got.TiltY)
	}
	if !got.Button {
		t.Error("expected the button bit to carry through")
	}
}

func TestDecodeHeatmapAssemblesDimAndCells(t *testing.T) {
	const width, height = 2, 2
	dim := HeatmapDim{Width: width, Height: height, ZMin: 0, ZMax: 255}

	var dimBuf bytes.Buffer
	put(&dimBuf, dim)
	dimReport := buildReport(ReportTypeHeatmapDim, dimBuf.Bytes())

	cells := []byte{0, 64, 128, 255}
	cellReport := buildReport(ReportTypeHeatmap, cells)

	frame := buildFrame(FrameTypeHeatmap, append(append([]byte{}, dimReport...), cellReport...))
	buf := buildDataFrame(1, frame)

	h := &fakeHandler{}
	if err := Decode(buf, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.heatmaps) != 1 {
		t.Fatalf("expected exactly one heatmap, got %d", len(h.heatmaps))
	}

	hm := h.heatmaps[0]
	if hm.Width() != width || hm.Height() != height {
		t.Fatalf("dimensions = %dx%d, want %dx%d", hm.Width(), hm.Height(), width, height)
	}
	if v := hm.Get(0, 0); v != 0 {
		t.Errorf("cell (0,0) = %v, want 0", v)
	}
	if v := hm.Get(1, 1); v != 1 {
		t.Errorf("cell (1,1) = %v, want 1", v)
	}
}

func TestDecodeHeatmapWithoutDimIsDropped(t *testing.T) {
	cellReport := buildReport(ReportTypeHeatmap, []byte{1, 2, 3, 4})
	frame := buildFrame(FrameTypeHeatmap, cellReport)
	buf := buildDataFrame(1, frame)

	h := &fakeHandler{}
	if err := Decode(buf, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.heatmaps) != 0 {
		t.Fatal("expected a heatmap report with no preceding dim report to be dropped")
	}
}

func TestDecodeTruncatedBufferReturnsError(t *testing.T) {
	var out bytes.Buffer
	put(&out, DataHeader{Type: DataTypePayload, Size: 9999})

	h := &fakeHandler{}
	if err := Decode(out.Bytes(), h); err == nil {
		t.Fatal("expected an error when the advertised payload size exceeds the buffer")
	}
}
