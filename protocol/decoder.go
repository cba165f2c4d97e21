package protocol

import (
	"math"

	"github.com/pkg/errors"

	"github.com/curioxide/iptsd-android/heatmap"
	"github.com/curioxide/iptsd-android/reader"
)

// StylusEvent is the normalized, decoded form of a stylus sample, ready for
// an Event Sink. Position is in absolute device units; tilt is in IPTS tilt
// units (±9000, i.e. hundredths of a degree).
type StylusEvent struct {
	X          uint16
	Y          uint16
	Pressure   uint16
	TiltX      int32
	TiltY      int32
	Timestamp  uint16
	Proximity  bool
	Contact    bool
	Button     bool
	Rubber     bool
}

// Handler receives decoded records as the Frame Decoder walks a buffer.
type Handler interface {
	OnStylus(StylusEvent)
	OnHeatmap(*heatmap.Heatmap)
}

// Decode walks one raw device buffer: data header -> payload -> frames ->
// reports, dispatching STYLUS samples and assembled HEATMAP frames to h.
// Unknown type tags at any level are skipped by their advertised size and
// are not treated as errors. Reader bounds errors abort the
// current decode and are returned to the caller, who is expected to discard
// the buffer and continue with the next one.
func Decode(buf []byte, h Handler) error {
	r := reader.New(buf)

	header, err := reader.ReadStruct[DataHeader](r)
	if err != nil {
		return errors.Wrap(err, "decode data header")
	}

	if header.Type != DataTypePayload {
		// Not an error: ERROR/VENDOR/HID_REPORT/GET_FEATURES are silently skipped.
		return nil
	}

	body, err := r.Subspan(int(header.Size))
	if err != nil {
		return errors.Wrap(err, "subspan payload body")
	}

	return decodePayload(body, h)
}

func decodePayload(r *reader.Reader, h Handler) error {
	payload, err := reader.ReadStruct[PayloadHeader](r)
	if err != nil {
		return errors.Wrap(err, "decode payload header")
	}

	var assembler heatmapAssembler

	for i := uint32(0); i < payload.Frames; i++ {
		if r.Size() == 0 {
			break
		}
		if err := decodeFrame(r, h, &assembler); err != nil {
			return errors.Wrapf(err, "decode frame %d", i)
		}
	}
	return nil
}

func decodeFrame(r *reader.Reader, h Handler, assembler *heatmapAssembler) error {
	frame, err := reader.ReadStruct[PayloadFrameHeader](r)
	if err != nil {
		return errors.Wrap(err, "decode frame header")
	}

	body, err := r.Subspan(int(frame.Size))
	if err != nil {
		return errors.Wrap(err, "subspan frame body")
	}

	switch frame.Type {
	case FrameTypeStylus:
		return decodeStylusFrame(body, h)
	case FrameTypeHeatmap:
		return decodeHeatmapFrame(body, h, assembler)
	default:
		// Unknown frame type: already skipped via Subspan above.
		return nil
	}
}

func decodeStylusFrame(r *reader.Reader, h Handler) error {
	for r.Size() > 0 {
		report, err := reader.ReadStruct[ReportHeader](r)
		if err != nil {
			return errors.Wrap(err, "decode stylus report header")
		}

		body, err := r.Subspan(int(report.Size))
		if err != nil {
			return errors.Wrap(err, "subspan stylus report body")
		}

		switch report.Type {
		case ReportTypeStylusV1:
			if err := decodeStylusV1(body, h); err != nil {
				return err
			}
		case ReportTypeStylusV2:
			if err := decodeStylusSerial(body, h); err != nil {
				return err
			}
		default:
			// Unknown report type: skipped via Subspan above.
		}
	}
	return nil
}

func decodeStylusV1(r *reader.Reader, h Handler) error {
	data, err := reader.ReadStruct[StylusDataV1](r)
	if err != nil {
		return errors.Wrap(err, "decode stylus v1 sample")
	}
	h.OnStylus(stylusEventFromV1(data))
	return nil
}

func decodeStylusSerial(r *reader.Reader, h Handler) error {
	serial, err := reader.ReadStruct[StylusReportSerial](r)
	if err != nil {
		return errors.Wrap(err, "decode stylus serial header")
	}

	// Non-goal: per-serial multi-stylus tracking. We decode far enough to
	// advance the reader and dispatch each embedded sample, but do not
	// keep state across frames keyed by serial.
	for i := uint8(0); i < serial.Elements; i++ {
		data, err := reader.ReadStruct[StylusDataV2](r)
		if err != nil {
			return errors.Wrapf(err, "decode stylus v2 sample %d", i)
		}
		h.OnStylus(stylusEventFromV2(data))
	}
	return nil
}

func stylusEventFromV1(d StylusDataV1) StylusEvent {
	return StylusEvent{
		X:         d.X,
		Y:         d.Y,
		Pressure:  d.Pressure * 4,
		Proximity: d.Mode&StylusModeProximity != 0,
		Contact:   d.Mode&StylusModeContact != 0,
		Button:    d.Mode&StylusModeButton != 0,
		Rubber:    d.Mode&StylusModeRubber != 0,
	}
}

func stylusEventFromV2(d StylusDataV2) StylusEvent {
	tx, ty := tilt(d.Altitude, d.Azimuth)
	return StylusEvent{
		X:         d.X,
		Y:         d.Y,
		Pressure:  d.Pressure,
		TiltX:     tx,
		TiltY:     ty,
		Timestamp: d.Timestamp,
		Proximity: d.Mode&StylusModeProximity != 0,
		Contact:   d.Mode&StylusModeContact != 0,
		Button:    d.Mode&StylusModeButton != 0,
		Rubber:    d.Mode&StylusModeRubber != 0,
	}
}

// tilt converts altitude/azimuth, both in hundredths of a degree, into the
// tx/ty tilt axes IPTS reports. Zero altitude means the stylus reports no
// tilt data.
func tilt(altitude, azimuth uint16) (int32, int32) {
	if altitude == 0 {
		return 0, 0
	}

	alpha := float64(altitude) / 18000 * math.Pi
	beta := float64(azimuth) / 18000 * math.Pi

	sinAlt, cosAlt := math.Sin(alpha), math.Cos(alpha)
	sinAzm, cosAzm := math.Sin(beta), math.Cos(beta)

	atanX := math.Atan2(cosAlt, sinAlt*cosAzm)
	atanY := math.Atan2(cosAlt, sinAlt*sinAzm)

	tx := 9000 - atanX*4500/(math.Pi/4)
	ty := atanY*4500/(math.Pi/4) - 9000

	return int32(tx), int32(ty)
}

// heatmapAssembler tracks the most recent dimension report for a payload so
// that a subsequent raw HEATMAP report can be turned into a heatmap.Heatmap.
// Some IPTS devices report a sub-window smaller than the sensor's full
// extent, so dimensions are re-read every payload rather than assumed fixed.
type heatmapAssembler struct {
	dim       HeatmapDim
	haveDim   bool
	timestamp HeatmapTimestamp
}

func decodeHeatmapFrame(r *reader.Reader, h Handler, assembler *heatmapAssembler) error {
	for r.Size() > 0 {
		report, err := reader.ReadStruct[ReportHeader](r)
		if err != nil {
			return errors.Wrap(err, "decode heatmap report header")
		}

		body, err := r.Subspan(int(report.Size))
		if err != nil {
			return errors.Wrap(err, "subspan heatmap report body")
		}

		switch report.Type {
		case ReportTypeHeatmapDim:
			dim, err := reader.ReadStruct[HeatmapDim](body)
			if err != nil {
				return errors.Wrap(err, "decode heatmap dim")
			}
			assembler.dim = dim
			assembler.haveDim = true
		case ReportTypeHeatmapTimestamp:
			ts, err := reader.ReadStruct[HeatmapTimestamp](body)
			if err != nil {
				return errors.Wrap(err, "decode heatmap timestamp")
			}
			assembler.timestamp = ts
		case ReportTypeHeatmap:
			if !assembler.haveDim {
				// No dimension report has arrived yet this payload; the raw
				// cell data can't be reshaped, so it's dropped like any
				// other malformed record.
				continue
			}
			hm, err := decodeHeatmapCells(body, assembler.dim)
			if err != nil {
				return errors.Wrap(err, "decode heatmap cells")
			}
			h.OnHeatmap(hm)
		default:
			// Unknown report type: skipped via Subspan above.
		}
	}
	return nil
}

func decodeHeatmapCells(r *reader.Reader, dim HeatmapDim) (*heatmap.Heatmap, error) {
	width := int(dim.Width)
	height := int(dim.Height)
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid heatmap dimensions %dx%d", width, height)
	}

	raw := make([]byte, width*height)
	if err := r.Read(raw); err != nil {
		return nil, errors.Wrap(err, "read heatmap cells")
	}

	hm := heatmap.New(width, height)

	zMin, zMax := float64(dim.ZMin), float64(dim.ZMax)
	span := zMax - zMin
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := float64(raw[y*width+x])
			if span > 0 {
				v = (v - zMin) / span
			} else {
				v = 0
			}
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			hm.Set(x, y, v)
		}
	}
	return hm, nil
}
