package serialstudio

import "encoding/json"

// Frame delimiters recognized by Serial Studio on a network socket: the
// JSON payload rides inside a C-style comment, terminated by a blank line.
const (
	framePrefix = "/*"
	frameSuffix = "*/\r\n\r\n"
)

// frameOverhead is every byte Serialize adds around the compact JSON:
// prefix, suffix, and the trailing NUL. Pretty mode adds one more newline
// before the suffix.
const frameOverhead = len(framePrefix) + len(frameSuffix) + 1

// PrettyFactor is the buffer multiplier recommended when serializing in
// pretty mode: indentation is not predictable from the compact size, but
// four times EstimateSize is a safe ceiling for this schema.
const PrettyFactor = 4

// EstimateSize returns the buffer size needed to Serialize the document
// compactly, framing and NUL terminator included. It returns 0 if the
// document cannot be encoded.
func (p *Project) EstimateSize() int {
	data, err := json.Marshal(&p.doc)
	if err != nil {
		return 0
	}
	return len(data) + frameOverhead
}

// Serialize encodes the document into buf wrapped in the frame delimiters:
//
//	/*<json>*/\r\n\r\n
//
// with a newline after the JSON in pretty mode and a NUL byte appended
// after the frame. The returned length excludes the NUL. A return of 0
// means failure (nil or undersized buffer, or encoding error) and no byte
// of buf is valid output.
func (p *Project) Serialize(buf []byte, pretty bool) int {
	overhead := frameOverhead
	if pretty {
		overhead++
	}
	if buf == nil || len(buf) < overhead {
		p.logf("serialize buffer below framing overhead", len(buf), overhead)
		return 0
	}

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(&p.doc, "", "  ")
	} else {
		data, err = json.Marshal(&p.doc)
	}
	if err != nil || len(data) == 0 {
		return 0
	}
	if len(data) > len(buf)-overhead {
		p.logf("serialize buffer too small for document", len(buf), len(data)+overhead)
		return 0
	}

	n := copy(buf, framePrefix)
	n += copy(buf[n:], data)
	if pretty {
		buf[n] = '\n'
		n++
	}
	n += copy(buf[n:], frameSuffix)
	buf[n] = 0
	return n
}

// StripFrame extracts the JSON payload from a serialized frame. It returns
// false if the bytes are not a well-formed frame.
func StripFrame(frame []byte) ([]byte, bool) {
	if len(frame) < frameOverhead-1 {
		return nil, false
	}
	if string(frame[:len(framePrefix)]) != framePrefix {
		return nil, false
	}
	if string(frame[len(frame)-len(frameSuffix):]) != frameSuffix {
		return nil, false
	}
	payload := frame[len(framePrefix) : len(frame)-len(frameSuffix)]
	// Pretty frames carry a newline between the JSON and the closing delimiter.
	if len(payload) > 0 && payload[len(payload)-1] == '\n' {
		payload = payload[:len(payload)-1]
	}
	return payload, true
}

func (p *Project) logf(msg string, got, want int) {
	if p.log != nil {
		p.log.Debug(msg, "buffer_len", got, "needed", want)
	}
}
