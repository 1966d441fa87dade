package dubbo

import (
	"encoding/binary"
	"fmt"
	"io"

	hessian2 "github.com/apache/dubbo-go-hessian2"
)

const (
	HeaderLength = int(hessian2.HEADER_LENGTH)

	FlagRequest = byte(hessian2.FLAG_REQUEST)
	FlagTwoWay  = byte(hessian2.FLAG_TWOWAY)
	FlagEvent   = byte(hessian2.FLAG_EVENT)

	SerializationHessian2 = 2
	serializationMask     = 0x1f

	// DefaultMaxBody limits accepted body size
	DefaultMaxBody = int(hessian2.DEFAULT_LEN)
)

// Status codes carried by response header
const (
	StatusOK                  = byte(hessian2.Response_OK)
	StatusClientTimeout       = byte(hessian2.Response_CLIENT_TIMEOUT)
	StatusServerTimeout       = byte(hessian2.Response_SERVER_TIMEOUT)
	StatusBadRequest          = byte(hessian2.Response_BAD_REQUEST)
	StatusBadResponse         = byte(hessian2.Response_BAD_RESPONSE)
	StatusServiceNotFound     = byte(hessian2.Response_SERVICE_NOT_FOUND)
	StatusServiceError        = byte(hessian2.Response_SERVICE_ERROR)
	StatusServerError         = byte(hessian2.Response_SERVER_ERROR)
	StatusClientError         = byte(hessian2.Response_CLIENT_ERROR)
	StatusThreadPoolExhausted = byte(100)
)

// Header represents dubbo frame header
type Header struct {
	Request       bool
	TwoWay        bool
	Event         bool
	Serialization byte
	Status        byte
	ID            int64
	Length        int
}

// Encode returns 16-byte header
func (h *Header) Encode() []byte {
	data := make([]byte, HeaderLength)
	data[0], data[1] = byte(hessian2.MAGIC_HIGH), byte(hessian2.MAGIC_LOW)
	flag := h.Serialization & serializationMask
	if h.Request {
		flag |= FlagRequest
	}
	if h.TwoWay {
		flag |= FlagTwoWay
	}
	if h.Event {
		flag |= FlagEvent
	}
	data[2] = flag
	data[3] = h.Status
	binary.BigEndian.PutUint64(data[4:12], uint64(h.ID))
	binary.BigEndian.PutUint32(data[12:16], uint32(h.Length))
	return data
}

// DecodeHeader parses 16-byte header
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) < HeaderLength {
		return nil, fmt.Errorf("invalid dubbo header length: %v", len(data))
	}
	if data[0] != byte(hessian2.MAGIC_HIGH) || data[1] != byte(hessian2.MAGIC_LOW) {
		return nil, fmt.Errorf("invalid dubbo magic: 0x%x", binary.BigEndian.Uint16(data[0:2]))
	}
	flag := data[2]
	return &Header{
		Request:       flag&FlagRequest != 0,
		TwoWay:        flag&FlagTwoWay != 0,
		Event:         flag&FlagEvent != 0,
		Serialization: flag & serializationMask,
		Status:        data[3],
		ID:            int64(binary.BigEndian.Uint64(data[4:12])),
		Length:        int(binary.BigEndian.Uint32(data[12:16])),
	}, nil
}

// WriteFrame writes header followed by body, header length is set from body
func WriteFrame(writer io.Writer, header *Header, body []byte) error {
	header.Length = len(body)
	frame := append(header.Encode(), body...)
	_, err := writer.Write(frame)
	return err
}

// ReadFrame reads one frame
func ReadFrame(reader io.Reader, maxBody int) (*Header, []byte, error) {
	data := make([]byte, HeaderLength)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, nil, err
	}
	header, err := DecodeHeader(data)
	if err != nil {
		return nil, nil, err
	}
	if maxBody > 0 && header.Length > maxBody {
		return nil, nil, fmt.Errorf("dubbo body too large: %v", header.Length)
	}
	body := make([]byte, header.Length)
	if _, err = io.ReadFull(reader, body); err != nil {
		return nil, nil, err
	}
	return header, body, nil
}

// StatusText returns status name
func StatusText(status byte) string {
	switch status {
	case StatusOK:
		return "OK"
	case StatusClientTimeout:
		return "CLIENT_TIMEOUT"
	case StatusServerTimeout:
		return "SERVER_TIMEOUT"
	case StatusBadRequest:
		return "BAD_REQUEST"
	case StatusBadResponse:
		return "BAD_RESPONSE"
	case StatusServiceNotFound:
		return "SERVICE_NOT_FOUND"
	case StatusServiceError:
		return "SERVICE_ERROR"
	case StatusServerError:
		return "SERVER_ERROR"
	case StatusClientError:
		return "CLIENT_ERROR"
	case StatusThreadPoolExhausted:
		return "SERVER_THREADPOOL_EXHAUSTED_ERROR"
	}
	return fmt.Sprintf("STATUS_%d", status)
}
