package foreign

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ExceptionInfo is the decoded form of the payload the runtime reports for
// a thrown exception.
type ExceptionInfo struct {
	ClassName  string `msgpack:"class_name"`
	Message    string `msgpack:"message"`
	StackTrace string `msgpack:"stack_trace"`
}

func (e ExceptionInfo) String() string {
	if e.Message == "" {
		return e.ClassName
	}
	return fmt.Sprintf("%s: %s", e.ClassName, e.Message)
}

// DecodeExceptionInfo decodes a runtime exception payload.
func DecodeExceptionInfo(payload []byte) (ExceptionInfo, error) {
	var info ExceptionInfo
	if err := msgpack.Unmarshal(payload, &info); err != nil {
		return ExceptionInfo{}, fmt.Errorf("foreign: decoding exception payload: %w", err)
	}
	return info, nil
}

// EncodeExceptionInfo encodes info the way the runtime reports it. Used by
// runtime implementations and test doubles.
func EncodeExceptionInfo(info ExceptionInfo) ([]byte, error) {
	payload, err := msgpack.Marshal(&info)
	if err != nil {
		return nil, fmt.Errorf("foreign: encoding exception payload: %w", err)
	}
	return payload, nil
}
