package status

import "errors"

type Code int32

const (
	KOk Code = iota
	kInvalidArgument
	kSchemaMismatch
	kIOError
	kInvalidState
	kUnsupportedSink
	kArrowError
)

func (c Code) String() string {
	switch c {
	case KOk:
		return "ok"
	case kInvalidArgument:
		return "invalid argument"
	case kSchemaMismatch:
		return "schema mismatch"
	case kIOError:
		return "io error"
	case kInvalidState:
		return "invalid state"
	case kUnsupportedSink:
		return "unsupported sink"
	case kArrowError:
		return "arrow error"
	default:
		return "unknown"
	}
}

// Status is a tagged operation outcome. It implements error so writer and
// reader methods can return it directly while callers keep checking kinds
// through the Is* predicates.
type Status struct {
	code  Code
	msg   string
	cause error
}

func NewStatus(code Code, msg string) *Status {
	return &Status{
		code: code,
		msg:  msg,
	}
}

func (s *Status) Code() Code {
	return s.code
}

func (s *Status) Msg() string {
	return s.msg
}

func (s *Status) Error() string {
	out := s.code.String()
	if s.msg != "" {
		out += ": " + s.msg
	}
	if s.cause != nil {
		out += ": " + s.cause.Error()
	}
	return out
}

func (s *Status) Unwrap() error {
	return s.cause
}

// WithCause attaches an underlying error, reachable through errors.Is/As.
func (s *Status) WithCause(err error) *Status {
	s.cause = err
	return s
}

func OK() *Status {
	return &Status{code: KOk}
}

func InvalidArgument(msg string) *Status {
	return &Status{code: kInvalidArgument, msg: msg}
}

func SchemaMismatch(msg string) *Status {
	return &Status{code: kSchemaMismatch, msg: msg}
}

func IOError(msg string) *Status {
	return &Status{code: kIOError, msg: msg}
}

func InvalidState(msg string) *Status {
	return &Status{code: kInvalidState, msg: msg}
}

func UnsupportedSink(msg string) *Status {
	return &Status{code: kUnsupportedSink, msg: msg}
}

func ArrowError(msg string) *Status {
	return &Status{code: kArrowError, msg: msg}
}

func (s *Status) IsOK() bool {
	return s.code == KOk
}

func (s *Status) IsInvalidArgument() bool {
	return s.code == kInvalidArgument
}

func (s *Status) IsSchemaMismatch() bool {
	return s.code == kSchemaMismatch
}

func (s *Status) IsIOError() bool {
	return s.code == kIOError
}

func (s *Status) IsInvalidState() bool {
	return s.code == kInvalidState
}

func (s *Status) IsUnsupportedSink() bool {
	return s.code == kUnsupportedSink
}

func (s *Status) IsArrowError() bool {
	return s.code == kArrowError
}

func codeOf(err error) Code {
	var s *Status
	if errors.As(err, &s) {
		return s.code
	}
	if err == nil {
		return KOk
	}
	return kArrowError
}

func IsInvalidArgument(err error) bool {
	return codeOf(err) == kInvalidArgument
}

func IsSchemaMismatch(err error) bool {
	return codeOf(err) == kSchemaMismatch
}

func IsIOError(err error) bool {
	return codeOf(err) == kIOError
}

func IsInvalidState(err error) bool {
	return codeOf(err) == kInvalidState
}

func IsUnsupportedSink(err error) bool {
	return codeOf(err) == kUnsupportedSink
}

func IsArrowError(err error) bool {
	return codeOf(err) == kArrowError
}
