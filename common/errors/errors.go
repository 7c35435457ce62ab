package errors

import "errors"

var (
	ErrSchemaIsNil    = errors.New("schema is nil")
	ErrSchemaIsEmpty  = errors.New("schema has no fields")
	ErrSchemaNotMatch = errors.New("schema not match")
	ErrWriterClosed   = errors.New("writer already closed")
	ErrWriterFailed   = errors.New("writer failed by previous io error")
	ErrSinkIsNil      = errors.New("sink is nil")
	ErrInvalidPath    = errors.New("invalid path")
	ErrNoEndpoint     = errors.New("no endpoint is specified")
)
