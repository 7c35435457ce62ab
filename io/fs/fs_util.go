package fs

import (
	"net/url"

	"github.com/pkg/errors"

	"github.com/columnkit/arrowipc/common/result"
	"github.com/columnkit/arrowipc/common/status"
)

// BuildFileSystem constructs an Fs from a URI. Supported schemes are
// file://, memory:// and s3:// (MinIO-backed).
func BuildFileSystem(uri string) *result.Result[Fs] {
	parsedUri, err := url.Parse(uri)
	if err != nil {
		return result.NewResultFromStatus[Fs](
			status.InvalidArgument("parsing fs uri").WithCause(errors.Wrap(err, uri)))
	}
	switch parsedUri.Scheme {
	case "file":
		return result.NewResult[Fs](NewFsFactory().Create(LocalDisk))
	case "memory":
		return result.NewResult[Fs](NewFsFactory().Create(InMemory))
	case "s3":
		fs, err := NewMinioFs(parsedUri)
		if err != nil {
			return result.NewResultFromStatus[Fs](
				status.IOError("building minio fs").WithCause(err))
		}
		return result.NewResult[Fs](fs)
	default:
		return result.NewResultFromStatus[Fs](status.InvalidArgument("unknown fs type"))
	}
}
