package ipc

import (
	"github.com/apache/arrow/go/v12/arrow"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/columnkit/arrowipc/common/status"
)

// formatVersion is carried in every message header and in the footer so
// readers can reject streams written by an incompatible library version.
const formatVersion = 1

const (
	kindSchema      = "schema"
	kindRecordBatch = "record_batch"
)

type typePayload struct {
	Name      string `json:"name"`
	ByteWidth int    `json:"byte_width,omitempty"`
	Unit      string `json:"unit,omitempty"`
	TimeZone  string `json:"timezone,omitempty"`
}

type fieldPayload struct {
	Name     string      `json:"name"`
	Type     typePayload `json:"type"`
	Nullable bool        `json:"nullable"`
}

type schemaPayload struct {
	Fields    []fieldPayload `json:"fields"`
	Keys      []string       `json:"metadata_keys,omitempty"`
	Values    []string       `json:"metadata_values,omitempty"`
	Alignment int            `json:"alignment"`
}

type bufferPayload struct {
	Offset int64 `json:"offset"`
	Length int64 `json:"length"`
}

type columnPayload struct {
	Length    int64           `json:"length"`
	NullCount int64           `json:"null_count"`
	Buffers   []bufferPayload `json:"buffers"`
}

type batchPayload struct {
	NumRows int64           `json:"num_rows"`
	Columns []columnPayload `json:"columns"`
	Codec   string          `json:"codec,omitempty"`
}

// messageHeader is the metadata block of one framed message. Exactly one of
// Schema and Batch is set, matching Kind.
type messageHeader struct {
	Version    int            `json:"version"`
	Kind       string         `json:"kind"`
	Schema     *schemaPayload `json:"schema,omitempty"`
	Batch      *batchPayload  `json:"batch,omitempty"`
	BodyLength int64          `json:"body_length"`
}

type blockPayload struct {
	Offset         int64 `json:"offset"`
	MetadataLength int64 `json:"metadata_length"`
	BodyLength     int64 `json:"body_length"`
}

// footerPayload indexes every batch message of a file-mode sink. Offsets are
// absolute sink positions as reported by the sink at write time.
type footerPayload struct {
	Version   int            `json:"version"`
	Schema    schemaPayload  `json:"schema"`
	Blocks    []blockPayload `json:"blocks"`
	Alignment int            `json:"alignment"`
}

func typeToPayload(dt arrow.DataType) (typePayload, error) {
	switch t := dt.(type) {
	case *arrow.BooleanType:
		return typePayload{Name: "bool"}, nil
	case *arrow.Int8Type:
		return typePayload{Name: "int8"}, nil
	case *arrow.Int16Type:
		return typePayload{Name: "int16"}, nil
	case *arrow.Int32Type:
		return typePayload{Name: "int32"}, nil
	case *arrow.Int64Type:
		return typePayload{Name: "int64"}, nil
	case *arrow.Uint8Type:
		return typePayload{Name: "uint8"}, nil
	case *arrow.Uint16Type:
		return typePayload{Name: "uint16"}, nil
	case *arrow.Uint32Type:
		return typePayload{Name: "uint32"}, nil
	case *arrow.Uint64Type:
		return typePayload{Name: "uint64"}, nil
	case *arrow.Float32Type:
		return typePayload{Name: "float32"}, nil
	case *arrow.Float64Type:
		return typePayload{Name: "float64"}, nil
	case *arrow.StringType:
		return typePayload{Name: "utf8"}, nil
	case *arrow.BinaryType:
		return typePayload{Name: "binary"}, nil
	case *arrow.FixedSizeBinaryType:
		return typePayload{Name: "fixed_size_binary", ByteWidth: t.ByteWidth}, nil
	case *arrow.Date32Type:
		return typePayload{Name: "date32"}, nil
	case *arrow.Date64Type:
		return typePayload{Name: "date64"}, nil
	case *arrow.TimestampType:
		return typePayload{Name: "timestamp", Unit: t.Unit.String(), TimeZone: t.TimeZone}, nil
	case *arrow.Time32Type:
		return typePayload{Name: "time32", Unit: t.Unit.String()}, nil
	case *arrow.Time64Type:
		return typePayload{Name: "time64", Unit: t.Unit.String()}, nil
	default:
		return typePayload{}, status.ArrowError("unsupported data type " + dt.Name())
	}
}

func payloadToType(p typePayload) (arrow.DataType, error) {
	switch p.Name {
	case "bool":
		return arrow.FixedWidthTypes.Boolean, nil
	case "int8":
		return arrow.PrimitiveTypes.Int8, nil
	case "int16":
		return arrow.PrimitiveTypes.Int16, nil
	case "int32":
		return arrow.PrimitiveTypes.Int32, nil
	case "int64":
		return arrow.PrimitiveTypes.Int64, nil
	case "uint8":
		return arrow.PrimitiveTypes.Uint8, nil
	case "uint16":
		return arrow.PrimitiveTypes.Uint16, nil
	case "uint32":
		return arrow.PrimitiveTypes.Uint32, nil
	case "uint64":
		return arrow.PrimitiveTypes.Uint64, nil
	case "float32":
		return arrow.PrimitiveTypes.Float32, nil
	case "float64":
		return arrow.PrimitiveTypes.Float64, nil
	case "utf8":
		return arrow.BinaryTypes.String, nil
	case "binary":
		return arrow.BinaryTypes.Binary, nil
	case "fixed_size_binary":
		return &arrow.FixedSizeBinaryType{ByteWidth: p.ByteWidth}, nil
	case "date32":
		return arrow.FixedWidthTypes.Date32, nil
	case "date64":
		return arrow.FixedWidthTypes.Date64, nil
	case "timestamp":
		unit, err := parseTimeUnit(p.Unit)
		if err != nil {
			return nil, err
		}
		return &arrow.TimestampType{Unit: unit, TimeZone: p.TimeZone}, nil
	case "time32":
		unit, err := parseTimeUnit(p.Unit)
		if err != nil {
			return nil, err
		}
		return &arrow.Time32Type{Unit: unit}, nil
	case "time64":
		unit, err := parseTimeUnit(p.Unit)
		if err != nil {
			return nil, err
		}
		return &arrow.Time64Type{Unit: unit}, nil
	default:
		return nil, status.ArrowError("unknown data type name " + p.Name)
	}
}

func parseTimeUnit(s string) (arrow.TimeUnit, error) {
	switch s {
	case "s":
		return arrow.Second, nil
	case "ms":
		return arrow.Millisecond, nil
	case "us":
		return arrow.Microsecond, nil
	case "ns":
		return arrow.Nanosecond, nil
	default:
		return arrow.Second, status.ArrowError("unknown time unit " + s)
	}
}

func schemaToPayload(schema *arrow.Schema, alignment int) (*schemaPayload, error) {
	fields := schema.Fields()
	p := &schemaPayload{
		Fields:    make([]fieldPayload, 0, len(fields)),
		Alignment: alignment,
	}
	for _, f := range fields {
		tp, err := typeToPayload(f.Type)
		if err != nil {
			return nil, err
		}
		p.Fields = append(p.Fields, fieldPayload{
			Name:     f.Name,
			Type:     tp,
			Nullable: f.Nullable,
		})
	}
	md := schema.Metadata()
	if md.Len() > 0 {
		p.Keys = md.Keys()
		p.Values = md.Values()
	}
	return p, nil
}

func payloadToSchema(p *schemaPayload) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(p.Fields))
	for _, fp := range p.Fields {
		dt, err := payloadToType(fp.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{
			Name:     fp.Name,
			Type:     dt,
			Nullable: fp.Nullable,
		})
	}
	var md *arrow.Metadata
	if len(p.Keys) > 0 {
		m := arrow.NewMetadata(p.Keys, p.Values)
		md = &m
	}
	return arrow.NewSchema(fields, md), nil
}

func marshalHeader(h *messageHeader) ([]byte, error) {
	buf, err := json.Marshal(h)
	if err != nil {
		return nil, status.ArrowError("encoding message header").WithCause(err)
	}
	return buf, nil
}

func marshalFooter(f *footerPayload) ([]byte, error) {
	buf, err := json.Marshal(f)
	if err != nil {
		return nil, status.ArrowError("encoding footer").WithCause(err)
	}
	return buf, nil
}

func unmarshalFooter(buf []byte) (*footerPayload, error) {
	var f footerPayload
	if err := json.Unmarshal(buf, &f); err != nil {
		return nil, status.ArrowError("decoding footer").WithCause(errors.WithStack(err))
	}
	if f.Version != formatVersion {
		return nil, status.ArrowError("unsupported format version")
	}
	return &f, nil
}

func unmarshalHeader(buf []byte) (*messageHeader, error) {
	var h messageHeader
	if err := json.Unmarshal(buf, &h); err != nil {
		return nil, status.ArrowError("decoding message header").WithCause(errors.WithStack(err))
	}
	if h.Version != formatVersion {
		return nil, status.ArrowError("unsupported format version")
	}
	return &h, nil
}
