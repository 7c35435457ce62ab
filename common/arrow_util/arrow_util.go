package arrow_util

import (
	"fmt"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/pkg/errors"

	commonerrors "github.com/columnkit/arrowipc/common/errors"
)

// SchemaEqual reports structural equality of two schemas: field count, order,
// names, types and nullability. Schema and field metadata are ignored.
func SchemaEqual(a, b *arrow.Schema) bool {
	if a == nil || b == nil {
		return a == b
	}
	af, bf := a.Fields(), b.Fields()
	if len(af) != len(bf) {
		return false
	}
	for i := range af {
		if !fieldEqual(af[i], bf[i]) {
			return false
		}
	}
	return true
}

func fieldEqual(a, b arrow.Field) bool {
	return a.Name == b.Name && a.Nullable == b.Nullable && arrow.TypeEqual(a.Type, b.Type)
}

// ValidateRecordSchema checks that rec structurally conforms to bound and
// returns a descriptive error naming the first disagreement.
func ValidateRecordSchema(bound *arrow.Schema, rec arrow.Record) error {
	got := rec.Schema()
	if got == nil {
		return commonerrors.ErrSchemaIsNil
	}
	bf, gf := bound.Fields(), got.Fields()
	if len(bf) != len(gf) {
		return errors.Wrapf(commonerrors.ErrSchemaNotMatch,
			"field count %d, expected %d", len(gf), len(bf))
	}
	for i := range bf {
		if bf[i].Name != gf[i].Name {
			return errors.Wrapf(commonerrors.ErrSchemaNotMatch,
				"field %d named %q, expected %q", i, gf[i].Name, bf[i].Name)
		}
		if !arrow.TypeEqual(bf[i].Type, gf[i].Type) {
			return errors.Wrapf(commonerrors.ErrSchemaNotMatch,
				"field %d is %s, expected %s", i, FieldDescription(gf[i]), FieldDescription(bf[i]))
		}
		if bf[i].Nullable != gf[i].Nullable {
			return errors.Wrapf(commonerrors.ErrSchemaNotMatch,
				"field %q nullable=%v, expected %v", bf[i].Name, gf[i].Nullable, bf[i].Nullable)
		}
	}
	return nil
}

// RecordBufferSize returns the total top-level buffer size in bytes across
// all columns of a record batch.
func RecordBufferSize(rec arrow.Record) int64 {
	var total int64
	for i := 0; i < int(rec.NumCols()); i++ {
		for _, buf := range rec.Column(i).Data().Buffers() {
			if buf != nil {
				total += int64(buf.Len())
			}
		}
	}
	return total
}

// FieldDescription renders a field as "name: type" for log and error output.
func FieldDescription(f arrow.Field) string {
	return fmt.Sprintf("%s: %s", f.Name, f.Type)
}
