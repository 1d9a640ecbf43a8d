package record

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/rawbytedev/viewbox/internal/common"
	"go.uber.org/zap"
)

func planField(idx int, sf reflect.StructField) (fieldInfo, error) {
	k := sf.Type.Kind()
	fi := fieldInfo{idx: idx, name: sf.Name, kind: k}
	switch {
	case common.IsFixedKind(k):
		fi.size = common.FixedSize(k)
		fi.alignment = fi.size
	case k == reflect.String:
		fi.isVar = true
	case k == reflect.Slice:
		ek := sf.Type.Elem().Kind()
		if !common.IsFixedKind(ek) && ek != reflect.String {
			return fieldInfo{}, fmt.Errorf("%w: field %s of type %s", ErrUnsupported, sf.Name, sf.Type)
		}
		fi.isVar = true
		fi.elem = ek
		if ek != reflect.String {
			fi.size = common.FixedSize(ek)
			fi.alignment = fi.size
		}
	default:
		return fieldInfo{}, fmt.Errorf("%w: field %s of type %s", ErrUnsupported, sf.Name, sf.Type)
	}
	return fi, nil
}

// Encode serialises the exported fields of val, a struct or pointer to one.
// Every call returns a freshly allocated buffer.
func (c *Codec) Encode(val any) ([]byte, error) {
	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, ErrNotStruct
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}
	plan, err := c.getPlan(v.Type())
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 16+plan.fixedSize+plan.varCount*32)
	buf = common.WriteVarUintTo(buf, uint64(len(plan.fields)))
	for _, fi := range plan.fields {
		fv := v.Field(fi.idx)
		switch {
		case !fi.isVar:
			buf = common.AppendFixed(buf, fv, fi.kind)
		case fi.kind == reflect.String:
			buf = appendString(buf, fv.String())
		case fi.elem == reflect.String:
			n := fv.Len()
			buf = common.WriteVarUintTo(buf, uint64(n))
			for i := 0; i < n; i++ {
				buf = appendString(buf, fv.Index(i).String())
			}
		default:
			n := fv.Len()
			buf = common.WriteVarUintTo(buf, uint64(n))
			if c.rawEncode(fv, fi) {
				buf = append(buf, common.RawBytes(fv, fi.size)...)
				continue
			}
			for i := 0; i < n; i++ {
				buf = common.AppendFixed(buf, fv.Index(i), fi.elem)
			}
		}
	}
	return buf, nil
}

func (c *Codec) rawEncode(fv reflect.Value, fi fieldInfo) bool {
	if !c.Opts.UnsafePrimitives || !common.LittleEndianHost || fv.Len() == 0 {
		return false
	}
	if fi.elem == reflect.Uint8 || fi.elem == reflect.Int8 {
		return true
	}
	if c.Opts.CheckAlignment {
		return uintptr(fv.UnsafePointer())%uintptr(fi.alignment) == 0
	}
	return true
}

func appendString(buf []byte, s string) []byte {
	buf = common.WriteVarUintTo(buf, uint64(len(s)))
	return append(buf, s...)
}

// Decode fills the struct pointed to by out from data. Depending on Opts
// and the field types, parts of out may alias data afterwards.
func (c *Codec) Decode(data []byte, out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotStructPtr
	}
	dst := v.Elem()
	plan, err := c.getPlan(dst.Type())
	if err != nil {
		return err
	}

	n, pos := common.ReadVarUint(data)
	if pos == 0 {
		return ErrTruncated
	}
	if n != uint64(len(plan.fields)) {
		return fmt.Errorf("%w: record has %d, %s has %d", ErrFieldCount, n, dst.Type(), len(plan.fields))
	}

	r := &reader{buf: data, pos: pos}
	for _, fi := range plan.fields {
		if err := c.decodeField(r, dst.Field(fi.idx), fi); err != nil {
			return fmt.Errorf("field %s: %w", fi.name, err)
		}
	}
	if r.pos != len(data) {
		return fmt.Errorf("%w: %d", ErrTrailing, len(data)-r.pos)
	}
	return nil
}

func (c *Codec) decodeField(r *reader, fv reflect.Value, fi fieldInfo) error {
	switch {
	case !fi.isVar:
		b, err := r.next(uint64(fi.size))
		if err != nil {
			return err
		}
		common.SetFixed(fv, b, fi.kind)
		return nil
	case fi.kind == reflect.String:
		s, err := c.readString(r)
		if err != nil {
			return err
		}
		fv.SetString(s)
		return nil
	}

	count, err := r.uvarint()
	if err != nil {
		return err
	}
	switch fi.elem {
	case reflect.String:
		// every element needs at least its length byte
		if count > uint64(r.remaining()) {
			return ErrTruncated
		}
		slice := reflect.MakeSlice(fv.Type(), int(count), int(count))
		for i := 0; i < int(count); i++ {
			s, err := c.readString(r)
			if err != nil {
				return err
			}
			slice.Index(i).SetString(s)
		}
		fv.Set(slice)
		return nil
	case reflect.Uint8:
		b, err := r.next(count)
		if err != nil {
			return err
		}
		fv.SetBytes(b[:len(b):len(b)])
		return nil
	}

	if count > uint64(r.remaining()/fi.size) {
		return ErrTruncated
	}
	b, err := r.next(count * uint64(fi.size))
	if err != nil {
		return err
	}
	if count == 0 {
		fv.Set(reflect.MakeSlice(fv.Type(), 0, 0))
		return nil
	}
	// bool bytes are normalised by copying
	if c.Opts.UnsafePrimitives && fi.elem != reflect.Bool && common.LittleEndianHost {
		if common.Aligned(b, fi.alignment) {
			common.AliasFixed(fv, b[:len(b):len(b)], int(count))
			return nil
		}
		Logger().Debug("record: primitive slice not aligned, copying",
			zap.String("field", fi.name),
			zap.Uint64("count", count))
	}
	slice := reflect.MakeSlice(fv.Type(), int(count), int(count))
	for i := 0; i < int(count); i++ {
		common.SetFixed(slice.Index(i), b[i*fi.size:], fi.elem)
	}
	fv.Set(slice)
	return nil
}

func (c *Codec) readString(r *reader) (string, error) {
	n, err := r.uvarint()
	if err != nil {
		return "", err
	}
	b, err := r.next(n)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", nil
	}
	if c.Opts.UnsafeStrings {
		return unsafe.String(&b[0], len(b)), nil
	}
	return string(b), nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) next(n uint64) ([]byte, error) {
	if n > uint64(r.remaining()) {
		return nil, ErrTruncated
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

func (r *reader) uvarint() (uint64, error) {
	x, n := common.ReadVarUint(r.buf[r.pos:])
	if n == 0 {
		return 0, ErrTruncated
	}
	r.pos += n
	return x, nil
}
