// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must implement.
// See MakePart.
//
type Updater interface {
	Update(*Circuit)
}

// An Initializer is an Updater that needs per-instance initialization. Init is
// called once the pin fields have been set, every time the part is mounted.
//
type Initializer interface {
	Init()
}

// MakePart wraps an Updater into a custom component.
// Input/output pins are identified by field tags.
//
// The field tag must be `hw:"in"` or `hw:"out"` to identify input and output
// pins. By default, the pin name is the field name in lowercase. A specific
// field name can be forced by adding it in the tag: `hw:"in,pin_name"`.
//
// Pins must be of type int and buses arrays of int.
//
// If t is a non-nil pointer, every mounted instance starts as a copy of *t,
// which allows parameterized parts. Untagged fields are copied as is.
//
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	var proto reflect.Value
	if typ.Kind() == reflect.Ptr {
		if v := reflect.ValueOf(t); !v.IsNil() {
			proto = v.Elem()
		}
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}

	sp := &PartSpec{
		Name: typ.Name(),
	}

	for _, f := range fields(typ) {
		var pins []string
		switch k := f.typ.Kind(); {
		case k == reflect.Array && f.typ.Elem().Kind() == reflect.Int:
			for i := 0; i < f.typ.Len(); i++ {
				pins = append(pins, BusPinName(f.pin, i))
			}
		case k == reflect.Int:
			pins = []string{f.pin}
		default:
			panic(errors.Errorf("unsupported type %q for field %q in %q", k, f.name, typ.Name()))
		}
		if f.input {
			sp.Inputs = append(sp.Inputs, pins...)
		} else {
			sp.Outputs = append(sp.Outputs, pins...)
		}
	}
	sp.Mount = mountPart(typ, proto)
	return sp
}

type field struct {
	name  string
	pin   string
	input bool
	typ   reflect.Type
}

func fields(typ reflect.Type) []field {
	var fs []field
	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		pin := strings.ToLower(f.Name)
		tv := strings.Split(tag, ",")
		if len(tv) > 1 && tv[1] != "" {
			pin = tv[1]
		}
		var input bool
		switch tv[0] {
		case "in":
			input = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
		}
		fs = append(fs, field{name: f.Name, pin: pin, input: input, typ: f.Type})
	}
	return fs
}

func mountPart(typ reflect.Type, proto reflect.Value) MountFn {
	fs := fields(typ)
	return func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		if proto.IsValid() {
			e.Set(proto)
		}
		for _, f := range fs {
			fv := e.FieldByName(f.name)
			if f.typ.Kind() == reflect.Array {
				for i := 0; i < fv.Len(); i++ {
					fv.Index(i).SetInt(int64(s.Pin(BusPinName(f.pin, i))))
				}
			} else {
				fv.SetInt(int64(s.Pin(f.pin)))
			}
		}

		comp := v.Interface().(Updater)
		if i, ok := comp.(Initializer); ok {
			i.Init()
		}
		return []Component{comp.Update}
	}
}
