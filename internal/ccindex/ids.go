package ccindex

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dadada1995/ccls/internal/location"
)

// TypeID, FuncID and VarID are dense, file-local identifiers for the
// three entity kinds (spec.md §3.2). They are deliberately three
// distinct named types rather than one generic LocalId[Kind]: Go favors
// concrete index types over phantom-typed generics for this job
// (mirrors the per-kind primitive.XxxId idiom in cxxxr-searty's
// database package). Identifier 0 is a valid id; "unresolved" is
// represented by the separate OptionalXxxID types below, never by a
// magic id.
type TypeID uint32
type FuncID uint32
type VarID uint32

// OptionalTypeID, OptionalFuncID and OptionalVarID model nullable ids
// without stealing id 0 for "unset" (spec.md design notes: "do not use
// magic ids for unset because id 0 is a valid id").
type OptionalTypeID struct {
	id    TypeID
	valid bool
}

func SomeTypeID(id TypeID) OptionalTypeID { return OptionalTypeID{id: id, valid: true} }
func (o OptionalTypeID) Get() (TypeID, bool) { return o.id, o.valid }
func (o OptionalTypeID) IsSet() bool         { return o.valid }

// EncodeMsgpack/DecodeMsgpack are required because valid/id are
// unexported: msgpack only serializes exported struct fields, so
// without these the optional payload would silently encode as empty
// on every round-trip through Encode/Decode.
func (o OptionalTypeID) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeBool(o.valid); err != nil {
		return err
	}
	return enc.EncodeUint32(uint32(o.id))
}

func (o *OptionalTypeID) DecodeMsgpack(dec *msgpack.Decoder) error {
	valid, err := dec.DecodeBool()
	if err != nil {
		return err
	}
	id, err := dec.DecodeUint32()
	if err != nil {
		return err
	}
	o.valid, o.id = valid, TypeID(id)
	return nil
}

type OptionalFuncID struct {
	id    FuncID
	valid bool
}

func SomeFuncID(id FuncID) OptionalFuncID  { return OptionalFuncID{id: id, valid: true} }
func (o OptionalFuncID) Get() (FuncID, bool) { return o.id, o.valid }
func (o OptionalFuncID) IsSet() bool         { return o.valid }

func (o OptionalFuncID) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeBool(o.valid); err != nil {
		return err
	}
	return enc.EncodeUint32(uint32(o.id))
}

func (o *OptionalFuncID) DecodeMsgpack(dec *msgpack.Decoder) error {
	valid, err := dec.DecodeBool()
	if err != nil {
		return err
	}
	id, err := dec.DecodeUint32()
	if err != nil {
		return err
	}
	o.valid, o.id = valid, FuncID(id)
	return nil
}

type OptionalVarID struct {
	id    VarID
	valid bool
}

func SomeVarID(id VarID) OptionalVarID    { return OptionalVarID{id: id, valid: true} }
func (o OptionalVarID) Get() (VarID, bool) { return o.id, o.valid }
func (o OptionalVarID) IsSet() bool        { return o.valid }

func (o OptionalVarID) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeBool(o.valid); err != nil {
		return err
	}
	return enc.EncodeUint32(uint32(o.id))
}

func (o *OptionalVarID) DecodeMsgpack(dec *msgpack.Decoder) error {
	valid, err := dec.DecodeBool()
	if err != nil {
		return err
	}
	id, err := dec.DecodeUint32()
	if err != nil {
		return err
	}
	o.valid, o.id = valid, VarID(id)
	return nil
}

// OptionalLocation models a nullable Location (definition_loc,
// declaration_loc, etc.) without a sentinel value, since the zero
// Location is a legitimate (if uninformative) packed location.
type OptionalLocation struct {
	loc   location.Location
	valid bool
}

func SomeLocation(loc location.Location) OptionalLocation { return OptionalLocation{loc: loc, valid: true} }
func (o OptionalLocation) Get() (location.Location, bool) { return o.loc, o.valid }
func (o OptionalLocation) IsSet() bool                     { return o.valid }

func (o OptionalLocation) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeBool(o.valid); err != nil {
		return err
	}
	return enc.EncodeUint64(uint64(o.loc))
}

func (o *OptionalLocation) DecodeMsgpack(dec *msgpack.Decoder) error {
	valid, err := dec.DecodeBool()
	if err != nil {
		return err
	}
	loc, err := dec.DecodeUint64()
	if err != nil {
		return err
	}
	o.valid, o.loc = valid, location.Location(loc)
	return nil
}

// TypeRef, FuncRef and VarRef pair an id with the location of one
// reference to it (spec.md §3.3's Ref<Kind>).
type TypeRef struct {
	ID  TypeID
	Loc location.Location
}

type FuncRef struct {
	ID  FuncID
	Loc location.Location
}

type VarRef struct {
	ID  VarID
	Loc location.Location
}
