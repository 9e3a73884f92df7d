package core

import (
	mus "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persistent graph records. Written by hand
// against the mus-go primitives; the record set is small and stable
// enough that generated code is not worth the build step. Field order
// is part of the stored format and must not change.

var (
	_ mus.Serializer[ID]             = IDMUS
	_ mus.Serializer[Entity]         = EntityMUS
	_ mus.Serializer[Relation]       = RelationMUS
	_ mus.Serializer[DocumentRecord] = DocumentRecordMUS
)

// propertiesMUS serializes the open key-value maps carried by entities
// and relations.
var propertiesMUS = ord.NewMapSer[string, string](ord.String, ord.String)

// IDMUS serializes record IDs as varint-encoded uint64.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (s idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	return ID(num), n, err
}

func (s idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// EntityMUS serializes Entity records.
var EntityMUS = entityMUS{}

type entityMUS struct{}

func (s entityMUS) Marshal(e Entity, bs []byte) (n int) {
	n = IDMUS.Marshal(e.Id, bs)
	n += ord.String.Marshal(e.Name, bs[n:])
	n += ord.String.Marshal(e.Type, bs[n:])
	n += propertiesMUS.Marshal(e.Properties, bs[n:])
	n += raw.TimeUnixMicro.Marshal(e.InsertedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(e.UpdatedAt, bs[n:])
	return
}

func (s entityMUS) Unmarshal(bs []byte) (e Entity, n int, err error) {
	e.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	e.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Type, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Properties, n1, err = propertiesMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s entityMUS) Size(e Entity) (size int) {
	size = IDMUS.Size(e.Id)
	size += ord.String.Size(e.Name)
	size += ord.String.Size(e.Type)
	size += propertiesMUS.Size(e.Properties)
	size += raw.TimeUnixMicro.Size(e.InsertedAt)
	size += raw.TimeUnixMicro.Size(e.UpdatedAt)
	return
}

func (s entityMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = propertiesMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		n1, err = raw.TimeUnixMicro.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// RelationMUS serializes Relation records.
var RelationMUS = relationMUS{}

type relationMUS struct{}

func (s relationMUS) Marshal(r Relation, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += IDMUS.Marshal(r.SourceId, bs[n:])
	n += IDMUS.Marshal(r.TargetId, bs[n:])
	n += ord.String.Marshal(r.Type, bs[n:])
	n += propertiesMUS.Marshal(r.Properties, bs[n:])
	n += raw.TimeUnixMicro.Marshal(r.InsertedAt, bs[n:])
	return
}

func (s relationMUS) Unmarshal(bs []byte) (r Relation, n int, err error) {
	r.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	r.SourceId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.TargetId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Type, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Properties, n1, err = propertiesMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s relationMUS) Size(r Relation) (size int) {
	size = IDMUS.Size(r.Id)
	size += IDMUS.Size(r.SourceId)
	size += IDMUS.Size(r.TargetId)
	size += ord.String.Size(r.Type)
	size += propertiesMUS.Size(r.Properties)
	size += raw.TimeUnixMicro.Size(r.InsertedAt)
	return
}

func (s relationMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 3; i++ {
		n1, err = IDMUS.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = propertiesMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

// DocumentRecordMUS serializes DocumentRecord registry entries.
var DocumentRecordMUS = documentRecordMUS{}

type documentRecordMUS struct{}

func (s documentRecordMUS) Marshal(d DocumentRecord, bs []byte) (n int) {
	n = ord.String.Marshal(d.DocID, bs)
	n += ord.String.Marshal(d.Source, bs[n:])
	n += ord.String.Marshal(d.Title, bs[n:])
	n += ord.String.Marshal(d.Fingerprint, bs[n:])
	n += varint.Int.Marshal(d.ChunkCount, bs[n:])
	n += varint.Int.Marshal(d.EntityCount, bs[n:])
	n += raw.TimeUnixMicro.Marshal(d.IngestedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(d.UpdatedAt, bs[n:])
	return
}

func (s documentRecordMUS) Unmarshal(bs []byte) (d DocumentRecord, n int, err error) {
	d.DocID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	d.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Fingerprint, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.ChunkCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.EntityCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.IngestedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentRecordMUS) Size(d DocumentRecord) (size int) {
	size = ord.String.Size(d.DocID)
	size += ord.String.Size(d.Source)
	size += ord.String.Size(d.Title)
	size += ord.String.Size(d.Fingerprint)
	size += varint.Int.Size(d.ChunkCount)
	size += varint.Int.Size(d.EntityCount)
	size += raw.TimeUnixMicro.Size(d.IngestedAt)
	size += raw.TimeUnixMicro.Size(d.UpdatedAt)
	return
}

func (s documentRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 4; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = varint.Int.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = raw.TimeUnixMicro.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
