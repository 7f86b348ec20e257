// Package codeobj implements the Code-Object Codec (component G):
// decomposing a callable's compiled body into structural fields instead
// of relying on the host runtime's opaque, version-sensitive native
// marshal format, per spec.md section 4.7. Constants are handled by the
// caller (package graph) as ordinary child nodes, since they may
// themselves be nested code objects, tuples, strings, or numbers; this
// package only copies the flat structural fields to and from the wire
// payload (node.CodePayload).
package codeobj

import (
	"fmt"

	"github.com/rand0mdevel0per/pyser/node"
	"github.com/rand0mdevel0per/pyser/value"
)

// SupportedVersion is the exact host-runtime bytecode format this codec
// targets. Per spec.md's design note, a code node whose stored Version
// doesn't match is refused rather than risking a miscompiled code body.
const SupportedVersion = "pyser-bytecode-v1"

// EncodePayload copies co's structural fields into a wire CodePayload,
// defaulting Version to SupportedVersion when co didn't set one.
func EncodePayload(co *value.CodeObject) *node.CodePayload {
	version := co.Version
	if version == "" {
		version = SupportedVersion
	}
	return &node.CodePayload{
		Bytecode:       co.Bytecode,
		Names:          co.Names,
		Varnames:       co.Varnames,
		Freevars:       co.Freevars,
		Cellvars:       co.Cellvars,
		Filename:       co.Filename,
		QualName:       co.QualName,
		ArgCount:       co.ArgCount,
		PosOnlyCount:   co.PosOnlyCount,
		KwOnlyCount:    co.KwOnlyCount,
		LocalCount:     co.LocalCount,
		StackSize:      co.StackSize,
		Flags:          co.Flags,
		FirstLineNo:    co.FirstLineNo,
		LineTable:      co.LineTable,
		ExceptionTable: co.ExceptionTable,
		Version:        version,
	}
}

// DecodePayload reconstructs a *value.CodeObject's structural fields from
// a wire CodePayload (Constants are filled in separately by the caller
// once the child nodes they reference have been materialized). Returns an
// error naming "version" when p.Version doesn't match SupportedVersion —
// the caller (package graph) wraps this as ErrIncompatibleCodeVersion.
func DecodePayload(p *node.CodePayload) (*value.CodeObject, error) {
	if p.Version != SupportedVersion {
		return nil, fmt.Errorf("version: code object targets %q, this codec supports %q", p.Version, SupportedVersion)
	}
	return &value.CodeObject{
		Bytecode:       p.Bytecode,
		Names:          p.Names,
		Varnames:       p.Varnames,
		Freevars:       p.Freevars,
		Cellvars:       p.Cellvars,
		Filename:       p.Filename,
		QualName:       p.QualName,
		ArgCount:       p.ArgCount,
		PosOnlyCount:   p.PosOnlyCount,
		KwOnlyCount:    p.KwOnlyCount,
		LocalCount:     p.LocalCount,
		StackSize:      p.StackSize,
		Flags:          p.Flags,
		FirstLineNo:    p.FirstLineNo,
		LineTable:      p.LineTable,
		ExceptionTable: p.ExceptionTable,
		Version:        p.Version,
	}, nil
}
