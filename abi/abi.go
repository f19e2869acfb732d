// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package abi

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/dynaput247/jmzkChain/fault"
)

// ABI - a validated, ready-to-use type environment: typedefs, structs and
// actions resolved against the built-in primitive registry
type ABI struct {
	typedefs map[string]string
	structs  map[string]StructDef
	actions  map[string]string
	builtins map[string]builtin
}

// New builds and validates an ABI from a Def. Validation runs once here;
// afterwards the environment is read-only (spec.md §3: "set once per ABI
// installation and then read-only").
func New(def Def) (*ABI, error) {
	a := &ABI{
		typedefs: make(map[string]string, len(def.Types)),
		structs:  make(map[string]StructDef, len(def.Structs)),
		actions:  make(map[string]string, len(def.Actions)),
		builtins: newBuiltins(),
	}

	for _, st := range def.Structs {
		if _, exists := a.structs[st.Name]; exists {
			return nil, fault.ErrDuplicateDefinition
		}
		a.structs[st.Name] = st
	}
	for _, td := range def.Types {
		if _, exists := a.typedefs[td.NewTypeName]; exists {
			return nil, fault.ErrDuplicateDefinition
		}
		a.typedefs[td.NewTypeName] = td.Type
	}
	for _, ac := range def.Actions {
		if _, exists := a.actions[ac.Name]; exists {
			return nil, fault.ErrDuplicateDefinition
		}
		a.actions[ac.Name] = ac.Type
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// IsBuiltinType reports whether type (after stripping [] / ?) is a
// registered primitive
func (a *ABI) IsBuiltinType(t string) bool {
	_, ok := a.builtins[fundamentalType(t)]
	return ok
}

// IsInteger reports whether the type name starts with "uint" or "int";
// the width suffix is not checked here (IntegerSize parses it)
func (a *ABI) IsInteger(t string) bool {
	return strings.HasPrefix(t, "uint") || strings.HasPrefix(t, "int")
}

// IntegerSize returns the bit width of an integer type name, e.g. "uint32" -> 32
func (a *ABI) IntegerSize(t string) (int, error) {
	if !a.IsInteger(t) {
		return 0, fault.ErrBadIntegerWidth
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(t, "uint"), "int")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fault.ErrBadIntegerWidth
	}
	return n, nil
}

// IsStruct reports whether the resolved type names a registered struct
func (a *ABI) IsStruct(t string) bool {
	_, ok := a.structs[a.resolveType(t)]
	return ok
}

// isArray reports whether a type expression carries the "[]" decorator
func isArray(t string) bool {
	return strings.HasSuffix(t, "[]")
}

// isOptional reports whether a type expression carries the "?" decorator
func isOptional(t string) bool {
	return !isArray(t) && strings.HasSuffix(t, "?")
}

// fundamentalType strips the array/optional decorator, if any
func fundamentalType(t string) string {
	if isArray(t) {
		return t[:len(t)-2]
	}
	if isOptional(t) {
		return t[:len(t)-1]
	}
	return t
}

// IsType reports whether a type expression is fully resolvable: built-in,
// a typedef chain ending in a known type, or a registered struct
func (a *ABI) IsType(t string) bool {
	ft := fundamentalType(t)
	if _, ok := a.builtins[ft]; ok {
		return true
	}
	if target, ok := a.typedefs[ft]; ok {
		return a.IsType(target)
	}
	if _, ok := a.structs[ft]; ok {
		return true
	}
	return false
}

// GetStruct resolves type through any typedef chain and returns the
// registered struct definition
func (a *ABI) GetStruct(t string) (StructDef, error) {
	st, ok := a.structs[a.resolveType(t)]
	if !ok {
		return StructDef{}, fault.ErrUnknownType
	}
	return st, nil
}

// GetActionType returns the payload type bound to an action name
func (a *ABI) GetActionType(action string) (string, bool) {
	t, ok := a.actions[action]
	return t, ok
}

// resolveType follows the typedef chain down to its terminal name,
// leaving any array/optional decorator on the result untouched
func (a *ABI) resolveType(t string) string {
	if target, ok := a.typedefs[t]; ok {
		return a.resolveType(target)
	}
	return t
}

// Validate walks the typedef graph and the struct-base graph checking for
// cycles (spec.md §4.2, Design Notes §9: independent visited-set
// depth-first traversals), then checks every typedef target, struct field
// and action type actually resolves to something known.
func (a *ABI) Validate() error {
	for name := range a.typedefs {
		if err := a.checkTypedefAcyclic(name); err != nil {
			return err
		}
	}
	for _, target := range a.typedefs {
		if !a.IsType(target) {
			return fault.ErrUnknownType
		}
	}
	for _, st := range a.structs {
		if err := a.checkStructBaseAcyclic(st); err != nil {
			return err
		}
		for _, f := range st.Fields {
			if !a.IsType(f.Type) {
				return fault.ErrUnknownType
			}
		}
	}
	for _, target := range a.actions {
		if !a.IsType(target) {
			return fault.ErrUnknownType
		}
	}
	return nil
}

func (a *ABI) checkTypedefAcyclic(name string) error {
	seen := map[string]bool{name: true}
	cur := name
	for {
		target, ok := a.typedefs[cur]
		if !ok {
			return nil
		}
		if seen[target] {
			return fault.ErrTypeCycle
		}
		seen[target] = true
		cur = target
	}
}

func (a *ABI) checkStructBaseAcyclic(st StructDef) error {
	if st.Base == "" {
		return nil
	}
	seen := map[string]bool{st.Name: true}
	cur := st
	for cur.Base != "" {
		base, ok := a.structs[a.resolveType(cur.Base)]
		if !ok {
			return fault.ErrUnknownType
		}
		if seen[base.Name] {
			return fault.ErrTypeCycle
		}
		seen[base.Name] = true
		cur = base
	}
	return nil
}

// BinaryToVariant decodes a binary payload of the named type into a
// structured Go value: map[string]interface{} for structs, []interface{}
// for arrays, nil for an unset optional, or a boxed scalar otherwise.
func (a *ABI) BinaryToVariant(typeName string, data []byte) (interface{}, error) {
	r := bytes.NewReader(data)
	return a.binaryToVariant(typeName, r)
}

func (a *ABI) binaryToVariant(typeName string, r *bytes.Reader) (interface{}, error) {
	rtype := a.resolveType(typeName)
	ftype := fundamentalType(rtype)

	if b, ok := a.builtins[ftype]; ok {
		switch {
		case isArray(rtype):
			n, err := readUvarint(r)
			if err != nil {
				return nil, err
			}
			out := make([]interface{}, n)
			for i := range out {
				v, err := b.unpack(r)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		case isOptional(rtype):
			flag, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			if flag == 0 {
				return nil, nil
			}
			return b.unpack(r)
		default:
			return b.unpack(r)
		}
	}

	if isArray(rtype) {
		n, err := readUvarint(r)
		if err != nil {
			return nil, err
		}
		out := make([]interface{}, n)
		for i := range out {
			v, err := a.binaryToVariant(ftype, r)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	if isOptional(rtype) {
		flag, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if flag == 0 {
			return nil, nil
		}
		return a.binaryToVariant(ftype, r)
	}

	st, ok := a.structs[rtype]
	if !ok {
		return nil, fault.ErrUnknownType
	}
	obj := make(map[string]interface{}, len(st.Fields))
	if err := a.binaryToVariantStruct(st, r, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (a *ABI) binaryToVariantStruct(st StructDef, r *bytes.Reader, obj map[string]interface{}) error {
	if st.Base != "" {
		base, ok := a.structs[a.resolveType(st.Base)]
		if !ok {
			return fault.ErrUnknownType
		}
		if err := a.binaryToVariantStruct(base, r, obj); err != nil {
			return err
		}
	}
	for _, f := range st.Fields {
		v, err := a.binaryToVariant(f.Type, r)
		if err != nil {
			return err
		}
		obj[f.Name] = v
	}
	return nil
}

// VariantToBinary encodes a structured Go value as the binary wire form
// of the named type. Struct fields may be supplied either as a
// map[string]interface{} keyed by field name, or positionally as a
// []interface{} in declaration order (spec.md §4.2).
func (a *ABI) VariantToBinary(typeName string, v interface{}) ([]byte, error) {
	var w bytes.Buffer
	if err := a.variantToBinary(typeName, v, &w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (a *ABI) variantToBinary(typeName string, v interface{}, w *bytes.Buffer) error {
	rtype := a.resolveType(typeName)
	ftype := fundamentalType(rtype)

	if b, ok := a.builtins[ftype]; ok {
		switch {
		case isArray(rtype):
			arr, ok := v.([]interface{})
			if !ok {
				return fault.ErrMissingField
			}
			writeUvarint(w, uint64(len(arr)))
			for _, item := range arr {
				if err := b.pack(item, w); err != nil {
					return err
				}
			}
			return nil
		case isOptional(rtype):
			if v == nil {
				w.WriteByte(0)
				return nil
			}
			w.WriteByte(1)
			return b.pack(v, w)
		default:
			return b.pack(v, w)
		}
	}

	if isArray(rtype) {
		arr, ok := v.([]interface{})
		if !ok {
			return fault.ErrMissingField
		}
		writeUvarint(w, uint64(len(arr)))
		for _, item := range arr {
			if err := a.variantToBinary(ftype, item, w); err != nil {
				return err
			}
		}
		return nil
	}
	if isOptional(rtype) {
		if v == nil {
			w.WriteByte(0)
			return nil
		}
		w.WriteByte(1)
		return a.variantToBinary(ftype, v, w)
	}

	st, ok := a.structs[rtype]
	if !ok {
		return fault.ErrUnknownType
	}
	if obj, isObj := v.(map[string]interface{}); isObj {
		return a.variantToBinaryStruct(st, obj, w)
	}
	if arr, isArr := v.([]interface{}); isArr {
		return a.variantToBinaryPositional(st, arr, w)
	}
	return fault.ErrMissingField
}

func (a *ABI) variantToBinaryStruct(st StructDef, obj map[string]interface{}, w *bytes.Buffer) error {
	if st.Base != "" {
		base, ok := a.structs[a.resolveType(st.Base)]
		if !ok {
			return fault.ErrUnknownType
		}
		if err := a.variantToBinaryStruct(base, obj, w); err != nil {
			return err
		}
	}
	for _, f := range st.Fields {
		val, present := obj[f.Name]
		if !present {
			return fault.ErrMissingField
		}
		if err := a.variantToBinary(f.Type, val, w); err != nil {
			return err
		}
	}
	return nil
}

// variantToBinaryPositional packs a struct from a positional array; base
// classes are not supported in this form, matching the original
// abi_serializer.cpp ("support for base class as array not yet implemented")
func (a *ABI) variantToBinaryPositional(st StructDef, arr []interface{}, w *bytes.Buffer) error {
	if st.Base != "" {
		return fault.ErrUnknownType
	}
	for i, f := range st.Fields {
		if i >= len(arr) {
			return fault.ErrMissingField
		}
		if err := a.variantToBinary(f.Type, arr[i], w); err != nil {
			return err
		}
	}
	return nil
}
