// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package abi - the schema-driven binary serializer
//
// An ABI document registers three name tables - typedefs, structs and
// actions - over a fixed catalogue of built-in primitive types. Once
// validated, the resulting *ABI converts binary payloads to and from
// structured Go values (map[string]interface{} for structs,
// []interface{} for arrays) without any generated code: every type name
// is resolved and packed/unpacked at call time by walking the tables.
//
// A type expression is a bare type name optionally followed by one
// decorator: "T[]" for an array of T, or "T?" for an optional T. Decorators
// do not nest - the original format only ever applies one.
package abi
