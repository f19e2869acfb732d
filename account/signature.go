// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2017 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

// the type for a signature
type Signature []byte
