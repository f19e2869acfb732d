// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dynaput247/jmzkChain/fault"
)

// test that the error classifiers only match their own class
func TestClassifiers(t *testing.T) {
	errorList := []struct {
		err      error
		exists   bool
		invalid  bool
		notFound bool
		process  bool
		fatal    bool
	}{
		{fault.ErrDomainExists, true, false, false, false, false},
		{fault.ErrUnknownType, false, true, false, false, false},
		{fault.ErrDomainNotFound, false, false, true, false, false},
		{fault.ErrAlreadyInitialised, false, false, false, true, false},
		{fault.ErrTypeCycle, false, false, false, false, true},
		{fault.ErrSeqNotValid, false, false, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		assert.Equalf(t, e.exists, fault.IsErrExists(err), "item %d: exists", i)
		assert.Equalf(t, e.invalid, fault.IsErrInvalid(err), "item %d: invalid", i)
		assert.Equalf(t, e.notFound, fault.IsErrNotFound(err), "item %d: notFound", i)
		assert.Equalf(t, e.process, fault.IsErrProcess(err), "item %d: process", i)
		assert.Equalf(t, e.fatal, fault.IsErrFatal(err), "item %d: fatal", i)
	}
}
