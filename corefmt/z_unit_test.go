// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package corefmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zintix-labs/scratchlab/errs"
)

func TestBase64URL(t *testing.T) {
	raw := []byte{0x00, 0xff, 0x10, 0xfb, 0xef}

	s := EncodeBase64URL(raw)
	assert.NotContains(t, s, "=")
	got, err := DecodeBase64URL(" " + s + "\n")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.Equal(t, "AP8Q--8", s)
}

func TestDecodeErrorsAreArgumentErrors(t *testing.T) {
	_, err := DecodeBase64URL("not base64!")
	assert.ErrorIs(t, err, errs.ErrArgument)
}
