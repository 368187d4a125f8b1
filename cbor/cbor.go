// Package cbor wraps github.com/fxamacker/cbor with the encoding and decoding
// options this module relies on: Core Deterministic Encoding (RFC 8949) on
// the way out, and rejection of duplicate map keys and indefinite lengths on
// the way in, so that stored prime records have exactly one valid byte
// representation.
package cbor

import (
	"github.com/fxamacker/cbor/v2" // imports as cbor
)

var (
	encOptions = cbor.EncOptions{
		// Core Deterministic Encoding, see RFC 8949 section 4.2.1
		InfConvert:    cbor.InfConvertFloat16,
		IndefLength:   cbor.IndefLengthForbidden,
		NaNConvert:    cbor.NaNConvert7e00,
		ShortestFloat: cbor.ShortestFloat16,
		Sort:          cbor.SortCoreDeterministic,

		// We don't use tags
		TagsMd: cbor.TagsForbidden,
	}

	decOptions = cbor.DecOptions{
		IndefLength: cbor.IndefLengthForbidden,
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		TagsMd:      cbor.TagsForbidden,
		TimeTag:     cbor.DecTagIgnored,
	}

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = decOptions.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal encodes src into a CBOR-encoded byte slice.
func Marshal(src interface{}) ([]byte, error) {
	return encMode.Marshal(src)
}

// Unmarshal decodes CBOR in data into dst.
func Unmarshal(data []byte, dst interface{}) error {
	return decMode.Unmarshal(data, dst)
}
