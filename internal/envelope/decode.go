package envelope

import "google.golang.org/protobuf/encoding/protowire"

// DetectFormat classifies a persistence record by its first byte.
//
// A leading '{' selects the legacy raw JSON format. The sniff is not a
// guarantee: a binary envelope whose first key is 0x7B (field 15, wire
// type 3) is classified as legacy. No version marker exists that would
// disambiguate, so the behavior is kept as written by producers.
func DetectFormat(data []byte) (Format, error) {
	if len(data) == 0 {
		return FormatBinary, ErrEmptyInput
	}
	if data[0] == legacyMarker {
		return FormatLegacyJSON, nil
	}
	return FormatBinary, nil
}

// DecodePayload returns the JSON payload bytes of a persistence record.
// The returned slice aliases data.
func DecodePayload(data []byte) ([]byte, error) {
	res, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return res.Payload, nil
}

// Decode decodes a persistence record. Legacy records are returned
// verbatim. For binary envelopes the last payload field wins, the version
// field is reported but not interpreted, and unknown fields are skipped.
func Decode(data []byte) (Result, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return Result{}, err
	}
	if format == FormatLegacyJSON {
		return Result{Format: format, Payload: data}, nil
	}

	res := Result{Format: format}
	found := false
	err = Walk(data, func(f Field) error {
		switch {
		case f.Number == FieldVersion && f.Type == protowire.VarintType:
			res.Version = f.Varint
			res.HasVersion = true
		case f.Number == FieldPayload && f.Type == protowire.BytesType:
			res.Payload = f.Value
			found = true
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, ErrMissingPayload
	}
	return res, nil
}
