/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/

// Package flow holds the flow record model shared by the capture pipeline,
// the record matcher and the HTTP API.
package flow

import (
	"fmt"
	"strconv"
)

// Field names used across the dashboard schema.
const (
	FieldType          = "Type"
	FieldFlowID        = "FlowID"
	FieldProto         = "Proto"
	FieldSrcAddr       = "SrcAddr"
	FieldDstAddr       = "DstAddr"
	FieldSrcPort       = "SrcPort"
	FieldDstPort       = "DstPort"
	FieldTCPState      = "TCPState"
	FieldTimeReceived  = "TimeReceived"
	FieldSrcCity       = "SrcCity"
	FieldSrcCountry    = "SrcCountry"
	FieldSrcLat        = "SrcLat"
	FieldSrcLon        = "SrcLon"
	FieldDstCity       = "DstCity"
	FieldDstCountry    = "DstCountry"
	FieldDstLat        = "DstLat"
	FieldDstLon        = "DstLon"
)

// Record is one flow, as a flat JSON-shaped map of field name to value.
type Record map[string]any

// Field returns the string form of a field value. The second return is
// false when the field is absent.
func (r Record) Field(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}

	switch value := v.(type) {
	case string:
		return value, true
	case float64:
		// JSON numbers decode as float64; ports and IDs are integral.
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10), true
		}
		return strconv.FormatFloat(value, 'f', -1, 64), true
	default:
		return fmt.Sprint(value), true
	}
}
