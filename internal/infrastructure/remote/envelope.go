package remote

import (
	"fmt"

	"github.com/itchyny/gojq"

	"rbadmin/internal/core/record"
)

// The admin API is not consistent about envelopes: lists come bare or under
// items/data, errors carry message, error or error.message.
var (
	listQuery = mustCompile(`
		if type == "array" then .
		elif type == "object" then (.items // .data // [])
		else [] end
		| map(select(type == "object"))`)

	objectQuery = mustCompile(`
		if type == "object" and (.data | type) == "object" then .data
		elif type == "object" then .
		else empty end`)

	messageQuery = mustCompile(`
		if type == "object" then
			(.message // (.error | objects | .message) // (.error | strings) // .detail // empty)
		elif type == "string" then .
		else empty end
		| strings`)
)

func mustCompile(src string) *gojq.Code {
	q, err := gojq.Parse(src)
	if err != nil {
		panic(fmt.Sprintf("remote: parse %q: %v", src, err))
	}
	code, err := gojq.Compile(q)
	if err != nil {
		panic(fmt.Sprintf("remote: compile %q: %v", src, err))
	}
	return code
}

// first runs code on v and returns its first output.
func first(code *gojq.Code, v any) (any, bool) {
	iter := code.Run(v)
	out, ok := iter.Next()
	if !ok {
		return nil, false
	}
	if _, isErr := out.(error); isErr {
		return nil, false
	}
	return out, true
}

// decodeList unwraps a list body into records.
func decodeList(body any) []record.Record {
	out, ok := first(listQuery, body)
	if !ok {
		return []record.Record{}
	}
	items, _ := out.([]any)
	records := make([]record.Record, 0, len(items))
	for _, item := range items {
		records = append(records, record.Record(item.(map[string]any)))
	}
	return records
}

// decodeObject unwraps a single record body. It reports false for bodies that
// carry no object.
func decodeObject(body any) (record.Record, bool) {
	out, ok := first(objectQuery, body)
	if !ok {
		return nil, false
	}
	m, ok := out.(map[string]any)
	return record.Record(m), ok
}

// errorMessage extracts the server-provided message from an error body.
func errorMessage(body any) string {
	out, ok := first(messageQuery, body)
	if !ok {
		return ""
	}
	s, _ := out.(string)
	return s
}
