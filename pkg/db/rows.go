package db

// transformArray copies a scanned row, turning []byte values into strings.
func transformArray(columns []string, values []any) []any {
	arrRow := make([]any, len(columns))

	for i := range columns {
		val := values[i]
		if b, ok := val.([]byte); ok {
			val = string(b)
		}
		arrRow[i] = val
	}
	return arrRow
}
