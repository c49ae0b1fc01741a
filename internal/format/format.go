package format

import (
	"strconv"
	"strings"
)

var units = []string{"KB", "MB", "GB", "TB", "PB"}

// Bytes formats a byte count with decimal units, e.g. 1500 -> "1.5 KB".
func Bytes(n int64) string {
	if n < 0 {
		return "-" + Bytes(-n)
	}
	if n < 1000 {
		return strconv.FormatInt(n, 10) + " B"
	}

	v := float64(n)
	unit := ""
	for _, u := range units {
		v /= 1000
		unit = u
		if v < 1000 {
			break
		}
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + " " + unit
}
