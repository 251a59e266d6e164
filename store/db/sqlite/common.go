package sqlite

import (
	"strings"
)

// placeholder returns a placeholder for sqlite (uses ?).
func placeholder(int) string {
	return "?"
}

// placeholders returns n placeholders for sqlite.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}
