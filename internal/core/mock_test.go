package core

import "fmt"

// sequentialIDs stands in for uuid.NewString so node ids are predictable.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("uuid-%d", n)
	}
}
