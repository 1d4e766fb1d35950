//go:build !unix

package md3

import "os"

func readMapped(_ *os.File, _ int) ([]byte, bool, error) {
	return nil, false, nil
}
