package gtfs_test

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/theoremus-urban-solutions/gtfs-shared-stops/internal/testfeed"
)

// extract renders b and returns the raw content of one member
func extract(b *testfeed.Builder, name string) (string, error) {
	data, err := b.Zip()
	if err != nil {
		return "", err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return "", err
		}
		defer r.Close()
		content, err := io.ReadAll(r)
		return string(content), err
	}
	return "", fmt.Errorf("%s not in archive", name)
}
