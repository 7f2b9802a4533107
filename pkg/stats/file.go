package stats

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// File represents a file containing statistical data: the raw vaccination
// dataset or a population table, in CSV, XLSX or XLS format.
type File struct {
	URL           string
	Title         string
	ContentBase64 string
}

func (f *File) DownloadContent(ctx context.Context, fe *Fetcher) error {
	data, err := fe.Fetch(ctx, f.URL)
	if err != nil {
		return fmt.Errorf("download '%s': %w", f.Title, err)
	}
	f.ContentBase64 = base64.StdEncoding.EncodeToString(data)
	return nil
}

// Content returns the decoded file content.
func (f *File) Content() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(f.ContentBase64)
	if err != nil {
		return nil, fmt.Errorf("decode '%s': %w", f.Title, err)
	}
	return data, nil
}

// Ext returns the lower-cased extension of the file's URL path, ignoring any query.
func (f *File) Ext() string {
	p := f.URL
	if u, err := url.Parse(f.URL); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}
