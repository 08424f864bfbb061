package ballot

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source is a single byte stream opened from a path that may be a plain
// CSV or a ZIP archive containing exactly one CSV member. It owns every
// resource (archive, open member, temp file, network body) needed to
// produce that stream and releases all of them on Close, regardless of
// which branch opened it.
type Source struct {
	io.Reader
	closers []io.Closer
}

func (s *Source) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open yields a readable byte stream for path. Local filesystem paths and
// "s3://bucket/key" paths are both accepted. If the underlying payload is a
// ZIP archive, it must contain exactly one file; that member is streamed
// without ever buffering the whole archive into memory.
func Open(ctx context.Context, path string) (*Source, error) {
	if strings.HasPrefix(path, "s3://") {
		return openS3(ctx, path)
	}
	return openLocal(path)
}

func openLocal(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ballot: open %s: %w", path, err)
	}

	isZip, err := looksLikeZip(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ballot: probe %s: %w", path, err)
	}
	if !isZip {
		return &Source{Reader: f, closers: []io.Closer{f}}, nil
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ballot: stat %s: %w", path, err)
	}
	return openZipMember(f, stat.Size(), path)
}

// looksLikeZip peeks at the local-file header signature and rewinds f to
// the start so the caller can still read the full stream either way.
func looksLikeZip(f *os.File) (bool, error) {
	var sig [4]byte
	n, err := io.ReadFull(f, sig[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		return false, serr
	}
	return n == 4 && sig[0] == 'P' && sig[1] == 'K' && sig[2] == 0x03 && sig[3] == 0x04, nil
}

// openZipMember opens ra as a ZIP archive and streams its single member.
// The returned Source jointly owns the archive file and the open member;
// both are released on Close.
func openZipMember(ra *os.File, size int64, path string) (*Source, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		ra.Close()
		return nil, fmt.Errorf("ballot: %s is not a valid ZIP: %w", path, err)
	}
	if len(zr.File) != 1 {
		ra.Close()
		return nil, fmt.Errorf("ballot: %s must contain exactly one member, found %d", path, len(zr.File))
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		ra.Close()
		return nil, fmt.Errorf("ballot: open ZIP member in %s: %w", path, err)
	}
	return &Source{Reader: rc, closers: []io.Closer{ra, rc}}, nil
}

// removeOnClose deletes a temp file's path once the wrapped closer closes.
type removeOnClose struct {
	*os.File
}

func (r removeOnClose) Close() error {
	err := r.File.Close()
	os.Remove(r.File.Name())
	return err
}

// openS3 streams an S3 object. Any key not ending in ".zip" streams
// directly from the GetObject body, with no decompression applied. A
// .zip object cannot be parsed as a ZIP from a forward-only stream (the
// central directory lives at the end of the file), so it is spooled to a
// temp file first; the temp file is removed on Close.
func openS3(ctx context.Context, path string) (*Source, error) {
	bucket, key, err := splitS3Path(path)
	if err != nil {
		return nil, err
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("ballot: load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)

	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, fmt.Errorf("ballot: get s3://%s/%s: %w", bucket, key, err)
	}

	if !strings.HasSuffix(strings.ToLower(key), ".zip") {
		return &Source{Reader: out.Body, closers: []io.Closer{out.Body}}, nil
	}

	tmp, err := os.CreateTemp("", "nparty-s3-*.zip")
	if err != nil {
		out.Body.Close()
		return nil, fmt.Errorf("ballot: spool s3://%s/%s: %w", bucket, key, err)
	}
	_, copyErr := io.Copy(tmp, out.Body)
	out.Body.Close()
	if copyErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("ballot: spool s3://%s/%s: %w", bucket, key, copyErr)
	}
	stat, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	src, err := openZipMember(tmp, stat.Size(), path)
	if err != nil {
		return nil, err
	}
	// wrap the archive closer so the temp file is also deleted
	for i, c := range src.closers {
		if c == io.Closer(tmp) {
			src.closers[i] = removeOnClose{tmp}
		}
	}
	return src, nil
}

func splitS3Path(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("ballot: invalid s3 path %q, expected s3://bucket/key", path)
	}
	return parts[0], parts[1], nil
}
