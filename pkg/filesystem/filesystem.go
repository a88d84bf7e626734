package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/edushare/edushare/pkg/conf"
	"github.com/edushare/edushare/pkg/filesystem/driver"
	"github.com/edushare/edushare/pkg/filesystem/driver/local"
	"github.com/edushare/edushare/pkg/filesystem/driver/s3"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/edushare/edushare/pkg/util"
	"github.com/juju/ratelimit"
	pkgerrors "github.com/pkg/errors"
)

const (
	storedNameTimeLayout = "20060102150405"
	nameConflictRetry    = 5
	suffixLength         = 6
)

// FileSystem stores uploaded blobs through a storage driver and applies the upload policy.
type FileSystem struct {
	Handler driver.Handler

	policy *conf.Upload
	l      logging.Logger
	now    func() time.Time
}

// NewFileSystem creates a FileSystem backed by the driver selected in config.
func NewFileSystem(config conf.ConfigProvider, l logging.Logger) (*FileSystem, error) {
	upload := config.Upload()

	var handler driver.Handler
	switch upload.Policy {
	case conf.S3Policy:
		s3Driver, err := s3.NewDriver(config.S3())
		if err != nil {
			return nil, fmt.Errorf("failed to init s3 driver: %w", err)
		}
		handler = s3Driver
	case conf.LocalPolicy, "":
		handler = local.New(upload.SavePath, l)
	default:
		return nil, fmt.Errorf("unknown storage policy %q", upload.Policy)
	}

	return New(handler, upload, l), nil
}

// New creates a FileSystem over an existing handler.
func New(handler driver.Handler, policy *conf.Upload, l logging.Logger) *FileSystem {
	return &FileSystem{
		Handler: handler,
		policy:  policy,
		l:       l,
		now:     time.Now,
	}
}

// StoredName builds the name a file is saved under: the UTC upload time
// followed by the sanitized original name.
func StoredName(t time.Time, original string) string {
	return t.UTC().Format(storedNameTimeLayout) + "_" + util.SanitizeFileName(original)
}

// withSuffix inserts a random suffix before the extension of name.
func withSuffix(name string) string {
	suffix := "_" + util.RandString(suffixLength, util.RandomLowerCases)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx] + suffix + name[idx:]
	}
	return name + suffix
}

// Save writes file under a fresh stored name and returns that name. A name
// already taken on the backend is retried with a random suffix.
func (fs *FileSystem) Save(ctx context.Context, file io.Reader, original string, size int64) (string, error) {
	base := StoredName(fs.now(), original)
	name := base

	for i := 0; i < nameConflictRetry; i++ {
		err := fs.Handler.Put(ctx, file, name, size)
		if err == nil {
			return name, nil
		}

		if !errors.Is(err, driver.ErrObjectExisted) {
			return "", withError(ErrIO, pkgerrors.Wrapf(err, "failed to save %q", name))
		}

		fs.l.Debug("Stored name %q is taken, retrying with suffix.", name)
		name = withSuffix(base)
	}

	return "", ErrNameConflict
}

// Open returns the content of a stored file, throttled to the configured download speed.
func (fs *FileSystem) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := fs.Handler.Get(ctx, name)
	if err != nil {
		if errors.Is(err, driver.ErrObjectNotExist) {
			return nil, withError(ErrObjectNotExist, err)
		}
		return nil, withError(ErrIO, pkgerrors.Wrapf(err, "failed to open %q", name))
	}

	if fs.policy.DownloadSpeed > 0 {
		bucket := ratelimit.NewBucketWithRate(float64(fs.policy.DownloadSpeed), fs.policy.DownloadSpeed)
		return &limitedReadCloser{Reader: ratelimit.Reader(rc, bucket), Closer: rc}, nil
	}

	return rc, nil
}

// Remove deletes stored files, returning names that could not be removed.
func (fs *FileSystem) Remove(ctx context.Context, names ...string) ([]string, error) {
	failed, err := fs.Handler.Delete(ctx, names...)
	if err != nil {
		return failed, pkgerrors.Wrap(err, "failed to remove stored files")
	}
	return failed, nil
}

type limitedReadCloser struct {
	io.Reader
	io.Closer
}
