package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/edushare/edushare/pkg/conf"
	"github.com/edushare/edushare/pkg/filesystem/driver"
	"github.com/samber/lo"
)

// deleteBatch is the maximum number of keys accepted by one DeleteObjects call.
const deleteBatch = 1000

// Driver 适配 S3 兼容存储
type Driver struct {
	bucket string
	sess   *session.Session
	svc    *s3.S3
}

// NewDriver creates a driver for the bucket described by config.
func NewDriver(config *conf.S3) (*Driver, error) {
	if config == nil || config.Bucket == "" {
		return nil, errors.New("empty bucket")
	}

	awsConfig := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, ""),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(config.ForcePathStyle),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 session: %w", err)
	}

	return &Driver{
		bucket: config.Bucket,
		sess:   sess,
		svc:    s3.New(sess),
	}, nil
}

func isNotFound(err error) bool {
	var aerr awserr.RequestFailure
	if errors.As(err, &aerr) && aerr.StatusCode() == http.StatusNotFound {
		return true
	}

	var codeErr awserr.Error
	if errors.As(err, &codeErr) {
		return codeErr.Code() == s3.ErrCodeNoSuchKey || codeErr.Code() == "NotFound"
	}

	return false
}

// exists checks whether the key is present in bucket.
func (handler *Driver) exists(ctx context.Context, key string) (bool, error) {
	_, err := handler.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: &handler.bucket,
		Key:    &key,
	})
	if err == nil {
		return true, nil
	}

	if isNotFound(err) {
		return false, nil
	}

	return false, err
}

// Put 上传文件. S3 没有条件写入, 先检查对象是否存在
func (handler *Driver) Put(ctx context.Context, file io.Reader, dst string, size int64) error {
	existed, err := handler.exists(ctx, dst)
	if err != nil {
		return fmt.Errorf("failed to check object: %w", err)
	}
	if existed {
		return driver.ErrObjectExisted
	}

	body := file
	if size > 0 {
		body = io.LimitReader(file, size)
	}

	uploader := s3manager.NewUploader(handler.sess)
	_, err = uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: &handler.bucket,
		Key:    &dst,
		Body:   body,
	})

	return err
}

// Get 获取文件内容
func (handler *Driver) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	res, err := handler.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &handler.bucket,
		Key:    &name,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, driver.ErrObjectNotExist
		}
		return nil, err
	}

	return res.Body, nil
}

// Delete 批量删除文件
func (handler *Driver) Delete(ctx context.Context, names ...string) ([]string, error) {
	var (
		failed []string
		retErr error
	)

	for _, chunk := range lo.Chunk(names, deleteBatch) {
		keys := lo.Map(chunk, func(name string, _ int) *s3.ObjectIdentifier {
			return &s3.ObjectIdentifier{Key: aws.String(name)}
		})

		res, err := handler.svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: &handler.bucket,
			Delete: &s3.Delete{
				Objects: keys,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			failed = append(failed, chunk...)
			retErr = err
			continue
		}

		for _, e := range res.Errors {
			if aws.StringValue(e.Code) == s3.ErrCodeNoSuchKey {
				continue
			}
			failed = append(failed, aws.StringValue(e.Key))
			retErr = fmt.Errorf("failed to delete %q: %s", aws.StringValue(e.Key), aws.StringValue(e.Message))
		}
	}

	return failed, retErr
}

// List 列出 bucket 下所有对象
func (handler *Driver) List(ctx context.Context) ([]driver.Object, error) {
	var res []driver.Object
	err := handler.svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: &handler.bucket,
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, object := range page.Contents {
			res = append(res, driver.Object{
				Name:       aws.StringValue(object.Key),
				Size:       aws.Int64Value(object.Size),
				LastModify: aws.TimeValue(object.LastModified),
			})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	return res, nil
}
