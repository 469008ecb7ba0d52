package r2

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/HaiFongPan/pubdrop/internal/remote"
)

// dirPrefix turns a directory path into the key prefix of its children.
func dirPrefix(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return ""
	}
	return path + "/"
}

// entryFromPrefix creates a directory entry from a common prefix
func entryFromPrefix(parent, prefix string) (remote.Entry, bool) {
	name := strings.TrimSuffix(strings.TrimPrefix(prefix, parent), "/")
	if name == "" {
		return remote.Entry{}, false
	}
	return remote.Entry{
		Name:   name,
		Path:   strings.TrimSuffix(prefix, "/"),
		IsFile: false,
	}, true
}

// entryFromObject creates a file entry from an AWS SDK Object
func entryFromObject(parent string, obj types.Object) (remote.Entry, bool) {
	key := aws.ToString(obj.Key)
	name := strings.TrimPrefix(key, parent)
	if name == "" || strings.Contains(name, "/") {
		return remote.Entry{}, false
	}
	return remote.Entry{
		Name:   name,
		Path:   key,
		IsFile: true,
		Size:   aws.ToInt64(obj.Size),
	}, true
}

func baseName(key string) string {
	key = strings.TrimSuffix(key, "/")
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

// escapeKey escapes every segment of an object key, keeping the separators.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// CustomDomainURL builds the public URL of key served from a custom domain.
func CustomDomainURL(domain, key string) string {
	// Clean up domain (remove protocol if present)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimSuffix(domain, "/")

	return fmt.Sprintf("https://%s/%s", domain, escapeKey(key))
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}
