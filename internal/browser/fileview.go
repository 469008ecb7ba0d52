package browser

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/pubdrop/internal/navpath"
	"github.com/HaiFongPan/pubdrop/internal/remote"
	"github.com/HaiFongPan/pubdrop/internal/utils"
)

// FileSource resolves file metadata and download links.
type FileSource interface {
	FileMetadata(ctx context.Context, storageID, path string) (remote.FileMetadata, error)
	DownloadURL(storageID, path string) string
}

// FileState is a snapshot of a FileView.
type FileState struct {
	StorageID   string
	Path        string
	Name        string
	Loading     bool
	Metadata    *remote.FileMetadata
	Error       string
	DownloadURL string
}

// SizeLabel formats the file size, "0 Bytes" while unknown.
func (s FileState) SizeLabel() string {
	if s.Metadata == nil {
		return utils.FormatSize(0)
	}
	return utils.FormatSize(s.Metadata.Size)
}

// FileView resolves one file and produces its download link. A file has no
// children, so there is no navigation to follow.
type FileView struct {
	client    FileSource
	storageID string
	path      string

	mu       sync.Mutex
	loading  bool
	metadata *remote.FileMetadata
	err      string
	closed   bool
}

// NewFileView creates a view for path; it is loading until Mount returns.
func NewFileView(client FileSource, storageID, path string) *FileView {
	return &FileView{
		client:    client,
		storageID: storageID,
		path:      navpath.Clean(path),
		loading:   true,
	}
}

// Mount fetches the file metadata. The loading flag is cleared whatever the
// outcome.
func (f *FileView) Mount(ctx context.Context) FileState {
	meta, err := f.client.FileMetadata(ctx, f.storageID, f.path)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return f.State()
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"storage": f.storageID,
			"path":    f.path,
		}).WithError(err).Error("FileView: failed to fetch file info")
		f.err = FileFailedMessage
		f.metadata = nil
	} else {
		f.metadata = &meta
		f.err = ""
	}
	f.loading = false
	f.mu.Unlock()

	return f.State()
}

// Unmount drops any result that arrives later.
func (f *FileView) Unmount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// Name returns the file name shown as title.
func (f *FileView) Name() string {
	return navpath.Base(f.path)
}

// Path returns the file path.
func (f *FileView) Path() string {
	return f.path
}

// StorageID returns the storage of the file.
func (f *FileView) StorageID() string {
	return f.storageID
}

// DownloadURL returns the direct download link. No request is made.
func (f *FileView) DownloadURL() string {
	return f.client.DownloadURL(f.storageID, f.path)
}

// State returns a snapshot of the view.
func (f *FileView) State() FileState {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := FileState{
		StorageID:   f.storageID,
		Path:        f.path,
		Name:        f.Name(),
		Loading:     f.loading,
		Error:       f.err,
		DownloadURL: f.DownloadURL(),
	}
	if f.metadata != nil {
		meta := *f.metadata
		state.Metadata = &meta
	}
	return state
}
