package file

// -- Read File --

type ReadFileRequest struct {
	Path string `json:"path"`
}

func (r *ReadFileRequest) Validate() error {
	if r.Path == "" {
		return ErrPathRequired
	}
	return nil
}

type ReadFileResponse struct {
	Content      string
	AbsolutePath string
	Size         int64
}

// -- Write File --

type WriteFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (r *WriteFileRequest) Validate() error {
	if r.Path == "" {
		return ErrPathRequired
	}
	return nil
}

type WriteFileResponse struct {
	AbsolutePath string
	BytesWritten int
	Created      bool
}

// -- Delete File --

type DeleteFileRequest struct {
	Path string `json:"path"`
}

func (r *DeleteFileRequest) Validate() error {
	if r.Path == "" {
		return ErrPathRequired
	}
	return nil
}

type DeleteFileResponse struct {
	AbsolutePath string
}
