package cache

import (
	"os"

	"github.com/glorpus-work/pxget/pkg/fsutil"
)

// Sidecar file names stored next to downloaded data in each project directory.
const (
	RemoteFilesName        = ".remote-files"
	RemoteDirsName         = ".remote-dirs"
	PrideMetadataName      = ".pride-metadata"
	PrideFilesMetadataName = ".pride-files-metadata"
	MassiveFileInfoName    = ".massive-file-info"
)

// SidecarPerm is the permission mode for sidecar files.
var SidecarPerm os.FileMode = fsutil.FileModeDefault
